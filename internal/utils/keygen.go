package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateCampaignID returns an id like CMP-20250131-A1B2C3D4.
func GenerateCampaignID() string {
	suffix := strings.ToUpper(uuid.New().String()[:8])
	return fmt.Sprintf("CMP-%s-%s", time.Now().Format("20060102"), suffix)
}

// GenerateRowID returns a fresh SKU row identifier. Row ids are only unique
// within one masterlist snapshot; a re-upload assigns new ones.
func GenerateRowID() string {
	return "row-" + uuid.New().String()
}
