package csvio

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promodesk/promodesk_api/internal/models"
)

func fp(v float64) *float64 { return &v }

func TestWriteCampaignsOneRowPerPromotion(t *testing.T) {
	campaigns := []models.Campaign{
		{
			ID:           "CMP-20250712-A3F8B2C1",
			ProgramName:  "Mega Brand Days",
			BrandName:    "Nutriboost",
			CampaignType: models.TypeLazadaCampaign,
			StartDate:    "2025-08-01",
			EndDate:      "2025-08-15",
			Status:       models.StatusActive,
			CreatedBy:    "maria.santos",
			ApprovedBy:   "jun.dela.cruz",
			Promotions: []models.ProductPromotion{
				{ProductName: "Nutriboost 1L", Barcode: "480001", SRP: 100, DiscountedPrice: fp(80), DiscountValue: fp(20), DiscountPercentage: fp(20)},
				{ProductName: "Nutriboost 330ml", Barcode: "480002", SRP: 35},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCampaigns(&buf, campaigns))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, campaignExportHeader, records[0])
	assert.Equal(t, "08/01/25", records[1][4])
	assert.Equal(t, "08/15/25", records[1][5])
	assert.Equal(t, "Nutriboost 1L", records[1][9])
	assert.Equal(t, "20.00", records[1][13])
	assert.Equal(t, "20.0%", records[1][14])

	// Second promotion has no discount fields.
	assert.Equal(t, "Nutriboost 330ml", records[2][9])
	assert.Equal(t, "N/A", records[2][12])
	assert.Equal(t, "N/A", records[2][13])
	assert.Equal(t, "N/A", records[2][14])
}

func TestWriteCampaignsPlaceholderRowWithoutPromotions(t *testing.T) {
	campaigns := []models.Campaign{
		{
			ID:           "CMP-20250725-5C2B88F0",
			ProgramName:  "Back to School Vouchers",
			CampaignType: models.TypeVouchers,
			StartDate:    "2025-09-01",
			EndDate:      "2025-09-30",
			Status:       models.StatusDraft,
			CreatedBy:    "ken.uy",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCampaigns(&buf, campaigns))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	row := records[1]
	assert.Equal(t, "N/A", row[2])  // no brand
	assert.Equal(t, "N/A", row[8])  // not approved
	assert.Equal(t, "N/A", row[9])  // product columns
	assert.Equal(t, "N/A", row[10])
	assert.Equal(t, "N/A", row[11])
}
