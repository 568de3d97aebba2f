package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/promodesk/promodesk_api/internal/repository"
)

// AttachmentJanitor removes trade letter files whose campaign no longer
// exists. Campaign deletion already removes the attachment inline; the
// janitor covers the window where that inline delete failed.
type AttachmentJanitor struct {
	campaigns   *repository.CampaignRepository
	attachments *repository.AttachmentRepository
	interval    time.Duration
}

// NewAttachmentJanitor constructs an AttachmentJanitor.
func NewAttachmentJanitor(
	campaigns *repository.CampaignRepository,
	attachments *repository.AttachmentRepository,
	interval time.Duration,
) *AttachmentJanitor {
	return &AttachmentJanitor{
		campaigns:   campaigns,
		attachments: attachments,
		interval:    interval,
	}
}

// Start begins the cleanup loop and listens for context cancellation.
func (w *AttachmentJanitor) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting attachment janitor")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Attachment janitor stopped")
			return
		}
	}
}

func (w *AttachmentJanitor) run(ctx context.Context) {
	campaigns, err := w.campaigns.All(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load campaigns for attachment cleanup")
		return
	}

	liveIDs := make([]string, 0, len(campaigns))
	for _, c := range campaigns {
		liveIDs = append(liveIDs, c.ID)
	}

	removed, err := w.attachments.DeleteOrphans(ctx, liveIDs)
	if err != nil {
		log.Error().Err(err).Msg("Failed to delete orphaned attachments")
		return
	}
	if removed > 0 {
		log.Info().Int64("removed", removed).Msg("Orphaned trade letter attachments removed")
	}
}
