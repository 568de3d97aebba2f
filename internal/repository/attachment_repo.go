package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/promodesk/promodesk_api/internal/models"
	"github.com/promodesk/promodesk_api/internal/utils"
)

// AttachmentRepository stores trade letter files keyed by campaign id. At
// most one attachment exists per campaign; re-uploading replaces it.
type AttachmentRepository struct {
	db *sqlx.DB
}

// NewAttachmentRepository creates an attachment repository.
func NewAttachmentRepository(db *sqlx.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// Get returns the attachment for the campaign, or ErrAttachmentNotFound.
func (r *AttachmentRepository) Get(ctx context.Context, campaignID string) (*models.TradeLetterAttachment, error) {
	const q = `
        SELECT campaign_id, file_name, content_type, data, uploaded_by, uploaded_at
        FROM trade_letter_attachments
        WHERE campaign_id = $1`
	var a models.TradeLetterAttachment
	if err := r.db.GetContext(ctx, &a, q, campaignID); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrAttachmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Put inserts or replaces the attachment for a campaign.
func (r *AttachmentRepository) Put(ctx context.Context, a *models.TradeLetterAttachment) error {
	const q = `
        INSERT INTO trade_letter_attachments (campaign_id, file_name, content_type, data, uploaded_by, uploaded_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (campaign_id) DO UPDATE SET
            file_name = EXCLUDED.file_name,
            content_type = EXCLUDED.content_type,
            data = EXCLUDED.data,
            uploaded_by = EXCLUDED.uploaded_by,
            uploaded_at = EXCLUDED.uploaded_at`
	_, err := r.db.ExecContext(ctx, q, a.CampaignID, a.FileName, a.ContentType, a.Data, a.UploadedBy, time.Now())
	return err
}

// Delete removes the attachment for a campaign, if any.
func (r *AttachmentRepository) Delete(ctx context.Context, campaignID string) error {
	const q = `DELETE FROM trade_letter_attachments WHERE campaign_id = $1`
	_, err := r.db.ExecContext(ctx, q, campaignID)
	return err
}

// DeleteOrphans removes attachments whose campaign id is not in liveIDs and
// returns how many rows were removed.
func (r *AttachmentRepository) DeleteOrphans(ctx context.Context, liveIDs []string) (int64, error) {
	const q = `DELETE FROM trade_letter_attachments WHERE campaign_id <> ALL($1)`
	res, err := r.db.ExecContext(ctx, q, pq.Array(liveIDs))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
