package models

import "time"

// TradeLetterAttachment is the stored trade letter file for one campaign.
// It is reference material only and never participates in workflow logic.
type TradeLetterAttachment struct {
	CampaignID  string    `db:"campaign_id" json:"campaignId"`
	FileName    string    `db:"file_name" json:"fileName"`
	ContentType string    `db:"content_type" json:"contentType"`
	Data        []byte    `db:"data" json:"-"`
	UploadedBy  string    `db:"uploaded_by" json:"uploadedBy"`
	UploadedAt  time.Time `db:"uploaded_at" json:"uploadedAt"`
}
