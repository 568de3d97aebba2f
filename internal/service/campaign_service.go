package service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/promodesk/promodesk_api/internal/csvio"
	"github.com/promodesk/promodesk_api/internal/models"
	"github.com/promodesk/promodesk_api/internal/repository"
	"github.com/promodesk/promodesk_api/internal/utils"
)

// transitionRule is one permitted workflow move. A requested transition that
// matches no rule is rejected without touching the record.
type transitionRule struct {
	role            models.Role
	from            models.CampaignStatus
	to              models.CampaignStatus
	requiresRemarks bool
}

var transitionRules = []transitionRule{
	{models.RoleCommercial, models.StatusDraft, models.StatusSubmitted, false},
	{models.RoleCommercial, models.StatusReturned, models.StatusSubmitted, false},
	{models.RoleApprover, models.StatusSubmitted, models.StatusValidated, false},
	{models.RoleApprover, models.StatusSubmitted, models.StatusReturned, true},
	{models.RoleShopOps, models.StatusValidated, models.StatusActive, false},
	{models.RoleShopOps, models.StatusSubmitted, models.StatusReturned, true},
	{models.RoleShopOps, models.StatusValidated, models.StatusReturned, true},
	{models.RoleShopOps, models.StatusActive, models.StatusCompleted, false},
}

func findRule(role models.Role, from, to models.CampaignStatus) *transitionRule {
	for i := range transitionRules {
		r := &transitionRules[i]
		if r.role == role && r.from == from && r.to == to {
			return r
		}
	}
	return nil
}

// CampaignInput carries the writable campaign fields for create and update.
type CampaignInput struct {
	ProgramName  string              `json:"programName"`
	BrandName    string              `json:"brandName"`
	CampaignType models.CampaignType `json:"campaignType"`
	StartDate    string              `json:"startDate"`
	EndDate      string              `json:"endDate"`
	Objectives   string              `json:"objectives"`
	Submit       bool                `json:"submit"`

	TradeLetterDate   string                    `json:"tradeLetterDate"`
	Distributor       string                    `json:"distributor"`
	PromotionDuration string                    `json:"promotionDuration"`
	Website           string                    `json:"website"`
	ExtractedRemarks  string                    `json:"extractedRemarks"`
	Promotions        []models.ProductPromotion `json:"promotions"`
	Approvers         []string                  `json:"approvers"`
}

// BulkTransitionResult reports the per-record outcome of a best-effort batch.
type BulkTransitionResult struct {
	Succeeded []string          `json:"succeeded"`
	Failed    map[string]string `json:"failed"`
}

// AttachmentStore is the slice of the attachment repository the campaign
// workflow needs.
type AttachmentStore interface {
	Get(ctx context.Context, campaignID string) (*models.TradeLetterAttachment, error)
	Put(ctx context.Context, a *models.TradeLetterAttachment) error
	Delete(ctx context.Context, campaignID string) error
}

// CampaignService owns the campaign workflow: role-gated CRUD, the status
// state machine, best-effort bulk transitions, and the CSV export.
type CampaignService struct {
	campaigns   *repository.CampaignRepository
	attachments AttachmentStore
}

// NewCampaignService creates a campaign service.
func NewCampaignService(campaigns *repository.CampaignRepository, attachments AttachmentStore) *CampaignService {
	return &CampaignService{campaigns: campaigns, attachments: attachments}
}

// ListVisible returns the campaigns the session is allowed to see, per the
// read-side visibility rule for its role.
func (s *CampaignService) ListVisible(ctx context.Context, session models.Session) ([]models.Campaign, error) {
	all, err := s.campaigns.All(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]models.Campaign, 0, len(all))
	for _, c := range all {
		if visibleTo(session, &c) {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

// Get returns one campaign if the session may see it.
func (s *CampaignService) Get(ctx context.Context, session models.Session, id string) (*models.Campaign, error) {
	all, err := s.campaigns.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			if !visibleTo(session, &all[i]) {
				return nil, utils.ErrCampaignNotFound
			}
			return &all[i], nil
		}
	}
	return nil, utils.ErrCampaignNotFound
}

// Create adds a new campaign owned by the session user. Only the commercial
// role creates campaigns; the initial status is Draft, or Submitted when the
// input asks to submit immediately.
func (s *CampaignService) Create(ctx context.Context, session models.Session, input CampaignInput) (*models.Campaign, error) {
	if session.Role != models.RoleCommercial {
		return nil, utils.ErrForbidden
	}
	if strings.TrimSpace(input.ProgramName) == "" {
		return nil, utils.ErrProgramNameRequired
	}
	if !models.ValidCampaignType(input.CampaignType) {
		return nil, utils.ErrInvalidCampaignType
	}

	status := models.StatusDraft
	if input.Submit {
		status = models.StatusSubmitted
	}
	campaign := models.Campaign{
		ID:           utils.GenerateCampaignID(),
		ProgramName:  strings.TrimSpace(input.ProgramName),
		BrandName:    input.BrandName,
		CampaignType: input.CampaignType,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		Objectives:   input.Objectives,
		Status:       status,
		CreatedBy:    session.User,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),

		TradeLetterDate:   input.TradeLetterDate,
		Distributor:       input.Distributor,
		PromotionDuration: input.PromotionDuration,
		Website:           input.Website,
		ExtractedRemarks:  input.ExtractedRemarks,
		Promotions:        input.Promotions,
		Approvers:         input.Approvers,
	}
	for i := range campaign.Promotions {
		campaign.Promotions[i].EnsureDiscounts()
	}

	all, err := s.campaigns.All(ctx)
	if err != nil {
		return nil, err
	}
	all = append(all, campaign)
	if err := s.campaigns.SaveAll(ctx, all); err != nil {
		return nil, err
	}

	log.Info().Str("campaign_id", campaign.ID).Str("status", string(campaign.Status)).
		Str("created_by", session.User).Msg("Campaign created")
	return &campaign, nil
}

// Update replaces the writable fields of a campaign the session user owns.
// Edits are only allowed while the campaign is in Draft or Returned.
func (s *CampaignService) Update(ctx context.Context, session models.Session, id string, input CampaignInput) (*models.Campaign, error) {
	if session.Role != models.RoleCommercial {
		return nil, utils.ErrForbidden
	}
	if strings.TrimSpace(input.ProgramName) == "" {
		return nil, utils.ErrProgramNameRequired
	}
	if !models.ValidCampaignType(input.CampaignType) {
		return nil, utils.ErrInvalidCampaignType
	}

	all, err := s.campaigns.All(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(all, id)
	if idx < 0 || all[idx].CreatedBy != session.User {
		return nil, utils.ErrCampaignNotFound
	}
	c := &all[idx]
	if c.Status != models.StatusDraft && c.Status != models.StatusReturned {
		return nil, utils.ErrForbidden
	}

	c.ProgramName = strings.TrimSpace(input.ProgramName)
	c.BrandName = input.BrandName
	c.CampaignType = input.CampaignType
	c.StartDate = input.StartDate
	c.EndDate = input.EndDate
	c.Objectives = input.Objectives
	c.TradeLetterDate = input.TradeLetterDate
	c.Distributor = input.Distributor
	c.PromotionDuration = input.PromotionDuration
	c.Website = input.Website
	c.ExtractedRemarks = input.ExtractedRemarks
	c.Promotions = input.Promotions
	c.Approvers = input.Approvers
	for i := range c.Promotions {
		c.Promotions[i].EnsureDiscounts()
	}

	if err := s.campaigns.SaveAll(ctx, all); err != nil {
		return nil, err
	}
	updated := all[idx]
	return &updated, nil
}

// Delete removes a campaign the session user owns. Removal is terminal;
// there is no tombstone. The associated trade letter, if any, goes with it.
func (s *CampaignService) Delete(ctx context.Context, session models.Session, id string) error {
	if session.Role != models.RoleCommercial {
		return utils.ErrForbidden
	}
	all, err := s.campaigns.All(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(all, id)
	if idx < 0 || all[idx].CreatedBy != session.User {
		return utils.ErrCampaignNotFound
	}
	all = append(all[:idx], all[idx+1:]...)
	if err := s.campaigns.SaveAll(ctx, all); err != nil {
		return err
	}
	if err := s.attachments.Delete(ctx, id); err != nil {
		log.Warn().Err(err).Str("campaign_id", id).Msg("Failed to delete trade letter attachment")
	}
	log.Info().Str("campaign_id", id).Str("deleted_by", session.User).Msg("Campaign deleted")
	return nil
}

// Transition moves one campaign to the target status if the transition table
// permits it for the session's role. Remarks are required when returning.
func (s *CampaignService) Transition(ctx context.Context, session models.Session, id string, target models.CampaignStatus, remarks string) (*models.Campaign, error) {
	if !models.ValidStatus(target) {
		return nil, utils.ErrInvalidTransition
	}
	all, err := s.campaigns.All(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(all, id)
	if idx < 0 {
		return nil, utils.ErrCampaignNotFound
	}
	if err := applyTransition(&all[idx], session, target, remarks); err != nil {
		return nil, err
	}
	if err := s.campaigns.SaveAll(ctx, all); err != nil {
		return nil, err
	}
	updated := all[idx]
	log.Info().Str("campaign_id", id).Str("to", string(target)).
		Str("role", string(session.Role)).Msg("Campaign transitioned")
	return &updated, nil
}

// BulkTransition applies the same transition to each id independently.
// Records that fail their precondition are reported and skipped; the ones
// that succeed are still saved. This is a best-effort batch, not a
// transaction.
func (s *CampaignService) BulkTransition(ctx context.Context, session models.Session, ids []string, target models.CampaignStatus, remarks string) (*BulkTransitionResult, error) {
	if !models.ValidStatus(target) {
		return nil, utils.ErrInvalidTransition
	}
	all, err := s.campaigns.All(ctx)
	if err != nil {
		return nil, err
	}

	result := &BulkTransitionResult{
		Succeeded: []string{},
		Failed:    map[string]string{},
	}
	for _, id := range ids {
		idx := indexOf(all, id)
		if idx < 0 {
			result.Failed[id] = utils.ErrCampaignNotFound.Error()
			continue
		}
		if err := applyTransition(&all[idx], session, target, remarks); err != nil {
			result.Failed[id] = err.Error()
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}

	if len(result.Succeeded) > 0 {
		if err := s.campaigns.SaveAll(ctx, all); err != nil {
			return nil, err
		}
	}
	log.Info().Int("succeeded", len(result.Succeeded)).Int("failed", len(result.Failed)).
		Str("to", string(target)).Msg("Bulk transition applied")
	return result, nil
}

// ExportCSV writes the session's visible campaigns as CSV.
func (s *CampaignService) ExportCSV(ctx context.Context, session models.Session, w io.Writer) error {
	visible, err := s.ListVisible(ctx, session)
	if err != nil {
		return err
	}
	return csvio.WriteCampaigns(w, visible)
}

// AttachTradeLetter stores the original trade letter file for a campaign the
// session may see. The attachment never affects workflow state.
func (s *CampaignService) AttachTradeLetter(ctx context.Context, session models.Session, id, fileName, contentType string, data []byte) error {
	if _, err := s.Get(ctx, session, id); err != nil {
		return err
	}
	return s.attachments.Put(ctx, &models.TradeLetterAttachment{
		CampaignID:  id,
		FileName:    fileName,
		ContentType: contentType,
		Data:        data,
		UploadedBy:  session.User,
	})
}

// TradeLetter returns the stored trade letter for a campaign the session may see.
func (s *CampaignService) TradeLetter(ctx context.Context, session models.Session, id string) (*models.TradeLetterAttachment, error) {
	if _, err := s.Get(ctx, session, id); err != nil {
		return nil, err
	}
	return s.attachments.Get(ctx, id)
}

// applyTransition mutates the campaign in place, or returns an error leaving
// it untouched.
func applyTransition(c *models.Campaign, session models.Session, target models.CampaignStatus, remarks string) error {
	if session.Role == models.RoleCommercial && c.CreatedBy != session.User {
		return utils.ErrCampaignNotFound
	}
	rule := findRule(session.Role, c.Status, target)
	if rule == nil {
		return utils.ErrInvalidTransition
	}
	if rule.requiresRemarks && strings.TrimSpace(remarks) == "" {
		return utils.ErrRemarksRequired
	}

	c.Status = target
	switch target {
	case models.StatusSubmitted:
		// Resubmission starts a fresh review cycle.
		c.Remarks = ""
	case models.StatusValidated:
		c.ApprovedBy = session.User
		c.DateApproved = time.Now().UTC().Format(time.RFC3339)
	case models.StatusReturned:
		c.Remarks = strings.TrimSpace(remarks)
	}
	return nil
}

func visibleTo(session models.Session, c *models.Campaign) bool {
	switch session.Role {
	case models.RoleCommercial:
		return c.CreatedBy == session.User
	case models.RoleShopOps:
		switch c.Status {
		case models.StatusSubmitted, models.StatusValidated, models.StatusActive, models.StatusCompleted:
			return true
		}
		return false
	case models.RoleApprover, models.RoleFinance:
		return true
	}
	return false
}

func indexOf(campaigns []models.Campaign, id string) int {
	for i := range campaigns {
		if campaigns[i].ID == id {
			return i
		}
	}
	return -1
}
