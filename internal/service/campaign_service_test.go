package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promodesk/promodesk_api/internal/models"
	"github.com/promodesk/promodesk_api/internal/utils"
)

func TestSubmitReturnResubmitCycle(t *testing.T) {
	svc, _ := newTestCampaignService(t)
	ctx := context.Background()

	c := createDraft(t, svc, "Summer Sale")
	assert.Equal(t, models.StatusDraft, c.Status)

	c, err := svc.Transition(ctx, commercial, c.ID, models.StatusSubmitted, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, c.Status)

	c, err = svc.Transition(ctx, approver, c.ID, models.StatusReturned, "fix pricing")
	require.NoError(t, err)
	assert.Equal(t, models.StatusReturned, c.Status)
	assert.Equal(t, "fix pricing", c.Remarks)

	c, err = svc.Transition(ctx, commercial, c.ID, models.StatusSubmitted, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, c.Status)
	assert.Empty(t, c.Remarks, "resubmission starts a fresh review cycle")
}

func TestShopOpsCannotActivateDraft(t *testing.T) {
	svc, _ := newTestCampaignService(t)
	ctx := context.Background()

	c := createDraft(t, svc, "Flash Deal")

	_, err := svc.Transition(ctx, shopOps, c.ID, models.StatusActive, "")
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)

	got, err := svc.Get(ctx, commercial, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, got.Status)
}

func TestTransitionOutsideTableLeavesRecordUnchanged(t *testing.T) {
	svc, _ := newTestCampaignService(t)
	ctx := context.Background()

	c := createDraft(t, svc, "Brand Week")
	_, err := svc.Transition(ctx, commercial, c.ID, models.StatusSubmitted, "")
	require.NoError(t, err)

	// The approver may validate or return, never complete.
	_, err = svc.Transition(ctx, approver, c.ID, models.StatusCompleted, "")
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)

	// Finance is read-only.
	_, err = svc.Transition(ctx, finance, c.ID, models.StatusValidated, "")
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)

	got, err := svc.Get(ctx, commercial, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, got.Status)
	assert.Empty(t, got.ApprovedBy)
}

func TestReturnRequiresRemarks(t *testing.T) {
	svc, _ := newTestCampaignService(t)
	ctx := context.Background()

	c := createDraft(t, svc, "Brand Week")
	_, err := svc.Transition(ctx, commercial, c.ID, models.StatusSubmitted, "")
	require.NoError(t, err)

	_, err = svc.Transition(ctx, approver, c.ID, models.StatusReturned, "   ")
	assert.ErrorIs(t, err, utils.ErrRemarksRequired)

	got, err := svc.Get(ctx, commercial, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, got.Status)
}

func TestValidateRecordsApprover(t *testing.T) {
	svc, _ := newTestCampaignService(t)
	ctx := context.Background()

	c := createDraft(t, svc, "Brand Week")
	_, err := svc.Transition(ctx, commercial, c.ID, models.StatusSubmitted, "")
	require.NoError(t, err)

	c, err = svc.Transition(ctx, approver, c.ID, models.StatusValidated, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusValidated, c.Status)
	assert.Equal(t, approver.User, c.ApprovedBy)
	assert.NotEmpty(t, c.DateApproved)
}

func TestFullLifecycleToCompleted(t *testing.T) {
	svc, _ := newTestCampaignService(t)
	ctx := context.Background()

	c := createDraft(t, svc, "Mega Sale")
	for _, step := range []struct {
		session models.Session
		to      models.CampaignStatus
	}{
		{commercial, models.StatusSubmitted},
		{approver, models.StatusValidated},
		{shopOps, models.StatusActive},
		{shopOps, models.StatusCompleted},
	} {
		var err error
		c, err = svc.Transition(ctx, step.session, c.ID, step.to, "")
		require.NoError(t, err)
		assert.Equal(t, step.to, c.Status)
	}
}

func TestBulkTransitionIsBestEffort(t *testing.T) {
	svc, _ := newTestCampaignService(t)
	ctx := context.Background()

	submitted := createDraft(t, svc, "Ready One")
	_, err := svc.Transition(ctx, commercial, submitted.ID, models.StatusSubmitted, "")
	require.NoError(t, err)
	draft := createDraft(t, svc, "Still Draft")

	result, err := svc.BulkTransition(ctx, approver,
		[]string{submitted.ID, draft.ID, "CMP-00000000-MISSING1"},
		models.StatusValidated, "")
	require.NoError(t, err)

	assert.Equal(t, []string{submitted.ID}, result.Succeeded)
	assert.Equal(t, utils.ErrInvalidTransition.Error(), result.Failed[draft.ID])
	assert.Equal(t, utils.ErrCampaignNotFound.Error(), result.Failed["CMP-00000000-MISSING1"])

	// The successful record is persisted even though others failed.
	got, err := svc.Get(ctx, approver, submitted.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusValidated, got.Status)

	got, err = svc.Get(ctx, commercial, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, got.Status)
}

func TestVisibilityPerRole(t *testing.T) {
	svc, _ := newTestCampaignService(t)
	ctx := context.Background()

	mine := createDraft(t, svc, "Mine")
	other, err := svc.Create(ctx, models.Session{User: "ken.uy", Role: models.RoleCommercial}, CampaignInput{
		ProgramName:  "Theirs",
		CampaignType: models.TypeShopeeCampaign,
		Submit:       true,
	})
	require.NoError(t, err)

	visible, err := svc.ListVisible(ctx, commercial)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, mine.ID, visible[0].ID)

	// Shop-ops never sees drafts.
	visible, err = svc.ListVisible(ctx, shopOps)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, other.ID, visible[0].ID)

	visible, err = svc.ListVisible(ctx, finance)
	require.NoError(t, err)
	assert.Len(t, visible, 2)

	// Direct access follows the same filter.
	_, err = svc.Get(ctx, commercial, other.ID)
	assert.ErrorIs(t, err, utils.ErrCampaignNotFound)
	_, err = svc.Get(ctx, shopOps, mine.ID)
	assert.ErrorIs(t, err, utils.ErrCampaignNotFound)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestCampaignService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, commercial, CampaignInput{CampaignType: models.TypeVouchers})
	assert.ErrorIs(t, err, utils.ErrProgramNameRequired)

	_, err = svc.Create(ctx, commercial, CampaignInput{ProgramName: "X", CampaignType: "Billboard"})
	assert.ErrorIs(t, err, utils.ErrInvalidCampaignType)

	_, err = svc.Create(ctx, shopOps, CampaignInput{ProgramName: "X", CampaignType: models.TypeVouchers})
	assert.ErrorIs(t, err, utils.ErrForbidden)
}

func TestCreateDerivesPromotionDiscounts(t *testing.T) {
	svc, _ := newTestCampaignService(t)
	ctx := context.Background()

	price := 80.0
	c, err := svc.Create(ctx, commercial, CampaignInput{
		ProgramName:  "Promo",
		CampaignType: models.TypeBundleDeals,
		Promotions: []models.ProductPromotion{
			{ProductName: "Choco Bar", SRP: 100, DiscountedPrice: &price},
		},
	})
	require.NoError(t, err)

	require.Len(t, c.Promotions, 1)
	require.NotNil(t, c.Promotions[0].DiscountValue)
	assert.InDelta(t, 20, *c.Promotions[0].DiscountValue, 1e-9)
	require.NotNil(t, c.Promotions[0].DiscountPercentage)
	assert.InDelta(t, 20, *c.Promotions[0].DiscountPercentage, 1e-9)
}

func TestUpdateOnlyWhileEditable(t *testing.T) {
	svc, _ := newTestCampaignService(t)
	ctx := context.Background()

	c := createDraft(t, svc, "Editable")
	updated, err := svc.Update(ctx, commercial, c.ID, CampaignInput{
		ProgramName:  "Editable v2",
		CampaignType: models.TypeLazadaCampaign,
	})
	require.NoError(t, err)
	assert.Equal(t, "Editable v2", updated.ProgramName)

	_, err = svc.Transition(ctx, commercial, c.ID, models.StatusSubmitted, "")
	require.NoError(t, err)

	_, err = svc.Update(ctx, commercial, c.ID, CampaignInput{
		ProgramName:  "Too late",
		CampaignType: models.TypeLazadaCampaign,
	})
	assert.ErrorIs(t, err, utils.ErrForbidden)
}

func TestDeleteIsOwnerOnly(t *testing.T) {
	svc, _ := newTestCampaignService(t)
	ctx := context.Background()

	c := createDraft(t, svc, "Doomed")

	err := svc.Delete(ctx, models.Session{User: "ken.uy", Role: models.RoleCommercial}, c.ID)
	assert.ErrorIs(t, err, utils.ErrCampaignNotFound)

	require.NoError(t, svc.Delete(ctx, commercial, c.ID))
	_, err = svc.Get(ctx, commercial, c.ID)
	assert.ErrorIs(t, err, utils.ErrCampaignNotFound)
}

func TestSelfHealingSeedsEmptyStore(t *testing.T) {
	store := newMemStore()
	repo := newRepoOverEmptyStore(store)
	svc := NewCampaignService(repo, newMemAttachments())

	visible, err := svc.ListVisible(context.Background(), finance)
	require.NoError(t, err)
	assert.NotEmpty(t, visible, "a missing store self-heals to the seed collection")

	_, err = store.Load(context.Background(), "campaigns")
	assert.NoError(t, err, "the healed collection is re-persisted")
}

func TestExportCSVRespectsVisibility(t *testing.T) {
	svc, _ := newTestCampaignService(t)
	ctx := context.Background()

	createDraft(t, svc, "Mine Only")

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(ctx, shopOps, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1, "shop-ops sees no drafts, so only the header row exports")
}
