package repository

import "github.com/promodesk/promodesk_api/internal/models"

// SeedCampaigns returns the demo campaigns a fresh deployment starts with.
// The collection is copied on every call so callers can mutate freely.
func SeedCampaigns() []models.Campaign {
	seed := []models.Campaign{
		{
			ID:           "CMP-20250712-A3F8B2C1",
			ProgramName:  "Mega Brand Days",
			BrandName:    "Nutriboost",
			CampaignType: models.TypeLazadaCampaign,
			StartDate:    "2025-08-01",
			EndDate:      "2025-08-15",
			Objectives:   "Drive sell-out on hero SKUs during platform mega sale.",
			Status:       models.StatusActive,
			CreatedBy:    "maria.santos",
			CreatedAt:    "2025-07-12T09:30:00Z",
			ApprovedBy:   "jun.dela.cruz",
			DateApproved: "2025-07-15T14:05:00Z",
		},
		{
			ID:           "CMP-20250720-9D41E07A",
			ProgramName:  "Payday Bundle Blast",
			BrandName:    "Nutriboost",
			CampaignType: models.TypeBundleDeals,
			StartDate:    "2025-08-28",
			EndDate:      "2025-08-31",
			Objectives:   "Increase basket size via curated payday bundles.",
			Status:       models.StatusSubmitted,
			CreatedBy:    "maria.santos",
			CreatedAt:    "2025-07-20T11:12:00Z",
		},
		{
			ID:           "CMP-20250725-5C2B88F0",
			ProgramName:  "Back to School Vouchers",
			BrandName:    "PenPro",
			CampaignType: models.TypeVouchers,
			StartDate:    "2025-09-01",
			EndDate:      "2025-09-30",
			Objectives:   "Acquire new buyers with seller vouchers on school supplies.",
			Status:       models.StatusDraft,
			CreatedBy:    "ken.uy",
			CreatedAt:    "2025-07-25T08:45:00Z",
		},
	}
	out := make([]models.Campaign, len(seed))
	copy(out, seed)
	return out
}
