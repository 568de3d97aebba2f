package repository

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/promodesk/promodesk_api/internal/cache"
	"github.com/promodesk/promodesk_api/internal/docstore"
	"github.com/promodesk/promodesk_api/internal/models"
)

// CampaignRepository persists the campaign collection as one document.
// Reads self-heal: a missing or unreadable document is replaced with the
// seed collection so the API never serves a broken store.
type CampaignRepository struct {
	store       docstore.Store
	invalidator *cache.Invalidator
}

// NewCampaignRepository creates a campaign repository.
func NewCampaignRepository(store docstore.Store, invalidator *cache.Invalidator) *CampaignRepository {
	return &CampaignRepository{store: store, invalidator: invalidator}
}

// All returns every campaign in the collection. A missing or corrupt
// document is reset to the seed campaigns and re-persisted before returning.
func (r *CampaignRepository) All(ctx context.Context) ([]models.Campaign, error) {
	raw, err := r.store.Load(ctx, docstore.KeyCampaigns)
	if err != nil {
		if err == docstore.ErrNotFound {
			return r.reset(ctx)
		}
		return nil, err
	}

	var campaigns []models.Campaign
	if err := json.Unmarshal(raw, &campaigns); err != nil {
		log.Warn().Err(err).Msg("Campaign store unreadable, resetting to seed data")
		return r.reset(ctx)
	}
	return campaigns, nil
}

// SaveAll replaces the whole campaign collection and announces the change.
func (r *CampaignRepository) SaveAll(ctx context.Context, campaigns []models.Campaign) error {
	if campaigns == nil {
		campaigns = []models.Campaign{}
	}
	raw, err := json.Marshal(campaigns)
	if err != nil {
		return err
	}
	if err := r.store.Save(ctx, docstore.KeyCampaigns, raw); err != nil {
		return err
	}
	r.invalidator.NotifyChanged(ctx, docstore.KeyCampaigns)
	return nil
}

func (r *CampaignRepository) reset(ctx context.Context) ([]models.Campaign, error) {
	seed := SeedCampaigns()
	raw, err := json.Marshal(seed)
	if err != nil {
		return nil, err
	}
	if err := r.store.Save(ctx, docstore.KeyCampaigns, raw); err != nil {
		return nil, err
	}
	log.Info().Int("count", len(seed)).Msg("Campaign store initialized with seed data")
	return seed, nil
}
