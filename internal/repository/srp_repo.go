package repository

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/promodesk/promodesk_api/internal/cache"
	"github.com/promodesk/promodesk_api/internal/docstore"
	"github.com/promodesk/promodesk_api/internal/models"
)

// SrpRepository persists the append-only masterlist version history as one
// document. An empty or unreadable document reads as an empty history; the
// first committed version then starts at 1.
type SrpRepository struct {
	store       docstore.Store
	invalidator *cache.Invalidator
}

// NewSrpRepository creates an SRP history repository.
func NewSrpRepository(store docstore.Store, invalidator *cache.Invalidator) *SrpRepository {
	return &SrpRepository{store: store, invalidator: invalidator}
}

// History returns every version snapshot, newest first. A missing or corrupt
// document is reset to an empty history and re-persisted before returning.
func (r *SrpRepository) History(ctx context.Context) ([]models.SrpVersion, error) {
	raw, err := r.store.Load(ctx, docstore.KeySrpHistory)
	if err != nil {
		if err == docstore.ErrNotFound {
			return r.reset(ctx)
		}
		return nil, err
	}

	var history []models.SrpVersion
	if err := json.Unmarshal(raw, &history); err != nil {
		log.Warn().Err(err).Msg("SRP history unreadable, resetting to empty")
		return r.reset(ctx)
	}
	sort.Slice(history, func(i, j int) bool {
		return history[i].Version > history[j].Version
	})
	return history, nil
}

func (r *SrpRepository) reset(ctx context.Context) ([]models.SrpVersion, error) {
	empty := []models.SrpVersion{}
	raw, err := json.Marshal(empty)
	if err != nil {
		return nil, err
	}
	if err := r.store.Save(ctx, docstore.KeySrpHistory, raw); err != nil {
		return nil, err
	}
	log.Info().Msg("SRP history initialized empty")
	return empty, nil
}

// SaveHistory replaces the stored history and announces the change.
func (r *SrpRepository) SaveHistory(ctx context.Context, history []models.SrpVersion) error {
	if history == nil {
		history = []models.SrpVersion{}
	}
	raw, err := json.Marshal(history)
	if err != nil {
		return err
	}
	if err := r.store.Save(ctx, docstore.KeySrpHistory, raw); err != nil {
		return err
	}
	r.invalidator.NotifyChanged(ctx, docstore.KeySrpHistory)
	return nil
}
