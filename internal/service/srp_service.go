package service

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/promodesk/promodesk_api/internal/cache"
	"github.com/promodesk/promodesk_api/internal/csvio"
	"github.com/promodesk/promodesk_api/internal/docstore"
	"github.com/promodesk/promodesk_api/internal/models"
	"github.com/promodesk/promodesk_api/internal/repository"
	"github.com/promodesk/promodesk_api/internal/utils"
)

// SrpService owns the versioned SRP masterlist. Every mutation funnels
// through Commit, which appends one immutable snapshot. The service keeps an
// in-memory copy of the history and drops it whenever the invalidation bus
// announces a change to the store, so it never trusts a stale copy.
type SrpService struct {
	repo *repository.SrpRepository

	mu     sync.RWMutex
	cached []models.SrpVersion
	loaded bool
}

// NewSrpService creates the masterlist service and subscribes it to
// store-change notifications.
func NewSrpService(repo *repository.SrpRepository, invalidator *cache.Invalidator) *SrpService {
	s := &SrpService{repo: repo}
	invalidator.OnChange(func(store string) {
		if store == docstore.KeySrpHistory {
			s.invalidate()
		}
	})
	return s
}

func (s *SrpService) invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.loaded = false
	s.mu.Unlock()
}

// history returns the version list newest first, loading it once and serving
// from memory until invalidated.
func (s *SrpService) history(ctx context.Context) ([]models.SrpVersion, error) {
	s.mu.RLock()
	if s.loaded {
		h := s.cached
		s.mu.RUnlock()
		return h, nil
	}
	s.mu.RUnlock()

	h, err := s.repo.History(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.cached = h
	s.loaded = true
	s.mu.Unlock()
	return h, nil
}

// Current returns the row list of the highest-numbered version, or an empty
// list when no version exists yet.
func (s *SrpService) Current(ctx context.Context) ([]models.SKUItem, error) {
	h, err := s.history(ctx)
	if err != nil {
		return nil, err
	}
	if len(h) == 0 {
		return []models.SKUItem{}, nil
	}
	return h[0].Data, nil
}

// History returns every version snapshot, newest first.
func (s *SrpService) History(ctx context.Context) ([]models.SrpVersion, error) {
	return s.history(ctx)
}

// Version returns one snapshot by number.
func (s *SrpService) Version(ctx context.Context, version int) (*models.SrpVersion, error) {
	h, err := s.history(ctx)
	if err != nil {
		return nil, err
	}
	for i := range h {
		if h[i].Version == version {
			return &h[i], nil
		}
	}
	return nil, utils.ErrVersionNotFound
}

// ProposeUpload maps raw CSV into canonical rows without touching the store.
// Rows lacking both a SKU code and a product name are dropped; every
// surviving row gets a fresh identifier. A file in which no column header is
// recognized is rejected.
func (s *SrpService) ProposeUpload(r io.Reader) ([]models.SKUItem, error) {
	items, mapped, err := csvio.ParseSKUItems(r)
	if err != nil {
		return nil, err
	}
	if mapped == 0 {
		return nil, utils.ErrNoMappedColumns
	}
	proposal := make([]models.SKUItem, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.SKU) == "" && strings.TrimSpace(item.ProductName) == "" {
			continue
		}
		item.ID = utils.GenerateRowID()
		proposal = append(proposal, item)
	}
	return proposal, nil
}

// Commit appends a new version containing rows verbatim. The version number
// is the previous maximum plus one, starting at 1. An empty reason is a
// validation error and leaves the history unchanged. When originalFileName
// is empty the name carries forward from the latest version, so pure edits
// keep pointing at the upload they modified.
func (s *SrpService) Commit(ctx context.Context, session models.Session, rows []models.SKUItem, reason, originalFileName string) (*models.SrpVersion, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, utils.ErrReasonRequired
	}
	h, err := s.history(ctx)
	if err != nil {
		return nil, err
	}

	next := 1
	if len(h) > 0 {
		next = h[0].Version + 1
	}
	if originalFileName == "" && len(h) > 0 {
		originalFileName = h[0].OriginalFileName
	}
	if rows == nil {
		rows = []models.SKUItem{}
	}

	version := models.SrpVersion{
		Version:          next,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		Reason:           strings.TrimSpace(reason),
		User:             session.User,
		Data:             rows,
		OriginalFileName: originalFileName,
	}

	updated := make([]models.SrpVersion, 0, len(h)+1)
	updated = append(updated, version)
	updated = append(updated, h...)
	if err := s.repo.SaveHistory(ctx, updated); err != nil {
		return nil, err
	}

	log.Info().Int("version", version.Version).Str("user", session.User).
		Int("rows", len(rows)).Msg("SRP masterlist version committed")
	return &version, nil
}

// EditRow replaces one row of the current snapshot by identifier and commits
// the result as a new version. Row identifiers are only meaningful against
// the current snapshot, never a historical one.
func (s *SrpService) EditRow(ctx context.Context, session models.Session, rowID string, updated models.SKUItem, reason string) (*models.SrpVersion, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}

	found := false
	rows := make([]models.SKUItem, len(current))
	for i, row := range current {
		if row.ID == rowID {
			updated.ID = rowID
			rows[i] = updated
			found = true
			continue
		}
		rows[i] = row
	}
	if !found {
		return nil, utils.ErrRowNotFound
	}
	return s.Commit(ctx, session, rows, reason, "")
}

// ExportCurrentCSV serializes the current masterlist using the canonical
// column set. Before the first commit the export is a header-only file.
func (s *SrpService) ExportCurrentCSV(ctx context.Context, w io.Writer) error {
	current, err := s.Current(ctx)
	if err != nil {
		return err
	}
	return csvio.WriteSKUItems(w, current)
}

// DownloadCSV serializes one version's rows using the canonical column set.
func (s *SrpService) DownloadCSV(ctx context.Context, version int, w io.Writer) (*models.SrpVersion, error) {
	v, err := s.Version(ctx, version)
	if err != nil {
		return nil, err
	}
	if err := csvio.WriteSKUItems(w, v.Data); err != nil {
		return nil, err
	}
	return v, nil
}
