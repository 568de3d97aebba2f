package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/promodesk/promodesk_api/internal/cache"
	"github.com/promodesk/promodesk_api/internal/docstore"
	"github.com/promodesk/promodesk_api/internal/models"
	"github.com/promodesk/promodesk_api/internal/repository"
	"github.com/promodesk/promodesk_api/internal/utils"
)

// memStore is an in-memory docstore.Store.
type memStore struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[string][]byte)}
}

func (m *memStore) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.docs[key]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return v, nil
}

func (m *memStore) Save(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key] = value
	return nil
}

// memAttachments is an in-memory AttachmentStore.
type memAttachments struct {
	mu    sync.Mutex
	files map[string]*models.TradeLetterAttachment
}

func newMemAttachments() *memAttachments {
	return &memAttachments{files: make(map[string]*models.TradeLetterAttachment)}
}

func (m *memAttachments) Get(ctx context.Context, campaignID string) (*models.TradeLetterAttachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.files[campaignID]
	if !ok {
		return nil, utils.ErrAttachmentNotFound
	}
	return a, nil
}

func (m *memAttachments) Put(ctx context.Context, a *models.TradeLetterAttachment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[a.CampaignID] = a
	return nil
}

func (m *memAttachments) Delete(ctx context.Context, campaignID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, campaignID)
	return nil
}

// newTestCampaignService starts with an empty campaign collection so tests
// do not depend on seed data.
func newTestCampaignService(t *testing.T) (*CampaignService, *memStore) {
	t.Helper()
	store := newMemStore()
	empty, err := json.Marshal([]models.Campaign{})
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), docstore.KeyCampaigns, empty))

	repo := repository.NewCampaignRepository(store, cache.NewInvalidator(nil))
	return NewCampaignService(repo, newMemAttachments()), store
}

// newRepoOverEmptyStore leaves the store without a campaigns document so
// the self-healing read path is exercised.
func newRepoOverEmptyStore(store *memStore) *repository.CampaignRepository {
	return repository.NewCampaignRepository(store, cache.NewInvalidator(nil))
}

func newTestSrpService(t *testing.T) (*SrpService, *memStore, *cache.Invalidator) {
	t.Helper()
	store := newMemStore()
	invalidator := cache.NewInvalidator(nil)
	repo := repository.NewSrpRepository(store, invalidator)
	return NewSrpService(repo, invalidator), store, invalidator
}

var (
	commercial = models.Session{User: "maria.santos", Role: models.RoleCommercial}
	approver   = models.Session{User: "jun.dela.cruz", Role: models.RoleApprover}
	shopOps    = models.Session{User: "ops.team", Role: models.RoleShopOps}
	finance    = models.Session{User: "fin.reviewer", Role: models.RoleFinance}
)

func createDraft(t *testing.T, svc *CampaignService, name string) *models.Campaign {
	t.Helper()
	c, err := svc.Create(context.Background(), commercial, CampaignInput{
		ProgramName:  name,
		CampaignType: models.TypeLazadaCampaign,
		StartDate:    "2025-09-01",
		EndDate:      "2025-09-15",
	})
	require.NoError(t, err)
	return c
}
