package service

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promodesk/promodesk_api/internal/cache"
	"github.com/promodesk/promodesk_api/internal/csvio"
	"github.com/promodesk/promodesk_api/internal/docstore"
	"github.com/promodesk/promodesk_api/internal/models"
	"github.com/promodesk/promodesk_api/internal/repository"
	"github.com/promodesk/promodesk_api/internal/utils"
)

func sampleRows() []models.SKUItem {
	return []models.SKUItem{
		{ID: "row-a", SKU: "ABC-1", ProductName: "Choco Bar", SrpPerCaseVatin: "120.50"},
		{ID: "row-b", SKU: "ABC-2", ProductName: "Milk Tea", SrpPerPieceVatex: "9.75"},
	}
}

func TestCommitVersionsAreMonotonic(t *testing.T) {
	svc, _, _ := newTestSrpService(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		v, err := svc.Commit(ctx, commercial, sampleRows(), "upload", "list.csv")
		require.NoError(t, err)
		assert.Equal(t, i, v.Version)
	}

	history, err := svc.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, 3, history[0].Version, "history is newest first")

	current, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleRows(), current)
}

func TestCommitEmptyReasonRejected(t *testing.T) {
	svc, _, _ := newTestSrpService(t)
	ctx := context.Background()

	_, err := svc.Commit(ctx, commercial, sampleRows(), "seed", "list.csv")
	require.NoError(t, err)

	before, err := svc.History(ctx)
	require.NoError(t, err)

	_, err = svc.Commit(ctx, commercial, sampleRows(), "  ", "")
	assert.ErrorIs(t, err, utils.ErrReasonRequired)

	after, err := svc.History(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after), "a rejected commit leaves the history unchanged")
}

func TestCurrentEmptyBeforeFirstCommit(t *testing.T) {
	svc, _, _ := newTestSrpService(t)

	current, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Empty(t, current)
}

func TestProposeUploadDropsRowsWithoutIdentity(t *testing.T) {
	svc, _, _ := newTestSrpService(t)

	file := "SKU,Product Name,Brand\n" +
		"ABC-1,Choco Bar,ChocoCo\n" +
		",,OrphanBrand\n" +
		",Milk Tea,\n"
	rows, err := svc.ProposeUpload(strings.NewReader(file))
	require.NoError(t, err)

	require.Len(t, rows, 2, "a row lacking both SKU and product name is dropped")
	assert.NotEmpty(t, rows[0].ID)
	assert.NotEmpty(t, rows[1].ID)
	assert.NotEqual(t, rows[0].ID, rows[1].ID)

	// Proposals never touch the store.
	history, err := svc.History(context.Background())
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestProposeUploadRejectsUnmappableFile(t *testing.T) {
	svc, _, _ := newTestSrpService(t)

	_, err := svc.ProposeUpload(strings.NewReader("Foo,Bar\n1,2\n"))
	assert.ErrorIs(t, err, utils.ErrNoMappedColumns)
}

func TestEditRowFunnelsThroughCommit(t *testing.T) {
	svc, _, _ := newTestSrpService(t)
	ctx := context.Background()

	_, err := svc.Commit(ctx, commercial, sampleRows(), "seed", "list.csv")
	require.NoError(t, err)

	edited := models.SKUItem{SKU: "ABC-1", ProductName: "Choco Bar XL", SrpPerCaseVatin: "130.00"}
	v, err := svc.EditRow(ctx, approver, "row-a", edited, "price correction")
	require.NoError(t, err)

	assert.Equal(t, 2, v.Version)
	assert.Equal(t, "list.csv", v.OriginalFileName, "a pure edit carries the file name forward")
	require.Len(t, v.Data, 2)
	assert.Equal(t, "row-a", v.Data[0].ID, "the edited row keeps its identifier")
	assert.Equal(t, "Choco Bar XL", v.Data[0].ProductName)
	assert.Equal(t, sampleRows()[1], v.Data[1], "other rows are untouched")

	// The prior version is immutable.
	v1, err := svc.Version(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Choco Bar", v1.Data[0].ProductName)
}

func TestEditRowUnknownIdentifier(t *testing.T) {
	svc, _, _ := newTestSrpService(t)
	ctx := context.Background()

	_, err := svc.Commit(ctx, commercial, sampleRows(), "seed", "list.csv")
	require.NoError(t, err)

	_, err = svc.EditRow(ctx, commercial, "row-nope", models.SKUItem{SKU: "X"}, "edit")
	assert.ErrorIs(t, err, utils.ErrRowNotFound)
}

func TestDownloadRoundTrip(t *testing.T) {
	svc, _, _ := newTestSrpService(t)
	ctx := context.Background()

	committed, err := svc.Commit(ctx, commercial, sampleRows(), "seed", "list.csv")
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = svc.DownloadCSV(ctx, committed.Version, &buf)
	require.NoError(t, err)

	parsed, _, err := csvio.ParseSKUItems(&buf)
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	for i, row := range sampleRows() {
		row.ID = ""
		assert.Equal(t, row, parsed[i], "field values survive the export/import trip")
	}
}

func TestDownloadUnknownVersion(t *testing.T) {
	svc, _, _ := newTestSrpService(t)

	var buf bytes.Buffer
	_, err := svc.DownloadCSV(context.Background(), 42, &buf)
	assert.ErrorIs(t, err, utils.ErrVersionNotFound)
}

func TestUnreadableHistoryResetsAndRepersists(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, docstore.KeySrpHistory, []byte("{not json")))

	repo := repository.NewSrpRepository(store, cache.NewInvalidator(nil))
	history, err := repo.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)

	// The corrupt document was replaced with a valid empty history.
	raw, err := store.Load(ctx, docstore.KeySrpHistory)
	require.NoError(t, err)
	var healed []models.SrpVersion
	require.NoError(t, json.Unmarshal(raw, &healed))
	assert.Empty(t, healed)
}

func TestExportCurrentBeforeFirstCommit(t *testing.T) {
	svc, _, _ := newTestSrpService(t)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCurrentCSV(context.Background(), &buf))

	rows, _, err := csvio.ParseSKUItems(&buf)
	require.NoError(t, err)
	assert.Empty(t, rows, "only the header exports before the first commit")
}

func TestInvalidationBusKeepsReadersFresh(t *testing.T) {
	store := newMemStore()
	invalidator := cache.NewInvalidator(nil)
	repo := repository.NewSrpRepository(store, invalidator)
	writer := NewSrpService(repo, invalidator)
	reader := NewSrpService(repo, invalidator)
	ctx := context.Background()

	// Reader caches the empty history.
	current, err := reader.Current(ctx)
	require.NoError(t, err)
	assert.Empty(t, current)

	_, err = writer.Commit(ctx, commercial, sampleRows(), "seed", "list.csv")
	require.NoError(t, err)

	// The bus invalidated the reader's cache, so it reloads.
	current, err = reader.Current(ctx)
	require.NoError(t, err)
	assert.Len(t, current, 2)
}
