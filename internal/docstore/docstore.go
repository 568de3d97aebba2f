package docstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned by Load when no document exists under the key.
var ErrNotFound = errors.New("document not found")

// Store is the narrow load/save pair every collection goes through. Each key
// holds one whole-collection JSON document; a save replaces the document in
// full, so concurrent writers are last-writer-wins at collection granularity.
// Keeping the pair this narrow lets a stronger scheme (per-record optimistic
// versioning) be substituted later without touching workflow logic.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}

// Conceptual document keys.
const (
	KeyCampaigns  = "campaigns"
	KeySrpHistory = "srpMasterlistHistory"
)

// PostgresStore keeps each document as one jsonb row in the documents table.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a document store backed by the given database.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Load returns the raw JSON document stored under key, or ErrNotFound.
func (s *PostgresStore) Load(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT value FROM documents WHERE key = $1`
	var value []byte
	if err := s.db.GetContext(ctx, &value, q, key); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

// Save upserts the whole document under key.
func (s *PostgresStore) Save(ctx context.Context, key string, value []byte) error {
	const q = `
        INSERT INTO documents (key, value, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	_, err := s.db.ExecContext(ctx, q, key, value)
	return err
}
