package guard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"logoforge/internal/infra"
	"logoforge/internal/sqlinline"
)

// PostgresStore keeps one row per client in brand_title_guard.
type PostgresStore struct {
	db  infra.SQLExecutor
	ttl time.Duration
}

func NewPostgresStore(db infra.SQLExecutor, ttl time.Duration) *PostgresStore {
	return &PostgresStore{db: db, ttl: ttl}
}

// EnsureSchema creates the guard table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, sqlinline.QEnsureTitleGuardTable); err != nil {
		return fmt.Errorf("ensure guard table: %w", err)
	}
	return nil
}

// Claim relies on the conditional upsert returning no row when the stored
// title is current and unchanged.
func (s *PostgresStore) Claim(ctx context.Context, clientIP, title string) (bool, error) {
	var claimed string
	err := s.db.QueryRow(ctx, sqlinline.QClaimGuardedTitle, clientIP, title, int(s.ttl/time.Second)).Scan(&claimed)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("claim guarded title: %w", err)
	}
	return true, nil
}

var _ Store = (*PostgresStore)(nil)
