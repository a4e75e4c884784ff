package infra

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

type recordingQuerier struct {
	lastSQL  string
	lastArgs []any
}

func (r *recordingQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r.lastSQL, r.lastArgs = sql, args
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (r *recordingQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	r.lastSQL, r.lastArgs = sql, args
	return errorRow{err: pgx.ErrNoRows}
}

func (r *recordingQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	r.lastSQL, r.lastArgs = sql, args
	return nil, errors.New("not supported")
}

func TestExtractMarker(t *testing.T) {
	marker, body, err := extractMarker("\n--sql 0b1f4c1e-3a51-4f0e-9c55-6f1f3f1f2a10\nSELECT 1\n")
	if err != nil {
		t.Fatalf("extractMarker returned error: %v", err)
	}
	if marker != "0b1f4c1e-3a51-4f0e-9c55-6f1f3f1f2a10" {
		t.Fatalf("marker = %q", marker)
	}
	if body != "SELECT 1" {
		t.Fatalf("body = %q", body)
	}

	for _, bad := range []string{"SELECT 1", "--sql not-a-uuid\nSELECT 1", ""} {
		if _, _, err := extractMarker(bad); err == nil {
			t.Fatalf("extractMarker(%q) expected error", bad)
		}
	}
}

func TestSQLRunnerStripsMarker(t *testing.T) {
	q := &recordingQuerier{}
	runner := &SQLRunner{Pool: q, Logger: zerolog.Nop()}

	tag, err := runner.Exec(context.Background(), "--sql 0b1f4c1e-3a51-4f0e-9c55-6f1f3f1f2a10\nDELETE FROM t WHERE id = $1", 7)
	if err != nil {
		t.Fatalf("Exec returned error: %v", err)
	}
	if tag.RowsAffected() != 1 {
		t.Fatalf("RowsAffected = %d", tag.RowsAffected())
	}
	if q.lastSQL != "DELETE FROM t WHERE id = $1" || len(q.lastArgs) != 1 {
		t.Fatalf("forwarded %q %v", q.lastSQL, q.lastArgs)
	}

	var out int
	err = runner.QueryRow(context.Background(), "--sql 0b1f4c1e-3a51-4f0e-9c55-6f1f3f1f2a10\nSELECT 1").Scan(&out)
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("Scan error = %v, want ErrNoRows", err)
	}

	if err := runner.QueryRow(context.Background(), "SELECT 1").Scan(&out); err == nil {
		t.Fatal("expected marker error from QueryRow")
	}
}
