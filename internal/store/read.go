package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/arglint/arglint/internal/report"
)

// ErrNotFound is returned when no run with the requested token exists.
var ErrNotFound = errors.New("run not found")

// Run is one recorded verification run, without its entries.
type Run struct {
	Token      string
	Profile    string
	SourceName string
	Valid      bool
	CreatedAt  time.Time
}

// ListRuns returns the most recent runs, newest first. A limit of zero or
// less means no limit. Tokens are UUIDv7, so token order is creation
// order.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT token, profile, source_name, valid, created_at
		FROM runs
		ORDER BY token DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var valid int
		var createdAt string
		if err := rows.Scan(&r.Token, &r.Profile, &r.SourceName, &valid, &createdAt); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		r.Valid = valid != 0
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			r.CreatedAt = ts
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunReport reconstructs the report recorded for the given token.
func (s *Store) RunReport(ctx context.Context, token string) (*report.Report, error) {
	r := &report.Report{Token: token}
	var valid int
	err := s.db.QueryRowContext(ctx, `
		SELECT profile, valid FROM runs WHERE token = ?
	`, token).Scan(&r.Profile, &valid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", token, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read run: %w", err)
	}
	r.Valid = valid != 0

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, passed, message
		FROM results
		WHERE token = ?
		ORDER BY position
	`, token)
	if err != nil {
		return nil, fmt.Errorf("read run results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e report.Entry
		var passed int
		if err := rows.Scan(&e.Name, &passed, &e.Message); err != nil {
			return nil, fmt.Errorf("read run results: %w", err)
		}
		e.Passed = passed != 0
		r.Entries = append(r.Entries, e)
	}
	return r, rows.Err()
}
