package store

import (
	"context"
	"fmt"
	"time"

	"github.com/arglint/arglint/internal/report"
)

// WriteRun persists a verification report and its entries in one
// transaction. Uses ON CONFLICT(token) DO NOTHING for idempotency -
// re-recording the same run token is silently ignored, so a retried CLI
// invocation never duplicates a run.
func (s *Store) WriteRun(ctx context.Context, r *report.Report, sourceName string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (token, profile, source_name, valid, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`,
		r.Token,
		r.Profile,
		sourceName,
		boolToInt(r.Valid),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Token already recorded; the entries are too.
		return nil
	}

	for i, e := range r.Entries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO results (token, position, name, passed, message)
			VALUES (?, ?, ?, ?, ?)
		`,
			r.Token, i, e.Name, boolToInt(e.Passed), e.Message,
		)
		if err != nil {
			return fmt.Errorf("write run result %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
