package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/khru/internal/model"
)

// RecordActivity appends an entry to the change history.
func (s *SQLiteStorage) RecordActivity(ctx context.Context, a model.Activity) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(a.Op, "op"); err != nil {
		return err
	}
	if a.At.IsZero() {
		a.At = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO activity_log (op, year, class, detail, created_at) VALUES (?, ?, ?, ?, ?)",
		a.Op, a.Year, a.Class, a.Detail, a.At.UTC())
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// RecentActivity returns up to limit entries, newest first.
func (s *SQLiteStorage) RecentActivity(ctx context.Context, limit int) ([]model.Activity, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, op, year, class, detail, created_at
		FROM activity_log
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Activity
	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(&a.ID, &a.Op, &a.Year, &a.Class, &a.Detail, &a.At); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
