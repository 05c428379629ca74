package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/pvflow/internal/core/domain"
	"github.com/custodia-labs/pvflow/internal/core/ports/driven"
)

// forecastStore implements driven.ForecastStore.
type forecastStore struct {
	store *Store
}

var _ driven.ForecastStore = (*forecastStore)(nil)

// SaveFetch stores a fetch and upserts its periods in one transaction.
func (s *forecastStore) SaveFetch(ctx context.Context, fetch *domain.ForecastFetch) error {
	if fetch == nil || fetch.ID == "" {
		return domain.ErrInvalidInput
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO forecast_fetches (id, site_id, fetched_at)
		VALUES (?, ?, ?)
	`, fetch.ID, fetch.SiteID, formatTime(fetch.FetchedAt))
	if err != nil {
		return fmt.Errorf("saving forecast fetch: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO forecast_periods (period_end, period_seconds, pv_estimate, pv_estimate10, pv_estimate90, fetch_id)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(period_end) DO UPDATE SET
			period_seconds = excluded.period_seconds,
			pv_estimate = excluded.pv_estimate,
			pv_estimate10 = excluded.pv_estimate10,
			pv_estimate90 = excluded.pv_estimate90,
			fetch_id = excluded.fetch_id
	`)
	if err != nil {
		return fmt.Errorf("preparing period upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range fetch.Periods {
		if _, err := stmt.ExecContext(ctx,
			formatTime(p.PeriodEnd), int64(p.Period.Seconds()),
			p.Nominal, p.Worst, p.Best, fetch.ID); err != nil {
			return fmt.Errorf("saving forecast period %s: %w", formatTime(p.PeriodEnd), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing forecast fetch: %w", err)
	}
	return nil
}

// PeriodsBetween returns periods ending in [from, to], ordered by end time.
func (s *forecastStore) PeriodsBetween(ctx context.Context, from, to time.Time) ([]domain.ForecastPeriod, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT period_end, period_seconds, pv_estimate, pv_estimate10, pv_estimate90
		FROM forecast_periods
		WHERE period_end >= ? AND period_end <= ?
		ORDER BY period_end
	`, formatTime(from), formatTime(to))
	if err != nil {
		return nil, fmt.Errorf("querying forecast periods: %w", err)
	}
	defer rows.Close()

	var periods []domain.ForecastPeriod //nolint:prealloc // size unknown from query
	for rows.Next() {
		var p domain.ForecastPeriod
		var end string
		var seconds int64
		if err := rows.Scan(&end, &seconds, &p.Nominal, &p.Worst, &p.Best); err != nil {
			return nil, fmt.Errorf("scanning forecast period: %w", err)
		}
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			return nil, fmt.Errorf("parsing period end %q: %w", end, err)
		}
		p.PeriodEnd = t
		p.Period = time.Duration(seconds) * time.Second
		periods = append(periods, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating forecast periods: %w", err)
	}
	return periods, nil
}

// LatestFetch returns the most recent fetch, or nil if none exist.
func (s *forecastStore) LatestFetch(ctx context.Context) (*domain.ForecastFetch, error) {
	fetches, err := s.ListFetches(ctx, 1)
	if err != nil || len(fetches) == 0 {
		return nil, err
	}
	return &fetches[0], nil
}

// ListFetches returns the most recent fetches, newest first.
func (s *forecastStore) ListFetches(ctx context.Context, limit int) ([]domain.ForecastFetch, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, site_id, fetched_at
		FROM forecast_fetches
		ORDER BY fetched_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying forecast fetches: %w", err)
	}
	defer rows.Close()

	var fetches []domain.ForecastFetch //nolint:prealloc // size unknown from query
	for rows.Next() {
		var f domain.ForecastFetch
		var fetchedAt string
		if err := rows.Scan(&f.ID, &f.SiteID, &fetchedAt); err != nil {
			return nil, fmt.Errorf("scanning forecast fetch: %w", err)
		}
		f.FetchedAt = parseNullableTime(sql.NullString{String: fetchedAt, Valid: true})
		fetches = append(fetches, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating forecast fetches: %w", err)
	}
	return fetches, nil
}

// PruneBefore deletes periods ending before t and fetches made before t.
func (s *forecastStore) PruneBefore(ctx context.Context, t time.Time) (int, error) {
	cutoff := formatTime(t)

	res, err := s.store.db.ExecContext(ctx, "DELETE FROM forecast_periods WHERE period_end < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning forecast periods: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned periods: %w", err)
	}

	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM forecast_fetches WHERE fetched_at < ?", cutoff); err != nil {
		return 0, fmt.Errorf("pruning forecast fetches: %w", err)
	}

	return int(removed), nil
}

// formatTime formats t as an RFC 3339 UTC string. Stored strings sort
// chronologically.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
