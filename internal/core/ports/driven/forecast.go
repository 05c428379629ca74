package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/pvflow/internal/core/domain"
)

// ForecastProvider retrieves the current production forecast of the site.
type ForecastProvider interface {
	// FetchForecast requests a fresh forecast. The returned fetch has no ID;
	// callers assign one before persisting.
	FetchForecast(ctx context.Context) (*domain.ForecastFetch, error)
}

// ForecastStore persists forecast fetches and their periods.
// Periods are keyed by their end time; saving a fetch overwrites the
// estimates of periods already stored from earlier fetches.
type ForecastStore interface {
	// SaveFetch stores a fetch and upserts its periods.
	SaveFetch(ctx context.Context, fetch *domain.ForecastFetch) error

	// PeriodsBetween returns periods ending in [from, to], ordered by end time.
	PeriodsBetween(ctx context.Context, from, to time.Time) ([]domain.ForecastPeriod, error)

	// LatestFetch returns the most recent fetch without its periods.
	// Returns nil and no error if nothing has been fetched yet.
	LatestFetch(ctx context.Context) (*domain.ForecastFetch, error)

	// ListFetches returns the most recent fetches, newest first, without periods.
	ListFetches(ctx context.Context, limit int) ([]domain.ForecastFetch, error)

	// PruneBefore deletes periods ending before t and fetches made before t.
	// Returns the number of periods removed.
	PruneBefore(ctx context.Context, t time.Time) (int, error)
}
