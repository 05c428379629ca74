package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/custodia-labs/pvflow/internal/core/domain"
	"github.com/custodia-labs/pvflow/internal/core/ports/driven"
)

// Ensure ForecastStore implements the interface.
var _ driven.ForecastStore = (*ForecastStore)(nil)

// ForecastStore is an in-memory implementation of driven.ForecastStore.
type ForecastStore struct {
	mu      sync.RWMutex
	fetches []domain.ForecastFetch
	periods map[int64]domain.ForecastPeriod // keyed by period end (unix seconds)
}

// NewForecastStore creates a new in-memory forecast store.
func NewForecastStore() *ForecastStore {
	return &ForecastStore{
		periods: make(map[int64]domain.ForecastPeriod),
	}
}

// SaveFetch stores a fetch and upserts its periods.
func (s *ForecastStore) SaveFetch(_ context.Context, fetch *domain.ForecastFetch) error {
	if fetch == nil || fetch.ID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	header := *fetch
	header.Periods = nil
	s.fetches = append(s.fetches, header)

	for _, p := range fetch.Periods {
		p.PeriodEnd = p.PeriodEnd.UTC()
		s.periods[p.PeriodEnd.Unix()] = p
	}
	return nil
}

// PeriodsBetween returns periods ending in [from, to], ordered by end time.
func (s *ForecastStore) PeriodsBetween(_ context.Context, from, to time.Time) ([]domain.ForecastPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.ForecastPeriod
	for _, p := range s.periods {
		if p.PeriodEnd.Before(from) || p.PeriodEnd.After(to) {
			continue
		}
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b domain.ForecastPeriod) int {
		return a.PeriodEnd.Compare(b.PeriodEnd)
	})
	return out, nil
}

// LatestFetch returns the most recent fetch, or nil if none exist.
func (s *ForecastStore) LatestFetch(ctx context.Context) (*domain.ForecastFetch, error) {
	fetches, err := s.ListFetches(ctx, 1)
	if err != nil || len(fetches) == 0 {
		return nil, err
	}
	return &fetches[0], nil
}

// ListFetches returns the most recent fetches, newest first.
func (s *ForecastStore) ListFetches(_ context.Context, limit int) ([]domain.ForecastFetch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Clone(s.fetches)
	slices.SortStableFunc(out, func(a, b domain.ForecastFetch) int {
		return b.FetchedAt.Compare(a.FetchedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// PruneBefore deletes periods ending before t and fetches made before t.
func (s *ForecastStore) PruneBefore(_ context.Context, t time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, p := range s.periods {
		if p.PeriodEnd.Before(t) {
			delete(s.periods, key)
			removed++
		}
	}
	s.fetches = slices.DeleteFunc(s.fetches, func(f domain.ForecastFetch) bool {
		return f.FetchedAt.Before(t)
	})
	return removed, nil
}
