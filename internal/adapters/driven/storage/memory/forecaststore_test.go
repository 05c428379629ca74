package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pvflow/internal/core/domain"
)

func end(hour, minute int) time.Time {
	return time.Date(2024, 5, 1, hour, minute, 0, 0, time.UTC)
}

func TestForecastStore_SaveFetch_UpsertsPeriods(t *testing.T) {
	ctx := context.Background()
	store := NewForecastStore()

	require.NoError(t, store.SaveFetch(ctx, &domain.ForecastFetch{
		ID:        "first",
		FetchedAt: end(0, 0),
		Periods: []domain.ForecastPeriod{
			{PeriodEnd: end(10, 0), Nominal: 1},
			{PeriodEnd: end(10, 30), Nominal: 2},
		},
	}))
	require.NoError(t, store.SaveFetch(ctx, &domain.ForecastFetch{
		ID:        "second",
		FetchedAt: end(3, 0),
		Periods: []domain.ForecastPeriod{
			{PeriodEnd: end(10, 30), Nominal: 5},
			{PeriodEnd: end(11, 0), Nominal: 3},
		},
	}))

	periods, err := store.PeriodsBetween(ctx, end(0, 0), end(23, 59))
	require.NoError(t, err)
	require.Len(t, periods, 3)
	assert.Equal(t, 1.0, periods[0].Nominal)
	assert.Equal(t, 5.0, periods[1].Nominal)
	assert.Equal(t, 3.0, periods[2].Nominal)

	latest, err := store.LatestFetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", latest.ID)
	assert.Empty(t, latest.Periods)
}

func TestForecastStore_SaveFetch_Invalid(t *testing.T) {
	store := NewForecastStore()

	assert.ErrorIs(t, store.SaveFetch(context.Background(), nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.SaveFetch(context.Background(), &domain.ForecastFetch{}), domain.ErrInvalidInput)
}

func TestForecastStore_PeriodsBetween_Bounds(t *testing.T) {
	ctx := context.Background()
	store := NewForecastStore()
	require.NoError(t, store.SaveFetch(ctx, &domain.ForecastFetch{
		ID: "f",
		Periods: []domain.ForecastPeriod{
			{PeriodEnd: end(9, 0)}, {PeriodEnd: end(10, 0)}, {PeriodEnd: end(11, 0)},
		},
	}))

	periods, err := store.PeriodsBetween(ctx, end(10, 0), end(11, 0))
	require.NoError(t, err)
	assert.Len(t, periods, 2)
}

func TestForecastStore_LatestFetch_Empty(t *testing.T) {
	latest, err := NewForecastStore().LatestFetch(context.Background())

	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestForecastStore_PruneBefore(t *testing.T) {
	ctx := context.Background()
	store := NewForecastStore()
	require.NoError(t, store.SaveFetch(ctx, &domain.ForecastFetch{
		ID:        "old",
		FetchedAt: end(1, 0),
		Periods:   []domain.ForecastPeriod{{PeriodEnd: end(2, 0)}, {PeriodEnd: end(12, 0)}},
	}))

	removed, err := store.PruneBefore(ctx, end(6, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	fetches, err := store.ListFetches(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, fetches)

	periods, err := store.PeriodsBetween(ctx, end(0, 0), end(23, 0))
	require.NoError(t, err)
	assert.Len(t, periods, 1)
}
