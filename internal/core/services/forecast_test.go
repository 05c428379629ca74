package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pvflow/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pvflow/internal/core/domain"
	"github.com/custodia-labs/pvflow/internal/core/ports/driven"
)

func periodEnd(day, hour, minute int) time.Time {
	return time.Date(2024, 5, day, hour, minute, 0, 0, time.UTC)
}

func sampleFetch() *domain.ForecastFetch {
	return &domain.ForecastFetch{
		SiteID: "site-1",
		Periods: []domain.ForecastPeriod{
			{PeriodEnd: periodEnd(1, 10, 30), Period: 30 * time.Minute, Nominal: 2, Worst: 1, Best: 3},
			{PeriodEnd: periodEnd(1, 11, 0), Period: 30 * time.Minute, Nominal: 4},
			{PeriodEnd: periodEnd(2, 11, 0), Period: 30 * time.Minute, Nominal: 6},
		},
	}
}

func newForecastService(t *testing.T, provider *mockProvider, inverter *mockInverter) (*ForecastService, *memory.ForecastStore) {
	t.Helper()
	store := memory.NewForecastStore()
	var inv driven.InverterHistory
	if inverter != nil {
		inv = inverter
	}
	service := NewForecastService(provider, store, inv, &mockChart{}, utcSettings())
	service.now = func() time.Time { return periodEnd(1, 12, 0) }
	return service, store
}

func TestForecastService_Refresh(t *testing.T) {
	provider := &mockProvider{fetch: sampleFetch()}
	service, store := newForecastService(t, provider, nil)

	fetch, err := service.Refresh(context.Background())
	require.NoError(t, err)

	assert.Len(t, fetch.ID, 36)
	assert.Equal(t, periodEnd(1, 12, 0), fetch.FetchedAt)

	latest, err := store.LatestFetch(context.Background())
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, fetch.ID, latest.ID)
}

func TestForecastService_Refresh_Errors(t *testing.T) {
	t.Run("provider error is wrapped", func(t *testing.T) {
		service, _ := newForecastService(t, &mockProvider{err: domain.ErrAuthInvalid}, nil)

		_, err := service.Refresh(context.Background())
		assert.ErrorIs(t, err, domain.ErrAuthInvalid)
	})

	t.Run("empty forecast", func(t *testing.T) {
		service, _ := newForecastService(t, &mockProvider{fetch: &domain.ForecastFetch{}}, nil)

		_, err := service.Refresh(context.Background())
		assert.ErrorIs(t, err, domain.ErrNoData)
	})

	t.Run("no provider", func(t *testing.T) {
		service := NewForecastService(nil, memory.NewForecastStore(), nil, nil, utcSettings())

		_, err := service.Refresh(context.Background())
		assert.ErrorIs(t, err, domain.ErrNotConfigured)
	})
}

func TestForecastService_Hourly(t *testing.T) {
	provider := &mockProvider{fetch: sampleFetch()}
	service, _ := newForecastService(t, provider, nil)
	_, err := service.Refresh(context.Background())
	require.NoError(t, err)

	nominal, err := service.Hourly(context.Background(), "2024-05-01", domain.EstimateNominal)
	require.NoError(t, err)
	assert.Equal(t, domain.HourlyProfile{10: 3}, nominal)

	worst, err := service.Hourly(context.Background(), "2024-05-01", domain.EstimateWorst)
	require.NoError(t, err)
	assert.Equal(t, domain.HourlyProfile{10: 0.5}, worst)

	_, err = service.Hourly(context.Background(), "2024-05-01", "pv_estimate50")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = service.Hourly(context.Background(), "yesterday", domain.EstimateNominal)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestForecastService_Compare(t *testing.T) {
	inverter := &mockInverter{
		series: []domain.PowerSeries{{
			Variable: domain.VariablePV,
			Samples: []domain.PowerSample{
				{Time: periodEnd(1, 10, 0), Value: 0},
				{Time: periodEnd(1, 10, 30), Value: 2},
				{Time: periodEnd(1, 10, 59), Value: 4},
				{Time: periodEnd(1, 11, 10), Value: 8},
			},
		}},
	}
	service, _ := newForecastService(t, &mockProvider{fetch: sampleFetch()}, inverter)
	_, err := service.Refresh(context.Background())
	require.NoError(t, err)

	c, err := service.Compare(context.Background(), "2024-05-01")
	require.NoError(t, err)

	assert.Equal(t, []string{domain.VariablePV}, inverter.variables)
	require.Len(t, c.Hours, 1)
	assert.Equal(t, domain.HourComparison{Hour: 10, Forecast: 3, Worst: 0.5, Best: 1.5, Real: 2.933}, c.Hours[0])
}

func TestForecastService_Compare_SiteTimezone(t *testing.T) {
	cest := time.FixedZone("CEST", 2*60*60)
	fetch := &domain.ForecastFetch{
		SiteID: "site-1",
		Periods: []domain.ForecastPeriod{
			// 00:30 local on 2024-05-01.
			{PeriodEnd: time.Date(2024, 4, 30, 22, 30, 0, 0, time.UTC), Period: 30 * time.Minute, Nominal: 1},
			{PeriodEnd: periodEnd(1, 8, 30), Period: 30 * time.Minute, Nominal: 2, Worst: 1, Best: 3},
			{PeriodEnd: periodEnd(1, 9, 0), Period: 30 * time.Minute, Nominal: 4},
			// 00:30 local on 2024-05-02.
			{PeriodEnd: periodEnd(1, 22, 30), Period: 30 * time.Minute, Nominal: 6},
		},
	}
	inverter := &mockInverter{
		series: []domain.PowerSeries{{
			Variable: domain.VariablePV,
			Samples: []domain.PowerSample{
				{Time: time.Date(2024, 5, 1, 10, 0, 0, 0, cest), Value: 0},
				{Time: time.Date(2024, 5, 1, 10, 30, 0, 0, cest), Value: 2},
				{Time: time.Date(2024, 5, 1, 10, 59, 0, 0, cest), Value: 4},
				{Time: time.Date(2024, 5, 1, 11, 10, 0, 0, cest), Value: 8},
			},
		}},
	}
	service := NewForecastService(&mockProvider{fetch: fetch}, memory.NewForecastStore(), inverter,
		&mockChart{}, &staticSettings{settings: domain.DefaultAppSettings()})
	service.now = func() time.Time { return periodEnd(1, 12, 0) }
	_, err := service.Refresh(context.Background())
	require.NoError(t, err)

	c, err := service.Compare(context.Background(), "2024-05-01")
	require.NoError(t, err)

	assert.True(t, inverter.begin.Equal(time.Date(2024, 4, 30, 22, 0, 0, 0, time.UTC)))
	assert.True(t, inverter.end.Equal(time.Date(2024, 5, 1, 21, 59, 59, 0, time.UTC)))
	assert.Equal(t, []domain.HourComparison{
		{Hour: 0, Forecast: 0.5},
		{Hour: 10, Forecast: 3, Worst: 0.5, Best: 1.5, Real: 2.933},
	}, c.Hours)
}

func TestForecastService_Compare_NoForecast(t *testing.T) {
	service, _ := newForecastService(t, &mockProvider{fetch: sampleFetch()}, &mockInverter{})

	_, err := service.Compare(context.Background(), "2024-05-01")

	assert.ErrorIs(t, err, domain.ErrNoData)
}

func TestForecastService_Compare_InverterError(t *testing.T) {
	service, _ := newForecastService(t, &mockProvider{fetch: sampleFetch()}, &mockInverter{err: errors.New("boom")})
	_, err := service.Refresh(context.Background())
	require.NoError(t, err)

	_, err = service.Compare(context.Background(), "2024-05-01")

	assert.ErrorContains(t, err, "query pv history")
}

func TestForecastService_ProductionChart(t *testing.T) {
	chart := &mockChart{}
	store := memory.NewForecastStore()
	service := NewForecastService(&mockProvider{fetch: sampleFetch()}, store, nil, chart, utcSettings())
	_, err := service.Refresh(context.Background())
	require.NoError(t, err)

	result, err := service.ProductionChart(context.Background(), "2024-05-01")
	require.NoError(t, err)

	assert.Equal(t, []byte("\x89PNG"), result.PNG)
	require.NotNil(t, chart.rendered)
	assert.Equal(t, "2024-05-01", chart.rendered.Date)
	assert.Zero(t, result.Comparison.Hours[0].Real)
}

func TestForecastService_ProductionChart_RenderError(t *testing.T) {
	store := memory.NewForecastStore()
	service := NewForecastService(&mockProvider{fetch: sampleFetch()}, store, nil,
		&mockChart{err: errors.New("font missing")}, utcSettings())
	_, err := service.Refresh(context.Background())
	require.NoError(t, err)

	_, err = service.ProductionChart(context.Background(), "2024-05-01")

	assert.ErrorIs(t, err, domain.ErrRenderFailed)
}

func TestForecastService_Prune(t *testing.T) {
	settings := utcSettings()
	settings.settings.Scheduler.RetentionDays = 1
	store := memory.NewForecastStore()
	service := NewForecastService(&mockProvider{fetch: sampleFetch()}, store, nil, nil, settings)
	service.now = func() time.Time { return periodEnd(2, 10, 45) }

	_, err := service.Refresh(context.Background())
	require.NoError(t, err)

	removed, err := service.Prune(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	settings.settings.Scheduler.RetentionDays = 0
	removed, err = service.Prune(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestForecastService_TodayAndHistory(t *testing.T) {
	service, _ := newForecastService(t, &mockProvider{fetch: sampleFetch()}, nil)

	assert.Equal(t, "2024-05-01", service.Today())

	_, err := service.Refresh(context.Background())
	require.NoError(t, err)

	history, err := service.History(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
