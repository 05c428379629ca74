package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/pvflow/internal/core/domain"
	"github.com/custodia-labs/pvflow/internal/core/ports/driven"
	"github.com/custodia-labs/pvflow/internal/core/ports/driving"
	"github.com/custodia-labs/pvflow/internal/logger"
)

// Ensure ForecastService implements the interface.
var _ driving.ForecastService = (*ForecastService)(nil)

// ForecastService fetches, stores and compares production forecasts.
type ForecastService struct {
	provider driven.ForecastProvider
	store    driven.ForecastStore
	inverter driven.InverterHistory
	chart    driven.ChartRenderer
	settings driven.SettingsSource
	now      func() time.Time
}

// NewForecastService creates a new forecast service.
// inverter and chart may be nil; comparisons then report no real
// production and charts are unavailable.
func NewForecastService(
	provider driven.ForecastProvider,
	store driven.ForecastStore,
	inverter driven.InverterHistory,
	chart driven.ChartRenderer,
	settings driven.SettingsSource,
) *ForecastService {
	return &ForecastService{
		provider: provider,
		store:    store,
		inverter: inverter,
		chart:    chart,
		settings: settings,
		now:      time.Now,
	}
}

// Refresh fetches a new forecast and persists it.
func (s *ForecastService) Refresh(ctx context.Context) (*domain.ForecastFetch, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("forecast provider: %w", domain.ErrNotConfigured)
	}

	fetch, err := s.provider.FetchForecast(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch forecast: %w", err)
	}
	if len(fetch.Periods) == 0 {
		return nil, fmt.Errorf("forecast: %w", domain.ErrNoData)
	}

	fetch.ID = uuid.New().String()
	if fetch.FetchedAt.IsZero() {
		fetch.FetchedAt = s.now()
	}

	if err := s.store.SaveFetch(ctx, fetch); err != nil {
		return nil, fmt.Errorf("save forecast: %w", err)
	}

	logger.Info("stored forecast %s with %d periods (first period ends %s)",
		fetch.ID, len(fetch.Periods), fetch.Datetime().Format(time.RFC3339))
	return fetch, nil
}

// Hourly returns the hourly forecast energy for a date.
func (s *ForecastService) Hourly(
	ctx context.Context,
	date string,
	estimate domain.EstimateType,
) (domain.HourlyProfile, error) {
	if !estimate.IsValid() {
		return nil, fmt.Errorf("%w: estimate %q", domain.ErrInvalidInput, estimate)
	}

	day, periods, err := s.periodsForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	return domain.HourlyEnergy(periods, estimate, day), nil
}

// Compare joins the hourly forecast with real production for a date.
// Real production is the inverter's PV power integrated over each forecast
// hour.
func (s *ForecastService) Compare(ctx context.Context, date string) (*domain.ProductionComparison, error) {
	day, periods, err := s.periodsForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	nominal := domain.HourlyEnergy(periods, domain.EstimateNominal, day)
	if len(nominal) == 0 {
		return nil, fmt.Errorf("forecast for %s: %w", date, domain.ErrNoData)
	}
	worst := domain.HourlyEnergy(periods, domain.EstimateWorst, day)
	best := domain.HourlyEnergy(periods, domain.EstimateBest, day)

	actual, err := s.realProduction(ctx, day, nominal.Hours())
	if err != nil {
		return nil, err
	}

	c := domain.NewProductionComparison(date, nominal, worst, best, actual)
	return &c, nil
}

// ProductionChart compares a date and renders the comparison.
func (s *ForecastService) ProductionChart(ctx context.Context, date string) (*driving.ProductionChart, error) {
	if s.chart == nil {
		return nil, fmt.Errorf("chart renderer: %w", domain.ErrNotConfigured)
	}

	c, err := s.Compare(ctx, date)
	if err != nil {
		return nil, err
	}

	png, err := s.chart.RenderProduction(*c)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}

	return &driving.ProductionChart{Comparison: *c, PNG: png}, nil
}

// Prune removes forecast data older than the retention window.
// A retention of zero days keeps everything.
func (s *ForecastService) Prune(ctx context.Context) (int, error) {
	days := s.settings.Settings().Scheduler.RetentionDays
	if days <= 0 {
		return 0, nil
	}

	cutoff := s.now().AddDate(0, 0, -days)
	n, err := s.store.PruneBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune forecasts: %w", err)
	}

	logger.Debug("pruned %d forecast periods ending before %s", n, cutoff.Format(time.RFC3339))
	return n, nil
}

// History returns recent fetches, newest first.
func (s *ForecastService) History(ctx context.Context, limit int) ([]domain.ForecastFetch, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.store.ListFetches(ctx, limit)
}

// Today returns the current date in the site timezone.
func (s *ForecastService) Today() string {
	return s.now().In(s.settings.Settings().Site.Location()).Format(domain.DateLayout)
}

func (s *ForecastService) periodsForDate(
	ctx context.Context,
	date string,
) (time.Time, []domain.ForecastPeriod, error) {
	day, err := domain.ParseDate(date, s.settings.Settings().Site.Location())
	if err != nil {
		return time.Time{}, nil, err
	}

	from, to := domain.DayBounds(day)
	periods, err := s.store.PeriodsBetween(ctx, from, to)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("load forecast periods: %w", err)
	}
	return day, periods, nil
}

func (s *ForecastService) realProduction(
	ctx context.Context,
	day time.Time,
	hours []int,
) (domain.HourlyProfile, error) {
	actual := domain.HourlyProfile{}
	if s.inverter == nil {
		return actual, nil
	}

	start, end := domain.DayBounds(day)
	series, err := s.inverter.QueryHistory(ctx, []string{domain.VariablePV}, start, end)
	if err != nil {
		return nil, fmt.Errorf("query pv history: %w", err)
	}

	var samples []domain.PowerSample
	for _, ser := range series {
		if ser.Variable == domain.VariablePV {
			samples = ser.Samples
		}
	}

	for _, hour := range hours {
		from, to := domain.HourBounds(day, hour)
		actual[hour] = domain.Round3(domain.IntegrateKWh(samples, from, to))
	}
	return actual, nil
}
