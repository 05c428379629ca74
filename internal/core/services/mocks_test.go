package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/custodia-labs/pvflow/internal/core/domain"
	"github.com/custodia-labs/pvflow/internal/core/ports/driven"
	"github.com/custodia-labs/pvflow/internal/core/ports/driving"
)

// staticSettings implements driven.SettingsSource.
type staticSettings struct {
	settings domain.AppSettings
}

func (s *staticSettings) Settings() domain.AppSettings {
	return s.settings
}

func utcSettings() *staticSettings {
	settings := domain.DefaultAppSettings()
	settings.Site.Timezone = "UTC"
	return &staticSettings{settings: settings}
}

// mockInverter implements driven.InverterHistory.
type mockInverter struct {
	series []domain.PowerSeries
	err    error

	mu        sync.Mutex
	calls     int
	variables []string
	begin     time.Time
	end       time.Time
}

func (m *mockInverter) QueryHistory(
	_ context.Context,
	variables []string,
	begin, end time.Time,
) ([]domain.PowerSeries, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.variables = variables
	m.begin = begin
	m.end = end
	if m.err != nil {
		return nil, m.err
	}

	var out []domain.PowerSeries
	for _, s := range m.series {
		for _, v := range variables {
			if s.Variable == v {
				out = append(out, s)
			}
		}
	}
	return out, nil
}

// mockProvider implements driven.ForecastProvider.
type mockProvider struct {
	fetch *domain.ForecastFetch
	err   error
	calls int
}

func (m *mockProvider) FetchForecast(_ context.Context) (*domain.ForecastFetch, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	copied := *m.fetch
	return &copied, nil
}

// mockChart implements driven.ChartRenderer.
type mockChart struct {
	rendered *domain.ProductionComparison
	err      error
}

func (m *mockChart) RenderProduction(c domain.ProductionComparison) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.rendered = &c
	return []byte("\x89PNG"), nil
}

// mockReportWriter implements driven.ReportWriter.
type mockReportWriter struct {
	report *driven.DailyReport
	err    error
}

func (m *mockReportWriter) WriteDailyReport(w io.Writer, report driven.DailyReport) error {
	if m.err != nil {
		return m.err
	}
	m.report = &report
	_, err := io.WriteString(w, "%PDF")
	return err
}

// mockForecastService implements driving.ForecastService.
type mockForecastService struct {
	mu           sync.Mutex
	refreshCalls int
	pruneCalls   int
	refreshErr   error
	chart        *driving.ProductionChart
	chartErr     error
}

func (m *mockForecastService) Refresh(_ context.Context) (*domain.ForecastFetch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshCalls++
	if m.refreshErr != nil {
		return nil, m.refreshErr
	}
	return &domain.ForecastFetch{ID: "f", Periods: make([]domain.ForecastPeriod, 48)}, nil
}

func (m *mockForecastService) Hourly(_ context.Context, _ string, _ domain.EstimateType) (domain.HourlyProfile, error) {
	return domain.HourlyProfile{}, nil
}

func (m *mockForecastService) Compare(_ context.Context, _ string) (*domain.ProductionComparison, error) {
	return nil, errors.New("not implemented")
}

func (m *mockForecastService) ProductionChart(_ context.Context, _ string) (*driving.ProductionChart, error) {
	if m.chartErr != nil {
		return nil, m.chartErr
	}
	return m.chart, nil
}

func (m *mockForecastService) Prune(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneCalls++
	return 3, nil
}

func (m *mockForecastService) History(_ context.Context, _ int) ([]domain.ForecastFetch, error) {
	return nil, nil
}

func (m *mockForecastService) counts() (refresh, prune int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshCalls, m.pruneCalls
}

// mockPowerFlowService implements driving.PowerFlowService.
type mockPowerFlowService struct {
	result *driving.PowerFlowResult
	err    error
}

func (m *mockPowerFlowService) PowerFlow(_ context.Context, _ string) (*driving.PowerFlowResult, error) {
	return m.result, m.err
}

// constantSeries returns readings at hh:05 and hh:10 UTC on 2024-05-01,
// which integrate (with the start-of-hour sample) to kw/6 kWh.
func constantSeries(variable string, hour int, kw float64) domain.PowerSeries {
	return domain.PowerSeries{
		Variable: variable,
		Name:     variable,
		Unit:     "kW",
		Samples: []domain.PowerSample{
			{Time: time.Date(2024, 5, 1, hour, 5, 0, 0, time.UTC), Value: kw},
			{Time: time.Date(2024, 5, 1, hour, 10, 0, 0, time.UTC), Value: kw},
		},
	}
}
