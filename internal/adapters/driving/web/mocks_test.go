package web

import (
	"context"

	"github.com/custodia-labs/pvflow/internal/core/domain"
	"github.com/custodia-labs/pvflow/internal/core/ports/driving"
)

// mockPowerFlowService implements driving.PowerFlowService.
type mockPowerFlowService struct {
	result *driving.PowerFlowResult
	err    error
	date   string
}

func (m *mockPowerFlowService) PowerFlow(_ context.Context, date string) (*driving.PowerFlowResult, error) {
	m.date = date
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// mockForecastService implements driving.ForecastService.
type mockForecastService struct {
	chart      *driving.ProductionChart
	chartErr   error
	chartDate  string
	fetch      *domain.ForecastFetch
	refreshErr error
	refreshes  int
}

func (m *mockForecastService) Refresh(_ context.Context) (*domain.ForecastFetch, error) {
	m.refreshes++
	if m.refreshErr != nil {
		return nil, m.refreshErr
	}
	return m.fetch, nil
}

func (m *mockForecastService) Hourly(_ context.Context, _ string, _ domain.EstimateType) (domain.HourlyProfile, error) {
	return domain.HourlyProfile{}, nil
}

func (m *mockForecastService) Compare(_ context.Context, _ string) (*domain.ProductionComparison, error) {
	return &domain.ProductionComparison{}, nil
}

func (m *mockForecastService) ProductionChart(_ context.Context, date string) (*driving.ProductionChart, error) {
	m.chartDate = date
	if m.chartErr != nil {
		return nil, m.chartErr
	}
	return m.chart, nil
}

func (m *mockForecastService) Prune(_ context.Context) (int, error) {
	return 0, nil
}

func (m *mockForecastService) History(_ context.Context, _ int) ([]domain.ForecastFetch, error) {
	return nil, nil
}

// mockSettingsService implements driving.SettingsService.
type mockSettingsService struct {
	settings domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return nil }

func (m *mockSettingsService) Set(_, _ string) error { return nil }

func (m *mockSettingsService) Keys() []string { return nil }

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func samplePowerFlowResult(date string) *driving.PowerFlowResult {
	flow := domain.ComputePowerFlow(domain.EnergyTotals{
		PV:              10,
		FeedIn:          2,
		GridConsumption: 3,
		Discharge:       1,
		Charge:          2,
		Load:            12,
		Output:          9,
	})
	return &driving.PowerFlowResult{
		Date:    date,
		Flow:    flow,
		Diagram: domain.BuildSankey(flow, date),
	}
}
