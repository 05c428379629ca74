package mcp

import (
	"context"

	"github.com/custodia-labs/pvflow/internal/core/domain"
	"github.com/custodia-labs/pvflow/internal/core/ports/driving"
)

const testVersion = "1.2.3-test"

// mockPowerFlowService is a mock implementation of driving.PowerFlowService.
type mockPowerFlowService struct {
	result *driving.PowerFlowResult
	err    error
}

func (m *mockPowerFlowService) PowerFlow(_ context.Context, _ string) (*driving.PowerFlowResult, error) {
	return m.result, m.err
}

// mockForecastService is a mock implementation of driving.ForecastService.
type mockForecastService struct {
	comparison *domain.ProductionComparison
	hourly     domain.HourlyProfile
	fetch      *domain.ForecastFetch
	history    []domain.ForecastFetch
	err        error

	hourlyDate     string
	hourlyEstimate domain.EstimateType
	historyLimit   int
}

func (m *mockForecastService) Refresh(_ context.Context) (*domain.ForecastFetch, error) {
	return m.fetch, m.err
}

func (m *mockForecastService) Hourly(
	_ context.Context,
	date string,
	estimate domain.EstimateType,
) (domain.HourlyProfile, error) {
	m.hourlyDate = date
	m.hourlyEstimate = estimate
	return m.hourly, m.err
}

func (m *mockForecastService) Compare(_ context.Context, _ string) (*domain.ProductionComparison, error) {
	return m.comparison, m.err
}

func (m *mockForecastService) ProductionChart(_ context.Context, _ string) (*driving.ProductionChart, error) {
	return nil, m.err
}

func (m *mockForecastService) Prune(_ context.Context) (int, error) {
	return 0, m.err
}

func (m *mockForecastService) History(_ context.Context, limit int) ([]domain.ForecastFetch, error) {
	m.historyLimit = limit
	return m.history, m.err
}
