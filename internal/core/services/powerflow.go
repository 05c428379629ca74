package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/custodia-labs/pvflow/internal/core/domain"
	"github.com/custodia-labs/pvflow/internal/core/ports/driven"
	"github.com/custodia-labs/pvflow/internal/core/ports/driving"
	"github.com/custodia-labs/pvflow/internal/logger"
)

// Ensure PowerFlowService implements the interface.
var _ driving.PowerFlowService = (*PowerFlowService)(nil)

// PowerFlowService computes daily power flows from inverter history.
type PowerFlowService struct {
	inverter driven.InverterHistory
	settings driven.SettingsSource
}

// NewPowerFlowService creates a new power flow service.
func NewPowerFlowService(inverter driven.InverterHistory, settings driven.SettingsSource) *PowerFlowService {
	return &PowerFlowService{
		inverter: inverter,
		settings: settings,
	}
}

// PowerFlow computes the flow for a date in the site timezone.
func (s *PowerFlowService) PowerFlow(ctx context.Context, date string) (*driving.PowerFlowResult, error) {
	if s.inverter == nil {
		return nil, fmt.Errorf("inverter history: %w", domain.ErrNotConfigured)
	}

	loc := s.settings.Settings().Site.Location()
	day, err := domain.ParseDate(date, loc)
	if err != nil {
		return nil, err
	}
	start, end := domain.DayBounds(day)

	logger.Section("Power Flow")
	logger.Debug("querying inverter history for %s (%s - %s)", date, start.Format(timeLayout), end.Format(timeLayout))

	series, err := s.inverter.QueryHistory(ctx, domain.PowerFlowVariables(), start, end)
	if err != nil {
		return nil, fmt.Errorf("query inverter history: %w", err)
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("inverter history for %s: %w", date, domain.ErrNoData)
	}
	if missing := missingVariables(series); len(missing) > 0 {
		return nil, fmt.Errorf("inverter history for %s lacks %s: %w",
			date, strings.Join(missing, ", "), domain.ErrNoData)
	}

	var totals domain.EnergyTotals
	for _, ser := range series {
		samples := domain.WithHourStart(ser.Samples)
		kwh := domain.Round3(domain.IntegrateKWh(samples, start, end))
		totals.Set(ser.Variable, kwh)
		logger.Debug("%s (%s): %d samples, %.3f kWh", ser.Variable, ser.Name, len(ser.Samples), kwh)
	}

	flow := domain.ComputePowerFlow(totals)
	logger.Debug("pv waste %.3f kWh, grid waste %.3f kWh, delta load %.3f kWh",
		flow.PVWaste, flow.GridWaste, flow.DeltaLoad)

	return &driving.PowerFlowResult{
		Date:    date,
		Flow:    flow,
		Diagram: domain.BuildSankey(flow, date),
	}, nil
}

const timeLayout = "2006-01-02 15:04:05 -0700"

// missingVariables returns the power flow variables absent from series.
// Every total feeds the balance, so an absent variable cannot default to zero.
func missingVariables(series []domain.PowerSeries) []string {
	var missing []string
	for _, v := range domain.PowerFlowVariables() {
		if !slices.ContainsFunc(series, func(s domain.PowerSeries) bool { return s.Variable == v }) {
			missing = append(missing, v)
		}
	}
	return missing
}
