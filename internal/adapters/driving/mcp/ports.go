package mcp

import (
	"github.com/custodia-labs/pvflow/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// PowerFlow computes daily power flows.
	PowerFlow driving.PowerFlowService

	// Forecast serves production forecasts.
	Forecast driving.ForecastService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.PowerFlow == nil {
		return ErrMissingPowerFlowService
	}
	// Forecast is optional; its tools report ErrForecastUnavailable
	return nil
}
