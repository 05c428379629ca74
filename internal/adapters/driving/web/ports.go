package web

import (
	"errors"

	"github.com/custodia-labs/pvflow/internal/core/ports/driving"
)

// ErrMissingPowerFlowService is returned when the power flow service is not provided.
var ErrMissingPowerFlowService = errors.New("web: power flow service is required")

// Ports aggregates the driving ports used by the web server.
type Ports struct {
	// PowerFlow computes daily power flows.
	PowerFlow driving.PowerFlowService

	// Forecast serves forecast charts and refreshes. Optional; the forecast
	// endpoints answer 503 without it.
	Forecast driving.ForecastService

	// Settings resolves the site timezone for the default date. Optional;
	// UTC is used without it.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.PowerFlow == nil {
		return ErrMissingPowerFlowService
	}
	return nil
}
