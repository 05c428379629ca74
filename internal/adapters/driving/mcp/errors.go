// Package mcp provides an MCP (Model Context Protocol) server adapter for pvflow.
// It lets AI assistants query daily power flows and production forecasts.
package mcp

import "errors"

// ErrMissingPowerFlowService is returned when the power flow service is not provided.
var ErrMissingPowerFlowService = errors.New("mcp: power flow service is required")

// ErrForecastUnavailable is returned by forecast tools when no forecast service is wired.
var ErrForecastUnavailable = errors.New("mcp: forecast service is not configured")
