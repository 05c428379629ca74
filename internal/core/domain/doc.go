// Package domain defines the core business entities for pvflow.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - PowerSample / PowerSeries: inverter power history
//   - EnergyTotals / PowerFlow: integrated and balanced daily energy
//   - SankeyDiagram: renderer-neutral power flow layout
//   - ForecastPeriod / ForecastFetch: Solcast production forecasts
//   - ProductionComparison: hourly forecast vs. real production
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
