// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - InverterHistory: Power history from the inverter cloud (FoxESS)
//   - ForecastProvider: Production forecasts (Solcast)
//   - ForecastStore: Forecast persistence
//   - SchedulerStore: Background task state persistence
//   - ConfigStore: Application configuration
//   - SettingsSource: Current settings for adapters that follow reloads
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ChartRenderer: Without it, production charts are unavailable.
//   - ReportWriter: Without it, PDF reports are unavailable.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
