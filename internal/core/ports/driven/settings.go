package driven

import "github.com/custodia-labs/pvflow/internal/core/domain"

// SettingsSource supplies the current settings. Adapters call it per request
// so configuration reloads take effect without rebuilding them.
type SettingsSource interface {
	Settings() domain.AppSettings
}
