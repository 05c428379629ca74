package services

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/pvflow/internal/core/domain"
	"github.com/custodia-labs/pvflow/internal/core/ports/driven"
	"github.com/custodia-labs/pvflow/internal/core/ports/driving"
)

// Ensure SettingsService implements the interfaces.
var (
	_ driving.SettingsService = (*SettingsService)(nil)
	_ driven.SettingsSource   = (*SettingsService)(nil)
)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyFoxESSAPIKey     = "foxess.api_key"
	KeyFoxESSSerial     = "foxess.serial_number"
	KeyFoxESSBaseURL    = "foxess.base_url"
	KeyFoxESSTimezone   = "foxess.timezone"
	KeySolcastAPIKey    = "solcast.api_key"
	KeySolcastSiteID    = "solcast.site_id"
	KeySolcastBaseURL   = "solcast.base_url"
	KeySiteTimezone     = "site.timezone"
	KeyServerAddr       = "server.addr"
	KeySchedulerEnabled = "scheduler.enabled"
	KeyRefreshMinutes   = "scheduler.forecast_refresh_minutes"
	KeyRetentionDays    = "scheduler.forecast_retention_days"
)

// legacyEnv maps the container environment variables of earlier deployments
// onto config keys.
var legacyEnv = map[string]string{
	KeyFoxESSAPIKey:  "API_KEY",
	KeyFoxESSSerial:  "SN",
	KeySolcastAPIKey: "SOLCAST_API_KEY",
	KeySolcastSiteID: "SOLCAST_ID",
}

// secretKeys are masked when displayed.
var secretKeys = []string{KeyFoxESSAPIKey, KeySolcastAPIKey}

// IsSecretKey reports whether the key holds a credential.
func IsSecretKey(key string) bool {
	return slices.Contains(secretKeys, key)
}

// EnvName returns the environment variable that overrides a config key,
// e.g. "foxess.api_key" -> "PVFLOW_FOXESS_API_KEY".
func EnvName(key string) string {
	return "PVFLOW_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// SettingsService manages application settings.
// Values resolve in order: PVFLOW_* environment, legacy environment
// variables, the config store, built-in defaults.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
// If getenv is nil, os.Getenv is used.
func NewSettingsService(configStore driven.ConfigStore, getenv func(string) string) *SettingsService {
	if getenv == nil {
		getenv = os.Getenv
	}
	return &SettingsService{
		configStore: configStore,
		getenv:      getenv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		FoxESS: domain.FoxESSSettings{
			APIKey:       s.getString(KeyFoxESSAPIKey, ""),
			SerialNumber: s.getString(KeyFoxESSSerial, ""),
			BaseURL:      s.getString(KeyFoxESSBaseURL, defaults.FoxESS.BaseURL),
			Timezone:     s.getString(KeyFoxESSTimezone, defaults.FoxESS.Timezone),
		},
		Solcast: domain.SolcastSettings{
			APIKey:  s.getString(KeySolcastAPIKey, ""),
			SiteID:  s.getString(KeySolcastSiteID, ""),
			BaseURL: s.getString(KeySolcastBaseURL, defaults.Solcast.BaseURL),
		},
		Site: domain.SiteSettings{
			Timezone: s.getString(KeySiteTimezone, defaults.Site.Timezone),
		},
		Server: domain.ServerSettings{
			Addr: s.getString(KeyServerAddr, defaults.Server.Addr),
		},
		Scheduler: domain.SchedulerSettings{
			Enabled: s.getBool(KeySchedulerEnabled, defaults.Scheduler.Enabled),
			RefreshInterval: time.Duration(
				s.getInt(KeyRefreshMinutes, int(defaults.Scheduler.RefreshInterval/time.Minute)),
			) * time.Minute,
			RetentionDays: s.getInt(KeyRetentionDays, defaults.Scheduler.RetentionDays),
		},
	}

	return settings, nil
}

// Settings returns the current settings, falling back to defaults.
func (s *SettingsService) Settings() domain.AppSettings {
	settings, err := s.Get()
	if err != nil {
		return domain.DefaultAppSettings()
	}
	return *settings
}

// Save persists application settings.
// Empty credentials are not written so a stored key is never erased by a
// settings object that was loaded without it.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return domain.ErrInvalidInput
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{KeyFoxESSAPIKey, settings.FoxESS.APIKey},
		{KeyFoxESSSerial, settings.FoxESS.SerialNumber},
		{KeyFoxESSBaseURL, settings.FoxESS.BaseURL},
		{KeyFoxESSTimezone, settings.FoxESS.Timezone},
		{KeySolcastAPIKey, settings.Solcast.APIKey},
		{KeySolcastSiteID, settings.Solcast.SiteID},
		{KeySolcastBaseURL, settings.Solcast.BaseURL},
		{KeySiteTimezone, settings.Site.Timezone},
		{KeyServerAddr, settings.Server.Addr},
		{KeySchedulerEnabled, settings.Scheduler.Enabled},
		{KeyRefreshMinutes, int(settings.Scheduler.RefreshInterval / time.Minute)},
		{KeyRetentionDays, settings.Scheduler.RetentionDays},
	}

	for _, v := range values {
		if str, ok := v.value.(string); ok && str == "" && IsSecretKey(v.key) {
			continue
		}
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return nil
}

// Set updates a single setting by key, converting the value to the key's type.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	var typed any
	switch key {
	case KeySchedulerEnabled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false", domain.ErrInvalidInput, key)
		}
		typed = b
	case KeyRefreshMinutes, KeyRetentionDays:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s expects a non-negative integer", domain.ErrInvalidInput, key)
		}
		typed = n
	case KeySiteTimezone, KeyFoxESSTimezone:
		if _, err := time.LoadLocation(value); err != nil || value == "" {
			return fmt.Errorf("%w: unknown timezone %q", domain.ErrInvalidInput, value)
		}
		typed = value
	default:
		if !slices.Contains(s.Keys(), key) {
			return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
		}
		typed = value
	}

	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists the settable keys.
func (s *SettingsService) Keys() []string {
	return []string{
		KeyFoxESSAPIKey,
		KeyFoxESSSerial,
		KeyFoxESSBaseURL,
		KeyFoxESSTimezone,
		KeySolcastAPIKey,
		KeySolcastSiteID,
		KeySolcastBaseURL,
		KeySiteTimezone,
		KeyServerAddr,
		KeySchedulerEnabled,
		KeyRefreshMinutes,
		KeyRetentionDays,
	}
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) fromEnv(key string) (string, bool) {
	if v := s.getenv(EnvName(key)); v != "" {
		return v, true
	}
	if name, ok := legacyEnv[key]; ok {
		if v := s.getenv(name); v != "" {
			return v, true
		}
	}
	return "", false
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if v, ok := s.fromEnv(key); ok {
		return v
	}
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if v, ok := s.fromEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if v, ok := s.fromEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}
