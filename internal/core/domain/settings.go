package domain

import (
	"fmt"
	"time"
)

// Default endpoints and site parameters.
const (
	DefaultFoxESSBaseURL  = "https://www.foxesscloud.com"
	DefaultSolcastBaseURL = "https://api.solcast.com.au"
	DefaultTimezone       = "Europe/Warsaw"
	DefaultServerAddr     = "127.0.0.1:5000"
	DefaultRetentionDays  = 30
)

// FoxESSSettings configures access to the FoxESS Cloud open API.
type FoxESSSettings struct {
	APIKey       string
	SerialNumber string
	BaseURL      string

	// Timezone is sent in the request headers; FoxESS formats sample
	// timestamps in it.
	Timezone string
}

// IsConfigured returns true if requests can be signed and addressed.
func (s FoxESSSettings) IsConfigured() bool {
	return s.APIKey != "" && s.SerialNumber != ""
}

// SolcastSettings configures access to the Solcast rooftop site API.
type SolcastSettings struct {
	APIKey  string
	SiteID  string
	BaseURL string
}

// IsConfigured returns true if a forecast can be requested.
func (s SolcastSettings) IsConfigured() bool {
	return s.APIKey != "" && s.SiteID != ""
}

// SiteSettings describes the installation.
type SiteSettings struct {
	// Timezone is the IANA zone used for calendar days.
	Timezone string
}

// Location loads the site timezone, falling back to UTC.
func (s SiteSettings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil || s.Timezone == "" {
		return time.UTC
	}
	return loc
}

// ServerSettings configures the HTTP server.
type ServerSettings struct {
	Addr string
}

// SchedulerSettings configures background forecast maintenance.
type SchedulerSettings struct {
	Enabled         bool
	RefreshInterval time.Duration
	RetentionDays   int
}

// Config converts the settings to a scheduler configuration.
// A zero refresh interval disables automatic forecast refreshes.
func (s SchedulerSettings) Config() SchedulerConfig {
	cfg := DefaultSchedulerConfig()
	cfg.Enabled = s.Enabled
	if s.RefreshInterval > 0 {
		cfg.TaskConfigs[TaskIDForecastRefresh] = TaskConfig{Enabled: true, Interval: s.RefreshInterval}
	} else {
		refresh := cfg.TaskConfigs[TaskIDForecastRefresh]
		refresh.Enabled = false
		cfg.TaskConfigs[TaskIDForecastRefresh] = refresh
	}
	return cfg
}

// AppSettings holds all user-configurable settings.
type AppSettings struct {
	FoxESS    FoxESSSettings
	Solcast   SolcastSettings
	Site      SiteSettings
	Server    ServerSettings
	Scheduler SchedulerSettings
}

// DefaultAppSettings returns settings with defaults and no credentials.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		FoxESS: FoxESSSettings{
			BaseURL:  DefaultFoxESSBaseURL,
			Timezone: DefaultTimezone,
		},
		Solcast: SolcastSettings{
			BaseURL: DefaultSolcastBaseURL,
		},
		Site: SiteSettings{
			Timezone: DefaultTimezone,
		},
		Server: ServerSettings{
			Addr: DefaultServerAddr,
		},
		Scheduler: SchedulerSettings{
			Enabled:         true,
			RefreshInterval: 3 * time.Hour,
			RetentionDays:   DefaultRetentionDays,
		},
	}
}

// Validate checks values that would break the services at runtime.
func (s *AppSettings) Validate() error {
	if _, err := time.LoadLocation(s.Site.Timezone); err != nil {
		return fmt.Errorf("%w: site timezone %q", ErrInvalidInput, s.Site.Timezone)
	}
	if s.Scheduler.RefreshInterval < 0 {
		return fmt.Errorf("%w: negative refresh interval", ErrInvalidInput)
	}
	if s.Scheduler.RetentionDays < 0 {
		return fmt.Errorf("%w: negative retention", ErrInvalidInput)
	}
	return nil
}
