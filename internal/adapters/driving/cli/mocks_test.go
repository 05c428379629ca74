package cli

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/custodia-labs/pvflow/internal/core/domain"
	"github.com/custodia-labs/pvflow/internal/core/ports/driving"
)

// mockPowerFlowService implements driving.PowerFlowService for testing.
type mockPowerFlowService struct {
	result *driving.PowerFlowResult
	err    error
	date   string
}

func (m *mockPowerFlowService) PowerFlow(_ context.Context, date string) (*driving.PowerFlowResult, error) {
	m.date = date
	return m.result, m.err
}

// mockForecastService implements driving.ForecastService for testing.
type mockForecastService struct {
	fetch      *domain.ForecastFetch
	hourly     domain.HourlyProfile
	comparison *domain.ProductionComparison
	history    []domain.ForecastFetch
	pruned     int
	err        error

	date     string
	estimate domain.EstimateType
	limit    int
}

func (m *mockForecastService) Refresh(_ context.Context) (*domain.ForecastFetch, error) {
	return m.fetch, m.err
}

func (m *mockForecastService) Hourly(
	_ context.Context,
	date string,
	estimate domain.EstimateType,
) (domain.HourlyProfile, error) {
	m.date = date
	m.estimate = estimate
	return m.hourly, m.err
}

func (m *mockForecastService) Compare(_ context.Context, date string) (*domain.ProductionComparison, error) {
	m.date = date
	return m.comparison, m.err
}

func (m *mockForecastService) ProductionChart(_ context.Context, _ string) (*driving.ProductionChart, error) {
	return nil, m.err
}

func (m *mockForecastService) Prune(_ context.Context) (int, error) {
	return m.pruned, m.err
}

func (m *mockForecastService) History(_ context.Context, limit int) ([]domain.ForecastFetch, error) {
	m.limit = limit
	return m.history, m.err
}

// mockReportService implements driving.ReportService for testing.
type mockReportService struct {
	content string
	err     error
	date    string
}

func (m *mockReportService) DailyReport(_ context.Context, date string, w io.Writer) error {
	m.date = date
	if m.err != nil {
		return m.err
	}
	_, err := io.WriteString(w, m.content)
	return err
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings domain.AppSettings
	err      error
	set      map[string]string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return m.err }

func (m *mockSettingsService) Set(key, value string) error {
	if m.err != nil {
		return m.err
	}
	if m.set == nil {
		m.set = make(map[string]string)
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"foxess.api_key", "solcast.site_id"}
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// mockScheduler implements driving.Scheduler and driving.ScheduleStatus.
type mockScheduler struct {
	tasks   []domain.ScheduledTask
	results []domain.TaskResult
	err     error

	mu      sync.Mutex
	started bool
	stopped bool
	taskID  string
	limit   int
}

func (m *mockScheduler) Start(ctx context.Context) error {
	m.mu.Lock()
	m.started = true
	m.mu.Unlock()
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockScheduler) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	return nil
}

func (m *mockScheduler) Tasks(_ context.Context) ([]domain.ScheduledTask, error) {
	return m.tasks, m.err
}

func (m *mockScheduler) History(_ context.Context, taskID string, limit int) ([]domain.TaskResult, error) {
	m.taskID = taskID
	m.limit = limit
	return m.results, m.err
}

// setupServices swaps in the given services and resets flag state.
func setupServices(t *testing.T, s *Services) {
	t.Helper()
	old := Services{
		Settings:       settingsService,
		PowerFlow:      powerFlowService,
		Forecast:       forecastService,
		Report:         reportService,
		Scheduler:      scheduler,
		ScheduleStatus: scheduleStatus,
		ConfigWatcher:  configWatcher,
		Close:          closeServices,
	}
	oldInit := initializer

	SetServices(s)
	initializer = nil
	resetFlags()

	t.Cleanup(func() {
		SetServices(&old)
		initializer = oldInit
		resetFlags()
	})
}

func resetFlags() {
	powerFlowJSON = false
	forecastJSON = false
	forecastEstimate = "nominal"
	forecastLimit = 10
	reportOutput = ""
	scheduleLimit = 10
	settingsSecret = false
	serveAddr = ""
	serveNoScheduler = false
	configDir = ""
	dataDir = ""
	ephemeral = false
}

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeContext(t, context.Background(), args...)
}

func executeContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}

func samplePowerFlowResult() *driving.PowerFlowResult {
	flow := domain.ComputePowerFlow(domain.EnergyTotals{
		PV:              10,
		FeedIn:          2,
		GridConsumption: 3,
		Discharge:       1,
		Charge:          2,
		Load:            12,
		Output:          9,
	})
	return &driving.PowerFlowResult{
		Date:    "2024-05-01",
		Flow:    flow,
		Diagram: domain.BuildSankey(flow, "2024-05-01"),
	}
}
