package solcast

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/pvflow/internal/core/domain"
	"github.com/custodia-labs/pvflow/internal/core/ports/driven"
	"github.com/custodia-labs/pvflow/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.ForecastProvider = (*Client)(nil)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MinInterval spaces consecutive requests; the hobbyist plan allows a
	// handful of calls per day.
	MinInterval = 10 * time.Second

	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"
)

// Client fetches rooftop site forecasts.
type Client struct {
	settings  driven.SettingsSource
	transport http.RoundTripper
	bucket    *rate.Limiter
	now       func() time.Time
}

// NewClient creates a Solcast client.
func NewClient(settings driven.SettingsSource) *Client {
	return &Client{
		settings:  settings,
		transport: http.DefaultTransport,
		bucket:    rate.NewLimiter(rate.Every(MinInterval), 1),
		now:       time.Now,
	}
}

type forecastResponse struct {
	Forecasts []forecastEntry `json:"forecasts"`
}

type forecastEntry struct {
	PVEstimate   float64 `json:"pv_estimate"`
	PVEstimate10 float64 `json:"pv_estimate10"`
	PVEstimate90 float64 `json:"pv_estimate90"`
	PeriodEnd    string  `json:"period_end"`
	Period       string  `json:"period"`
}

// FetchForecast retrieves the current forecast of the configured site.
func (c *Client) FetchForecast(ctx context.Context) (*domain.ForecastFetch, error) {
	cfg := c.settings.Settings().Solcast
	if !cfg.IsConfigured() {
		return nil, fmt.Errorf("solcast api key and site id: %w", domain.ErrNotConfigured)
	}

	if err := c.bucket.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/rooftop_sites/%s/forecasts?format=json",
		strings.TrimRight(cfg.BaseURL, "/"), url.PathEscape(cfg.SiteID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := &http.Client{
		Timeout: DefaultTimeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey}),
			Base:   c.transport,
		},
	}

	logger.Debug("solcast: GET forecasts for site %s", cfg.SiteID)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrUpstream, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{RetryAt: c.retryAt(resp.Header.Get(HeaderRetryAfter))}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			URL:        endpoint,
		}
	}

	var parsed forecastResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode forecast: %v", domain.ErrUpstream, err)
	}

	fetch := &domain.ForecastFetch{
		SiteID:    cfg.SiteID,
		FetchedAt: c.now(),
		Periods:   make([]domain.ForecastPeriod, 0, len(parsed.Forecasts)),
	}
	for _, f := range parsed.Forecasts {
		p, err := toPeriod(f)
		if err != nil {
			logger.Debug("solcast: skipping forecast period: %v", err)
			continue
		}
		fetch.Periods = append(fetch.Periods, p)
	}
	return fetch, nil
}

func toPeriod(f forecastEntry) (domain.ForecastPeriod, error) {
	end, err := time.Parse(time.RFC3339, f.PeriodEnd)
	if err != nil {
		return domain.ForecastPeriod{}, fmt.Errorf("period_end %q: %w", f.PeriodEnd, err)
	}
	period, err := parsePeriod(f.Period)
	if err != nil {
		return domain.ForecastPeriod{}, err
	}
	if period == 0 {
		period = domain.DefaultForecastPeriod
	}
	return domain.ForecastPeriod{
		PeriodEnd: end.UTC(),
		Period:    period,
		Nominal:   f.PVEstimate,
		Worst:     f.PVEstimate10,
		Best:      f.PVEstimate90,
	}, nil
}

func (c *Client) retryAt(header string) time.Time {
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return time.Time{}
	}
	return c.now().Add(time.Duration(seconds) * time.Second)
}
