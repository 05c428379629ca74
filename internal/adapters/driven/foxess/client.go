package foxess

import (
	"bytes"
	"context"
	"crypto/md5" //nolint:gosec // G501: MD5 is the signature scheme mandated by FoxESS.
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/pvflow/internal/core/domain"
	"github.com/custodia-labs/pvflow/internal/core/ports/driven"
	"github.com/custodia-labs/pvflow/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// userAgent mimics a browser; the cloud rejects unknown clients.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36"
)

// Client sends signed requests to the FoxESS open API.
// Credentials are read from settings on every request so a reloaded
// config file takes effect without a restart.
type Client struct {
	settings    driven.SettingsSource
	httpClient  *http.Client
	rateLimiter *RateLimiter
	now         func() time.Time
}

// NewClient creates a FoxESS client.
func NewClient(settings driven.SettingsSource) *Client {
	return &Client{
		settings:    settings,
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		rateLimiter: NewRateLimiter(),
		now:         time.Now,
	}
}

// envelope is the common FoxESS response wrapper.
type envelope struct {
	Errno  int             `json:"errno"`
	Msg    string          `json:"msg"`
	Result json.RawMessage `json:"result"`
}

// Signature computes the request signature for a path, key and
// millisecond timestamp. The separators are the four literal characters
// backslash, r, backslash, n.
func Signature(path, token string, timestamp int64) string {
	sum := md5.Sum([]byte(fmt.Sprintf(`%s\r\n%s\r\n%d`, path, token, timestamp))) //nolint:gosec // see import
	return hex.EncodeToString(sum[:])
}

// post sends a signed JSON request and decodes the envelope result into out.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	cfg := c.settings.Settings().FoxESS
	if !cfg.IsConfigured() {
		return fmt.Errorf("foxess api key and serial number: %w", domain.ErrNotConfigured)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	url := strings.TrimRight(cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	timestamp := c.now().UnixMilli()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("token", cfg.APIKey)
	req.Header.Set("timestamp", strconv.FormatInt(timestamp, 10))
	req.Header.Set("signature", Signature(path, cfg.APIKey, timestamp))
	req.Header.Set("lang", "en")
	req.Header.Set("timezone", cfg.Timezone)
	req.Header.Set("User-Agent", userAgent)

	logger.Debug("foxess: POST %s", path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if err := c.rateLimiter.CheckRateLimit(resp); err != nil {
		return err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", domain.ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrUpstream, err)
	}

	switch {
	case env.Errno == ErrnoTooFrequent:
		return &RateLimitError{}
	case env.Errno != 0:
		return &APIError{StatusCode: resp.StatusCode, Errno: env.Errno, Message: env.Msg}
	}

	if out == nil || len(env.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("%w: decode result: %v", domain.ErrUpstream, err)
	}
	return nil
}
