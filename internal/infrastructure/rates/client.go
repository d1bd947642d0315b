package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chemsearch/backend/internal/domain"
	"github.com/chemsearch/backend/internal/observability"
	"golang.org/x/time/rate"
)

// ClientConfig configures the exchange rate API client
type ClientConfig struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	MaxRetries        int
}

// Client handles communication with a Frankfurter-compatible exchange rate API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	maxRetries  int
	backoff     func(attempt int) time.Duration
	debug       bool
	logger      *observability.Logger
}

// NewClient creates a new exchange rate API client
func NewClient(cfg ClientConfig, logger *observability.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = observability.Nop()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		maxRetries:  cfg.MaxRetries,
		backoff:     exponentialBackoff,
		logger:      logger.WithComponent("rates"),
	}
}

// SetDebug toggles per-request debug logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "chemsearch/1.0")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRateAPIFailure, err)
	}

	return resp, nil
}

// FetchRate returns the latest rate for converting one unit of from into to
func (c *Client) FetchRate(ctx context.Context, from, to string) (float64, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	params := url.Values{}
	params.Add("from", from)
	params.Add("to", to)
	reqURL := fmt.Sprintf("%s/latest?%s", c.baseURL, params.Encode())

	if c.debug {
		c.logger.Debug().Str("from", from).Str("to", to).Msg("fetching exchange rate")
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return 0, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			c.logger.Warn().Err(err).Int("attempt", attempt).Msg("exchange rate request failed")
			lastErr = err
			if !c.sleep(ctx, attempt) {
				return 0, ctx.Err()
			}
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusUnprocessableEntity:
			return 0, fmt.Errorf("%w: %s/%s", domain.ErrUnknownCurrency, from, to)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			c.logger.Warn().Int("status", resp.StatusCode).Int("attempt", attempt).Msg("exchange rate API error, retrying")
			lastErr = fmt.Errorf("%w: status %d", domain.ErrRateAPIFailure, resp.StatusCode)
			if !c.sleep(ctx, attempt) {
				return 0, ctx.Err()
			}
			continue
		default:
			return 0, fmt.Errorf("%w: status %d, body: %s", domain.ErrRateAPIFailure, resp.StatusCode, string(body))
		}

		var latest LatestResponse
		if err := json.Unmarshal(body, &latest); err != nil {
			return 0, fmt.Errorf("%w: failed to decode response: %v", domain.ErrRateAPIFailure, err)
		}

		value, err := MapToRate(&latest, to)
		if err != nil {
			return 0, err
		}

		if c.debug {
			c.logger.Debug().Str("from", from).Str("to", to).Float64("rate", value).Str("date", latest.Date).Msg("exchange rate fetched")
		}
		return value, nil
	}

	c.logger.Error().Err(lastErr).Str("from", from).Str("to", to).Msg("all exchange rate retries failed")
	return 0, lastErr
}

// sleep waits out the backoff for attempt, unless ctx ends first
func (c *Client) sleep(ctx context.Context, attempt int) bool {
	if attempt >= c.maxRetries {
		return true
	}
	timer := time.NewTimer(c.backoff(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
