package ratesource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
	"github.com/SscSPs/currency_exchange_app/internal/core/ports/providers"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// DefaultExchangeRateHostURL is the public exchangerate.host endpoint.
const DefaultExchangeRateHostURL = "https://api.exchangerate.host"

// ExchangeRateHostClient implements providers.RateSource against exchangerate.host.
type ExchangeRateHostClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// convertResponse is the subset of the /convert payload the client reads.
type convertResponse struct {
	Success *bool            `json:"success"`
	Result  *decimal.Decimal `json:"result"`
	Error   *struct {
		Code int    `json:"code"`
		Type string `json:"type"`
		Info string `json:"info"`
	} `json:"error"`
}

// ClientOption configures an ExchangeRateHostClient.
type ClientOption func(*ExchangeRateHostClient)

// WithBaseURL points the client at a different host, e.g. a test server.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *ExchangeRateHostClient) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *ExchangeRateHostClient) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithMaxRequestsPerSecond throttles outbound calls. Zero or less disables throttling.
func WithMaxRequestsPerSecond(rps float64) ClientOption {
	return func(c *ExchangeRateHostClient) {
		if rps > 0 {
			burst := int(rps)
			if burst < 1 {
				burst = 1
			}
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *ExchangeRateHostClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewExchangeRateHostClient creates a new exchangerate.host client
func NewExchangeRateHostClient(apiKey string, logger *slog.Logger, options ...ClientOption) *ExchangeRateHostClient {
	if logger == nil {
		logger = slog.Default()
	}
	c := &ExchangeRateHostClient{
		apiKey:  apiKey,
		baseURL: DefaultExchangeRateHostURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger.With("component", "exchangerate_host"),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

var _ providers.RateSource = (*ExchangeRateHostClient)(nil)

// GetRate fetches the spot rate for one unit of base in target.
func (c *ExchangeRateHostClient) GetRate(ctx context.Context, base, target string) (decimal.Decimal, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return decimal.Decimal{}, apperrors.NewSourceUnavailableError("rate source throttle wait aborted", err)
		}
	}

	query := url.Values{}
	query.Set("access_key", c.apiKey)
	query.Set("from", base)
	query.Set("to", target)
	query.Set("amount", "1")
	endpoint := c.baseURL + "/convert?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "Rate source request failed", "base", base, "target", target, "error", err)
		return decimal.Decimal{}, apperrors.NewSourceUnavailableError("rate source request failed", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.WarnContext(ctx, "Rate source returned non-success status",
			"base", base, "target", target, "status", resp.StatusCode, "body", string(body))
		return decimal.Decimal{}, apperrors.NewSourceUnavailableError(
			fmt.Sprintf("rate source returned status %d", resp.StatusCode), nil)
	}

	var payload convertResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.ErrorContext(ctx, "Failed to decode rate source response", "base", base, "target", target, "error", err)
		return decimal.Decimal{}, apperrors.NewSourceUnavailableError("failed to decode rate source response", err)
	}

	if payload.Success != nil && !*payload.Success {
		info := "success=false"
		if payload.Error != nil {
			info = fmt.Sprintf("%s (%d): %s", payload.Error.Type, payload.Error.Code, payload.Error.Info)
		}
		c.logger.WarnContext(ctx, "Rate source reported failure", "base", base, "target", target, "info", info)
		return decimal.Decimal{}, apperrors.NewSourceUnavailableError("rate source returned no result: "+info, nil)
	}
	if payload.Result == nil {
		c.logger.WarnContext(ctx, "Rate source returned no result", "base", base, "target", target)
		return decimal.Decimal{}, apperrors.NewSourceUnavailableError("rate source returned no result", nil)
	}

	c.logger.DebugContext(ctx, "Fetched rate", "base", base, "target", target,
		"rate", payload.Result.String(), "elapsed", time.Since(start))
	return *payload.Result, nil
}
