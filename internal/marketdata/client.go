package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds a single upstream request.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default request rate (requests per second).
	DefaultRateLimit = 10

	// defaultHistoryWindow is the price window used when no explicit
	// start date is supplied.
	defaultHistoryWindow = 365 * 24 * time.Hour

	dateLayout = "20060102"
)

// Client is an HTTP implementation of Provider against a quote/report API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
	now        func() time.Time
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets the API base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates a market-data API client.
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get performs a GET request and decodes the JSON body into result.
func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	if c.apiKey != "" {
		params.Set("api_token", c.apiKey)
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	if c.logger != nil {
		c.logger.Debug().
			Str("url", c.baseURL+path).
			Msg("market data request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("upstream returned %d for %s: %s", resp.StatusCode, path, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// FetchInfo implements Provider.
func (c *Client) FetchInfo(ctx context.Context, symbol, market string) (map[string]any, error) {
	std := StandardizeSymbol(symbol, market)

	params := url.Values{}
	params.Set("symbol", std)
	if market != "" {
		params.Set("market", market)
	}

	var result map[string]any
	if err := c.get(ctx, "/stock/info", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// FetchPrices implements Provider.
func (c *Client) FetchPrices(ctx context.Context, symbol, period, startDate, endDate string) ([]map[string]any, error) {
	if period == "" {
		period = "daily"
	}
	if startDate == "" {
		startDate = c.now().Add(-defaultHistoryWindow).Format(dateLayout)
	}
	if endDate == "" {
		endDate = c.now().Format(dateLayout)
	}

	params := url.Values{}
	params.Set("symbol", StandardizeSymbol(symbol, ""))
	params.Set("period", period)
	params.Set("start_date", startDate)
	params.Set("end_date", endDate)

	var result []map[string]any
	if err := c.get(ctx, "/stock/history", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// FetchStatements implements Provider.
func (c *Client) FetchStatements(ctx context.Context, symbol, reportType string, periods int) (*StatementSet, error) {
	if periods <= 0 {
		periods = 4
	}

	params := url.Values{}
	params.Set("symbol", StandardizeSymbol(symbol, ""))
	params.Set("report_type", reportType)
	params.Set("periods", strconv.Itoa(periods))

	var result StatementSet
	if err := c.get(ctx, "/stock/financials", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FetchIndustry implements Provider.
func (c *Client) FetchIndustry(ctx context.Context, industry, metric string) (map[string]any, error) {
	params := url.Values{}
	params.Set("industry", industry)
	if metric != "" {
		params.Set("metric", metric)
	}

	var result map[string]any
	if err := c.get(ctx, "/industry/constituents", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Ensure Client implements Provider.
var _ Provider = (*Client)(nil)
