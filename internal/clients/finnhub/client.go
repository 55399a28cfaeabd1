// Package finnhub provides a client for the Finnhub market data API
package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/common"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/interfaces"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/models"
)

const (
	DefaultBaseURL   = "https://finnhub.io/api/v1"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 10 // requests per second; free tier allows 60/min
)

// Client implements the FinnhubClient interface
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Finnhub client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Finnhub API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("token", c.apiKey)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("Finnhub API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// quoteResponse is the Finnhub /quote payload:
// c=current, pc=previous close, d=change, dp=percent change.
type quoteResponse struct {
	Current       float64 `json:"c"`
	PreviousClose float64 `json:"pc"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
}

// GetQuote retrieves a live quote for a symbol. A zero current price is
// treated as no data for the symbol, not a transport failure.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var quote quoteResponse
	if err := c.get(ctx, "/quote", params, &quote); err != nil {
		return nil, err
	}

	if quote.Current == 0 {
		return nil, fmt.Errorf("no quote data for %s", symbol)
	}

	return &models.Quote{
		Symbol:        symbol,
		Name:          symbol,
		Price:         models.Round2(quote.Current),
		PreviousClose: models.Round2(quote.PreviousClose),
		Change:        models.Round2(quote.Change),
		ChangePercent: models.Round2(quote.ChangePercent),
	}, nil
}

// profileResponse is the Finnhub /stock/profile2 payload.
type profileResponse struct {
	Name     string `json:"name"`
	Industry string `json:"finnhubIndustry"`
}

// GetProfile retrieves the company name and sector for a symbol
func (c *Client) GetProfile(ctx context.Context, symbol string) (string, string, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var profile profileResponse
	if err := c.get(ctx, "/stock/profile2", params, &profile); err != nil {
		return "", "", err
	}

	if profile.Name == "" {
		return "", "", fmt.Errorf("no profile data for %s", symbol)
	}

	return profile.Name, profile.Industry, nil
}

// candleResponse is the Finnhub /stock/candle payload. Status is "ok"
// or "no_data".
type candleResponse struct {
	Closes []float64 `json:"c"`
	Status string    `json:"s"`
}

// GetCandles retrieves daily closes for roughly the last days calendar
// days, oldest first.
func (c *Client) GetCandles(ctx context.Context, symbol string, days int) (*models.Candle, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -days)

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("resolution", "D")
	params.Set("from", fmt.Sprintf("%d", from.Unix()))
	params.Set("to", fmt.Sprintf("%d", now.Unix()))

	var candles candleResponse
	if err := c.get(ctx, "/stock/candle", params, &candles); err != nil {
		return nil, err
	}

	if candles.Status != "ok" || len(candles.Closes) == 0 {
		return nil, fmt.Errorf("no candle data for %s", symbol)
	}

	return &models.Candle{
		Symbol: symbol,
		Closes: candles.Closes,
	}, nil
}

// earningsCalendarResponse is the Finnhub /calendar/earnings payload.
type earningsCalendarResponse struct {
	EarningsCalendar []struct {
		Date   string `json:"date"`
		Symbol string `json:"symbol"`
	} `json:"earningsCalendar"`
}

// GetEarningsCalendar retrieves scheduled earnings dates within the window
func (c *Client) GetEarningsCalendar(ctx context.Context, from, to time.Time) ([]models.EarningsEvent, error) {
	params := url.Values{}
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))

	var resp earningsCalendarResponse
	if err := c.get(ctx, "/calendar/earnings", params, &resp); err != nil {
		return nil, err
	}

	events := make([]models.EarningsEvent, 0, len(resp.EarningsCalendar))
	for _, entry := range resp.EarningsCalendar {
		date, err := time.Parse("2006-01-02", entry.Date)
		if err != nil {
			continue
		}
		events = append(events, models.EarningsEvent{
			Symbol: entry.Symbol,
			Date:   date,
		})
	}

	return events, nil
}

// Ensure Client implements FinnhubClient
var _ interfaces.FinnhubClient = (*Client)(nil)
