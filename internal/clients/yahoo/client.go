// Package yahoo provides a client for the Yahoo Finance news search API
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/common"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/interfaces"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/models"
)

const (
	DefaultBaseURL = "https://query1.finance.yahoo.com"
	DefaultTimeout = 10 * time.Second
)

// ErrRateLimited indicates the upstream returned HTTP 429. Distinguished
// so callers can tell a throttle from a hard failure; not retried.
var ErrRateLimited = errors.New("yahoo news: rate limited")

// The search endpoint rejects requests without a browser-looking agent.
var userAgents = []string{
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
}

// Client implements the YahooNewsClient interface
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
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

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Yahoo news client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// searchResponse is the /v1/finance/search payload, news entries only.
type searchResponse struct {
	News []struct {
		Title               string `json:"title"`
		Publisher           string `json:"publisher"`
		Link                string `json:"link"`
		ProviderPublishTime int64  `json:"providerPublishTime"`
		Thumbnail           *struct {
			Resolutions []struct {
				URL string `json:"url"`
			} `json:"resolutions"`
		} `json:"thumbnail"`
	} `json:"news"`
}

// Search retrieves up to limit recent headlines for a symbol
func (c *Client) Search(ctx context.Context, symbol string, limit int) ([]*models.NewsArticle, error) {
	params := url.Values{}
	params.Set("q", symbol)
	params.Set("newsCount", fmt.Sprintf("%d", limit))

	reqURL := fmt.Sprintf("%s/v1/finance/search?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("symbol", symbol).Msg("Yahoo news search")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("yahoo news: status %d: %s", resp.StatusCode, string(body))
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	articles := make([]*models.NewsArticle, 0, limit)
	for _, item := range result.News {
		if len(articles) >= limit {
			break
		}

		article := &models.NewsArticle{
			Title:   item.Title,
			Summary: item.Publisher,
			URL:     item.Link,
			Source:  item.Publisher,
		}
		if article.Source == "" {
			article.Source = "Unknown"
		}
		if item.ProviderPublishTime > 0 {
			article.Published = time.Unix(item.ProviderPublishTime, 0).Format(models.NewsTimeFormat)
		}
		if item.Thumbnail != nil && len(item.Thumbnail.Resolutions) > 0 {
			article.Thumbnail = item.Thumbnail.Resolutions[0].URL
		}

		articles = append(articles, article)
	}

	return articles, nil
}

// Ensure Client implements YahooNewsClient
var _ interfaces.YahooNewsClient = (*Client)(nil)
