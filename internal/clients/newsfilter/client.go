// Package newsfilter provides a client for the newsfilter.io public
// query API, used for aggregated market-wide headlines.
package newsfilter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/common"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/interfaces"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/models"
)

const (
	DefaultBaseURL = "https://api.newsfilter.io"
	DefaultTimeout = 15 * time.Second

	// sourceQuery restricts the feed to the curated financial outlets
	// the dashboard expects.
	sourceQuery = `source.name:Reuters OR source.name:Bloomberg OR source.name:"Wall Street Journal" OR source.name:CNBC OR source.name:"Seeking Alpha" OR source.name:MarketWatch`
)

// Client implements the NewsfilterClient interface
type Client struct {
	client *resty.Client
	logger *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.client.SetBaseURL(baseURL)
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
		c.client.SetTimeout(timeout)
	}
}

// NewClient creates a new newsfilter client
func NewClient(opts ...ClientOption) *Client {
	client := resty.New()
	client.SetBaseURL(DefaultBaseURL)
	client.SetTimeout(DefaultTimeout)
	client.SetHeader("User-Agent", "Mozilla/5.0")

	c := &Client{
		client: client,
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// filterRequest is the /public/actions query payload.
type filterRequest struct {
	Type        string `json:"type"`
	QueryString string `json:"queryString"`
	From        int    `json:"from"`
	Size        int    `json:"size"`
}

// filterResponse is the /public/actions result payload.
type filterResponse struct {
	Articles []struct {
		Title       string   `json:"title"`
		URL         string   `json:"url"`
		PublishedAt string   `json:"publishedAt"`
		Symbols     []string `json:"symbols"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// GetArticles retrieves up to size recent articles from curated sources
func (c *Client) GetArticles(ctx context.Context, size int) ([]models.MarketArticle, error) {
	payload := filterRequest{
		Type:        "filterArticles",
		QueryString: sourceQuery,
		From:        0,
		Size:        size,
	}

	c.logger.Debug().Int("size", size).Msg("newsfilter query")

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/public/actions")
	if err != nil {
		return nil, fmt.Errorf("newsfilter request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("newsfilter: status %d", resp.StatusCode())
	}

	var result filterResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode newsfilter response: %w", err)
	}

	articles := make([]models.MarketArticle, 0, len(result.Articles))
	for _, a := range result.Articles {
		article := models.MarketArticle{
			Title:      a.Title,
			URL:        a.URL,
			SourceName: a.Source.Name,
			Symbols:    a.Symbols,
		}
		if ts, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
			article.PublishedAt = ts
		}
		articles = append(articles, article)
	}

	return articles, nil
}

// Ensure Client implements NewsfilterClient
var _ interfaces.NewsfilterClient = (*Client)(nil)
