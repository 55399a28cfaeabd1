// Package googlenews provides market headlines from the Google News RSS
// search feed. No API key required, which makes it the reliable
// second-tier source for the market feed.
package googlenews

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/common"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/interfaces"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/models"
)

const (
	DefaultFeedURL = "https://news.google.com/rss/search?q=stock+market+OR+wall+street+OR+nasdaq+OR+dow+jones+when:1d&hl=en-US&gl=US&ceid=US:en"
	DefaultTimeout = 10 * time.Second
)

// Client implements the GoogleNewsClient interface
type Client struct {
	feedURL string
	parser  *gofeed.Parser
	timeout time.Duration
	logger  *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithFeedURL sets the RSS feed URL
func WithFeedURL(feedURL string) ClientOption {
	return func(c *Client) {
		c.feedURL = feedURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the fetch timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// NewClient creates a new Google News RSS client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		feedURL: DefaultFeedURL,
		parser:  gofeed.NewParser(),
		timeout: DefaultTimeout,
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// MarketHeadlines retrieves up to limit recent market headlines. Feed
// titles arrive as "Headline - Source"; the source is split off the end
// so downstream shaping gets clean fields.
func (c *Client) MarketHeadlines(ctx context.Context, limit int) ([]models.MarketArticle, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.logger.Debug().Str("url", c.feedURL).Msg("Fetching Google News RSS")

	feed, err := c.parser.ParseURLWithContext(c.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse news feed: %w", err)
	}

	if limit <= 0 || limit > len(feed.Items) {
		limit = len(feed.Items)
	}

	articles := make([]models.MarketArticle, 0, limit)
	for _, item := range feed.Items[:limit] {
		title, source := splitSource(item.Title)

		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		}

		articles = append(articles, models.MarketArticle{
			Title:       title,
			URL:         item.Link,
			SourceName:  source,
			PublishedAt: published,
		})
	}

	c.logger.Debug().Int("articles", len(articles)).Msg("Google News RSS fetched")
	return articles, nil
}

// splitSource splits a "Headline - Source" title on the last separator.
// Titles without one keep a generic source name.
func splitSource(title string) (string, string) {
	idx := strings.LastIndex(title, " - ")
	if idx < 0 {
		return title, "News"
	}

	source := strings.TrimSpace(title[idx+3:])
	if source == "" {
		source = "News"
	}
	return title[:idx], source
}

// Ensure Client implements GoogleNewsClient
var _ interfaces.GoogleNewsClient = (*Client)(nil)
