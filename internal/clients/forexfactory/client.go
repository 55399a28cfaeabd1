// Package forexfactory provides a client for the free ForexFactory
// weekly economic calendar feed.
package forexfactory

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
	DefaultFeedURL = "https://nfs.faireconomy.media/ff_calendar_thisweek.json"
	DefaultTimeout = 10 * time.Second
)

// Client implements the EconomicCalendarClient interface
type Client struct {
	feedURL string
	client  *resty.Client
	logger  *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithFeedURL sets the calendar feed URL
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

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.client.SetTimeout(timeout)
	}
}

// NewClient creates a new calendar feed client
func NewClient(opts ...ClientOption) *Client {
	client := resty.New()
	client.SetTimeout(DefaultTimeout)

	c := &Client{
		feedURL: DefaultFeedURL,
		client:  client,
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// feedEvent is one entry in the weekly feed. Date is ISO with offset,
// e.g. "2024-12-11T08:30:00-05:00".
type feedEvent struct {
	Title   string `json:"title"`
	Country string `json:"country"`
	Date    string `json:"date"`
	Impact  string `json:"impact"`
}

// ThisWeek retrieves this week's dated, impact-tagged events
func (c *Client) ThisWeek(ctx context.Context) ([]models.EconomicEvent, error) {
	c.logger.Debug().Str("url", c.feedURL).Msg("Fetching economic calendar")

	resp, err := c.client.R().
		SetContext(ctx).
		Get(c.feedURL)
	if err != nil {
		return nil, fmt.Errorf("calendar request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("calendar feed: status %d", resp.StatusCode())
	}

	var raw []feedEvent
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode calendar feed: %w", err)
	}

	events := make([]models.EconomicEvent, 0, len(raw))
	for _, e := range raw {
		date := e.Date
		if len(date) >= 10 {
			date = date[:10] // YYYY-MM-DD
		}
		events = append(events, models.EconomicEvent{
			Date:    date,
			Title:   e.Title,
			Impact:  e.Impact,
			Country: e.Country,
		})
	}

	return events, nil
}

// Ensure Client implements EconomicCalendarClient
var _ interfaces.EconomicCalendarClient = (*Client)(nil)
