// Package interfaces defines service contracts for the portfolio analyzer
package interfaces

import (
	"context"
	"time"

	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/models"
)

// FinnhubClient provides access to the Finnhub market data API
type FinnhubClient interface {
	// GetQuote retrieves a live quote. A zero or absent current price is
	// treated as no data and returned as an error.
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)

	// GetProfile retrieves the company name and sector for a symbol
	GetProfile(ctx context.Context, symbol string) (name string, sector string, err error)

	// GetCandles retrieves roughly the last month of daily closes
	GetCandles(ctx context.Context, symbol string, days int) (*models.Candle, error)

	// GetEarningsCalendar retrieves scheduled earnings dates per symbol
	// within the given window
	GetEarningsCalendar(ctx context.Context, from, to time.Time) ([]models.EarningsEvent, error)
}

// YahooNewsClient provides search-style news lookup for a symbol
type YahooNewsClient interface {
	// Search retrieves up to limit recent headlines for a symbol
	Search(ctx context.Context, symbol string, limit int) ([]*models.NewsArticle, error)
}

// NewsfilterClient provides aggregated market-wide headlines
type NewsfilterClient interface {
	// GetArticles retrieves up to size recent articles from curated sources
	GetArticles(ctx context.Context, size int) ([]models.MarketArticle, error)
}

// GoogleNewsClient provides RSS market headlines, the secondary
// market-feed tier
type GoogleNewsClient interface {
	// MarketHeadlines retrieves up to limit recent market headlines
	MarketHeadlines(ctx context.Context, limit int) ([]models.MarketArticle, error)
}

// EconomicCalendarClient provides the weekly economic calendar feed
type EconomicCalendarClient interface {
	// ThisWeek retrieves this week's dated, impact-tagged events
	ThisWeek(ctx context.Context) ([]models.EconomicEvent, error)
}

// GeminiClient provides access to the Gemini generative API
type GeminiClient interface {
	// GenerateContent generates AI content from a prompt
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
