package interfaces

import (
	"context"

	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/models"
)

// QuoteService provides live quotes with automatic fallback to synthetic
// data.
type QuoteService interface {
	// GetQuote retrieves a quote for a symbol, falling back to mock data
	// when the live source is unavailable or has no data. Upstream
	// failures never surface; an error means the request context ended.
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)

	// Resolve checks that a symbol maps to known market data: a live
	// quote, or an entry in the fallback table. Symbols that would only
	// ever get synthetic data fail.
	Resolve(ctx context.Context, symbol string) (*models.Quote, error)

	// GetQuotes retrieves trimmed quotes for an arbitrary symbol list,
	// degrading per-symbol failures to zero-filled placeholders
	GetQuotes(ctx context.Context, symbols []string) map[string]models.PriceQuote

	// SectorPerformance retrieves the sector-proxy ETF table with
	// 1-day/1-week/1-month changes and derived gainer/loser views
	SectorPerformance(ctx context.Context) *models.SectorReport
}

// NewsService provides per-symbol and market-wide headlines with
// fallback tiers. Total functions, same as QuoteService.
type NewsService interface {
	// GetNews retrieves up to limit articles for a symbol
	GetNews(ctx context.Context, symbol string, limit int) []*models.NewsArticle

	// AnalyzedNews retrieves articles with attached sentiment plus an
	// aggregate label derived from the mean score
	AnalyzedNews(ctx context.Context, symbol string, limit int) *models.SymbolNews

	// MarketFeed retrieves aggregated market headlines across the
	// primary, secondary and placeholder tiers
	MarketFeed(ctx context.Context) *models.MarketFeed
}

// SentimentService classifies a headline into bullish/bearish/neutral
type SentimentService interface {
	// Classify scores a title+summary pair. Total function: AI failures
	// fall back to the keyword heuristic.
	Classify(ctx context.Context, title, summary string) models.Sentiment
}

// PortfolioService joins the holdings ledger with live quotes
type PortfolioService interface {
	// ComputeView values every holding and computes portfolio totals
	ComputeView(ctx context.Context) *models.PortfolioView

	// AddHolding validates the symbol against the quote provider and adds
	// shares at the given cost, accumulating a weighted average
	AddHolding(ctx context.Context, symbol string, shares, costAverage float64) (map[string]models.Holding, error)

	// RemoveHolding deletes a holding from the ledger
	RemoveHolding(ctx context.Context, symbol string) (map[string]models.Holding, error)

	// UpdateHolding overwrites only the provided fields of a holding
	UpdateHolding(ctx context.Context, symbol string, shares, costAverage *float64) (*models.Holding, error)

	// AnalysisContext values each holding for prompt context and groups
	// value by sector, normalized to percentages of total value
	AnalysisContext(ctx context.Context) ([]models.AnalysisHolding, map[string]float64, float64)
}

// NarrativeService generates AI market and portfolio commentary
type NarrativeService interface {
	// MarketContext returns the cached macro narrative, regenerating it
	// when the cache window has elapsed
	MarketContext(ctx context.Context) *models.MarketContext

	// PortfolioAnalysis generates a portfolio-specific narrative. Never
	// cached; fails when the AI service is absent or the call fails.
	PortfolioAnalysis(ctx context.Context) (*models.PortfolioAnalysis, error)
}
