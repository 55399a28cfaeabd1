package models

import "time"

// MarketContext is the AI-generated macro narrative. Cached for a fixed
// window; Cached reports whether this response was served from cache.
type MarketContext struct {
	Summary     string     `json:"summary"`
	Cached      bool       `json:"cached"`
	GeneratedAt *time.Time `json:"generated_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// EconomicEvent is one dated, impact-tagged entry from the economic
// calendar feed.
type EconomicEvent struct {
	Date    string `json:"date"`
	Title   string `json:"title"`
	Impact  string `json:"impact"`
	Country string `json:"country"`
}

// EarningsEvent is the next scheduled earnings date for one symbol.
type EarningsEvent struct {
	Symbol string    `json:"symbol"`
	Date   time.Time `json:"date"`
}

// AnalysisHolding is the per-holding context fed into the portfolio
// analysis prompt.
type AnalysisHolding struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Shares        float64 `json:"shares"`
	Price         float64 `json:"price"`
	Value         float64 `json:"value"`
	ChangePercent float64 `json:"change_percent"`
	Sector        string  `json:"sector"`
}

// PortfolioAnalysis is the AI-generated portfolio-specific narrative.
// Unlike MarketContext it is recomputed on every call and has no
// fallback text.
type PortfolioAnalysis struct {
	Analysis         string             `json:"analysis"`
	PortfolioValue   float64            `json:"portfolio_value"`
	SectorExposure   map[string]float64 `json:"sector_exposure"`
	HoldingsCount    int                `json:"holdings_count"`
	NewsCount        int                `json:"news_count"`
	HasMarketContext bool               `json:"has_market_context"`
	GeneratedAt      time.Time          `json:"generated_at"`
}
