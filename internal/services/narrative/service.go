// Package narrative generates the AI market commentary: the cached
// macro market context and the on-demand portfolio analysis.
package narrative

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/common"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/interfaces"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/models"
)

const (
	contextHeadlines  = 25
	analysisHeadlines = 15
	calendarMaxEvents = 15
	earningsHorizon   = 45 * 24 * time.Hour

	promptDateFormat = "Monday, January 02, 2006"
)

// earningsWatchlist is the set of megacaps and sector leaders whose
// upcoming earnings feed the market context prompt.
var earningsWatchlist = map[string]bool{
	// Tech megacaps
	"AAPL": true, "MSFT": true, "NVDA": true, "GOOGL": true, "AMZN": true,
	"META": true, "TSLA": true, "ORCL": true, "AVGO": true, "CRM": true,
	// Financials
	"JPM": true, "GS": true, "BAC": true, "MS": true, "WFC": true,
	// Healthcare
	"UNH": true, "JNJ": true, "LLY": true, "PFE": true, "ABBV": true,
	// Energy
	"XOM": true, "CVX": true, "COP": true,
	// Industrials
	"CAT": true, "BA": true, "UNP": true, "HON": true,
	// Consumer
	"WMT": true, "HD": true, "MCD": true, "NKE": true, "COST": true,
}

// Service implements the NarrativeService interface. mu guards the
// whole market-context operation so concurrent requests cannot race
// into double generation; it also covers the cache reads in
// PortfolioAnalysis.
type Service struct {
	gemini     interfaces.GeminiClient
	newsfilter interfaces.NewsfilterClient
	calendar   interfaces.EconomicCalendarClient
	finnhub    interfaces.FinnhubClient
	portfolio  interfaces.PortfolioService
	logger     *common.Logger

	now func() time.Time

	mu          sync.Mutex
	summary     string
	generatedAt time.Time
}

// NewService creates a narrative service. gemini, newsfilter, calendar
// and finnhub may each be nil; missing inputs shrink the prompt.
func NewService(
	logger *common.Logger,
	gemini interfaces.GeminiClient,
	newsfilter interfaces.NewsfilterClient,
	calendar interfaces.EconomicCalendarClient,
	finnhub interfaces.FinnhubClient,
	portfolio interfaces.PortfolioService,
) *Service {
	return &Service{
		gemini:     gemini,
		newsfilter: newsfilter,
		calendar:   calendar,
		finnhub:    finnhub,
		portfolio:  portfolio,
		logger:     logger,
		now:        time.Now,
	}
}

// MarketContext returns the macro narrative, served from cache while
// fresh. Generation failures never clear a previously cached summary.
func (s *Service) MarketContext(ctx context.Context) *models.MarketContext {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.summary != "" && common.IsFresh(s.generatedAt, common.FreshnessMarketContext) {
		generatedAt := s.generatedAt
		return &models.MarketContext{
			Summary:     s.summary,
			Cached:      true,
			GeneratedAt: &generatedAt,
		}
	}

	if s.gemini == nil {
		return &models.MarketContext{
			Summary: "Market context unavailable",
			Error:   "No API key",
		}
	}

	prompt := s.buildContextPrompt(ctx)

	summary, err := s.gemini.GenerateContent(ctx, prompt)
	if err != nil {
		s.logger.Error().Err(err).Msg("Market context generation failed")
		return &models.MarketContext{
			Summary: fmt.Sprintf("Market context unavailable: %s", err),
			Error:   err.Error(),
		}
	}

	s.summary = summary
	s.generatedAt = s.now()

	generatedAt := s.generatedAt
	return &models.MarketContext{
		Summary:     summary,
		Cached:      false,
		GeneratedAt: &generatedAt,
	}
}

// buildContextPrompt gathers headlines, economic events and upcoming
// earnings. Every gather is fault tolerant: a dead feed just drops its
// section from the prompt.
func (s *Service) buildContextPrompt(ctx context.Context) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a macro market strategist. TODAY IS %s.\n", s.now().Format(promptDateFormat))

	if events := s.gatherEconomicEvents(ctx); len(events) > 0 {
		b.WriteString("\n\nUpcoming Economic Events:\n")
		for _, e := range events {
			fmt.Fprintf(&b, "- %s\n", e)
		}
	}

	if earnings := s.gatherEarnings(ctx); len(earnings) > 0 {
		b.WriteString("\n\nUpcoming Megacap Earnings:\n")
		for _, e := range earnings {
			fmt.Fprintf(&b, "- %s\n", e)
		}
	}

	if headlines := s.gatherHeadlines(ctx, contextHeadlines); len(headlines) > 0 {
		b.WriteString("\n\nRecent Headlines:\n")
		for _, h := range headlines {
			fmt.Fprintf(&b, "- %s\n", h)
		}
	}

	b.WriteString(`
Based on the ACTUAL upcoming events, earnings, and headlines above, provide a market context summary (5-6 sentences):

1. **Key Events This Week**: Summarize important macro events (FOMC, CPI, NFP, Fed speeches, etc.)
2. **Upcoming Earnings**: Highlight any megacap earnings coming soon that could move markets
3. **Risk Positioning**: Should investors be defensive ahead of these events? Risk-on or risk-off?
4. **Sector Impact**: Which sectors might be most affected?

Be specific about dates. Focus on FUTURE events only. Keep it concise.`)

	return b.String()
}

// gatherHeadlines fetches recent market headline titles.
func (s *Service) gatherHeadlines(ctx context.Context, limit int) []string {
	if s.newsfilter == nil {
		return nil
	}

	articles, err := s.newsfilter.GetArticles(ctx, limit)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Headline gather failed")
		return nil
	}

	if len(articles) > limit {
		articles = articles[:limit]
	}

	titles := make([]string, 0, len(articles))
	for _, a := range articles {
		titles = append(titles, a.Title)
	}
	return titles
}

// gatherEconomicEvents fetches this week's US high and medium impact
// events, capped and formatted for the prompt.
func (s *Service) gatherEconomicEvents(ctx context.Context) []string {
	if s.calendar == nil {
		return nil
	}

	events, err := s.calendar.ThisWeek(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Economic calendar gather failed")
		return nil
	}

	lines := make([]string, 0, calendarMaxEvents)
	for _, e := range events {
		if e.Country != "USD" {
			continue
		}
		if e.Impact != "High" && e.Impact != "Medium" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s [%s Impact]", e.Date, e.Title, e.Impact))
		if len(lines) == calendarMaxEvents {
			break
		}
	}
	return lines
}

// gatherEarnings fetches watchlist earnings inside the horizon, keeping
// the earliest date per symbol.
func (s *Service) gatherEarnings(ctx context.Context) []string {
	if s.finnhub == nil {
		return nil
	}

	today := s.now()
	events, err := s.finnhub.GetEarningsCalendar(ctx, today, today.Add(earningsHorizon))
	if err != nil {
		s.logger.Warn().Err(err).Msg("Earnings calendar gather failed")
		return nil
	}

	earliest := make(map[string]time.Time)
	for _, e := range events {
		if !earningsWatchlist[e.Symbol] {
			continue
		}
		if existing, ok := earliest[e.Symbol]; !ok || e.Date.Before(existing) {
			earliest[e.Symbol] = e.Date
		}
	}

	lines := make([]string, 0, len(earliest))
	for symbol, date := range earliest {
		lines = append(lines, fmt.Sprintf("%s: %s", symbol, date.Format("2006-01-02")))
	}
	sort.Strings(lines)
	return lines
}

// PortfolioAnalysis generates the portfolio-specific narrative. Never
// cached, and unlike the market context there is no fallback text: a
// missing AI client or a failed call is a hard error.
func (s *Service) PortfolioAnalysis(ctx context.Context) (*models.PortfolioAnalysis, error) {
	if s.gemini == nil {
		return nil, fmt.Errorf("AI service not configured")
	}

	holdings, sectorPct, totalValue := s.portfolio.AnalysisContext(ctx)
	headlines := s.gatherHeadlines(ctx, analysisHeadlines)

	s.mu.Lock()
	contextSummary := s.summary
	s.mu.Unlock()

	prompt := buildAnalysisPrompt(holdings, sectorPct, totalValue, headlines, contextSummary)

	analysis, err := s.gemini.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("analysis generation failed: %w", err)
	}

	return &models.PortfolioAnalysis{
		Analysis:         analysis,
		PortfolioValue:   totalValue,
		SectorExposure:   sectorPct,
		HoldingsCount:    len(holdings),
		NewsCount:        len(headlines),
		HasMarketContext: contextSummary != "",
		GeneratedAt:      s.now(),
	}, nil
}

func buildAnalysisPrompt(
	holdings []models.AnalysisHolding,
	sectorPct map[string]float64,
	totalValue float64,
	headlines []string,
	contextSummary string,
) string {
	var b strings.Builder

	b.WriteString("You are a portfolio analyst. Analyze this portfolio in the context of current market events.\n\n")
	fmt.Fprintf(&b, "## Portfolio Holdings (Total Value: $%.2f)\n", totalValue)
	for _, h := range holdings {
		fmt.Fprintf(&b, "- %s (%s): %g shares @ $%.2f = $%.2f (%+.2f%% today)\n",
			h.Symbol, h.Name, h.Shares, h.Price, h.Value, h.ChangePercent)
	}

	b.WriteString("\n## Sector Exposure\n")
	for _, sector := range sectorsByExposure(sectorPct) {
		fmt.Fprintf(&b, "- %s: %g%%\n", sector, sectorPct[sector])
	}

	b.WriteString("\n## Recent Market News Headlines\n")
	for i, headline := range headlines {
		fmt.Fprintf(&b, "%d. %s\n", i+1, headline)
	}

	if contextSummary != "" {
		fmt.Fprintf(&b, "\n## AI Market Context Summary\n%s\n", contextSummary)
	}

	b.WriteString(`
## Your Analysis Task
1. Consider the AI Market Context Summary when analyzing portfolio risk
2. Identify any portfolio exposure concerns based on current market themes
3. Highlight specific holdings that may be affected by today's events
4. Provide actionable insights
5. Keep it concise - 3-4 short paragraphs max

Be direct and specific. Reference actual holdings and market events.`)

	return b.String()
}

// sectorsByExposure orders sectors largest exposure first.
func sectorsByExposure(sectorPct map[string]float64) []string {
	sectors := make([]string, 0, len(sectorPct))
	for sector := range sectorPct {
		sectors = append(sectors, sector)
	}
	sort.Slice(sectors, func(i, j int) bool {
		if sectorPct[sectors[i]] != sectorPct[sectors[j]] {
			return sectorPct[sectors[i]] > sectorPct[sectors[j]]
		}
		return sectors[i] < sectors[j]
	})
	return sectors
}

// Ensure Service implements NarrativeService
var _ interfaces.NarrativeService = (*Service)(nil)
