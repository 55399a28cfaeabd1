package narrative

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/common"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/models"
)

// fakeGemini records prompts and returns a scripted response.
type fakeGemini struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeGemini) GenerateContent(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

// fakeNewsfilter returns fixed headlines.
type fakeNewsfilter struct {
	articles []models.MarketArticle
	err      error
}

func (f *fakeNewsfilter) GetArticles(ctx context.Context, size int) ([]models.MarketArticle, error) {
	return f.articles, f.err
}

// fakeCalendar returns fixed economic events.
type fakeCalendar struct {
	events []models.EconomicEvent
	err    error
}

func (f *fakeCalendar) ThisWeek(ctx context.Context) ([]models.EconomicEvent, error) {
	return f.events, f.err
}

// fakeFinnhub returns fixed earnings events.
type fakeFinnhub struct {
	earnings []models.EarningsEvent
	err      error
}

func (f *fakeFinnhub) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeFinnhub) GetProfile(ctx context.Context, symbol string) (string, string, error) {
	return "", "", errors.New("not implemented")
}

func (f *fakeFinnhub) GetCandles(ctx context.Context, symbol string, days int) (*models.Candle, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeFinnhub) GetEarningsCalendar(ctx context.Context, from, to time.Time) ([]models.EarningsEvent, error) {
	return f.earnings, f.err
}

// fakePortfolio returns fixed analysis context.
type fakePortfolio struct {
	holdings   []models.AnalysisHolding
	sectorPct  map[string]float64
	totalValue float64
}

func (f *fakePortfolio) ComputeView(ctx context.Context) *models.PortfolioView { return nil }

func (f *fakePortfolio) AddHolding(ctx context.Context, symbol string, shares, costAverage float64) (map[string]models.Holding, error) {
	return nil, errors.New("not implemented")
}

func (f *fakePortfolio) RemoveHolding(ctx context.Context, symbol string) (map[string]models.Holding, error) {
	return nil, errors.New("not implemented")
}

func (f *fakePortfolio) UpdateHolding(ctx context.Context, symbol string, shares, costAverage *float64) (*models.Holding, error) {
	return nil, errors.New("not implemented")
}

func (f *fakePortfolio) AnalysisContext(ctx context.Context) ([]models.AnalysisHolding, map[string]float64, float64) {
	return f.holdings, f.sectorPct, f.totalValue
}

func TestMarketContext_NoClient(t *testing.T) {
	s := NewService(common.NewSilentLogger(), nil, nil, nil, nil, &fakePortfolio{})

	got := s.MarketContext(context.Background())

	if got.Summary != "Market context unavailable" {
		t.Errorf("Summary = %q", got.Summary)
	}
	if got.Error != "No API key" {
		t.Errorf("Error = %q", got.Error)
	}
	if got.Cached {
		t.Error("unavailable context must not be cached")
	}
}

func TestMarketContext_GeneratesAndCaches(t *testing.T) {
	gem := &fakeGemini{response: "Markets brace for CPI."}
	s := NewService(common.NewSilentLogger(), gem, nil, nil, nil, &fakePortfolio{})

	first := s.MarketContext(context.Background())
	if first.Cached {
		t.Error("first call must not be cached")
	}
	if first.Summary != "Markets brace for CPI." {
		t.Errorf("Summary = %q", first.Summary)
	}
	if first.GeneratedAt == nil {
		t.Fatal("GeneratedAt must be set")
	}

	second := s.MarketContext(context.Background())
	if !second.Cached {
		t.Error("second call within the window must be cached")
	}
	if second.Summary != first.Summary {
		t.Errorf("cached summary changed: %q", second.Summary)
	}
	if len(gem.prompts) != 1 {
		t.Errorf("expected one generation, got %d", len(gem.prompts))
	}
}

func TestMarketContext_ExpiredCacheRegenerates(t *testing.T) {
	gem := &fakeGemini{response: "Fresh summary."}
	s := NewService(common.NewSilentLogger(), gem, nil, nil, nil, &fakePortfolio{})

	s.summary = "Stale summary."
	s.generatedAt = time.Now().Add(-11 * time.Minute)

	got := s.MarketContext(context.Background())

	if got.Cached {
		t.Error("expired cache must regenerate")
	}
	if got.Summary != "Fresh summary." {
		t.Errorf("Summary = %q", got.Summary)
	}
}

func TestMarketContext_FailureKeepsCache(t *testing.T) {
	gem := &fakeGemini{err: errors.New("quota exceeded")}
	s := NewService(common.NewSilentLogger(), gem, nil, nil, nil, &fakePortfolio{})

	s.summary = "Old but valid."
	s.generatedAt = time.Now().Add(-11 * time.Minute)

	got := s.MarketContext(context.Background())

	if !strings.Contains(got.Summary, "Market context unavailable") {
		t.Errorf("Summary = %q", got.Summary)
	}
	if got.Error == "" {
		t.Error("failure must surface in the error field")
	}
	if s.summary != "Old but valid." {
		t.Error("failed generation must not clear the cached summary")
	}
}

func TestMarketContext_PromptSections(t *testing.T) {
	gem := &fakeGemini{response: "ok"}
	nf := &fakeNewsfilter{articles: []models.MarketArticle{
		{Title: "Fed speech moves futures"},
	}}
	cal := &fakeCalendar{events: []models.EconomicEvent{
		{Date: "2025-06-03", Title: "CPI", Impact: "High", Country: "USD"},
		{Date: "2025-06-04", Title: "GDP", Impact: "Low", Country: "USD"},
		{Date: "2025-06-05", Title: "Rate Decision", Impact: "High", Country: "EUR"},
	}}
	fh := &fakeFinnhub{earnings: []models.EarningsEvent{
		{Symbol: "AAPL", Date: time.Now().Add(48 * time.Hour)},
		{Symbol: "OBSCURECO", Date: time.Now().Add(48 * time.Hour)},
	}}
	s := NewService(common.NewSilentLogger(), gem, nf, cal, fh, &fakePortfolio{})

	s.MarketContext(context.Background())

	if len(gem.prompts) != 1 {
		t.Fatalf("expected one generation, got %d", len(gem.prompts))
	}
	prompt := gem.prompts[0]

	if !strings.Contains(prompt, "You are a macro market strategist") {
		t.Error("prompt missing strategist framing")
	}
	if !strings.Contains(prompt, "2025-06-03: CPI [High Impact]") {
		t.Error("prompt missing high-impact USD event")
	}
	if strings.Contains(prompt, "GDP") {
		t.Error("low-impact events must be filtered out")
	}
	if strings.Contains(prompt, "Rate Decision") {
		t.Error("non-USD events must be filtered out")
	}
	if !strings.Contains(prompt, "AAPL: ") {
		t.Error("prompt missing watchlist earnings")
	}
	if strings.Contains(prompt, "OBSCURECO") {
		t.Error("non-watchlist earnings must be filtered out")
	}
	if !strings.Contains(prompt, "Fed speech moves futures") {
		t.Error("prompt missing headlines")
	}
}

func TestMarketContext_CalendarCap(t *testing.T) {
	gem := &fakeGemini{response: "ok"}

	var events []models.EconomicEvent
	for i := 0; i < 30; i++ {
		events = append(events, models.EconomicEvent{Date: "2025-06-03", Title: "Event", Impact: "High", Country: "USD"})
	}
	s := NewService(common.NewSilentLogger(), gem, nil, &fakeCalendar{events: events}, nil, &fakePortfolio{})

	s.MarketContext(context.Background())

	prompt := gem.prompts[0]
	if got := strings.Count(prompt, "[High Impact]"); got != calendarMaxEvents {
		t.Errorf("prompt has %d events, want %d", got, calendarMaxEvents)
	}
}

func TestPortfolioAnalysis_NoClient(t *testing.T) {
	s := NewService(common.NewSilentLogger(), nil, nil, nil, nil, &fakePortfolio{})

	if _, err := s.PortfolioAnalysis(context.Background()); err == nil {
		t.Error("missing AI client must be a hard error")
	}
}

func TestPortfolioAnalysis_GenerationFailure(t *testing.T) {
	gem := &fakeGemini{err: errors.New("quota exceeded")}
	s := NewService(common.NewSilentLogger(), gem, nil, nil, nil, &fakePortfolio{})

	if _, err := s.PortfolioAnalysis(context.Background()); err == nil {
		t.Error("generation failure must be a hard error")
	}
}

func TestPortfolioAnalysis_Success(t *testing.T) {
	gem := &fakeGemini{response: "Concentrated in tech."}
	nf := &fakeNewsfilter{articles: []models.MarketArticle{
		{Title: "Chip stocks rally"},
		{Title: "Yields tick higher"},
	}}
	pf := &fakePortfolio{
		holdings: []models.AnalysisHolding{
			{Symbol: "AAPL", Name: "Apple Inc.", Shares: 10, Price: 200, Value: 2000, ChangePercent: 1.5, Sector: "Technology"},
		},
		sectorPct:  map[string]float64{"Technology": 100},
		totalValue: 2000,
	}
	s := NewService(common.NewSilentLogger(), gem, nf, nil, nil, pf)

	got, err := s.PortfolioAnalysis(context.Background())
	if err != nil {
		t.Fatalf("PortfolioAnalysis failed: %v", err)
	}

	if got.Analysis != "Concentrated in tech." {
		t.Errorf("Analysis = %q", got.Analysis)
	}
	if got.PortfolioValue != 2000 || got.HoldingsCount != 1 || got.NewsCount != 2 {
		t.Errorf("counts wrong: %+v", got)
	}
	if got.HasMarketContext {
		t.Error("no cached context should mean HasMarketContext false")
	}

	prompt := gem.prompts[0]
	if !strings.Contains(prompt, "AAPL (Apple Inc.): 10 shares @ $200.00 = $2000.00 (+1.50% today)") {
		t.Errorf("prompt missing holding line:\n%s", prompt)
	}
	if !strings.Contains(prompt, "- Technology: 100%") {
		t.Error("prompt missing sector exposure")
	}
	if !strings.Contains(prompt, "1. Chip stocks rally") {
		t.Error("prompt missing numbered headlines")
	}
	if strings.Contains(prompt, "AI Market Context Summary") {
		t.Error("prompt must omit the context section when cache is empty")
	}
}

func TestPortfolioAnalysis_IncludesCachedContext(t *testing.T) {
	gem := &fakeGemini{response: "ok"}
	s := NewService(common.NewSilentLogger(), gem, nil, nil, nil, &fakePortfolio{})

	s.summary = "Risk-off into CPI."
	s.generatedAt = time.Now()

	got, err := s.PortfolioAnalysis(context.Background())
	if err != nil {
		t.Fatalf("PortfolioAnalysis failed: %v", err)
	}

	if !got.HasMarketContext {
		t.Error("HasMarketContext must be true with a cached summary")
	}
	if !strings.Contains(gem.prompts[0], "Risk-off into CPI.") {
		t.Error("prompt must include the cached market context")
	}
}
