package quote

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/common"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/interfaces"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/models"
)

// fakeFinnhub is a scriptable FinnhubClient for service tests.
type fakeFinnhub struct {
	quotes   map[string]*models.Quote
	profiles map[string][2]string
	candles  map[string][]float64
	quoteErr error
}

func (f *fakeFinnhub) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	q, ok := f.quotes[symbol]
	if !ok {
		return nil, fmt.Errorf("no quote data for %s", symbol)
	}
	copied := *q
	return &copied, nil
}

func (f *fakeFinnhub) GetProfile(ctx context.Context, symbol string) (string, string, error) {
	p, ok := f.profiles[symbol]
	if !ok {
		return "", "", fmt.Errorf("no profile data for %s", symbol)
	}
	return p[0], p[1], nil
}

func (f *fakeFinnhub) GetCandles(ctx context.Context, symbol string, days int) (*models.Candle, error) {
	closes, ok := f.candles[symbol]
	if !ok {
		return nil, fmt.Errorf("no candle data for %s", symbol)
	}
	return &models.Candle{Symbol: symbol, Closes: closes}, nil
}

func (f *fakeFinnhub) GetEarningsCalendar(ctx context.Context, from, to time.Time) ([]models.EarningsEvent, error) {
	return nil, nil
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}

func TestGetQuote_MockTableWithoutClient(t *testing.T) {
	s := NewService(common.NewSilentLogger(), nil)

	q, err := s.GetQuote(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}

	if q.Symbol != "AAPL" || q.Name != "Apple Inc." {
		t.Errorf("quote identity = %s/%s", q.Symbol, q.Name)
	}
	if q.Price != 193.42 {
		t.Errorf("Price = %v, want 193.42", q.Price)
	}
	if !approxEqual(q.PreviousClose, 191.27) {
		t.Errorf("PreviousClose = %v, want 191.27", q.PreviousClose)
	}
	// 2.15 / 191.27 * 100
	if !approxEqual(q.ChangePercent, 1.12) {
		t.Errorf("ChangePercent = %v, want 1.12", q.ChangePercent)
	}
	if !q.IsMock {
		t.Error("table quote must be flagged as mock")
	}
}

func TestGetQuote_SyntheticIsDeterministic(t *testing.T) {
	s := NewService(common.NewSilentLogger(), nil)

	a, err := s.GetQuote(context.Background(), "ZZZZ")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}
	b, _ := s.GetQuote(context.Background(), "ZZZZ")

	if *a != *b {
		t.Errorf("synthetic quote not stable: %+v vs %+v", a, b)
	}
	if a.Price < 50 || a.Price >= 500 {
		t.Errorf("synthetic price %v outside [50, 500)", a.Price)
	}
	if a.Change < -5 || a.Change > 5 {
		t.Errorf("synthetic change %v outside [-5, 5]", a.Change)
	}
	if !a.IsMock || a.Name != "ZZZZ" {
		t.Errorf("synthetic quote shape wrong: %+v", a)
	}
}

func TestGetQuote_LiveFailureFallsBack(t *testing.T) {
	fh := &fakeFinnhub{quoteErr: errors.New("upstream down")}
	s := NewService(common.NewSilentLogger(), fh)

	q, err := s.GetQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}
	if !q.IsMock {
		t.Error("expected mock fallback when live source fails")
	}
}

func TestGetQuote_LivePreferredAndEnriched(t *testing.T) {
	fh := &fakeFinnhub{
		quotes:   map[string]*models.Quote{"AAPL": {Symbol: "AAPL", Name: "AAPL", Price: 200, PreviousClose: 198, Change: 2, ChangePercent: 1.01}},
		profiles: map[string][2]string{"AAPL": {"Apple Inc.", "Technology"}},
	}
	s := NewService(common.NewSilentLogger(), fh)

	q, err := s.GetQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}
	if q.IsMock {
		t.Error("live quote must not be flagged as mock")
	}
	if q.Name != "Apple Inc." || q.Sector != "Technology" {
		t.Errorf("profile enrichment missing: name=%q sector=%q", q.Name, q.Sector)
	}
}

func TestGetQuote_CanceledContext(t *testing.T) {
	s := NewService(common.NewSilentLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.GetQuote(ctx, "AAPL"); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestResolve_RejectsUnknownSymbol(t *testing.T) {
	s := NewService(common.NewSilentLogger(), nil)

	if _, err := s.Resolve(context.Background(), "NOTREAL"); !errors.Is(err, interfaces.ErrSymbolNotFound) {
		t.Errorf("Resolve error = %v, want ErrSymbolNotFound", err)
	}
}

func TestResolve_AcceptsMockTableSymbol(t *testing.T) {
	s := NewService(common.NewSilentLogger(), nil)

	q, err := s.Resolve(context.Background(), "spy")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if q.Symbol != "SPY" {
		t.Errorf("Symbol = %q, want SPY", q.Symbol)
	}
}

func TestResolve_LiveFailureFallsBackToTable(t *testing.T) {
	fh := &fakeFinnhub{quoteErr: errors.New("upstream down")}
	s := NewService(common.NewSilentLogger(), fh)

	if _, err := s.Resolve(context.Background(), "AAPL"); err != nil {
		t.Errorf("table symbol should resolve despite live failure: %v", err)
	}
	if _, err := s.Resolve(context.Background(), "NOTREAL"); err == nil {
		t.Error("unknown symbol must not resolve")
	}
}

func TestGetQuotes_BulkWithEmptyEntries(t *testing.T) {
	s := NewService(common.NewSilentLogger(), nil)

	prices := s.GetQuotes(context.Background(), []string{"aapl", " ", "msft", ""})

	if len(prices) != 2 {
		t.Fatalf("got %d prices, want 2", len(prices))
	}
	if prices["AAPL"].Price != 193.42 || prices["AAPL"].Name != "Apple Inc." {
		t.Errorf("AAPL = %+v", prices["AAPL"])
	}
	if prices["MSFT"].Price != 378.91 {
		t.Errorf("MSFT = %+v", prices["MSFT"])
	}
}

func TestGetQuotes_CanceledContextYieldsPlaceholders(t *testing.T) {
	s := NewService(common.NewSilentLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	prices := s.GetQuotes(ctx, []string{"AAPL"})
	if got := prices["AAPL"]; got.Price != 0 || got.Name != "AAPL" {
		t.Errorf("placeholder = %+v, want zero price with symbol as name", got)
	}
}

func TestSectorPerformance_HistoryMath(t *testing.T) {
	fh := &fakeFinnhub{
		candles: map[string][]float64{
			// 1m ago 100, 1w ago 100, prev 106, current 110
			"XLF": {100, 101, 102, 103, 100, 104, 105, 106, 110},
		},
		quoteErr: errors.New("quote path should not matter here"),
	}
	s := NewService(common.NewSilentLogger(), fh)

	report := s.SectorPerformance(context.Background())

	var row *models.SectorPerformance
	for i := range report.Sectors {
		if report.Sectors[i].Symbol == "XLF" {
			row = &report.Sectors[i]
		}
	}
	if row == nil {
		t.Fatal("XLF row missing")
	}

	if row.Price != 110 {
		t.Errorf("Price = %v, want 110", row.Price)
	}
	if !approxEqual(row.Change, 4) {
		t.Errorf("Change = %v, want 4", row.Change)
	}
	// 110/106 - 1
	if !approxEqual(row.ChangePercent, 3.77) {
		t.Errorf("ChangePercent = %v, want 3.77", row.ChangePercent)
	}
	// closes[len-5] = 100
	if !approxEqual(row.Change1W, 10) {
		t.Errorf("Change1W = %v, want 10", row.Change1W)
	}
	if !approxEqual(row.Change1M, 10) {
		t.Errorf("Change1M = %v, want 10", row.Change1M)
	}
}

func TestSectorPerformance_ShapeAndOrdering(t *testing.T) {
	s := NewService(common.NewSilentLogger(), nil)

	report := s.SectorPerformance(context.Background())

	if len(report.Sectors) != len(sectorETFs) {
		t.Fatalf("got %d sectors, want %d", len(report.Sectors), len(sectorETFs))
	}

	for i := 1; i < len(report.Sectors); i++ {
		if report.Sectors[i-1].ChangePercent < report.Sectors[i].ChangePercent {
			t.Fatal("sectors not sorted by daily change descending")
		}
	}

	if len(report.TopGainers) > 5 || len(report.TopLosers) > 5 {
		t.Error("gainer/loser views must be capped at five")
	}
	for _, g := range report.TopGainers {
		if g.ChangePercent <= 0 {
			t.Errorf("gainer %s has non-positive change", g.Symbol)
		}
	}
	for i := 1; i < len(report.TopLosers); i++ {
		if report.TopLosers[i-1].ChangePercent > report.TopLosers[i].ChangePercent {
			t.Fatal("losers must be ordered worst first")
		}
	}
	for _, l := range report.TopLosers {
		if l.ChangePercent >= 0 {
			t.Errorf("loser %s has non-negative change", l.Symbol)
		}
	}
}
