// Package quote provides the quote service: live market data with
// automatic fallback to demo data, so valuation endpoints never go dark
// when the upstream is missing or failing.
package quote

import (
	"context"
	"math/rand"
	"sort"

	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/common"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/interfaces"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/models"
)

// mockEntry is one row of the demo quote table. Change is the daily
// dollar change; previous close and percent change derive from it.
type mockEntry struct {
	Name   string
	Price  float64
	Change float64
	Sector string
}

// mockQuotes covers the symbols the demo frontend ships with.
var mockQuotes = map[string]mockEntry{
	"AAPL":  {"Apple Inc.", 193.42, 2.15, "Technology"},
	"GOOGL": {"Alphabet Inc.", 140.45, -1.23, "Communication Services"},
	"MSFT":  {"Microsoft Corp.", 378.91, 3.45, "Technology"},
	"AMZN":  {"Amazon.com Inc.", 180.24, 1.87, "Consumer Cyclical"},
	"TSLA":  {"Tesla Inc.", 251.73, -5.42, "Consumer Cyclical"},
	"NVDA":  {"NVIDIA Corp.", 478.92, 12.34, "Technology"},
	"META":  {"Meta Platforms", 335.67, 4.21, "Communication Services"},
	"AMD":   {"AMD Inc.", 141.23, 2.67, "Technology"},
	"NFLX":  {"Netflix Inc.", 478.93, 1.45, "Communication Services"},
	"SPY":   {"S&P 500 ETF", 460.25, 1.12, "Index"},
}

// sectorETF is one sector-proxy row of the performance table.
type sectorETF struct {
	Name     string
	Symbol   string
	Category string
}

// sectorETFs maps each tracked sector to its proxy ETF.
var sectorETFs = []sectorETF{
	{"🤖 Robotics & AI", "BOTZ", "tech"},
	{"💊 Healthcare", "XLV", "health"},
	{"🛒 Retail", "XRT", "consumer"},
	{"💻 Software", "IGV", "tech"},
	{"🏢 Data Centers/REITs", "VNQ", "real_estate"},
	{"🔬 Semiconductors", "SMH", "tech"},
	{"⚡ Clean Energy", "ICLN", "energy"},
	{"🏦 Financials", "XLF", "finance"},
	{"🏭 Industrials", "XLI", "industrial"},
	{"📡 Communication", "XLC", "tech"},
	{"🛡️ Cybersecurity", "HACK", "tech"},
	{"☁️ Cloud Computing", "SKYY", "tech"},
	{"🧬 Biotech", "XBI", "health"},
	{"🛢️ Energy", "XLE", "energy"},
	{"📦 Small Caps", "IWM", "market"},
}

// candleDays is the lookback window for the sector history fetch.
const candleDays = 30

// Service implements the QuoteService interface. A nil finnhub client
// means no live source is configured and every quote is demo data.
type Service struct {
	finnhub interfaces.FinnhubClient
	logger  *common.Logger
}

// NewService creates a quote service. finnhub may be nil.
func NewService(logger *common.Logger, finnhub interfaces.FinnhubClient) *Service {
	return &Service{
		finnhub: finnhub,
		logger:  logger,
	}
}

// GetQuote retrieves a quote for a symbol. Live data is preferred; any
// live failure degrades to the demo table, then to deterministic
// synthetic data, so the only error is a finished request context.
func (s *Service) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = models.NormalizeSymbol(symbol)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.finnhub != nil {
		quote, err := s.fetchLive(ctx, symbol)
		if err == nil {
			return quote, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Live quote failed, using mock data")
	}

	return s.mockQuote(symbol), nil
}

// Resolve checks that a symbol maps to known market data. Unlike
// GetQuote it refuses to invent a quote: unknown symbols fail so the
// ledger cannot accumulate typos.
func (s *Service) Resolve(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = models.NormalizeSymbol(symbol)

	if s.finnhub != nil {
		quote, err := s.fetchLive(ctx, symbol)
		if err == nil {
			return quote, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Debug().Err(err).Str("symbol", symbol).Msg("Live resolve failed, checking mock table")
	}

	if _, ok := mockQuotes[symbol]; ok {
		return s.mockQuote(symbol), nil
	}

	return nil, interfaces.ErrSymbolNotFound
}

// fetchLive retrieves a live quote and best-effort enriches it with the
// company profile. A profile failure keeps the symbol as the name.
func (s *Service) fetchLive(ctx context.Context, symbol string) (*models.Quote, error) {
	quote, err := s.finnhub.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if name, sector, err := s.finnhub.GetProfile(ctx, symbol); err == nil {
		quote.Name = name
		quote.Sector = sector
	}

	return quote, nil
}

// mockQuote returns demo data: the fixed table for known symbols, a
// symbol-seeded synthetic quote otherwise. Seeding keeps repeated calls
// for the same unknown symbol stable within and across requests.
func (s *Service) mockQuote(symbol string) *models.Quote {
	if entry, ok := mockQuotes[symbol]; ok {
		prev := entry.Price - entry.Change
		return &models.Quote{
			Symbol:        symbol,
			Name:          entry.Name,
			Price:         models.Round2(entry.Price),
			PreviousClose: models.Round2(prev),
			Change:        models.Round2(entry.Change),
			ChangePercent: models.Round2(entry.Change / prev * 100),
			Sector:        entry.Sector,
			IsMock:        true,
		}
	}

	rng := rand.New(rand.NewSource(symbolSeed(symbol)))
	price := 50 + rng.Float64()*450
	change := -5 + rng.Float64()*10
	prev := price - change

	return &models.Quote{
		Symbol:        symbol,
		Name:          symbol,
		Price:         models.Round2(price),
		PreviousClose: models.Round2(prev),
		Change:        models.Round2(change),
		ChangePercent: models.Round2(change / prev * 100),
		IsMock:        true,
	}
}

// symbolSeed hashes a symbol into a deterministic RNG seed.
func symbolSeed(symbol string) int64 {
	var seed int64
	for _, r := range symbol {
		seed = seed*31 + int64(r)
	}
	return seed
}

// GetQuotes retrieves trimmed quotes for a symbol list. A per-symbol
// failure degrades to a zero-filled placeholder so one bad entry never
// sinks the batch.
func (s *Service) GetQuotes(ctx context.Context, symbols []string) map[string]models.PriceQuote {
	prices := make(map[string]models.PriceQuote, len(symbols))

	for _, raw := range symbols {
		symbol := models.NormalizeSymbol(raw)
		if symbol == "" {
			continue
		}

		quote, err := s.GetQuote(ctx, symbol)
		if err != nil {
			prices[symbol] = models.PriceQuote{Price: 0, Name: symbol, ChangePercent: 0}
			continue
		}

		prices[symbol] = models.PriceQuote{
			Price:         quote.Price,
			Name:          quote.Name,
			ChangePercent: quote.ChangePercent,
		}
	}

	return prices
}

// SectorPerformance builds the sector-proxy ETF table. History-backed
// rows carry weekly and monthly changes; when history is unavailable
// the row degrades to the daily quote with flat longer windows.
func (s *Service) SectorPerformance(ctx context.Context) *models.SectorReport {
	sectors := make([]models.SectorPerformance, 0, len(sectorETFs))

	for _, etf := range sectorETFs {
		sectors = append(sectors, s.sectorRow(ctx, etf))
	}

	// best daily performers first
	sort.SliceStable(sectors, func(i, j int) bool {
		return sectors[i].ChangePercent > sectors[j].ChangePercent
	})

	report := &models.SectorReport{Sectors: sectors}

	for _, sec := range sectors {
		if sec.ChangePercent > 0 && len(report.TopGainers) < 5 {
			report.TopGainers = append(report.TopGainers, sec)
		}
	}

	// worst five, worst first
	for i := len(sectors) - 1; i >= 0 && len(report.TopLosers) < 5; i-- {
		if sectors[i].ChangePercent < 0 {
			report.TopLosers = append(report.TopLosers, sectors[i])
		}
	}

	return report
}

func (s *Service) sectorRow(ctx context.Context, etf sectorETF) models.SectorPerformance {
	row := models.SectorPerformance{
		Name:     etf.Name,
		Symbol:   etf.Symbol,
		Category: etf.Category,
	}

	if s.finnhub != nil {
		if candle, err := s.finnhub.GetCandles(ctx, etf.Symbol, candleDays); err == nil && len(candle.Closes) > 0 {
			fillFromHistory(&row, candle.Closes)
			return row
		} else if err != nil {
			s.logger.Debug().Err(err).Str("symbol", etf.Symbol).Msg("Sector history unavailable")
		}
	}

	quote, err := s.GetQuote(ctx, etf.Symbol)
	if err != nil {
		row.Error = err.Error()
		return row
	}

	row.Price = quote.Price
	row.Change = quote.Change
	row.ChangePercent = quote.ChangePercent
	return row
}

// fillFromHistory derives the daily, 1-week (5 trading days) and
// 1-month changes from a daily close series, most recent last.
func fillFromHistory(row *models.SectorPerformance, closes []float64) {
	current := closes[len(closes)-1]
	row.Price = models.Round2(current)

	if len(closes) >= 2 {
		prev := closes[len(closes)-2]
		row.Change = models.Round2(current - prev)
		if prev != 0 {
			row.ChangePercent = models.Round2((current/prev - 1) * 100)
		}
	}

	if len(closes) >= 5 {
		weekAgo := closes[len(closes)-5]
		if weekAgo != 0 {
			row.Change1W = models.Round2((current/weekAgo - 1) * 100)
		}
	}

	monthAgo := closes[0]
	if monthAgo != 0 {
		row.Change1M = models.Round2((current/monthAgo - 1) * 100)
	}
}

// Ensure Service implements QuoteService
var _ interfaces.QuoteService = (*Service)(nil)
