// Package portfolio joins the holdings ledger with live quotes to
// produce the valued portfolio views.
package portfolio

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/common"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/interfaces"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/models"
)

// Service implements the PortfolioService interface.
type Service struct {
	store  interfaces.PortfolioStore
	quotes interfaces.QuoteService
	logger *common.Logger
}

// NewService creates a portfolio service.
func NewService(logger *common.Logger, store interfaces.PortfolioStore, quotes interfaces.QuoteService) *Service {
	return &Service{
		store:  store,
		quotes: quotes,
		logger: logger,
	}
}

// ComputeView values every holding and sums portfolio totals. A failed
// quote zeroes that holding and records the error without sinking the
// rest; totals cover only the successfully valued holdings.
// Accumulation stays unrounded, rounding happens once at the boundary.
func (s *Service) ComputeView(ctx context.Context) *models.PortfolioView {
	holdings := s.store.Holdings()

	view := &models.PortfolioView{Holdings: make([]models.HoldingView, 0, len(holdings))}
	if len(holdings) == 0 {
		return view
	}

	var totalValue, totalChange, totalCost, totalPL float64

	for _, symbol := range sortedSymbols(holdings) {
		h := holdings[symbol]

		quote, err := s.quotes.GetQuote(ctx, symbol)
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Failed to value holding")
			view.Holdings = append(view.Holdings, models.HoldingView{
				Symbol:      symbol,
				Shares:      h.Shares,
				CostAverage: h.CostAverage,
				Error:       err.Error(),
			})
			continue
		}

		value := quote.Price * h.Shares
		costBasis := h.CostAverage * h.Shares

		var pl, plPercent float64
		if h.CostAverage > 0 {
			pl = value - costBasis
			plPercent = (quote.Price - h.CostAverage) / h.CostAverage * 100
		}

		view.Holdings = append(view.Holdings, models.HoldingView{
			Symbol:        symbol,
			Shares:        h.Shares,
			Price:         quote.Price,
			Value:         models.Round2(value),
			ChangePercent: quote.ChangePercent,
			Name:          quote.Name,
			CostAverage:   h.CostAverage,
			CostBasis:     models.Round2(costBasis),
			PL:            models.Round2(pl),
			PLPercent:     models.Round2(plPercent),
		})

		totalValue += value
		totalChange += value * (quote.ChangePercent / 100)
		totalCost += costBasis
		totalPL += pl
	}

	view.TotalValue = models.Round2(totalValue)
	view.DailyChange = models.Round2(totalChange)
	if totalValue > 0 {
		view.DailyChangePercent = models.Round2(totalChange / totalValue * 100)
	}
	view.TotalCost = models.Round2(totalCost)
	view.TotalPL = models.Round2(totalPL)
	if totalCost > 0 {
		view.TotalPLPercent = models.Round2(totalPL / totalCost * 100)
	}

	return view
}

// AddHolding validates the symbol against the quote provider before
// touching the ledger, so typos cannot accumulate as phantom holdings.
func (s *Service) AddHolding(ctx context.Context, symbol string, shares, costAverage float64) (map[string]models.Holding, error) {
	symbol = models.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", interfaces.ErrInvalidInput)
	}
	if shares <= 0 {
		return nil, fmt.Errorf("%w: shares must be positive", interfaces.ErrInvalidInput)
	}
	if costAverage < 0 {
		return nil, fmt.Errorf("%w: cost average cannot be negative", interfaces.ErrInvalidInput)
	}

	if _, err := s.quotes.Resolve(ctx, symbol); err != nil {
		return nil, fmt.Errorf("stock %s not found: %w", symbol, err)
	}

	h := s.store.Add(symbol, shares, costAverage)
	s.logger.Info().Str("symbol", symbol).Float64("shares", h.Shares).Msg("Holding added")

	return s.store.Holdings(), nil
}

// RemoveHolding deletes a holding from the ledger.
func (s *Service) RemoveHolding(ctx context.Context, symbol string) (map[string]models.Holding, error) {
	symbol = models.NormalizeSymbol(symbol)

	if err := s.store.Remove(symbol); err != nil {
		return nil, err
	}

	s.logger.Info().Str("symbol", symbol).Msg("Holding removed")
	return s.store.Holdings(), nil
}

// UpdateHolding overwrites only the provided fields of a holding.
func (s *Service) UpdateHolding(ctx context.Context, symbol string, shares, costAverage *float64) (*models.Holding, error) {
	symbol = models.NormalizeSymbol(symbol)

	if shares != nil && *shares <= 0 {
		return nil, fmt.Errorf("%w: shares must be positive", interfaces.ErrInvalidInput)
	}
	if costAverage != nil && *costAverage < 0 {
		return nil, fmt.Errorf("%w: cost average cannot be negative", interfaces.ErrInvalidInput)
	}

	h, err := s.store.Update(symbol, shares, costAverage)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("symbol", symbol).Msg("Holding updated")
	return &h, nil
}

// AnalysisContext values each holding for the analysis prompt and
// groups value by sector, normalized to percentages of total value.
// Holdings that cannot be valued are skipped rather than zeroed; the
// prompt has no use for a row with no price.
func (s *Service) AnalysisContext(ctx context.Context) ([]models.AnalysisHolding, map[string]float64, float64) {
	holdings := s.store.Holdings()

	summary := make([]models.AnalysisHolding, 0, len(holdings))
	exposure := make(map[string]float64)
	var totalValue float64

	for _, symbol := range sortedSymbols(holdings) {
		h := holdings[symbol]

		quote, err := s.quotes.GetQuote(ctx, symbol)
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Skipping holding in analysis")
			continue
		}

		sector := quote.Sector
		if sector == "" {
			sector = "Unknown"
		}

		value := quote.Price * h.Shares
		totalValue += value
		exposure[sector] += value

		summary = append(summary, models.AnalysisHolding{
			Symbol:        symbol,
			Name:          quote.Name,
			Shares:        h.Shares,
			Price:         quote.Price,
			Value:         value,
			ChangePercent: quote.ChangePercent,
			Sector:        sector,
		})
	}

	sectorPct := make(map[string]float64, len(exposure))
	for sector, value := range exposure {
		var pct float64
		if totalValue > 0 {
			pct = value / totalValue * 100
		}
		sectorPct[sector] = round1(pct)
	}

	return summary, sectorPct, totalValue
}

func round1(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(1).Float64()
	return f
}

func sortedSymbols(holdings map[string]models.Holding) []string {
	symbols := make([]string, 0, len(holdings))
	for symbol := range holdings {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// Ensure Service implements PortfolioService
var _ interfaces.PortfolioService = (*Service)(nil)
