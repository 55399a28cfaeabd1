// Package models defines data structures for the portfolio analyzer
package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// NormalizeSymbol canonicalizes a ticker symbol to uppercase with
// surrounding whitespace removed. All entry points normalize before
// touching the ledger so lookups never branch on casing.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Round2 rounds a monetary value to 2 decimal places. Used only at the
// output boundary; internal accumulation stays unrounded.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Holding is one entry in the portfolio ledger: an accumulated share
// count and the share-weighted average purchase price. A CostAverage of
// zero means the cost basis is unknown.
type Holding struct {
	Shares      float64 `json:"shares"`
	CostAverage float64 `json:"cost_average"`
}

// UnmarshalJSON accepts both the current record shape and the legacy
// shape where a holding was persisted as a bare share count. Legacy
// values normalize to {shares, cost_average: 0} here so no other code
// ever branches on shape.
func (h *Holding) UnmarshalJSON(data []byte) error {
	var bare float64
	if err := json.Unmarshal(data, &bare); err == nil {
		h.Shares = bare
		h.CostAverage = 0
		return nil
	}

	type holding Holding // drop methods to avoid recursion
	var full holding
	if err := json.Unmarshal(data, &full); err != nil {
		return err
	}
	*h = Holding(full)
	return nil
}

// HoldingView is a single holding enriched with live quote data.
type HoldingView struct {
	Symbol        string  `json:"symbol"`
	Shares        float64 `json:"shares"`
	Price         float64 `json:"price"`
	Value         float64 `json:"value"`
	ChangePercent float64 `json:"change_percent"`
	Name          string  `json:"name,omitempty"`
	CostAverage   float64 `json:"cost_average"`
	CostBasis     float64 `json:"cost_basis"`
	PL            float64 `json:"pl"`
	PLPercent     float64 `json:"pl_percent"`
	Error         string  `json:"error,omitempty"`
}

// PortfolioView is the full portfolio valuation: every holding plus
// totals summed over the successfully valued ones.
type PortfolioView struct {
	Holdings           []HoldingView `json:"holdings"`
	TotalValue         float64       `json:"total_value"`
	DailyChange        float64       `json:"daily_change"`
	DailyChangePercent float64       `json:"daily_change_percent"`
	TotalCost          float64       `json:"total_cost"`
	TotalPL            float64       `json:"total_pl"`
	TotalPLPercent     float64       `json:"total_pl_percent"`
}

// PriceQuote is the trimmed per-symbol entry returned by the bulk
// price endpoint.
type PriceQuote struct {
	Price         float64 `json:"price"`
	Name          string  `json:"name"`
	ChangePercent float64 `json:"change_percent"`
}
