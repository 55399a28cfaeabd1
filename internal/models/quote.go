package models

// Quote is a live price snapshot for one symbol. Never persisted.
// Invariants: Price = PreviousClose + Change; ChangePercent is
// Change/PreviousClose*100 with a zero-previous-close guard.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	PreviousClose float64 `json:"previous_close"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Sector        string  `json:"sector,omitempty"`
	IsMock        bool    `json:"is_mock,omitempty"`
}

// SectorPerformance is one sector-proxy ETF row with daily, weekly and
// monthly percent changes.
type SectorPerformance struct {
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	Category      string  `json:"category"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Change1W      float64 `json:"change_1w"`
	Change1M      float64 `json:"change_1m"`
	Error         string  `json:"error,omitempty"`
}

// SectorReport is the sector performance table with derived gainer and
// loser views.
type SectorReport struct {
	Sectors    []SectorPerformance `json:"sectors"`
	TopGainers []SectorPerformance `json:"top_gainers"`
	TopLosers  []SectorPerformance `json:"top_losers"`
}

// Candle holds a daily close series for one symbol, most recent last.
type Candle struct {
	Symbol string    `json:"symbol"`
	Closes []float64 `json:"closes"`
}
