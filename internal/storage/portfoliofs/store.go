// Package portfoliofs implements the flat-file holdings ledger. The
// whole ledger is one JSON object {symbol -> holding}, loaded once at
// startup and rewritten in full after every mutation.
package portfoliofs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/common"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/interfaces"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/models"
)

// Store provides file-backed storage for the holdings ledger. All
// read-modify-write paths hold mu so concurrent mutations cannot lose
// updates.
type Store struct {
	path   string
	logger *common.Logger

	mu       sync.Mutex
	holdings map[string]models.Holding
}

// NewStore creates a portfolio store backed by the given file. A
// missing or corrupt file starts an empty ledger, logged but never fatal.
func NewStore(logger *common.Logger, path string) *Store {
	s := &Store{
		path:     path,
		logger:   logger,
		holdings: make(map[string]models.Holding),
	}
	s.load()
	return s
}

// load reads the persisted ledger. Legacy bare-numeric holdings are
// normalized by Holding.UnmarshalJSON during decode.
func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info().Str("path", s.path).Msg("No portfolio file, starting empty")
		} else {
			s.logger.Error().Err(err).Str("path", s.path).Msg("Failed to read portfolio file, starting empty")
		}
		return
	}

	var holdings map[string]models.Holding
	if err := json.Unmarshal(data, &holdings); err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("Corrupt portfolio file, starting empty")
		return
	}

	s.holdings = holdings
	s.logger.Info().Int("holdings", len(holdings)).Str("path", s.path).Msg("Portfolio loaded")
}

// persist rewrites the whole ledger atomically. Failures are logged and
// swallowed; the in-memory state stays authoritative until the next
// successful write. Caller must hold mu.
func (s *Store) persist() {
	if err := s.writeFile(); err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("Failed to save portfolio")
	}
}

func (s *Store) writeFile() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	jsonData, err := json.MarshalIndent(s.holdings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal portfolio: %w", err)
	}
	jsonData = append(jsonData, '\n')

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(jsonData); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Holdings returns a snapshot copy of the ledger.
func (s *Store) Holdings() map[string]models.Holding {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[string]models.Holding, len(s.holdings))
	for symbol, h := range s.holdings {
		snapshot[symbol] = h
	}
	return snapshot
}

// Get returns one holding and whether it exists.
func (s *Store) Get(symbol string) (models.Holding, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.holdings[models.NormalizeSymbol(symbol)]
	return h, ok
}

// Add creates or accumulates a holding. Repeated adds recompute the
// share-weighted average cost over cost-bearing contributions only:
// zero-cost shares never dilute a known average, in either direction.
// An existing unknown average adopts the incoming one outright.
func (s *Store) Add(symbol string, shares, costAverage float64) models.Holding {
	symbol = models.NormalizeSymbol(symbol)

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.holdings[symbol]
	if !ok {
		h := models.Holding{Shares: shares, CostAverage: costAverage}
		s.holdings[symbol] = h
		s.persist()
		return h
	}

	totalShares := existing.Shares + shares
	newAvg := existing.CostAverage
	switch {
	case costAverage > 0 && existing.CostAverage > 0:
		newAvg = weightedAverage(existing.Shares, existing.CostAverage, shares, costAverage)
	case costAverage > 0:
		// prior shares carry no known cost; the incoming average stands
		newAvg = costAverage
	}

	h := models.Holding{Shares: totalShares, CostAverage: newAvg}
	s.holdings[symbol] = h
	s.persist()
	return h
}

// weightedAverage computes the share-weighted mean purchase price in
// decimal space so repeated adds do not accumulate float drift.
func weightedAverage(oldShares, oldCost, newShares, newCost float64) float64 {
	oldTotal := decimal.NewFromFloat(oldCost).Mul(decimal.NewFromFloat(oldShares))
	newTotal := decimal.NewFromFloat(newCost).Mul(decimal.NewFromFloat(newShares))
	totalShares := decimal.NewFromFloat(oldShares).Add(decimal.NewFromFloat(newShares))

	avg, _ := oldTotal.Add(newTotal).Div(totalShares).Float64()
	return avg
}

// Remove deletes a holding. Returns ErrHoldingNotFound if absent; the
// ledger is untouched on failure.
func (s *Store) Remove(symbol string) error {
	symbol = models.NormalizeSymbol(symbol)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.holdings[symbol]; !ok {
		return interfaces.ErrHoldingNotFound
	}

	delete(s.holdings, symbol)
	s.persist()
	return nil
}

// Update overwrites only the non-nil fields of a holding. Returns
// ErrHoldingNotFound if absent.
func (s *Store) Update(symbol string, shares, costAverage *float64) (models.Holding, error) {
	symbol = models.NormalizeSymbol(symbol)

	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.holdings[symbol]
	if !ok {
		return models.Holding{}, interfaces.ErrHoldingNotFound
	}

	if shares != nil {
		h.Shares = *shares
	}
	if costAverage != nil {
		h.CostAverage = *costAverage
	}

	s.holdings[symbol] = h
	s.persist()
	return h, nil
}

// Ensure Store implements PortfolioStore
var _ interfaces.PortfolioStore = (*Store)(nil)
