package interfaces

import (
	"errors"

	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/models"
)

// ErrHoldingNotFound is returned by store mutations that reference a
// symbol absent from the ledger.
var ErrHoldingNotFound = errors.New("holding not found")

// ErrSymbolNotFound is returned by Resolve when a symbol maps to no
// known market data.
var ErrSymbolNotFound = errors.New("symbol not found")

// ErrInvalidInput marks a request rejected before touching any state.
var ErrInvalidInput = errors.New("invalid input")

// PortfolioStore owns the holdings ledger. Loaded once at startup and
// rewritten to disk in full after every mutation; a write failure is
// logged and the in-memory state stays authoritative.
type PortfolioStore interface {
	// Holdings returns a snapshot copy of the ledger
	Holdings() map[string]models.Holding

	// Get returns one holding and whether it exists
	Get(symbol string) (models.Holding, bool)

	// Add creates or accumulates a holding, recomputing the
	// share-weighted average cost, and returns the resulting record
	Add(symbol string, shares, costAverage float64) models.Holding

	// Remove deletes a holding. Returns ErrHoldingNotFound if absent.
	Remove(symbol string) error

	// Update overwrites only the non-nil fields of a holding. Returns
	// ErrHoldingNotFound if absent.
	Update(symbol string, shares, costAverage *float64) (models.Holding, error)
}
