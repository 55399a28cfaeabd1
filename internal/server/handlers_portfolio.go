package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/interfaces"
)

// writeServiceError maps service errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, interfaces.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, interfaces.ErrHoldingNotFound), errors.Is(err, interfaces.ErrSymbolNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

// handlePortfolio handles GET /api/portfolio.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, s.app.PortfolioService.ComputeView(r.Context()))
}

// handlePortfolioPrices handles GET /api/portfolio/prices?symbols=A,B.
// Serves browser-local portfolios that only need quotes, not the ledger.
func (s *Server) handlePortfolioPrices(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	var symbols []string
	for _, part := range strings.Split(r.URL.Query().Get("symbols"), ",") {
		if part = strings.TrimSpace(part); part != "" {
			symbols = append(symbols, part)
		}
	}

	prices := s.app.QuoteService.GetQuotes(r.Context(), symbols)
	WriteJSON(w, http.StatusOK, map[string]interface{}{"prices": prices})
}

// addRequest is the JSON body alternative to the query parameters on
// /api/portfolio/add.
type addRequest struct {
	Symbol      string  `json:"symbol"`
	Shares      float64 `json:"shares"`
	CostAverage float64 `json:"cost_average"`
}

// handlePortfolioAdd handles POST /api/portfolio/add. Parameters come
// from the query string, or a JSON body when no symbol is given there.
func (s *Server) handlePortfolioAdd(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	query := r.URL.Query()
	symbol := query.Get("symbol")
	shares := 1.0
	costAverage := 0.0

	if symbol != "" {
		if v := query.Get("shares"); v != "" {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				WriteError(w, http.StatusBadRequest, "Invalid shares value")
				return
			}
			shares = parsed
		}
		if v := query.Get("cost_average"); v != "" {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				WriteError(w, http.StatusBadRequest, "Invalid cost_average value")
				return
			}
			costAverage = parsed
		}
	} else {
		var req addRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		symbol = req.Symbol
		if req.Shares != 0 {
			shares = req.Shares
		}
		costAverage = req.CostAverage
	}

	holdings, err := s.app.PortfolioService.AddHolding(r.Context(), symbol, shares, costAverage)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":   fmt.Sprintf("Added %g shares of %s", shares, strings.ToUpper(strings.TrimSpace(symbol))),
		"portfolio": holdings,
	})
}

// handlePortfolioRemove handles DELETE /api/portfolio/remove/{symbol}.
func (s *Server) handlePortfolioRemove(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	symbol := PathParam(r, "/api/portfolio/remove/")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	holdings, err := s.app.PortfolioService.RemoveHolding(r.Context(), symbol)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":   fmt.Sprintf("Removed %s", strings.ToUpper(strings.TrimSpace(symbol))),
		"portfolio": holdings,
	})
}

// handlePortfolioUpdate handles PUT /api/portfolio/update/{symbol}.
// shares and cost_average are both optional; absent fields keep their
// current values.
func (s *Server) handlePortfolioUpdate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	symbol := PathParam(r, "/api/portfolio/update/")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	query := r.URL.Query()

	var shares, costAverage *float64
	if v := query.Get("shares"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid shares value")
			return
		}
		shares = &parsed
	}
	if v := query.Get("cost_average"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid cost_average value")
			return
		}
		costAverage = &parsed
	}

	holding, err := s.app.PortfolioService.UpdateHolding(r.Context(), symbol, shares, costAverage)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Updated %s", strings.ToUpper(strings.TrimSpace(symbol))),
		"holding": holding,
	})
}
