package server

import (
	"net/http"
	"strconv"
)

// handleStock handles GET /api/stock/{symbol}.
func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := PathParam(r, "/api/stock/")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	quote, err := s.app.QuoteService.GetQuote(r.Context(), symbol)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, quote)
}

// handleSectors handles GET /api/sectors.
func (s *Server) handleSectors(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, s.app.QuoteService.SectorPerformance(r.Context()))
}

// handleNews handles GET /api/news/{symbol}?limit=5.
func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := PathParam(r, "/api/news/")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	limit := 5
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			WriteError(w, http.StatusBadRequest, "Invalid limit value")
			return
		}
		limit = parsed
	}

	WriteJSON(w, http.StatusOK, s.app.NewsService.AnalyzedNews(r.Context(), symbol, limit))
}

// handleMarketFeed handles GET /api/market-feed.
func (s *Server) handleMarketFeed(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, s.app.NewsService.MarketFeed(r.Context()))
}
