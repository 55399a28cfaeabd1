package server

import "net/http"

// handleMarketContext handles GET /api/market-context. Always 200: a
// failed generation carries its error inside the payload so the UI can
// render the degraded state.
func (s *Server) handleMarketContext(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, s.app.NarrativeService.MarketContext(r.Context()))
}

// handlePortfolioAnalysis handles GET /api/portfolio-analysis.
func (s *Server) handlePortfolioAnalysis(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	analysis, err := s.app.NarrativeService.PortfolioAnalysis(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, analysis)
}
