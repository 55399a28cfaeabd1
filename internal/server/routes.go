package server

import "net/http"

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Portfolio
	mux.HandleFunc("/api/portfolio", s.handlePortfolio)
	mux.HandleFunc("/api/portfolio/prices", s.handlePortfolioPrices)
	mux.HandleFunc("/api/portfolio/add", s.handlePortfolioAdd)
	mux.HandleFunc("/api/portfolio/remove/", s.handlePortfolioRemove)
	mux.HandleFunc("/api/portfolio/update/", s.handlePortfolioUpdate)

	// Market data
	mux.HandleFunc("/api/stock/", s.handleStock)
	mux.HandleFunc("/api/sectors", s.handleSectors)

	// News
	mux.HandleFunc("/api/news/", s.handleNews)
	mux.HandleFunc("/api/market-feed", s.handleMarketFeed)

	// AI narratives
	mux.HandleFunc("/api/market-context", s.handleMarketContext)
	mux.HandleFunc("/api/portfolio-analysis", s.handlePortfolioAnalysis)
}
