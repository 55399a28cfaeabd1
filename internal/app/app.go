// Package app wires configuration, clients, storage and services into
// the shared core used by cmd/folio-server.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/clients/finnhub"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/clients/forexfactory"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/clients/gemini"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/clients/googlenews"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/clients/newsfilter"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/clients/yahoo"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/common"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/interfaces"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/services/narrative"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/services/news"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/services/portfolio"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/services/quote"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/services/sentiment"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/storage/portfoliofs"
)

// App holds all initialized clients and services. Client fields are nil
// when the corresponding upstream is not configured; services treat a
// nil client as "use fallback data".
type App struct {
	Config *common.Config
	Logger *common.Logger
	Store  interfaces.PortfolioStore

	FinnhubClient interfaces.FinnhubClient
	GeminiClient  interfaces.GeminiClient

	QuoteService     interfaces.QuoteService
	NewsService      interfaces.NewsService
	SentimentService interfaces.SentimentService
	PortfolioService interfaces.PortfolioService
	NarrativeService interfaces.NarrativeService
}

// NewApp initializes the application core. configPath may be empty, in
// which case FOLIO_CONFIG and the default locations are tried.
func NewApp(configPath string) (*App, error) {
	if configPath == "" {
		configPath = os.Getenv("FOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = "config/folio.toml"
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	if config.Storage.PortfolioFile != "" && !filepath.IsAbs(config.Storage.PortfolioFile) {
		if wd, err := os.Getwd(); err == nil {
			config.Storage.PortfolioFile = filepath.Join(wd, config.Storage.PortfolioFile)
		}
	}

	store := portfoliofs.NewStore(logger, config.Storage.PortfolioFile)

	a := &App{
		Config: config,
		Logger: logger,
		Store:  store,
	}

	a.initClients(config, logger)
	a.initServices(config, logger)

	return a, nil
}

func (a *App) initClients(config *common.Config, logger *common.Logger) {
	if key := config.Clients.Finnhub.APIKey; key != "" {
		a.FinnhubClient = finnhub.NewClient(key,
			finnhub.WithLogger(logger),
			finnhub.WithBaseURL(config.Clients.Finnhub.BaseURL),
			finnhub.WithRateLimit(config.Clients.Finnhub.RateLimit),
			finnhub.WithTimeout(config.Clients.Finnhub.GetTimeout()),
		)
	} else {
		logger.Warn().Msg("Finnhub API key not configured - quotes will use mock data")
	}

	if key := config.Clients.Gemini.APIKey; key != "" {
		client, err := gemini.NewClient(context.Background(), key,
			gemini.WithLogger(logger),
			gemini.WithModel(config.Clients.Gemini.Model),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client")
		} else {
			a.GeminiClient = client
		}
	} else {
		logger.Warn().Msg("Gemini API key not configured - AI analysis will use fallbacks")
	}
}

func (a *App) initServices(config *common.Config, logger *common.Logger) {
	yahooClient := yahoo.NewClient(
		yahoo.WithLogger(logger),
		yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
	)
	newsfilterClient := newsfilter.NewClient(
		newsfilter.WithLogger(logger),
		newsfilter.WithBaseURL(config.Clients.Newsfilter.BaseURL),
		newsfilter.WithTimeout(config.Clients.Newsfilter.GetTimeout()),
	)
	googleNewsClient := googlenews.NewClient(
		googlenews.WithLogger(logger),
		googlenews.WithFeedURL(config.Clients.GoogleNews.FeedURL),
		googlenews.WithTimeout(config.Clients.GoogleNews.GetTimeout()),
	)
	calendarClient := forexfactory.NewClient(
		forexfactory.WithLogger(logger),
		forexfactory.WithFeedURL(config.Clients.ForexFactory.FeedURL),
		forexfactory.WithTimeout(config.Clients.ForexFactory.GetTimeout()),
	)

	a.QuoteService = quote.NewService(logger, a.FinnhubClient)
	a.SentimentService = sentiment.NewService(logger, a.GeminiClient)
	a.NewsService = news.NewService(logger, yahooClient, newsfilterClient, googleNewsClient, a.SentimentService)
	a.PortfolioService = portfolio.NewService(logger, a.Store, a.QuoteService)
	a.NarrativeService = narrative.NewService(logger, a.GeminiClient, newsfilterClient, calendarClient, a.FinnhubClient, a.PortfolioService)
}
