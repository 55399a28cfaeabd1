// Package news provides per-symbol headlines with sentiment and the
// aggregated market feed. Like quotes, news is total: every fetch tier
// failing still produces demo articles.
package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/common"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/interfaces"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/models"
)

// feedTimeFormat is the display timestamp on market feed items.
const feedTimeFormat = "Jan 02, 03:04 PM"

const (
	newsfilterSize = 20
	rssLimit       = 15
	feedMax        = 20
	maxFeedSymbols = 3
	maxFeedText    = 280
)

// mockArticle is one row of the demo headline table.
type mockArticle struct {
	Title  string
	Source string
}

// mockNews covers the symbols the demo frontend ships with.
var mockNews = map[string][]mockArticle{
	"AAPL": {
		{"Apple Reports Strong iPhone Sales in Holiday Quarter", "Reuters"},
		{"Apple's Services Revenue Continues Growth Trajectory", "Bloomberg"},
		{"Apple Announces New Product Launch Event for Spring", "CNBC"},
		{"Apple Faces Regulatory Challenges in EU Market", "WSJ"},
		{"Apple Stock Reaches New All-Time High", "MarketWatch"},
	},
	"GOOGL": {
		{"Google AI Advances Drive Cloud Revenue Growth", "Reuters"},
		{"Alphabet Reports Better Than Expected Earnings", "Bloomberg"},
		{"Google Faces New Antitrust Investigation", "WSJ"},
	},
	"MSFT": {
		{"Microsoft Azure Growth Exceeds Expectations", "CNBC"},
		{"Microsoft's AI Integration Boosts Office 365 Subscriptions", "Reuters"},
		{"Microsoft Gaming Division Shows Strong Performance", "Bloomberg"},
	},
	"TSLA": {
		{"Tesla Deliveries Beat Analyst Expectations", "Reuters"},
		{"Tesla Cuts Prices on Popular Models", "Bloomberg"},
		{"Tesla Expands Supercharger Network in Europe", "CNBC"},
	},
	"NVDA": {
		{"NVIDIA's AI Chip Demand Surges Amid AI Boom", "Reuters"},
		{"NVIDIA Data Center Revenue Hits Record High", "Bloomberg"},
		{"NVIDIA Announces Next-Gen GPU Architecture", "CNBC"},
	},
}

// Service implements the NewsService interface. yahoo, newsfilter and
// googleNews may each be nil; missing tiers are skipped.
type Service struct {
	yahoo      interfaces.YahooNewsClient
	newsfilter interfaces.NewsfilterClient
	googleNews interfaces.GoogleNewsClient
	sentiment  interfaces.SentimentService
	logger     *common.Logger

	now func() time.Time
}

// NewService creates a news service.
func NewService(
	logger *common.Logger,
	yahoo interfaces.YahooNewsClient,
	newsfilter interfaces.NewsfilterClient,
	googleNews interfaces.GoogleNewsClient,
	sentiment interfaces.SentimentService,
) *Service {
	return &Service{
		yahoo:      yahoo,
		newsfilter: newsfilter,
		googleNews: googleNews,
		sentiment:  sentiment,
		logger:     logger,
		now:        time.Now,
	}
}

// GetNews retrieves up to limit articles for a symbol. The live search
// is preferred; failures and empty results degrade to the demo table,
// then to a single generic placeholder.
func (s *Service) GetNews(ctx context.Context, symbol string, limit int) []*models.NewsArticle {
	symbol = models.NormalizeSymbol(symbol)
	if limit <= 0 {
		limit = 5
	}

	if s.yahoo != nil {
		articles, err := s.yahoo.Search(ctx, symbol, limit)
		if err == nil && len(articles) > 0 {
			return articles
		}
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("News search failed, using mock news")
		}
	}

	return s.sampleNews(symbol, limit)
}

// sampleNews builds demo articles for a symbol.
func (s *Service) sampleNews(symbol string, limit int) []*models.NewsArticle {
	published := s.now().Format(models.NewsTimeFormat)
	url := fmt.Sprintf("https://finance.yahoo.com/quote/%s", symbol)

	if table, ok := mockNews[symbol]; ok {
		if limit > len(table) {
			limit = len(table)
		}

		articles := make([]*models.NewsArticle, 0, limit)
		for _, a := range table[:limit] {
			articles = append(articles, &models.NewsArticle{
				Title:     a.Title,
				Summary:   fmt.Sprintf("This is a demo news article about %s.", symbol),
				URL:       url,
				Source:    a.Source,
				Published: published,
				IsMock:    true,
			})
		}
		return articles
	}

	return []*models.NewsArticle{{
		Title:     fmt.Sprintf("%s Shows Mixed Trading Activity", symbol),
		Summary:   fmt.Sprintf("Trading activity in %s continues with normal volume.", symbol),
		URL:       url,
		Source:    "Market Update",
		Published: published,
		IsMock:    true,
	}}
}

// AnalyzedNews retrieves articles with sentiment attached plus the
// aggregate label: mean score above 0.2 is bullish, below -0.2 bearish,
// the band between is neutral.
func (s *Service) AnalyzedNews(ctx context.Context, symbol string, limit int) *models.SymbolNews {
	symbol = models.NormalizeSymbol(symbol)

	articles := s.GetNews(ctx, symbol, limit)
	result := &models.SymbolNews{
		Symbol:           symbol,
		News:             articles,
		OverallSentiment: models.SentimentNeutral,
	}

	if len(articles) == 0 {
		result.News = []*models.NewsArticle{}
		return result
	}

	var total float64
	for _, article := range articles {
		sentiment := s.sentiment.Classify(ctx, article.Title, article.Summary)
		article.Sentiment = &sentiment
		total += sentiment.Score
	}

	avg := total / float64(len(articles))
	switch {
	case avg > 0.2:
		result.OverallSentiment = models.SentimentBullish
	case avg < -0.2:
		result.OverallSentiment = models.SentimentBearish
	}
	result.SentimentScore = models.Round2(avg)

	return result
}

// MarketFeed retrieves aggregated market headlines. Tiers: the curated
// newsfilter query, then the Google News RSS search, then a static
// placeholder pair. Source names the tier that produced the articles.
func (s *Service) MarketFeed(ctx context.Context) *models.MarketFeed {
	feed := &models.MarketFeed{FetchedAt: s.now()}

	if s.newsfilter != nil {
		articles, err := s.newsfilter.GetArticles(ctx, newsfilterSize)
		if err == nil && len(articles) > 0 {
			feed.Articles = s.shapeArticles(articles)
			feed.Source = "newsfilter.io"
			return feed
		}
		if err != nil {
			s.logger.Warn().Err(err).Msg("Newsfilter feed failed, trying RSS")
		}
	}

	if s.googleNews != nil {
		articles, err := s.googleNews.MarketHeadlines(ctx, rssLimit)
		if err == nil && len(articles) > 0 {
			feed.Articles = s.shapeArticles(articles)
			feed.Source = "google_news"
			return feed
		}
		if err != nil {
			s.logger.Warn().Err(err).Msg("RSS feed failed, using placeholder")
		}
	}

	feed.Articles = s.placeholderFeed()
	feed.Source = "static"
	return feed
}

// shapeArticles converts raw headlines into the feed-style items the
// frontend renders.
func (s *Service) shapeArticles(articles []models.MarketArticle) []models.FeedItem {
	if len(articles) > feedMax {
		articles = articles[:feedMax]
	}

	items := make([]models.FeedItem, 0, len(articles))
	for _, a := range articles {
		source := a.SourceName
		if source == "" {
			source = "News"
		}

		link := a.URL
		if link == "" {
			link = "#"
		}

		var timeStr string
		if !a.PublishedAt.IsZero() {
			timeStr = a.PublishedAt.Format(feedTimeFormat)
		}

		items = append(items, models.FeedItem{
			Account:     "@" + strings.ReplaceAll(source, " ", ""),
			DisplayName: source,
			Text:        truncate(a.Title, maxFeedText),
			Time:        timeStr,
			Link:        link,
			Symbols:     formatSymbols(a.Symbols),
		})
	}

	return items
}

// formatSymbols renders up to three tickers as cashtags, "$AAPL $MSFT".
func formatSymbols(symbols []string) string {
	if len(symbols) == 0 {
		return ""
	}
	if len(symbols) > maxFeedSymbols {
		symbols = symbols[:maxFeedSymbols]
	}

	tags := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		tags = append(tags, "$"+sym)
	}
	return strings.Join(tags, " ")
}

func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}

// placeholderFeed is the last-resort feed when every source is down.
func (s *Service) placeholderFeed() []models.FeedItem {
	return []models.FeedItem{
		{
			Account:     "@MarketUpdate",
			DisplayName: "Market Update",
			Text:        "Markets are open. Check individual stocks for latest prices.",
			Time:        s.now().Format("03:04 PM"),
			Link:        "#",
		},
		{
			Account:     "@TradingView",
			DisplayName: "Trading Tip",
			Text:        "Monitor your sector exposure and upcoming earnings for risk management.",
			Link:        "#",
		},
	}
}

// Ensure Service implements NewsService
var _ interfaces.NewsService = (*Service)(nil)
