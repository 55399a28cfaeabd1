package news

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/common"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/models"
)

// fakeYahoo is a scriptable YahooNewsClient.
type fakeYahoo struct {
	articles []*models.NewsArticle
	err      error
}

func (f *fakeYahoo) Search(ctx context.Context, symbol string, limit int) ([]*models.NewsArticle, error) {
	return f.articles, f.err
}

// fakeNewsfilter is a scriptable NewsfilterClient.
type fakeNewsfilter struct {
	articles []models.MarketArticle
	err      error
}

func (f *fakeNewsfilter) GetArticles(ctx context.Context, size int) ([]models.MarketArticle, error) {
	return f.articles, f.err
}

// fakeGoogleNews is a scriptable GoogleNewsClient.
type fakeGoogleNews struct {
	articles []models.MarketArticle
	err      error
}

func (f *fakeGoogleNews) MarketHeadlines(ctx context.Context, limit int) ([]models.MarketArticle, error) {
	return f.articles, f.err
}

// fakeSentiment scores every article with a fixed value.
type fakeSentiment struct {
	score float64
	label models.SentimentLabel
}

func (f *fakeSentiment) Classify(ctx context.Context, title, summary string) models.Sentiment {
	return models.Sentiment{Sentiment: f.label, Score: f.score}
}

func fixedNow() time.Time {
	return time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)
}

func newTestService(yahoo *fakeYahoo, nf *fakeNewsfilter, gn *fakeGoogleNews, sent *fakeSentiment) *Service {
	s := NewService(common.NewSilentLogger(), nil, nil, nil, sent)
	if yahoo != nil {
		s.yahoo = yahoo
	}
	if nf != nil {
		s.newsfilter = nf
	}
	if gn != nil {
		s.googleNews = gn
	}
	s.now = fixedNow
	return s
}

func TestGetNews_LivePreferred(t *testing.T) {
	live := []*models.NewsArticle{{Title: "Apple ships new device", Source: "Reuters"}}
	s := newTestService(&fakeYahoo{articles: live}, nil, nil, &fakeSentiment{})

	got := s.GetNews(context.Background(), "AAPL", 5)
	if len(got) != 1 || got[0].Title != "Apple ships new device" {
		t.Fatalf("got %+v, want live article", got)
	}
}

func TestGetNews_FallsBackToSampleTable(t *testing.T) {
	s := newTestService(&fakeYahoo{err: errors.New("rate limited")}, nil, nil, &fakeSentiment{})

	got := s.GetNews(context.Background(), "aapl", 3)
	if len(got) != 3 {
		t.Fatalf("got %d articles, want 3", len(got))
	}
	for _, a := range got {
		if !a.IsMock {
			t.Error("sample articles must be flagged as mock")
		}
		if a.Summary != "This is a demo news article about AAPL." {
			t.Errorf("Summary = %q", a.Summary)
		}
		if a.URL != "https://finance.yahoo.com/quote/AAPL" {
			t.Errorf("URL = %q", a.URL)
		}
		if a.Published != "2025-06-02 14:30" {
			t.Errorf("Published = %q", a.Published)
		}
	}
}

func TestGetNews_UnknownSymbolGeneric(t *testing.T) {
	s := newTestService(nil, nil, nil, &fakeSentiment{})

	got := s.GetNews(context.Background(), "XYZ", 5)
	if len(got) != 1 {
		t.Fatalf("got %d articles, want 1 generic", len(got))
	}
	if got[0].Title != "XYZ Shows Mixed Trading Activity" {
		t.Errorf("Title = %q", got[0].Title)
	}
	if got[0].Source != "Market Update" || !got[0].IsMock {
		t.Errorf("article = %+v", got[0])
	}
}

func TestGetNews_EmptyLiveResultFallsBack(t *testing.T) {
	s := newTestService(&fakeYahoo{articles: nil}, nil, nil, &fakeSentiment{})

	got := s.GetNews(context.Background(), "NVDA", 5)
	if len(got) == 0 || !got[0].IsMock {
		t.Error("empty live result should fall back to samples")
	}
}

func TestAnalyzedNews_BullishAggregate(t *testing.T) {
	s := newTestService(nil, nil, nil, &fakeSentiment{score: 0.5, label: models.SentimentBullish})

	got := s.AnalyzedNews(context.Background(), "MSFT", 3)

	if got.Symbol != "MSFT" {
		t.Errorf("Symbol = %q", got.Symbol)
	}
	if got.OverallSentiment != models.SentimentBullish {
		t.Errorf("OverallSentiment = %q, want bullish", got.OverallSentiment)
	}
	if got.SentimentScore != 0.5 {
		t.Errorf("SentimentScore = %v, want 0.5", got.SentimentScore)
	}
	for _, a := range got.News {
		if a.Sentiment == nil {
			t.Fatal("every article must carry a sentiment")
		}
	}
}

func TestAnalyzedNews_NeutralBand(t *testing.T) {
	s := newTestService(nil, nil, nil, &fakeSentiment{score: 0.2, label: models.SentimentBullish})

	got := s.AnalyzedNews(context.Background(), "TSLA", 3)
	// mean exactly 0.2 sits inside the neutral band
	if got.OverallSentiment != models.SentimentNeutral {
		t.Errorf("OverallSentiment = %q, want neutral at the boundary", got.OverallSentiment)
	}
}

func TestAnalyzedNews_BearishAggregate(t *testing.T) {
	s := newTestService(nil, nil, nil, &fakeSentiment{score: -0.6, label: models.SentimentBearish})

	got := s.AnalyzedNews(context.Background(), "GOOGL", 2)
	if got.OverallSentiment != models.SentimentBearish {
		t.Errorf("OverallSentiment = %q, want bearish", got.OverallSentiment)
	}
	if got.SentimentScore != -0.6 {
		t.Errorf("SentimentScore = %v, want -0.6", got.SentimentScore)
	}
}

func TestMarketFeed_PrimaryTier(t *testing.T) {
	nf := &fakeNewsfilter{articles: []models.MarketArticle{
		{
			Title:       "Fed holds rates steady",
			URL:         "https://example.com/fed",
			SourceName:  "Wall Street Journal",
			Symbols:     []string{"SPY", "QQQ", "DIA", "IWM"},
			PublishedAt: time.Date(2025, 6, 2, 9, 5, 0, 0, time.UTC),
		},
	}}
	s := newTestService(nil, nf, &fakeGoogleNews{err: errors.New("unused")}, &fakeSentiment{})

	feed := s.MarketFeed(context.Background())

	if feed.Source != "newsfilter.io" {
		t.Errorf("Source = %q, want newsfilter.io", feed.Source)
	}
	if len(feed.Articles) != 1 {
		t.Fatalf("got %d articles", len(feed.Articles))
	}

	item := feed.Articles[0]
	if item.Account != "@WallStreetJournal" {
		t.Errorf("Account = %q", item.Account)
	}
	if item.DisplayName != "Wall Street Journal" {
		t.Errorf("DisplayName = %q", item.DisplayName)
	}
	if item.Time != "Jun 02, 09:05 AM" {
		t.Errorf("Time = %q", item.Time)
	}
	if item.Symbols != "$SPY $QQQ $DIA" {
		t.Errorf("Symbols = %q, want three cashtags", item.Symbols)
	}
	if feed.FetchedAt != fixedNow() {
		t.Errorf("FetchedAt = %v", feed.FetchedAt)
	}
}

func TestMarketFeed_SecondaryTier(t *testing.T) {
	gn := &fakeGoogleNews{articles: []models.MarketArticle{
		{Title: "Markets rally into the close", SourceName: "CNBC", URL: "https://example.com/r"},
	}}
	s := newTestService(nil, &fakeNewsfilter{err: errors.New("403")}, gn, &fakeSentiment{})

	feed := s.MarketFeed(context.Background())

	if feed.Source != "google_news" {
		t.Errorf("Source = %q, want google_news", feed.Source)
	}
	if len(feed.Articles) != 1 || feed.Articles[0].DisplayName != "CNBC" {
		t.Errorf("articles = %+v", feed.Articles)
	}
	// no publish time means no time string
	if feed.Articles[0].Time != "" {
		t.Errorf("Time = %q, want empty", feed.Articles[0].Time)
	}
}

func TestMarketFeed_StaticTier(t *testing.T) {
	s := newTestService(nil, &fakeNewsfilter{err: errors.New("down")}, &fakeGoogleNews{err: errors.New("down")}, &fakeSentiment{})

	feed := s.MarketFeed(context.Background())

	if feed.Source != "static" {
		t.Errorf("Source = %q, want static", feed.Source)
	}
	if len(feed.Articles) != 2 {
		t.Fatalf("got %d placeholder articles, want 2", len(feed.Articles))
	}
	if feed.Articles[0].Account != "@MarketUpdate" {
		t.Errorf("Account = %q", feed.Articles[0].Account)
	}
	if feed.Articles[0].Time != "02:30 PM" {
		t.Errorf("Time = %q", feed.Articles[0].Time)
	}
}

func TestMarketFeed_NoClientsConfigured(t *testing.T) {
	s := newTestService(nil, nil, nil, &fakeSentiment{})

	feed := s.MarketFeed(context.Background())
	if feed.Source != "static" || len(feed.Articles) != 2 {
		t.Errorf("feed = %+v, want static placeholders", feed)
	}
}

func TestShapeArticles_TruncatesAndCaps(t *testing.T) {
	s := newTestService(nil, nil, nil, &fakeSentiment{})

	long := strings.Repeat("a", 400)
	articles := make([]models.MarketArticle, 25)
	for i := range articles {
		articles[i] = models.MarketArticle{Title: long, SourceName: "News"}
	}

	items := s.shapeArticles(articles)

	if len(items) != feedMax {
		t.Errorf("got %d items, want %d", len(items), feedMax)
	}
	if len(items[0].Text) != maxFeedText {
		t.Errorf("text length = %d, want %d", len(items[0].Text), maxFeedText)
	}
	if items[0].Link != "#" {
		t.Errorf("empty URL should become %q, got %q", "#", items[0].Link)
	}
}
