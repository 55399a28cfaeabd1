package models

import "time"

// NewsTimeFormat is the wire format for article publish times.
const NewsTimeFormat = "2006-01-02 15:04"

// SentimentLabel classifies an article for investors.
type SentimentLabel string

const (
	SentimentBullish SentimentLabel = "bullish"
	SentimentBearish SentimentLabel = "bearish"
	SentimentNeutral SentimentLabel = "neutral"
)

// Sentiment is the classification result for one article.
// Score is in [-1, 1]: -1 very bearish, 0 neutral, 1 very bullish.
type Sentiment struct {
	Sentiment SentimentLabel `json:"sentiment"`
	Score     float64        `json:"score"`
	Reason    string         `json:"reason"`
}

// NewsArticle is a single headline for a symbol. Ephemeral, fetched
// per request and annotated with sentiment before being returned.
type NewsArticle struct {
	Title     string     `json:"title"`
	Summary   string     `json:"summary"`
	URL       string     `json:"url"`
	Source    string     `json:"source"`
	Published string     `json:"published,omitempty"`
	Thumbnail string     `json:"thumbnail,omitempty"`
	IsMock    bool       `json:"is_mock,omitempty"`
	Sentiment *Sentiment `json:"sentiment,omitempty"`
}

// SymbolNews is the analyzed news response for one symbol: articles with
// attached sentiment plus an aggregate label derived from the mean score.
type SymbolNews struct {
	Symbol           string         `json:"symbol"`
	News             []*NewsArticle `json:"news"`
	OverallSentiment SentimentLabel `json:"overall_sentiment"`
	SentimentScore   float64        `json:"sentiment_score"`
}

// MarketArticle is a raw headline from the market-wide news source,
// before shaping into a FeedItem or a prompt section.
type MarketArticle struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	SourceName  string    `json:"source_name"`
	Symbols     []string  `json:"symbols,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// FeedItem is one aggregated market headline in the feed-style shape
// the frontend renders.
type FeedItem struct {
	Account     string `json:"account"`
	DisplayName string `json:"display_name"`
	Text        string `json:"text"`
	Time        string `json:"time"`
	Link        string `json:"link"`
	Symbols     string `json:"symbols"`
}

// MarketFeed is the aggregated market headline response. Source names
// which fallback tier produced the articles.
type MarketFeed struct {
	Articles  []FeedItem `json:"articles"`
	FetchedAt time.Time  `json:"fetched_at"`
	Source    string     `json:"source"`
}
