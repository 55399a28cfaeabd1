// Package sentiment classifies financial headlines for investors. The
// AI classifier is preferred; a keyword heuristic covers missing keys,
// API failures and unparseable responses, so classification is total.
package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/common"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/interfaces"
	"github.com/jerrylin-23/ai-portfolio-analyzer/internal/models"
)

var bullishWords = []string{
	"surge", "soar", "jump", "gain", "rise", "beat", "exceed", "record",
	"bullish", "upgrade", "buy", "strong", "growth", "profit", "success",
	"breakthrough", "innovation", "expand", "outperform", "rally",
}

var bearishWords = []string{
	"fall", "drop", "plunge", "decline", "loss", "miss", "cut", "layoff",
	"bearish", "downgrade", "sell", "weak", "struggle", "warning", "risk",
	"concern", "crash", "slump", "underperform", "lawsuit",
}

const promptTemplate = `Analyze the sentiment of this financial news for investors.

Title: %s
Summary: %s

Respond in this exact JSON format only, no other text:
{"sentiment": "bullish" or "bearish" or "neutral", "score": number from -1 to 1, "reason": "brief 10 word reason"}

Score guide: -1 = very bearish, 0 = neutral, 1 = very bullish`

// Service implements the SentimentService interface. A nil gemini
// client skips the AI path entirely.
type Service struct {
	gemini interfaces.GeminiClient
	logger *common.Logger
}

// NewService creates a sentiment service. gemini may be nil.
func NewService(logger *common.Logger, gemini interfaces.GeminiClient) *Service {
	return &Service{
		gemini: gemini,
		logger: logger,
	}
}

// Classify scores a title+summary pair. Any AI failure falls back to
// the keyword heuristic, so the result is always usable.
func (s *Service) Classify(ctx context.Context, title, summary string) models.Sentiment {
	if s.gemini == nil {
		return Heuristic(title, summary)
	}

	result, err := s.classifyAI(ctx, title, summary)
	if err != nil {
		s.logger.Warn().Err(err).Msg("AI sentiment failed, using keyword heuristic")
		return Heuristic(title, summary)
	}

	return result
}

// aiResult is the JSON shape the model is instructed to return.
type aiResult struct {
	Sentiment string  `json:"sentiment"`
	Score     float64 `json:"score"`
	Reason    string  `json:"reason"`
}

func (s *Service) classifyAI(ctx context.Context, title, summary string) (models.Sentiment, error) {
	prompt := fmt.Sprintf(promptTemplate, title, summary)

	text, err := s.gemini.GenerateContent(ctx, prompt)
	if err != nil {
		return models.Sentiment{}, err
	}

	var result aiResult
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &result); err != nil {
		return models.Sentiment{}, fmt.Errorf("unparseable sentiment response: %w", err)
	}

	label := models.SentimentLabel(result.Sentiment)
	switch label {
	case models.SentimentBullish, models.SentimentBearish, models.SentimentNeutral:
	default:
		label = models.SentimentNeutral
	}

	return models.Sentiment{
		Sentiment: label,
		Score:     result.Score,
		Reason:    result.Reason,
	}, nil
}

// stripCodeFence unwraps a markdown code fence the model sometimes
// wraps its JSON in.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	parts := strings.Split(text, "```")
	if len(parts) < 2 {
		return text
	}

	inner := parts[1]
	inner = strings.TrimPrefix(inner, "json")
	return strings.TrimSpace(inner)
}

// Heuristic is the keyword-based classifier. Each distinct keyword
// present in the text counts once; the majority side wins and the score
// scales with the count, clamped to [-1, 1]. A tie is neutral.
func Heuristic(title, summary string) models.Sentiment {
	text := strings.ToLower(title + " " + summary)

	bullish := countMatches(text, bullishWords)
	bearish := countMatches(text, bearishWords)

	switch {
	case bullish > bearish:
		score := float64(bullish) * 0.2
		if score > 1.0 {
			score = 1.0
		}
		return models.Sentiment{
			Sentiment: models.SentimentBullish,
			Score:     score,
			Reason:    "Positive keywords detected",
		}
	case bearish > bullish:
		score := float64(bearish) * -0.2
		if score < -1.0 {
			score = -1.0
		}
		return models.Sentiment{
			Sentiment: models.SentimentBearish,
			Score:     score,
			Reason:    "Negative keywords detected",
		}
	default:
		return models.Sentiment{
			Sentiment: models.SentimentNeutral,
			Score:     0,
			Reason:    "No strong sentiment signals",
		}
	}
}

func countMatches(text string, words []string) int {
	count := 0
	for _, word := range words {
		if strings.Contains(text, word) {
			count++
		}
	}
	return count
}

// Ensure Service implements SentimentService
var _ interfaces.SentimentService = (*Service)(nil)
