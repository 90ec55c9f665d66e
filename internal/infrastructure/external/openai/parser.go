package openai

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/codingislub/chat/internal/models"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Config holds the semantic tier settings.
type Config struct {
	APIKey        string
	Model         string
	Temperature   float32
	Timeout       time.Duration
	MinConfidence float64
}

// Parser is the semantic tier of intent resolution: it sends the question
// and the fixed intent schema to OpenAI and validates the returned
// candidate before accepting it. Every failure mode (transport error,
// timeout, malformed JSON, schema violation, low confidence) is reported
// as a decline, never as an error, so the pipeline degrades silently.
type Parser struct {
	client        *openai.Client
	model         string
	temperature   float32
	timeout       time.Duration
	minConfidence float64
	vendors       []string
	logger        *zap.Logger
}

// NewParser creates the semantic parser. vendors gives the model dataset
// context for disambiguation; only the first few are included.
func NewParser(cfg Config, vendors []string, logger *zap.Logger) *Parser {
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	minConfidence := cfg.MinConfidence
	if minConfidence <= 0 {
		minConfidence = 0.5
	}
	return &Parser{
		client:        openai.NewClient(cfg.APIKey),
		model:         model,
		temperature:   cfg.Temperature,
		timeout:       timeout,
		minConfidence: minConfidence,
		vendors:       vendors,
		logger:        logger,
	}
}

// Name implements query.Strategy.
func (p *Parser) Name() string { return "semantic" }

// TryParse implements query.Strategy.
func (p *Parser) TryParse(ctx context.Context, question string) (*models.Intent, bool) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: p.temperature,
		MaxTokens:   300,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: buildSystemPrompt(p.vendors),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: "Parse this question: " + question,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		p.logger.Debug("Semantic tier call failed", zap.Error(err))
		return nil, false
	}
	if len(resp.Choices) == 0 {
		p.logger.Debug("Semantic tier returned no choices")
		return nil, false
	}

	content := stripFences(resp.Choices[0].Message.Content)

	var candidate models.IntentCandidate
	if err := json.Unmarshal([]byte(content), &candidate); err != nil {
		p.logger.Debug("Semantic tier returned malformed JSON",
			zap.Error(err),
			zap.String("content", content))
		return nil, false
	}

	intent, err := candidate.ToIntent(question)
	if err != nil {
		p.logger.Debug("Semantic tier candidate rejected", zap.Error(err))
		return nil, false
	}
	if intent.Confidence < p.minConfidence {
		p.logger.Debug("Semantic tier confidence below floor",
			zap.Float64("confidence", intent.Confidence),
			zap.Float64("floor", p.minConfidence))
		return nil, false
	}

	p.logger.Debug("Semantic tier parsed question",
		zap.String("kind", string(intent.Kind)),
		zap.Float64("confidence", intent.Confidence))
	return intent, true
}

// stripFences removes markdown code fences some models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
