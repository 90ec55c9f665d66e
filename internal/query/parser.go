package query

import (
	"context"

	"github.com/codingislub/chat/internal/models"
	"go.uber.org/zap"
)

// Strategy is one tier of intent resolution. TryParse returns (intent,
// true) on a confident match and (nil, false) to pass the question to the
// next tier. A strategy must never return an error: tier failures are
// silent by design.
type Strategy interface {
	Name() string
	TryParse(ctx context.Context, question string) (*models.Intent, bool)
}

// Parser resolves a question through an ordered chain of strategies and
// degrades to an Unknown intent when every tier declines. The chain is
// fixed at construction so the parser's behavior is fully determined by
// its inputs.
type Parser struct {
	strategies []Strategy
	logger     *zap.Logger
}

// NewParser creates a parser over the given strategy chain, evaluated in
// order. Typically: deterministic rules first, then an optional semantic
// strategy.
func NewParser(logger *zap.Logger, strategies ...Strategy) *Parser {
	return &Parser{strategies: strategies, logger: logger}
}

// Parse maps a question to exactly one intent. It never fails: if no
// strategy matches, the result is an Unknown intent carrying the question.
func (p *Parser) Parse(ctx context.Context, question string) *models.Intent {
	for _, s := range p.strategies {
		intent, ok := s.TryParse(ctx, question)
		if !ok {
			p.logger.Debug("Parse tier declined",
				zap.String("tier", s.Name()),
				zap.String("question", question))
			continue
		}
		p.logger.Debug("Question parsed",
			zap.String("tier", s.Name()),
			zap.String("kind", string(intent.Kind)),
			zap.Float64("confidence", intent.Confidence))
		return intent
	}
	p.logger.Debug("No tier matched, degrading to unknown",
		zap.String("question", question))
	return models.UnknownIntent(question)
}

// Name implements Strategy for DeterministicRules.
func (d *DeterministicRules) Name() string { return "deterministic" }
