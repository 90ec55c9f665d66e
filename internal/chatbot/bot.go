package chatbot

import (
	"context"
	"time"

	"github.com/codingislub/chat/internal/history"
	"github.com/codingislub/chat/internal/models"
	"github.com/codingislub/chat/internal/query"
	"github.com/codingislub/chat/internal/store"
	"go.uber.org/zap"
)

// Bot wires the query pipeline: parser -> executor -> formatter. One
// question produces one intent, one result and one answer, sequentially;
// the store is the only shared state and is immutable after load.
type Bot struct {
	store     *store.Store
	parser    *query.Parser
	executor  *query.Executor
	formatter *query.Formatter
	recorder  *history.Recorder // optional
	now       func() time.Time
	logger    *zap.Logger
}

// Options holds the optional pieces of a Bot.
type Options struct {
	// Recorder, when set, logs every answered question.
	Recorder *history.Recorder
	// Now supplies the reference date for overdue and window logic.
	// Defaults to time.Now; fix it in tests for reproducible answers.
	Now func() time.Time
	// MaxListResults and DisplayLimit bound list answers.
	MaxListResults int
	DisplayLimit   int
}

// New creates a Bot over a loaded store and parser chain.
func New(s *store.Store, parser *query.Parser, opts Options, logger *zap.Logger) *Bot {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Bot{
		store:     s,
		parser:    parser,
		executor:  query.NewExecutor(s, opts.MaxListResults),
		formatter: query.NewFormatter(opts.DisplayLimit),
		recorder:  opts.Recorder,
		now:       now,
		logger:    logger,
	}
}

// Answer resolves one question to answer text. It never returns an error:
// unparseable questions produce the help answer, and a failing history
// recorder is logged and ignored.
func (b *Bot) Answer(ctx context.Context, question string) string {
	start := time.Now()

	intent := b.parser.Parse(ctx, question)
	result := b.executor.Execute(intent, b.now())
	answer := b.formatter.Format(result)

	elapsed := time.Since(start)
	b.logger.Info("Question answered",
		zap.String("kind", string(intent.Kind)),
		zap.Int("matches", result.Count),
		zap.Duration("elapsed", elapsed))

	if b.recorder != nil {
		err := b.recorder.Record(history.Entry{
			Question:   question,
			IntentKind: string(intent.Kind),
			Confidence: intent.Confidence,
			Answer:     answer,
			Duration:   elapsed,
		})
		if err != nil {
			b.logger.Warn("Failed to record query history", zap.Error(err))
		}
	}
	return answer
}

// Ask parses and executes without formatting, for callers that want the
// structured result (the HTTP API returns it alongside the text).
func (b *Bot) Ask(ctx context.Context, question string) (*models.Intent, *models.Result) {
	intent := b.parser.Parse(ctx, question)
	return intent, b.executor.Execute(intent, b.now())
}

// FormatResult renders a result with the bot's formatter.
func (b *Bot) FormatResult(r *models.Result) string {
	return b.formatter.Format(r)
}

// Store exposes the underlying invoice store.
func (b *Bot) Store() *store.Store {
	return b.store
}
