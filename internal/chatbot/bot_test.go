package chatbot

import (
	"context"
	"testing"
	"time"

	"github.com/codingislub/chat/internal/history"
	"github.com/codingislub/chat/internal/models"
	"github.com/codingislub/chat/internal/query"
	"github.com/codingislub/chat/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const acceptanceDataset = `[
	{"vendor": "Amazon", "amount": 2450.0, "invoice_number": "INV-001", "issue_date": "2024-12-01", "due_date": "2025-01-01", "status": "pending"},
	{"vendor": "Microsoft", "amount": 3100.0, "invoice_number": "INV-002", "issue_date": "2024-12-05", "due_date": "2025-01-01", "status": "pending"},
	{"vendor": "Google", "amount": 1299.99, "invoice_number": "INV-003", "issue_date": "2024-11-20", "due_date": "2099-01-01", "status": "paid"}
]`

func newTestBot(t *testing.T, opts Options) *Bot {
	t.Helper()
	s, err := store.LoadJSON([]byte(acceptanceDataset), zap.NewNop())
	require.NoError(t, err)

	clock := func() time.Time {
		d, _ := models.ParseDate("2030-01-01")
		return d
	}
	if opts.Now == nil {
		opts.Now = clock
	}

	parser := query.NewParser(zap.NewNop(), query.NewDeterministicRules(opts.Now))
	return New(s, parser, opts, zap.NewNop())
}

func TestBot_Answer(t *testing.T) {
	bot := newTestBot(t, Options{})
	ctx := context.Background()

	tests := []struct {
		question string
		contains []string
		excludes []string
	}{
		{
			question: "What's the total from Amazon?",
			contains: []string{`The total for invoices from "amazon" is $2,450.00 across 1 invoice.`},
		},
		{
			question: "Show me overdue invoices",
			contains: []string{
				"Found 2 overdue invoices totaling $5,550.00:",
				"Amazon",
				"Microsoft",
			},
			excludes: []string{"Google"},
		},
		{
			question: "How many invoices are less than $2,000?",
			contains: []string{"Found 1 invoice under $2,000.00 totaling $1,299.99."},
		},
		{
			question: "How many invoices are due in the next 7 days?",
			contains: []string{"Found 0 invoices due in the next 7 days."},
		},
		{
			question: "Summary of all invoices",
			contains: []string{
				"Invoices:         3",
				"Total value:      $6,849.99",
				"Average value:    $2,283.33",
				"Distinct vendors: 3",
				"Overdue:          2",
			},
		},
		{
			question: "Count invoices from Netflix",
			contains: []string{`The total for invoices from "netflix" is $0.00 across 0 invoices.`},
		},
		{
			question: "asdf qwerty",
			contains: []string{
				"couldn't understand",
				"Try questions like:",
				`(You asked: "asdf qwerty")`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			answer := bot.Answer(ctx, tt.question)
			for _, want := range tt.contains {
				assert.Contains(t, answer, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, answer, unwanted)
			}
		})
	}
}

func TestBot_AnswerIsDeterministic(t *testing.T) {
	bot := newTestBot(t, Options{})
	ctx := context.Background()

	first := bot.Answer(ctx, "Summary of all invoices")
	second := bot.Answer(ctx, "Summary of all invoices")
	assert.Equal(t, first, second)
}

func TestBot_Ask(t *testing.T) {
	bot := newTestBot(t, Options{})

	intent, result := bot.Ask(context.Background(), "Show me overdue invoices")
	assert.Equal(t, models.KindOverdue, intent.Kind)
	assert.Equal(t, models.ResultList, result.Kind)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, bot.FormatResult(result), bot.Answer(context.Background(), "Show me overdue invoices"))
}

func TestBot_RecordsHistory(t *testing.T) {
	recorder, err := history.NewRecorder(":memory:", zap.NewNop())
	require.NoError(t, err)
	defer recorder.Close()

	bot := newTestBot(t, Options{Recorder: recorder})
	bot.Answer(context.Background(), "Show me overdue invoices")
	bot.Answer(context.Background(), "asdf qwerty")

	entries, err := recorder.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "asdf qwerty", entries[0].Question)
	assert.Equal(t, "unknown", entries[0].IntentKind)
	assert.Equal(t, "overdue", entries[1].IntentKind)
	assert.Equal(t, 0.9, entries[1].Confidence)
}
