package query

import (
	"strings"
	"testing"
	"time"

	"github.com/codingislub/chat/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{5, "$5.00"},
		{999.999, "$1,000.00"},
		{1299.99, "$1,299.99"},
		{2450, "$2,450.00"},
		{6849.99, "$6,849.99"},
		{1234567.891, "$1,234,567.89"},
		{-5, "-$5.00"},
		{-1234.5, "-$1,234.50"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(tt.in))
		})
	}
}

func TestFormatter_Count(t *testing.T) {
	f := NewFormatter(0)

	text := f.Format(&models.Result{
		Kind:  models.ResultCount,
		Count: 2,
		Total: 5550,
		Label: "overdue invoices",
	})
	assert.Equal(t, "Found 2 overdue invoices totaling $5,550.00.", text)

	text = f.Format(&models.Result{
		Kind:  models.ResultCount,
		Count: 1,
		Total: 1299.99,
		Label: "invoices under $2,000.00",
	})
	assert.Equal(t, "Found 1 invoice under $2,000.00 totaling $1,299.99.", text)

	text = f.Format(&models.Result{
		Kind:  models.ResultCount,
		Count: 0,
		Label: "overdue invoices",
	})
	assert.Equal(t, "Found 0 overdue invoices.", text)
}

func TestFormatter_Total(t *testing.T) {
	f := NewFormatter(0)

	text := f.Format(&models.Result{
		Kind:  models.ResultTotal,
		Count: 1,
		Total: 2450,
		Label: `invoices from "amazon"`,
	})
	assert.Equal(t, `The total for invoices from "amazon" is $2,450.00 across 1 invoice.`, text)

	// A zero aggregate still renders as a total, never as an error.
	text = f.Format(&models.Result{
		Kind:  models.ResultTotal,
		Count: 0,
		Total: 0,
		Label: `invoices from "netflix"`,
	})
	assert.Equal(t, `The total for invoices from "netflix" is $0.00 across 0 invoices.`, text)
}

func TestFormatter_List(t *testing.T) {
	f := NewFormatter(2)
	due := mustDate(t, "2025-01-01")

	r := &models.Result{
		Kind:  models.ResultList,
		Count: 3,
		Total: 600,
		Label: "overdue invoices",
		Invoices: []models.InvoiceSummary{
			{Vendor: "Amazon", InvoiceNumber: "INV-001", Amount: 100, DueDate: &due},
			{Vendor: "Microsoft", InvoiceNumber: "INV-002", Amount: 200, DueDate: &due},
			{Vendor: "Google", InvoiceNumber: "INV-003", Amount: 300, DueDate: &due},
		},
	}
	text := f.Format(r)

	assert.Contains(t, text, "Found 3 overdue invoices totaling $600.00:")
	assert.Contains(t, text, "  - Amazon  #INV-001  $100.00  due 2025-01-01")
	assert.Contains(t, text, "  - Microsoft  #INV-002  $200.00  due 2025-01-01")
	assert.NotContains(t, text, "Google", "display limit truncates the list")
	assert.Contains(t, text, "...and 1 more")
}

func TestFormatter_ListEmpty(t *testing.T) {
	f := NewFormatter(0)

	text := f.Format(&models.Result{
		Kind:  models.ResultList,
		Count: 0,
		Label: `invoices from "netflix"`,
	})
	assert.Equal(t, `Found no invoices from "netflix".`, text)
}

func TestFormatter_Summary(t *testing.T) {
	f := NewFormatter(0)

	text := f.Format(&models.Result{
		Kind:  models.ResultSummary,
		Label: "all invoices",
		Stats: &models.SummaryStats{
			Count:           3,
			Total:           6849.99,
			Average:         2283.33,
			DistinctVendors: 3,
			OverdueCount:    2,
		},
	})
	assert.Contains(t, text, "Summary of all invoices:")
	assert.Contains(t, text, "Invoices:         3")
	assert.Contains(t, text, "Total value:      $6,849.99")
	assert.Contains(t, text, "Average value:    $2,283.33")
	assert.Contains(t, text, "Distinct vendors: 3")
	assert.Contains(t, text, "Overdue:          2")
}

func TestFormatter_Unknown(t *testing.T) {
	f := NewFormatter(0)

	text := f.Format(&models.Result{
		Kind:     models.ResultUnknown,
		Question: "asdf qwerty",
	})
	assert.Contains(t, text, "couldn't understand")
	assert.Contains(t, text, "Try questions like:")
	assert.Contains(t, text, `(You asked: "asdf qwerty")`)
	for _, q := range exampleQuestions {
		assert.Contains(t, text, q)
	}
}

func TestFormatter_UnknownWithNote(t *testing.T) {
	f := NewFormatter(0)

	text := f.Format(&models.Result{
		Kind: models.ResultUnknown,
		Note: "The date range looks inverted: the start date is after the end date.",
	})
	assert.Contains(t, text, "looks inverted")
	assert.False(t, strings.Contains(text, "You asked"), "no question echo without a question")
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}
