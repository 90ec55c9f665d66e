package query

import (
	"fmt"
	"strings"

	"github.com/codingislub/chat/internal/models"
)

// DefaultDisplayLimit caps how many invoices a list answer prints before
// summarizing the remainder.
const DefaultDisplayLimit = 10

// exampleQuestions are echoed in the help text for unrecognized questions.
var exampleQuestions = []string{
	`What's the total from Amazon?`,
	`Show me overdue invoices`,
	`How many invoices are less than $2,000?`,
	`How many invoices are due in the next 7 days?`,
	`Total invoiced from 2025-01-01 to 2025-03-31`,
	`Summary of all invoices`,
}

// Formatter renders results into answer text. It is a pure mapping with
// one rule per result kind; it renders fields already present in the
// result and computes nothing new.
type Formatter struct {
	displayLimit int
}

// NewFormatter creates a formatter. displayLimit <= 0 falls back to
// DefaultDisplayLimit.
func NewFormatter(displayLimit int) *Formatter {
	if displayLimit <= 0 {
		displayLimit = DefaultDisplayLimit
	}
	return &Formatter{displayLimit: displayLimit}
}

// Format renders one result.
func (f *Formatter) Format(r *models.Result) string {
	switch r.Kind {
	case models.ResultCount:
		return f.formatCount(r)
	case models.ResultTotal:
		return f.formatTotal(r)
	case models.ResultList:
		return f.formatList(r)
	case models.ResultSummary:
		return f.formatSummary(r)
	default:
		return f.formatUnknown(r)
	}
}

func (f *Formatter) formatCount(r *models.Result) string {
	text := fmt.Sprintf("Found %d %s", r.Count, pluralize(r.Count, r.Label))
	if r.Count > 0 && r.Total > 0 {
		text += fmt.Sprintf(" totaling %s", FormatCurrency(r.Total))
	}
	return text + "."
}

func (f *Formatter) formatTotal(r *models.Result) string {
	return fmt.Sprintf("The total for %s is %s across %d %s.",
		r.Label, FormatCurrency(r.Total), r.Count, countNoun(r.Count))
}

func (f *Formatter) formatList(r *models.Result) string {
	if r.Count == 0 {
		return fmt.Sprintf("Found no %s.", r.Label)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d %s totaling %s:\n",
		r.Count, pluralize(r.Count, r.Label), FormatCurrency(r.Total))

	shown := 0
	for _, inv := range r.Invoices {
		if shown >= f.displayLimit {
			break
		}
		line := "  - " + inv.Vendor
		if inv.InvoiceNumber != "" {
			line += "  #" + inv.InvoiceNumber
		}
		line += "  " + FormatCurrency(inv.Amount)
		if inv.DueDate != nil {
			line += "  due " + inv.DueDate.Format(models.DateLayout)
		}
		b.WriteString(line + "\n")
		shown++
	}
	if remaining := r.Count - shown; remaining > 0 {
		fmt.Fprintf(&b, "  ...and %d more\n", remaining)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (f *Formatter) formatSummary(r *models.Result) string {
	s := r.Stats
	var b strings.Builder
	fmt.Fprintf(&b, "Summary of %s:\n", r.Label)
	fmt.Fprintf(&b, "  Invoices:         %d\n", s.Count)
	fmt.Fprintf(&b, "  Total value:      %s\n", FormatCurrency(s.Total))
	fmt.Fprintf(&b, "  Average value:    %s\n", FormatCurrency(s.Average))
	fmt.Fprintf(&b, "  Distinct vendors: %d\n", s.DistinctVendors)
	fmt.Fprintf(&b, "  Overdue:          %d", s.OverdueCount)
	return b.String()
}

func (f *Formatter) formatUnknown(r *models.Result) string {
	var b strings.Builder
	b.WriteString("Sorry, I couldn't understand that question.")
	if r.Note != "" {
		b.WriteString(" " + r.Note)
	}
	b.WriteString("\nTry questions like:\n")
	for _, q := range exampleQuestions {
		fmt.Fprintf(&b, "  - %q\n", q)
	}
	if r.Question != "" {
		fmt.Fprintf(&b, "(You asked: %q)", r.Question)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatCurrency renders an amount with a dollar sign, thousands
// separators and exactly two decimals.
func FormatCurrency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	s := fmt.Sprintf("%.2f", amount)
	intPart, fracPart, _ := strings.Cut(s, ".")

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}
	return sign + "$" + grouped.String() + "." + fracPart
}

// pluralize adjusts a label like "overdue invoices" for a count of one.
func pluralize(count int, label string) string {
	if count == 1 {
		label = strings.Replace(label, "invoices", "invoice", 1)
	}
	return label
}

func countNoun(count int) string {
	if count == 1 {
		return "invoice"
	}
	return "invoices"
}
