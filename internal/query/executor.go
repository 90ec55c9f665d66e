package query

import (
	"fmt"
	"time"

	"github.com/codingislub/chat/internal/models"
	"github.com/codingislub/chat/internal/store"
)

// DefaultMaxListResults bounds how many invoice summaries a list result
// carries. The true match count is reported regardless.
const DefaultMaxListResults = 50

// Executor evaluates intents against the invoice store. Execute is a pure
// function of (intent, store contents, today): it never mutates the store
// and never reads the system clock, so results are reproducible.
type Executor struct {
	store   *store.Store
	maxList int
}

// NewExecutor creates an executor over a loaded store. maxList <= 0 falls
// back to DefaultMaxListResults.
func NewExecutor(s *store.Store, maxList int) *Executor {
	if maxList <= 0 {
		maxList = DefaultMaxListResults
	}
	return &Executor{store: s, maxList: maxList}
}

// Execute evaluates one intent. today is the injected reference date for
// overdue and window logic; only its calendar day is significant.
func (e *Executor) Execute(intent *models.Intent, today time.Time) *models.Result {
	today = models.Day(today)

	switch intent.Kind {
	case models.KindThreshold:
		return e.threshold(intent)
	case models.KindVendorAggregate:
		return e.vendorAggregate(intent)
	case models.KindOverdue:
		return e.overdue(intent, today)
	case models.KindDueInWindow:
		return e.dueInWindow(intent, today)
	case models.KindDateRangeTotal:
		return e.dateRangeTotal(intent)
	case models.KindSummary:
		return e.summary(intent, today)
	default:
		return &models.Result{
			Kind:     models.ResultUnknown,
			Question: intent.Question,
			Note:     intent.Note,
		}
	}
}

func (e *Executor) threshold(intent *models.Intent) *models.Result {
	label := fmt.Sprintf("invoices %s %s", compareText(intent.Compare), FormatCurrency(intent.Threshold))
	if intent.Vendor != "" {
		label += fmt.Sprintf(" from %q", intent.Vendor)
	}
	result := &models.Result{Kind: models.ResultCount, Label: label}
	if intent.WantList {
		result.Kind = models.ResultList
	}

	for _, inv := range e.store.All() {
		if !store.MatchVendor(inv, intent.Vendor) {
			continue
		}
		if !compare(inv.Amount, intent.Compare, intent.Threshold) {
			continue
		}
		result.Count++
		result.Total += inv.Amount
		if intent.WantList {
			e.appendSummary(result, inv)
		}
	}
	return result
}

func (e *Executor) vendorAggregate(intent *models.Intent) *models.Result {
	result := &models.Result{
		Kind:  models.ResultTotal,
		Label: fmt.Sprintf("invoices from %q", intent.Vendor),
	}
	if intent.WantList {
		result.Kind = models.ResultList
	}

	for _, inv := range e.store.All() {
		if !store.MatchVendor(inv, intent.Vendor) {
			continue
		}
		result.Count++
		result.Total += inv.Amount
		if intent.WantList {
			e.appendSummary(result, inv)
		}
	}
	return result
}

func (e *Executor) overdue(intent *models.Intent, today time.Time) *models.Result {
	label := "overdue invoices"
	if intent.Vendor != "" {
		label += fmt.Sprintf(" from %q", intent.Vendor)
	}
	result := &models.Result{Kind: models.ResultCount, Label: label}
	if intent.WantList {
		result.Kind = models.ResultList
	}

	for _, inv := range e.store.All() {
		if !store.MatchVendor(inv, intent.Vendor) {
			continue
		}
		if !inv.IsOverdue(today) {
			continue
		}
		result.Count++
		result.Total += inv.Amount
		if intent.WantList {
			e.appendSummary(result, inv)
		}
	}
	return result
}

func (e *Executor) dueInWindow(intent *models.Intent, today time.Time) *models.Result {
	end := today.AddDate(0, 0, intent.WindowDays)
	result := &models.Result{
		Kind:  models.ResultCount,
		Label: fmt.Sprintf("invoices due in the next %d days", intent.WindowDays),
	}
	if intent.WantList {
		result.Kind = models.ResultList
	}

	for _, inv := range e.store.All() {
		if inv.DueDate == nil {
			continue
		}
		due := *inv.DueDate
		if due.Before(today) || due.After(end) {
			continue
		}
		result.Count++
		result.Total += inv.Amount
		if intent.WantList {
			e.appendSummary(result, inv)
		}
	}
	return result
}

func (e *Executor) dateRangeTotal(intent *models.Intent) *models.Result {
	fieldName := "issue dates"
	if intent.DateField == models.FieldDueDate {
		fieldName = "due dates"
	}
	result := &models.Result{
		Kind: models.ResultTotal,
		Label: fmt.Sprintf("invoices with %s between %s and %s",
			fieldName,
			intent.Start.Format(models.DateLayout),
			intent.End.Format(models.DateLayout)),
	}

	for _, inv := range e.store.All() {
		date := inv.IssueDate
		if intent.DateField == models.FieldDueDate {
			date = inv.DueDate
		}
		if date == nil {
			continue
		}
		if date.Before(intent.Start) || date.After(intent.End) {
			continue
		}
		result.Count++
		result.Total += inv.Amount
	}
	return result
}

func (e *Executor) summary(intent *models.Intent, today time.Time) *models.Result {
	stats := &models.SummaryStats{}
	vendors := make(map[string]bool)

	for _, inv := range e.store.All() {
		if !store.MatchVendor(inv, intent.Vendor) {
			continue
		}
		stats.Count++
		stats.Total += inv.Amount
		vendors[inv.Vendor] = true
		if inv.IsOverdue(today) {
			stats.OverdueCount++
		}
	}
	stats.DistinctVendors = len(vendors)
	if stats.Count > 0 {
		stats.Average = stats.Total / float64(stats.Count)
	}

	label := "all invoices"
	if intent.Vendor != "" {
		label = fmt.Sprintf("invoices from %q", intent.Vendor)
	}
	return &models.Result{
		Kind:  models.ResultSummary,
		Label: label,
		Count: stats.Count,
		Total: stats.Total,
		Stats: stats,
	}
}

func (e *Executor) appendSummary(result *models.Result, inv models.Invoice) {
	if len(result.Invoices) >= e.maxList {
		return
	}
	result.Invoices = append(result.Invoices, models.InvoiceSummary{
		Vendor:        inv.Vendor,
		InvoiceNumber: inv.InvoiceNumber,
		Amount:        inv.Amount,
		DueDate:       inv.DueDate,
	})
}

func compare(amount float64, op models.CompareOp, threshold float64) bool {
	switch op {
	case models.OpLess:
		return amount < threshold
	case models.OpLessEq:
		return amount <= threshold
	case models.OpGreater:
		return amount > threshold
	case models.OpGreaterEq:
		return amount >= threshold
	case models.OpEqual:
		return amount == threshold
	}
	return false
}

func compareText(op models.CompareOp) string {
	switch op {
	case models.OpLess:
		return "under"
	case models.OpLessEq:
		return "at most"
	case models.OpGreater:
		return "over"
	case models.OpGreaterEq:
		return "at least"
	case models.OpEqual:
		return "of exactly"
	}
	return string(op)
}
