package models

import "time"

// ResultKind selects the formatting rule that applies to a Result.
type ResultKind string

const (
	ResultCount   ResultKind = "count"
	ResultTotal   ResultKind = "total"
	ResultList    ResultKind = "list"
	ResultSummary ResultKind = "summary"
	ResultUnknown ResultKind = "unknown"
)

// InvoiceSummary is the per-invoice slice of fields that list results carry.
type InvoiceSummary struct {
	Vendor        string     `json:"vendor"`
	InvoiceNumber string     `json:"invoice_number,omitempty"`
	Amount        float64    `json:"amount"`
	DueDate       *time.Time `json:"due_date,omitempty"`
}

// SummaryStats is the statistics bundle produced by a summary query.
type SummaryStats struct {
	Count           int     `json:"count"`
	Total           float64 `json:"total"`
	Average         float64 `json:"average"`
	DistinctVendors int     `json:"distinct_vendors"`
	OverdueCount    int     `json:"overdue_count"`
}

// Result is the executor's output for a single intent. It is owned by the
// query invocation that produced it and discarded after formatting; the
// formatter renders fields as-is and never re-derives data.
type Result struct {
	Kind ResultKind `json:"kind"`

	// Count is always the true match count, even when Invoices was
	// truncated to the executor's list bound.
	Count int     `json:"count"`
	Total float64 `json:"total"`

	// Label describes what was matched, e.g. `invoices from "amazon"`.
	Label string `json:"label,omitempty"`

	Invoices []InvoiceSummary `json:"invoices,omitempty"`
	Stats    *SummaryStats    `json:"stats,omitempty"`

	// Unknown results echo the question and an optional diagnostic note.
	Question string `json:"question,omitempty"`
	Note     string `json:"note,omitempty"`
}
