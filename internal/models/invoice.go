package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical date format for invoice dates.
const DateLayout = "2006-01-02"

// writtenDateLayouts are the additional formats the loader and parser accept.
var writtenDateLayouts = []string{
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"01/02/2006",
	"2006/01/02",
}

// Invoice is a single validated invoice record. Instances are immutable
// after load; the whole collection is replaced on reload, never patched.
type Invoice struct {
	Vendor        string     `json:"vendor"`
	Amount        float64    `json:"amount"`
	InvoiceNumber string     `json:"invoice_number,omitempty"`
	Customer      string     `json:"customer,omitempty"`
	IssueDate     *time.Time `json:"issue_date,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	Status        string     `json:"status,omitempty"`
}

// IsOverdue reports whether the invoice is past due as of the given day.
// Invoices without a due date are never overdue, and neither are invoices
// in a terminal paid/closed status.
func (i Invoice) IsOverdue(today time.Time) bool {
	if i.DueDate == nil {
		return false
	}
	if IsClosedStatus(i.Status) {
		return false
	}
	return i.DueDate.Before(today)
}

// IsClosedStatus reports whether a status string marks an invoice as settled.
func IsClosedStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "paid", "closed":
		return true
	}
	return false
}

// RawInvoice is the wire shape of a single record in the dataset JSON array.
// Pointer fields distinguish "absent" from zero values so required-field
// validation can tell the two apart.
type RawInvoice struct {
	Vendor        *string  `json:"vendor"`
	Amount        *float64 `json:"amount"`
	Total         *float64 `json:"total"` // legacy alias for amount
	InvoiceNumber string   `json:"invoice_number"`
	Customer      string   `json:"customer"`
	IssueDate     string   `json:"issue_date"`
	InvoiceDate   string   `json:"invoice_date"` // legacy alias for issue_date
	DueDate       string   `json:"due_date"`
	Status        string   `json:"status"`
}

// Validate checks required fields and types and converts the raw record
// into an Invoice. It returns an error describing the first violation.
func (r RawInvoice) Validate() (Invoice, error) {
	if r.Vendor == nil || strings.TrimSpace(*r.Vendor) == "" {
		return Invoice{}, fmt.Errorf("missing required field: vendor")
	}

	amount := r.Amount
	if amount == nil {
		amount = r.Total
	}
	if amount == nil {
		return Invoice{}, fmt.Errorf("missing required field: amount")
	}
	if *amount < 0 {
		return Invoice{}, fmt.Errorf("amount must be non-negative, got %.2f", *amount)
	}

	issueField := r.IssueDate
	if issueField == "" {
		issueField = r.InvoiceDate
	}
	issueDate, err := parseOptionalDate(issueField)
	if err != nil {
		return Invoice{}, fmt.Errorf("invalid issue_date: %w", err)
	}
	dueDate, err := parseOptionalDate(r.DueDate)
	if err != nil {
		return Invoice{}, fmt.Errorf("invalid due_date: %w", err)
	}

	return Invoice{
		Vendor:        strings.TrimSpace(*r.Vendor),
		Amount:        *amount,
		InvoiceNumber: strings.TrimSpace(r.InvoiceNumber),
		Customer:      strings.TrimSpace(r.Customer),
		IssueDate:     issueDate,
		DueDate:       dueDate,
		Status:        strings.TrimSpace(r.Status),
	}, nil
}

func parseOptionalDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ParseDate parses a calendar date in ISO form or one of the common
// written formats, tolerating lowercased month names. The result is
// normalized to midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, candidate := range []string{s, capitalizeWords(s)} {
		for _, layout := range writtenDateLayouts {
			if d, err := time.Parse(layout, candidate); err == nil {
				return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func capitalizeWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Day truncates a timestamp to its calendar day in UTC. Query-time "today"
// values pass through this so date comparisons are exact.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
