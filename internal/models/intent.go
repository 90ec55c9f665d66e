package models

import "time"

// IntentKind identifies one of the closed set of query operations.
type IntentKind string

// The full intent grammar. Questions that match none of the first six
// resolve to KindUnknown rather than erroring out.
const (
	KindThreshold       IntentKind = "threshold"
	KindVendorAggregate IntentKind = "vendor_aggregate"
	KindOverdue         IntentKind = "overdue"
	KindDueInWindow     IntentKind = "due_in_window"
	KindDateRangeTotal  IntentKind = "date_range_total"
	KindSummary         IntentKind = "summary"
	KindUnknown         IntentKind = "unknown"
)

// CompareOp is a comparison direction for threshold filters.
type CompareOp string

const (
	OpLess      CompareOp = "<"
	OpLessEq    CompareOp = "<="
	OpGreater   CompareOp = ">"
	OpGreaterEq CompareOp = ">="
	OpEqual     CompareOp = "=="
)

// DateField selects which invoice date a range query applies to.
type DateField string

const (
	FieldIssueDate DateField = "issue_date"
	FieldDueDate   DateField = "due_date"
)

// Intent is the structured representation of a parsed question. Exactly
// one kind is active; the parser guarantees the parameters that kind
// requires are present and type-valid before constructing the intent.
type Intent struct {
	Kind IntentKind

	// Threshold filter parameters.
	Threshold float64
	Compare   CompareOp

	// Vendor substring filter, shared by several kinds. Empty means
	// unfiltered. Matching is case-insensitive.
	Vendor string

	// WantList asks for matching invoice summaries instead of a bare
	// count; WantTotal asks a vendor aggregate for the summed amount.
	WantList  bool
	WantTotal bool

	// Due-in-window parameters: [today, today+WindowDays] inclusive.
	WindowDays int

	// Date-range parameters.
	DateField DateField
	Start     time.Time
	End       time.Time

	// Original question text, kept for Unknown diagnostics.
	Question string

	// Note carries a user-visible hint for Unknown intents, e.g. a
	// range-inversion explanation.
	Note string

	Confidence float64
}

// UnknownIntent builds the fallback intent for an unrecognized question.
func UnknownIntent(question string) *Intent {
	return &Intent{Kind: KindUnknown, Question: question}
}
