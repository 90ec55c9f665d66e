package models

import (
	"fmt"
	"strings"
)

// IntentCandidate is the JSON schema the semantic tier returns. It mirrors
// Intent but with loose string fields, so a malformed response can be
// rejected before an Intent is ever constructed.
type IntentCandidate struct {
	Kind       string  `json:"kind"`
	Threshold  float64 `json:"threshold"`
	Compare    string  `json:"compare"`
	Vendor     string  `json:"vendor"`
	Aggregate  string  `json:"aggregate"` // "total", "count" or "list"
	WindowDays int     `json:"window_days"`
	DateField  string  `json:"date_field"`
	Start      string  `json:"start"`
	End        string  `json:"end"`
	Confidence float64 `json:"confidence"`
}

// ToIntent validates the candidate against the intent schema and converts
// it. Any violation returns an error; callers treat that as a semantic
// tier failure, not a user-facing fault.
func (c IntentCandidate) ToIntent(question string) (*Intent, error) {
	intent := &Intent{
		Kind:       IntentKind(strings.ToLower(strings.TrimSpace(c.Kind))),
		Vendor:     strings.ToLower(strings.TrimSpace(c.Vendor)),
		Question:   question,
		Confidence: c.Confidence,
	}

	switch strings.ToLower(strings.TrimSpace(c.Aggregate)) {
	case "total":
		intent.WantTotal = true
	case "list":
		intent.WantList = true
	case "count", "":
	default:
		return nil, fmt.Errorf("invalid aggregate %q", c.Aggregate)
	}

	switch intent.Kind {
	case KindThreshold:
		if c.Threshold < 0 {
			return nil, fmt.Errorf("threshold must be non-negative, got %.2f", c.Threshold)
		}
		op, err := parseCompareOp(c.Compare)
		if err != nil {
			return nil, err
		}
		intent.Threshold = c.Threshold
		intent.Compare = op

	case KindVendorAggregate:
		if intent.Vendor == "" {
			return nil, fmt.Errorf("vendor aggregate requires a vendor")
		}

	case KindOverdue, KindSummary:
		// Vendor filter is optional; nothing else to check.

	case KindDueInWindow:
		if c.WindowDays < 0 {
			return nil, fmt.Errorf("window_days must be non-negative, got %d", c.WindowDays)
		}
		intent.WindowDays = c.WindowDays
		if intent.WindowDays == 0 {
			intent.WindowDays = 7
		}

	case KindDateRangeTotal:
		field := DateField(strings.ToLower(strings.TrimSpace(c.DateField)))
		if field == "" {
			field = FieldIssueDate
		}
		if field != FieldIssueDate && field != FieldDueDate {
			return nil, fmt.Errorf("invalid date_field %q", c.DateField)
		}
		start, err := ParseDate(c.Start)
		if err != nil {
			return nil, fmt.Errorf("invalid start date: %w", err)
		}
		end, err := ParseDate(c.End)
		if err != nil {
			return nil, fmt.Errorf("invalid end date: %w", err)
		}
		if start.After(end) {
			return nil, fmt.Errorf("start %s is after end %s", c.Start, c.End)
		}
		intent.DateField = field
		intent.Start = start
		intent.End = end

	case KindUnknown:
		return nil, fmt.Errorf("semantic tier returned unknown")

	default:
		return nil, fmt.Errorf("invalid intent kind %q", c.Kind)
	}

	return intent, nil
}

func parseCompareOp(s string) (CompareOp, error) {
	switch strings.TrimSpace(s) {
	case "<":
		return OpLess, nil
	case "<=":
		return OpLessEq, nil
	case ">":
		return OpGreater, nil
	case ">=":
		return OpGreaterEq, nil
	case "==", "=":
		return OpEqual, nil
	}
	return "", fmt.Errorf("invalid comparison %q", s)
}
