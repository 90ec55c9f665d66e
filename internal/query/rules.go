package query

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/codingislub/chat/internal/models"
)

// deterministicConfidence is assigned to every pattern-rule match.
const deterministicConfidence = 0.9

var (
	reOverdue     = regexp.MustCompile(`\b(?:overdue|past due)\b`)
	reOverdueName = regexp.MustCompile(`\b(?:overdue|past due)\s+(?:invoices?\s+)?(?:from\s+|for\s+)?([a-z][a-z0-9.&'-]*)`)
	reFromVendor  = regexp.MustCompile(`\b(?:from|for)\s+([a-z0-9][a-z0-9 .&'-]*?)\s*$`)
	reOwedTo      = regexp.MustCompile(`\bhow much (?:do we owe|is owed) to\s+([a-z0-9][a-z0-9 .&'-]*?)\s*$`)
	reCountVerb   = regexp.MustCompile(`\b(?:how many|count|number of)\b`)
	reListVerb    = regexp.MustCompile(`\b(?:show|list|display|which|what are)\b`)
	reTotalVerb   = regexp.MustCompile(`\b(?:total|sum|how much|amount|value|spend|spent)\b`)

	reWindowDays = regexp.MustCompile(`\bdue\b.*?\b(?:in|within)\s+(?:the\s+)?(?:next\s+)?(\d+)\s+days?\b`)
	reNextDays   = regexp.MustCompile(`\bdue\b.*?\bnext\s+(\d+)\s+days?\b`)
	reNextWeek   = regexp.MustCompile(`\bdue\b.*?\b(?:next|this)\s+week\b`)
	reThisMonth  = regexp.MustCompile(`\bdue\b.*?\bthis\s+month\b`)

	reDateRange = regexp.MustCompile(`\b(?:from|between)\s+(.+?)\s+(?:to|and|through)\s+(.+?)$`)

	amountPattern = `\$?\s*([0-9][0-9,]*(?:\.[0-9]+)?)`
	reLess        = regexp.MustCompile(`\b(?:less than|under|below|cheaper than)\s+` + amountPattern)
	reLessEq      = regexp.MustCompile(`\b(?:at most|no more than|up to)\s+` + amountPattern)
	reGreater     = regexp.MustCompile(`\b(?:greater than|more than|over|above|exceeding)\s+` + amountPattern)
	reGreaterEq   = regexp.MustCompile(`\b(?:at least|no less than)\s+` + amountPattern)
	reEqual       = regexp.MustCompile(`\b(?:exactly|equal to|equals?)\s+` + amountPattern)

	reSummary      = regexp.MustCompile(`\b(?:summary|overview|statistics|stats)\b`)
	reSummaryCount = regexp.MustCompile(`^how many invoices(?: do we have| are there)?$|^total invoices$`)

	reInvoicesWord = regexp.MustCompile(`\binvoices?\b`)
	reWhitespace   = regexp.MustCompile(`\s+`)

	// Words that can precede "invoices" without being a vendor name.
	vendorStopwords = map[string]bool{
		"all": true, "any": true, "many": true, "me": true, "my": true,
		"of": true, "our": true, "the": true, "these": true, "those": true,
		"show": true, "list": true, "count": true, "display": true,
		"due": true, "overdue": true, "paid": true, "pending": true,
		"open": true, "unpaid": true, "total": true, "sum": true,
		"invoice": true, "invoices": true,
	}
)

// rule binds one ordered pattern to one intent kind. match returns nil when
// the rule's required tokens are absent; the first non-nil result wins.
type rule struct {
	name  string
	match func(q string) *models.Intent
}

// DeterministicRules is the pattern tier of the intent parser: an explicit
// ordered rule list evaluated greedily, first full match wins. Ordering is
// load-bearing: overdue is checked before any vendor rule so that
// "overdue Microsoft" is an overdue query, and the threshold rule runs
// before the vendor aggregate so a numeric comparison is never swallowed
// by a vendor match.
type DeterministicRules struct {
	now   func() time.Time
	rules []rule
}

// NewDeterministicRules builds the rule set. now supplies the reference
// date for relative phrases like "this month"; pass a fixed clock in tests.
func NewDeterministicRules(now func() time.Time) *DeterministicRules {
	if now == nil {
		now = time.Now
	}
	d := &DeterministicRules{now: now}
	d.rules = []rule{
		{name: "overdue", match: d.matchOverdue},
		{name: "due_in_window", match: d.matchDueInWindow},
		{name: "date_range_total", match: d.matchDateRange},
		{name: "threshold", match: d.matchThreshold},
		{name: "summary", match: d.matchSummary},
		{name: "vendor_aggregate", match: d.matchVendorAggregate},
	}
	return d
}

// TryParse runs the ordered rules against a normalized question.
func (d *DeterministicRules) TryParse(_ context.Context, question string) (*models.Intent, bool) {
	q := normalize(question)
	if q == "" {
		return nil, false
	}
	for _, r := range d.rules {
		if intent := r.match(q); intent != nil {
			intent.Question = question
			if intent.Confidence == 0 && intent.Kind != models.KindUnknown {
				intent.Confidence = deterministicConfidence
			}
			return intent, true
		}
	}
	return nil, false
}

// RuleNames returns the rule evaluation order, for diagnostics and the
// ordering tests.
func (d *DeterministicRules) RuleNames() []string {
	names := make([]string, len(d.rules))
	for i, r := range d.rules {
		names[i] = r.name
	}
	return names
}

func (d *DeterministicRules) matchOverdue(q string) *models.Intent {
	if !reOverdue.MatchString(q) {
		return nil
	}
	intent := &models.Intent{Kind: models.KindOverdue, WantList: true}
	if reCountVerb.MatchString(q) {
		intent.WantList = false
	}
	if m := reFromVendor.FindStringSubmatch(q); m != nil {
		intent.Vendor = cleanVendor(m[1])
	} else if m := reOverdueName.FindStringSubmatch(q); m != nil {
		if v := cleanVendor(m[1]); !vendorStopwords[v] {
			intent.Vendor = v
		}
	}
	return intent
}

func (d *DeterministicRules) matchDueInWindow(q string) *models.Intent {
	days := -1
	if m := reWindowDays.FindStringSubmatch(q); m != nil {
		days, _ = strconv.Atoi(m[1])
	} else if m := reNextDays.FindStringSubmatch(q); m != nil {
		days, _ = strconv.Atoi(m[1])
	} else if reNextWeek.MatchString(q) {
		days = 7
	} else if reThisMonth.MatchString(q) {
		days = daysToMonthEnd(d.now())
	}
	if days < 0 {
		return nil
	}
	intent := &models.Intent{Kind: models.KindDueInWindow, WindowDays: days}
	if reListVerb.MatchString(q) {
		intent.WantList = true
	}
	return intent
}

func (d *DeterministicRules) matchDateRange(q string) *models.Intent {
	if !reTotalVerb.MatchString(q) {
		return nil
	}
	m := reDateRange.FindStringSubmatch(q)
	if m == nil {
		return nil
	}
	start, err := models.ParseDate(cleanDateToken(m[1]))
	if err != nil {
		return nil
	}
	end, err := models.ParseDate(cleanDateToken(m[2]))
	if err != nil {
		return nil
	}
	if start.After(end) {
		// Range inversion is a user mistake, not a fault: answer with a
		// hint instead of guessing.
		return &models.Intent{
			Kind: models.KindUnknown,
			Note: "The date range looks inverted: the start date is after the end date.",
		}
	}
	field := models.FieldIssueDate
	if strings.Contains(q, "due") {
		field = models.FieldDueDate
	}
	return &models.Intent{
		Kind:      models.KindDateRangeTotal,
		DateField: field,
		Start:     start,
		End:       end,
	}
}

func (d *DeterministicRules) matchThreshold(q string) *models.Intent {
	type probe struct {
		re *regexp.Regexp
		op models.CompareOp
	}
	// Order matters within the probes too: "at most"/"at least" before
	// the plain variants would be wrong the other way around, since
	// "no more than" contains "more than".
	probes := []probe{
		{reLessEq, models.OpLessEq},
		{reGreaterEq, models.OpGreaterEq},
		{reLess, models.OpLess},
		{reGreater, models.OpGreater},
		{reEqual, models.OpEqual},
	}
	for _, p := range probes {
		m := p.re.FindStringSubmatch(q)
		if m == nil {
			continue
		}
		value, err := parseAmount(m[1])
		if err != nil {
			continue
		}
		intent := &models.Intent{
			Kind:      models.KindThreshold,
			Threshold: value,
			Compare:   p.op,
			Vendor:    extractVendor(q),
		}
		if reListVerb.MatchString(q) {
			intent.WantList = true
		}
		return intent
	}
	return nil
}

func (d *DeterministicRules) matchSummary(q string) *models.Intent {
	if !reSummary.MatchString(q) && !reSummaryCount.MatchString(strings.TrimSuffix(q, "?")) {
		return nil
	}
	intent := &models.Intent{Kind: models.KindSummary}
	if m := reFromVendor.FindStringSubmatch(q); m != nil {
		if v := cleanVendor(m[1]); !vendorStopwords[v] {
			intent.Vendor = v
		}
	}
	return intent
}

func (d *DeterministicRules) matchVendorAggregate(q string) *models.Intent {
	var vendor string
	if m := reOwedTo.FindStringSubmatch(q); m != nil {
		vendor = cleanVendor(m[1])
	} else if m := reFromVendor.FindStringSubmatch(q); m != nil {
		vendor = cleanVendor(m[1])
	}
	if vendor == "" || vendorStopwords[vendor] {
		return nil
	}
	intent := &models.Intent{Kind: models.KindVendorAggregate, Vendor: vendor}
	switch {
	case reCountVerb.MatchString(q):
		// plain count
	case reTotalVerb.MatchString(q):
		intent.WantTotal = true
	case reListVerb.MatchString(q) || reInvoicesWord.MatchString(q):
		intent.WantList = true
	default:
		return nil
	}
	return intent
}

// normalize lowercases the question, collapses whitespace and drops
// trailing punctuation so the rules tolerate phrasing variance.
func normalize(question string) string {
	q := strings.ToLower(strings.TrimSpace(question))
	q = reWhitespace.ReplaceAllString(q, " ")
	return strings.TrimRight(q, " ?.!")
}

// parseAmount parses a numeric token with currency noise stripped.
func parseAmount(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	return strconv.ParseFloat(s, 64)
}

// extractVendor pulls an optional vendor filter out of a question that is
// primarily about something else, e.g. "microsoft invoices over 5000".
func extractVendor(q string) string {
	if m := reFromVendor.FindStringSubmatch(q); m != nil {
		if v := cleanVendor(m[1]); !vendorStopwords[v] {
			return v
		}
	}
	// Single word directly before "invoices", filtered by stopwords.
	loc := reInvoicesWord.FindStringIndex(q)
	if loc == nil {
		return ""
	}
	before := strings.Fields(q[:loc[0]])
	if len(before) == 0 {
		return ""
	}
	candidate := cleanVendor(before[len(before)-1])
	if candidate == "" || vendorStopwords[candidate] {
		return ""
	}
	if _, err := parseAmount(candidate); err == nil {
		return ""
	}
	return candidate
}

func cleanVendor(v string) string {
	v = strings.TrimSpace(v)
	v = strings.Trim(v, `"'`)
	v = strings.TrimSuffix(v, " invoices")
	v = strings.TrimSuffix(v, " invoice")
	return strings.TrimRight(v, " ?.!,")
}

func cleanDateToken(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), " ?.!,")
}

// daysToMonthEnd counts the days from today through the last day of the
// current month, for "due this month" windows.
func daysToMonthEnd(now time.Time) int {
	today := models.Day(now)
	firstOfNext := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	monthEnd := firstOfNext.AddDate(0, 0, -1)
	return int(monthEnd.Sub(today).Hours() / 24)
}
