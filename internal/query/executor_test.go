package query

import (
	"testing"
	"time"

	"github.com/codingislub/chat/internal/models"
	"github.com/codingislub/chat/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testDataset is the fixture used across executor tests: two overdue
// pending invoices and one paid invoice with a far-future due date.
const testDataset = `[
	{"vendor": "Amazon", "amount": 2450.0, "invoice_number": "INV-001", "issue_date": "2024-12-01", "due_date": "2025-01-01", "status": "pending"},
	{"vendor": "Microsoft", "amount": 3100.0, "invoice_number": "INV-002", "issue_date": "2024-12-05", "due_date": "2025-01-01", "status": "pending"},
	{"vendor": "Google", "amount": 1299.99, "invoice_number": "INV-003", "issue_date": "2024-11-20", "due_date": "2099-01-01", "status": "paid"}
]`

func testStore(t *testing.T, data string) *store.Store {
	t.Helper()
	s, err := store.LoadJSON([]byte(data), zap.NewNop())
	require.NoError(t, err)
	return s
}

func testToday(t *testing.T) time.Time {
	t.Helper()
	d, err := models.ParseDate("2030-01-01")
	require.NoError(t, err)
	return d
}

func TestExecutor_Threshold(t *testing.T) {
	e := NewExecutor(testStore(t, testDataset), 0)
	today := testToday(t)

	tests := []struct {
		name      string
		op        models.CompareOp
		threshold float64
		wantCount int
		wantTotal float64
	}{
		{"less than 2000", models.OpLess, 2000, 1, 1299.99},
		{"less than 2450 excludes the boundary", models.OpLess, 2450, 1, 1299.99},
		{"at most 2450 includes the boundary", models.OpLessEq, 2450, 2, 3749.99},
		{"greater than 2450 excludes the boundary", models.OpGreater, 2450, 1, 3100},
		{"at least 2450 includes the boundary", models.OpGreaterEq, 2450, 2, 5550},
		{"exactly 3100", models.OpEqual, 3100, 1, 3100},
		{"exactly 3100.01 matches nothing", models.OpEqual, 3100.01, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := e.Execute(&models.Intent{
				Kind:      models.KindThreshold,
				Compare:   tt.op,
				Threshold: tt.threshold,
			}, today)
			assert.Equal(t, models.ResultCount, r.Kind)
			assert.Equal(t, tt.wantCount, r.Count)
			assert.InDelta(t, tt.wantTotal, r.Total, 0.001)
		})
	}
}

func TestExecutor_ThresholdWithVendorFilter(t *testing.T) {
	e := NewExecutor(testStore(t, testDataset), 0)

	r := e.Execute(&models.Intent{
		Kind:      models.KindThreshold,
		Compare:   models.OpGreater,
		Threshold: 1000,
		Vendor:    "microsoft",
	}, testToday(t))
	assert.Equal(t, 1, r.Count)
	assert.InDelta(t, 3100.0, r.Total, 0.001)
}

func TestExecutor_VendorAggregate(t *testing.T) {
	e := NewExecutor(testStore(t, testDataset), 0)
	today := testToday(t)

	r := e.Execute(&models.Intent{
		Kind:      models.KindVendorAggregate,
		Vendor:    "amazon",
		WantTotal: true,
	}, today)
	assert.Equal(t, models.ResultTotal, r.Kind)
	assert.Equal(t, 1, r.Count)
	assert.InDelta(t, 2450.0, r.Total, 0.001)

	// Case-insensitive substring match.
	r = e.Execute(&models.Intent{Kind: models.KindVendorAggregate, Vendor: "AMA"}, today)
	assert.Equal(t, 1, r.Count)

	// Unknown vendor yields an empty aggregate, not an error.
	r = e.Execute(&models.Intent{Kind: models.KindVendorAggregate, Vendor: "netflix"}, today)
	assert.Equal(t, 0, r.Count)
	assert.Zero(t, r.Total)
}

func TestExecutor_VendorAggregateList(t *testing.T) {
	e := NewExecutor(testStore(t, testDataset), 0)

	r := e.Execute(&models.Intent{
		Kind:     models.KindVendorAggregate,
		Vendor:   "google",
		WantList: true,
	}, testToday(t))
	assert.Equal(t, models.ResultList, r.Kind)
	require.Len(t, r.Invoices, 1)
	assert.Equal(t, "Google", r.Invoices[0].Vendor)
	assert.Equal(t, "INV-003", r.Invoices[0].InvoiceNumber)
}

func TestExecutor_Overdue(t *testing.T) {
	e := NewExecutor(testStore(t, testDataset), 0)
	today := testToday(t)

	r := e.Execute(&models.Intent{Kind: models.KindOverdue}, today)
	assert.Equal(t, 2, r.Count, "the paid invoice must not count as overdue")
	assert.InDelta(t, 5550.0, r.Total, 0.001)

	r = e.Execute(&models.Intent{Kind: models.KindOverdue, Vendor: "microsoft"}, today)
	assert.Equal(t, 1, r.Count)

	// Before any due date has passed, nothing is overdue.
	early, err := models.ParseDate("2024-01-01")
	require.NoError(t, err)
	r = e.Execute(&models.Intent{Kind: models.KindOverdue}, early)
	assert.Equal(t, 0, r.Count)
}

func TestExecutor_OverdueAllPaid(t *testing.T) {
	e := NewExecutor(testStore(t, `[
		{"vendor": "Amazon", "amount": 100, "due_date": "2020-01-01", "status": "paid"},
		{"vendor": "Google", "amount": 200, "due_date": "2020-01-01", "status": "closed"}
	]`), 0)

	r := e.Execute(&models.Intent{Kind: models.KindOverdue}, testToday(t))
	assert.Equal(t, 0, r.Count)
}

func TestExecutor_DueInWindow(t *testing.T) {
	e := NewExecutor(testStore(t, `[
		{"vendor": "A", "amount": 10, "due_date": "2030-01-01"},
		{"vendor": "B", "amount": 20, "due_date": "2030-01-08"},
		{"vendor": "C", "amount": 30, "due_date": "2030-01-09"},
		{"vendor": "D", "amount": 40, "due_date": "2029-12-31"},
		{"vendor": "E", "amount": 50}
	]`), 0)
	today := testToday(t)

	// [today, today+7] inclusive on both ends; missing due dates and
	// already-past dates are excluded.
	r := e.Execute(&models.Intent{Kind: models.KindDueInWindow, WindowDays: 7}, today)
	assert.Equal(t, 2, r.Count)
	assert.InDelta(t, 30.0, r.Total, 0.001)

	// Zero-day window means due today.
	r = e.Execute(&models.Intent{Kind: models.KindDueInWindow, WindowDays: 0}, today)
	assert.Equal(t, 1, r.Count)
}

func TestExecutor_DateRangeTotal(t *testing.T) {
	e := NewExecutor(testStore(t, testDataset), 0)
	today := testToday(t)

	start, err := models.ParseDate("2024-12-01")
	require.NoError(t, err)
	end, err := models.ParseDate("2024-12-31")
	require.NoError(t, err)

	// Inclusive on both bounds: Amazon issued exactly on the start date.
	r := e.Execute(&models.Intent{
		Kind:      models.KindDateRangeTotal,
		DateField: models.FieldIssueDate,
		Start:     start,
		End:       end,
	}, today)
	assert.Equal(t, models.ResultTotal, r.Kind)
	assert.Equal(t, 2, r.Count)
	assert.InDelta(t, 5550.0, r.Total, 0.001)

	// Same range over due dates matches nothing.
	r = e.Execute(&models.Intent{
		Kind:      models.KindDateRangeTotal,
		DateField: models.FieldDueDate,
		Start:     start,
		End:       end,
	}, today)
	assert.Equal(t, 0, r.Count)
}

func TestExecutor_Summary(t *testing.T) {
	e := NewExecutor(testStore(t, testDataset), 0)

	r := e.Execute(&models.Intent{Kind: models.KindSummary}, testToday(t))
	assert.Equal(t, models.ResultSummary, r.Kind)
	require.NotNil(t, r.Stats)
	assert.Equal(t, 3, r.Stats.Count)
	assert.InDelta(t, 6849.99, r.Stats.Total, 0.001)
	assert.InDelta(t, 2283.33, r.Stats.Average, 0.01)
	assert.Equal(t, 3, r.Stats.DistinctVendors)
	assert.Equal(t, 2, r.Stats.OverdueCount)
}

func TestExecutor_SummaryEmptyStore(t *testing.T) {
	e := NewExecutor(testStore(t, `[]`), 0)

	r := e.Execute(&models.Intent{Kind: models.KindSummary}, testToday(t))
	require.NotNil(t, r.Stats)
	assert.Equal(t, 0, r.Stats.Count)
	assert.Zero(t, r.Stats.Average, "average of an empty set is zero, not NaN")
}

func TestExecutor_ListTruncation(t *testing.T) {
	e := NewExecutor(testStore(t, `[
		{"vendor": "A", "amount": 1, "due_date": "2020-01-01"},
		{"vendor": "B", "amount": 2, "due_date": "2020-01-01"},
		{"vendor": "C", "amount": 3, "due_date": "2020-01-01"},
		{"vendor": "D", "amount": 4, "due_date": "2020-01-01"}
	]`), 2)

	r := e.Execute(&models.Intent{Kind: models.KindOverdue, WantList: true}, testToday(t))
	assert.Equal(t, 4, r.Count, "count reports all matches")
	assert.Len(t, r.Invoices, 2, "the list itself is bounded")
	assert.InDelta(t, 10.0, r.Total, 0.001, "the total covers all matches")
}

func TestExecutor_Unknown(t *testing.T) {
	e := NewExecutor(testStore(t, testDataset), 0)

	r := e.Execute(&models.Intent{
		Kind:     models.KindUnknown,
		Question: "asdf qwerty",
		Note:     "hint",
	}, testToday(t))
	assert.Equal(t, models.ResultUnknown, r.Kind)
	assert.Equal(t, "asdf qwerty", r.Question)
	assert.Equal(t, "hint", r.Note)
}
