package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/finbook/finbook/internal/utils"
	"github.com/finbook/finbook/pkg/ledger"
	"github.com/finbook/finbook/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEmail = "test@example.com"

func setup(t *testing.T) (*ServiceImpl, *ledger.StubRecordRepo, context.Context) {
	t.Helper()
	repo := ledger.NewStubRecordRepo()
	require.NoError(t, repo.Create(context.Background(), testEmail, "uid-1", ledger.NewUserRecord("Test", "Password1!")))

	clock := &utils.MockClock{FixedNow: time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)}
	service := NewService(repo, clock, 0.4)
	ctx := session.WithUser(context.Background(), session.User{Email: testEmail, Username: "Test"})
	return service, repo, ctx
}

func setMonth(t *testing.T, repo *ledger.StubRecordRepo, ctx context.Context, key ledger.MonthKey, m ledger.MonthLedger) {
	t.Helper()
	record, err := repo.Load(ctx, testEmail)
	require.NoError(t, err)
	record.SetMonth(key, m)
	require.NoError(t, repo.Save(ctx, testEmail, record))
}

func TestAnalyze_UnknownMonth(t *testing.T) {
	service, _, ctx := setup(t)

	_, err := service.Analyze(ctx, "2025-03")

	assert.ErrorIs(t, err, ErrMonthNotFound)
}

func TestAnalyze_NoSessionUser(t *testing.T) {
	service, _, _ := setup(t)

	_, err := service.Analyze(context.Background(), "2025-03")

	assert.ErrorIs(t, err, session.ErrNoUser)
}

func TestAnalyze_FirstMonthUsesPlaceholders(t *testing.T) {
	service, repo, ctx := setup(t)
	setMonth(t, repo, ctx, "2025-03", ledger.MonthLedger{
		Income: []ledger.IncomeEntry{{Title: "Salary", Amount: 50000}},
	})

	r, err := service.Analyze(ctx, "2025-03")

	require.NoError(t, err)
	assert.Equal(t, "No previous month to compare low-priority spending.", r.LowPriorityTrend)
	assert.Equal(t, "No previous month to compare savings.", r.SavingsTrend)
	assert.Equal(t, []string{"No future events/goals"}, r.FutureCommitments)
	assert.Empty(t, r.UpwardSections)
	assert.Empty(t, r.Unfunded)
	assert.Equal(t, "No single item >40% of income", r.LargeItemsNote)
}

func TestAnalyze_LargeItemThreshold(t *testing.T) {
	service, repo, ctx := setup(t)
	setMonth(t, repo, ctx, "2025-03", ledger.MonthLedger{
		Income: []ledger.IncomeEntry{{Title: "Salary", Amount: 50000}},
		Expenses: []ledger.ExpenseEntry{
			{Title: "Car repair", Amount: 21000, Priority: ledger.PriorityHigh},
			{Title: "Rent", Amount: 19000, Priority: ledger.PriorityHigh},
		},
	})

	r, err := service.Analyze(ctx, "2025-03")

	require.NoError(t, err)
	require.Len(t, r.LargeItems, 1)
	assert.Equal(t, LargeItem{Label: "Car repair", Amount: 21000}, r.LargeItems[0])
	assert.Empty(t, r.LargeItemsNote)
}

func TestAnalyze_LargeItemsCoverEventsAndGoals(t *testing.T) {
	service, repo, ctx := setup(t)
	setMonth(t, repo, ctx, "2025-03", ledger.MonthLedger{
		Income: []ledger.IncomeEntry{{Title: "Salary", Amount: 10000}},
		Events: []ledger.EventEntry{{Name: "Wedding", Date: "2025-03-20", Budget: 5000}},
		Goals:  []ledger.GoalEntry{{Name: "Laptop", Target: 4500}},
	})

	r, err := service.Analyze(ctx, "2025-03")

	require.NoError(t, err)
	require.Len(t, r.LargeItems, 2)
	assert.Equal(t, "Wedding", r.LargeItems[0].Label)
	assert.Equal(t, "Laptop", r.LargeItems[1].Label)
}

func TestAnalyze_SavingsAndUpwardTrends(t *testing.T) {
	service, repo, ctx := setup(t)
	setMonth(t, repo, ctx, "2025-02", ledger.MonthLedger{
		Income:   []ledger.IncomeEntry{{Title: "Salary", Amount: 50000}},
		Expenses: []ledger.ExpenseEntry{{Title: "Rent", Amount: 15000, Priority: ledger.PriorityHigh}},
	})
	setMonth(t, repo, ctx, "2025-03", ledger.MonthLedger{
		Income: []ledger.IncomeEntry{{Title: "Salary", Amount: 50000}},
		Expenses: []ledger.ExpenseEntry{
			{Title: "Rent", Amount: 15000, Priority: ledger.PriorityHigh},
			{Title: "Gadgets", Amount: 5000, Priority: ledger.PriorityLow},
		},
	})

	r, err := service.Analyze(ctx, "2025-03")

	require.NoError(t, err)
	assert.Equal(t, "Savings decreased vs previous month (35000.00 -> 30000.00).", r.SavingsTrend)
	require.Len(t, r.UpwardSections, 1)
	assert.Equal(t, UpwardSection{Section: "expenses", Previous: 15000, Current: 20000}, r.UpwardSections[0])
	assert.Equal(t, "Low-priority spending increased from 0.00 (2025-02) to 5000.00 (2025-03).", r.LowPriorityTrend)
}

func TestAnalyze_PreviousMonthIsNearestKnown(t *testing.T) {
	service, repo, ctx := setup(t)
	// December and March exist; January and February were never opened.
	setMonth(t, repo, ctx, "2024-12", ledger.MonthLedger{
		Income: []ledger.IncomeEntry{{Title: "Salary", Amount: 40000}},
	})
	setMonth(t, repo, ctx, "2025-03", ledger.MonthLedger{
		Income: []ledger.IncomeEntry{{Title: "Salary", Amount: 50000}},
	})

	r, err := service.Analyze(ctx, "2025-03")

	require.NoError(t, err)
	require.Len(t, r.UpwardSections, 1)
	assert.Equal(t, "income", r.UpwardSections[0].Section)
	assert.Equal(t, 40000.0, r.UpwardSections[0].Previous)
}

func TestAnalyze_UnfundedCommitments(t *testing.T) {
	service, repo, ctx := setup(t)
	setMonth(t, repo, ctx, "2025-02", ledger.MonthLedger{
		Events: []ledger.EventEntry{{Name: "Wedding", Date: "2025-02-20", Budget: 5000}},
		Goals:  []ledger.GoalEntry{{Name: "Laptop", Target: 3000}},
	})
	setMonth(t, repo, ctx, "2025-03", ledger.MonthLedger{
		Income: []ledger.IncomeEntry{{Title: "Salary", Amount: 50000}},
	})

	r, err := service.Analyze(ctx, "2025-03")

	require.NoError(t, err)
	assert.Equal(t, []string{"Previous month commitments 8000.00 vs reserved 0.00 - consider keeping funds."}, r.Unfunded)
}

func TestAnalyze_FullyReservedCommitmentsDoNotFire(t *testing.T) {
	service, repo, ctx := setup(t)
	setMonth(t, repo, ctx, "2025-02", ledger.MonthLedger{
		Events: []ledger.EventEntry{{Name: "Wedding", Date: "2025-02-20", Budget: 5000}},
		Goals:  []ledger.GoalEntry{{Name: "Laptop", Target: 3000}},
	})
	setMonth(t, repo, ctx, "2025-03", ledger.MonthLedger{
		Income: []ledger.IncomeEntry{{Title: "Salary", Amount: 50000}},
		Expenses: []ledger.ExpenseEntry{
			{Title: "Imported prev-month commitments", Amount: 8000, Priority: ledger.PriorityHigh, ImportedFrom: "2025-02"},
		},
	})

	r, err := service.Analyze(ctx, "2025-03")

	require.NoError(t, err)
	assert.Empty(t, r.Unfunded)
}

func TestAnalyze_FutureCommitmentsAreStrictlyAfterToday(t *testing.T) {
	service, repo, ctx := setup(t)
	setMonth(t, repo, ctx, "2025-03", ledger.MonthLedger{
		Income: []ledger.IncomeEntry{{Title: "Salary", Amount: 50000}},
		Events: []ledger.EventEntry{
			{Name: "Past concert", Date: "2025-03-10", Budget: 500},
			{Name: "Today dinner", Date: "2025-03-15", Budget: 200},
			{Name: "Future trip", Date: "2025-03-20", Budget: 2000},
		},
		Goals: []ledger.GoalEntry{
			{Name: "Vacation", Deadline: "2025-04-01", Target: 5000},
			{Name: "Open-ended", Target: 1000},
		},
	})

	r, err := service.Analyze(ctx, "2025-03")

	require.NoError(t, err)
	assert.Equal(t, []string{
		"Event Future trip on 2025-03-20 - 2000.00",
		"Goal Vacation by 2025-04-01 - 5000.00",
	}, r.FutureCommitments)
}

func TestAnalyze_LowVsSavings(t *testing.T) {
	service, repo, ctx := setup(t)
	setMonth(t, repo, ctx, "2025-03", ledger.MonthLedger{
		Income: []ledger.IncomeEntry{{Title: "Salary", Amount: 50000}},
		Expenses: []ledger.ExpenseEntry{
			{Title: "Gadgets", Amount: 6000, Priority: ledger.PriorityLow},
		},
		Goals: []ledger.GoalEntry{{Name: "Savings", Target: 4000}},
	})

	r, err := service.Analyze(ctx, "2025-03")

	require.NoError(t, err)
	assert.Equal(t, "Low-priority spending (6000.00) exceeds savings targets total (4000.00). Consider reallocating.", r.LowVsSavings)
}
