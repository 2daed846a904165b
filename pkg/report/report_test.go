package report

import (
	"testing"

	"github.com/finbook/finbook/pkg/ledger"
	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	m := ledger.MonthLedger{
		Income: []ledger.IncomeEntry{
			{Title: "Salary", Amount: 50000},
		},
		Expenses: []ledger.ExpenseEntry{
			{Title: "Rent", Amount: 15000, Priority: ledger.PriorityHigh},
			{Title: "Snacks", Amount: 200, Priority: ledger.PriorityLow},
		},
	}

	totals := ComputeTotals(m)

	assert.Equal(t, Totals{
		Income:    50000,
		Expenses:  15200,
		Events:    0,
		Goals:     0,
		Remaining: 34800,
	}, totals)
}

func TestComputeTotals_AllKindsAreOutflows(t *testing.T) {
	m := ledger.MonthLedger{
		Income: []ledger.IncomeEntry{
			{Title: "Salary", Amount: 10000},
		},
		Expenses: []ledger.ExpenseEntry{
			{Title: "Rent", Amount: 4000, Priority: ledger.PriorityHigh},
		},
		Events: []ledger.EventEntry{
			{Name: "Trip", Date: "2025-03-20", Budget: 2000, Priority: ledger.PriorityMedium},
		},
		Goals: []ledger.GoalEntry{
			{Name: "Emergency fund", Target: 3000, Priority: ledger.PriorityHigh},
		},
	}

	totals := ComputeTotals(m)

	assert.Equal(t, 4000.0, totals.Expenses)
	assert.Equal(t, 2000.0, totals.Events)
	assert.Equal(t, 3000.0, totals.Goals)
	assert.Equal(t, 1000.0, totals.Remaining)
}

func TestGenerateAlerts_HealthyMonthWithoutGoals(t *testing.T) {
	m := ledger.MonthLedger{
		Income: []ledger.IncomeEntry{
			{Title: "Salary", Amount: 50000},
		},
		Expenses: []ledger.ExpenseEntry{
			{Title: "Rent", Amount: 15000, Priority: ledger.PriorityHigh},
			{Title: "Snacks", Amount: 200, Priority: ledger.PriorityLow},
		},
	}

	alerts := GenerateAlerts(m)

	assert.Contains(t, alerts, "No savings goals set for this month - consider adding goals.")
	for _, alert := range alerts {
		assert.NotContains(t, alert, "Budget exceeded")
	}
}

func TestGenerateAlerts_NoIncomeAndOverspent(t *testing.T) {
	m := ledger.MonthLedger{
		Expenses: []ledger.ExpenseEntry{
			{Title: "Loan", Amount: 40000, Priority: ledger.PriorityHigh, Recurring: true},
		},
	}

	alerts := GenerateAlerts(m)

	assert.Contains(t, alerts, "No income recorded for this month - consider adding income.")
	assert.Contains(t, alerts, "Budget exceeded by 40000.00")
	assert.Contains(t, alerts, "Recurring expenses total 40000.00 predicted next month.")
}

func TestGenerateAlerts_LowPriorityOvertakesHigh(t *testing.T) {
	m := ledger.MonthLedger{
		Income: []ledger.IncomeEntry{
			{Title: "Salary", Amount: 20000},
		},
		Expenses: []ledger.ExpenseEntry{
			{Title: "Rent", Amount: 1000, Priority: ledger.PriorityHigh},
			{Title: "Gadgets", Amount: 2500, Priority: ledger.PriorityLow},
		},
		Goals: []ledger.GoalEntry{
			{Name: "Savings", Target: 500},
		},
	}

	alerts := GenerateAlerts(m)

	assert.Equal(t, []string{
		"Low-priority expenses exceed high-priority spending - consider reducing low-priority costs.",
	}, alerts)
}

func TestGenerateAlerts_EmptyMonth(t *testing.T) {
	alerts := GenerateAlerts(ledger.NewMonthLedger())

	assert.Equal(t, []string{
		"No income recorded for this month - consider adding income.",
		"No savings goals set for this month - consider adding goals.",
	}, alerts)
}

func TestSumExpensesByPriority(t *testing.T) {
	m := ledger.MonthLedger{
		Expenses: []ledger.ExpenseEntry{
			{Title: "Rent", Amount: 1000, Priority: ledger.PriorityHigh},
			{Title: "Food", Amount: 300, Priority: ledger.PriorityHigh},
			{Title: "Snacks", Amount: 50, Priority: ledger.PriorityLow},
		},
	}

	assert.Equal(t, 1300.0, SumExpensesByPriority(m, ledger.PriorityHigh))
	assert.Equal(t, 50.0, SumExpensesByPriority(m, ledger.PriorityLow))
	assert.Equal(t, 0.0, SumExpensesByPriority(m, ledger.PriorityMedium))
}

func TestSumImportedExpenses(t *testing.T) {
	m := ledger.MonthLedger{
		Expenses: []ledger.ExpenseEntry{
			{Title: "Rent", Amount: 1000, Priority: ledger.PriorityHigh},
			{Title: "Imported prev-month commitments", Amount: 8000, Priority: ledger.PriorityHigh, ImportedFrom: "2025-02"},
		},
	}

	assert.Equal(t, 8000.0, SumImportedExpenses(m))
}
