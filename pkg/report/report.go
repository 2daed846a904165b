// Package report derives the per-month aggregate figures and advisory alerts
// from a ledger snapshot. Everything here is a pure function of its inputs.
package report

import (
	"fmt"

	"github.com/finbook/finbook/pkg/ledger"
)

type Totals struct {
	Income    float64 `json:"income"`
	Expenses  float64 `json:"expenses"`
	Events    float64 `json:"events"`
	Goals     float64 `json:"goals"`
	Remaining float64 `json:"remaining"`
}

// ComputeTotals sums each record kind and derives the remaining budget:
// income minus all outflows (expenses, event budgets, goal targets).
func ComputeTotals(m ledger.MonthLedger) Totals {
	t := Totals{}
	for _, e := range m.Income {
		t.Income += e.Amount
	}
	for _, e := range m.Expenses {
		t.Expenses += e.Amount
	}
	for _, e := range m.Events {
		t.Events += e.Budget
	}
	for _, g := range m.Goals {
		t.Goals += g.Target
	}
	t.Remaining = t.Income - (t.Expenses + t.Events + t.Goals)
	return t
}

// SumExpensesByPriority totals the expense amounts recorded under the given
// priority.
func SumExpensesByPriority(m ledger.MonthLedger, priority ledger.Priority) float64 {
	var sum float64
	for _, e := range m.Expenses {
		if e.Priority == priority {
			sum += e.Amount
		}
	}
	return sum
}

// SumRecurringExpenses totals the expense amounts flagged as recurring.
func SumRecurringExpenses(m ledger.MonthLedger) float64 {
	var sum float64
	for _, e := range m.Expenses {
		if e.Recurring {
			sum += e.Amount
		}
	}
	return sum
}

// SumImportedExpenses totals the expenses the carry-forward importer reserved
// in this month.
func SumImportedExpenses(m ledger.MonthLedger) float64 {
	var sum float64
	for _, e := range m.Expenses {
		if e.ImportedFrom != "" {
			sum += e.Amount
		}
	}
	return sum
}

// GenerateAlerts evaluates every advisory rule in a fixed order and returns
// one message per rule that fired. Alerts never block a mutation.
func GenerateAlerts(m ledger.MonthLedger) []string {
	alerts := []string{}
	t := ComputeTotals(m)

	if t.Income == 0 {
		alerts = append(alerts, "No income recorded for this month - consider adding income.")
	}
	if t.Remaining < 0 {
		alerts = append(alerts, fmt.Sprintf("Budget exceeded by %.2f", -t.Remaining))
	}
	if recurring := SumRecurringExpenses(m); recurring > 0 {
		alerts = append(alerts, fmt.Sprintf("Recurring expenses total %.2f predicted next month.", recurring))
	}
	high := SumExpensesByPriority(m, ledger.PriorityHigh)
	low := SumExpensesByPriority(m, ledger.PriorityLow)
	if low > high && high > 0 {
		alerts = append(alerts, "Low-priority expenses exceed high-priority spending - consider reducing low-priority costs.")
	}
	if len(m.Goals) == 0 {
		alerts = append(alerts, "No savings goals set for this month - consider adding goals.")
	}

	return alerts
}
