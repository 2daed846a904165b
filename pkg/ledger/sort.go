package ledger

import "sort"

// Display-order helpers. Each returns a sorted copy; storage order stays
// insertion order.

func IncomeByAmountDesc(entries []IncomeEntry) []IncomeEntry {
	sorted := append([]IncomeEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Amount > sorted[j].Amount })
	return sorted
}

func ExpensesByAmountDesc(entries []ExpenseEntry) []ExpenseEntry {
	sorted := append([]ExpenseEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Amount > sorted[j].Amount })
	return sorted
}

func EventsByDateAsc(entries []EventEntry) []EventEntry {
	sorted := append([]EventEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })
	return sorted
}

func GoalsByTargetDesc(entries []GoalEntry) []GoalEntry {
	sorted := append([]GoalEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Target > sorted[j].Target })
	return sorted
}

// displayOrder returns the month with every section in its display order:
// amounts descending, events by date.
func displayOrder(m MonthLedger) MonthLedger {
	return MonthLedger{
		Income:   IncomeByAmountDesc(m.Income),
		Expenses: ExpensesByAmountDesc(m.Expenses),
		Events:   EventsByDateAsc(m.Events),
		Goals:    GoalsByTargetDesc(m.Goals),
	}
}
