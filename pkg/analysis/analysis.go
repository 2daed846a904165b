package analysis

import (
	"github.com/finbook/finbook/pkg/ledger"
	"github.com/finbook/finbook/pkg/report"
)

// Report is the full cross-month trend analysis for one user. Sections are
// independent; a section that cannot be computed (usually for lack of a
// previous month) carries an explanatory placeholder instead.
type Report struct {
	CurrentMonth      CurrentMonthSection `json:"currentMonth"`
	Priority          string              `json:"priority"`
	LowPriorityTrend  string              `json:"lowPriorityTrend"`
	LowVsSavings      string              `json:"lowVsSavings"`
	SavingsTrend      string              `json:"savingsTrend"`
	FutureCommitments []string            `json:"futureCommitments"`
	UpwardSections    []UpwardSection     `json:"upwardSections"`
	Unfunded          []string            `json:"unfunded"`
	LargeItems        []LargeItem         `json:"largeItems"`
	LargeItemsNote    string              `json:"largeItemsNote,omitempty"`
}

type CurrentMonthSection struct {
	Month  ledger.MonthKey `json:"month"`
	Totals report.Totals   `json:"totals"`
	Alerts []string        `json:"alerts"`
}

// UpwardSection reports a record kind whose current-month total strictly
// exceeds the previous known month's total.
type UpwardSection struct {
	Section  string  `json:"section"`
	Previous float64 `json:"previous"`
	Current  float64 `json:"current"`
}

// LargeItem is a single entry whose amount exceeds the configured share of
// the month's income.
type LargeItem struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}
