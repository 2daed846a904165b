package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finbook/finbook/internal/utils"
	"github.com/finbook/finbook/pkg/ledger"
	"github.com/finbook/finbook/pkg/report"
	"github.com/finbook/finbook/pkg/session"
	log "github.com/sirupsen/logrus"
)

var ErrMonthNotFound = errors.New("month not found")

type Service interface {
	Analyze(ctx context.Context, current ledger.MonthKey) (Report, error)
}

type ServiceImpl struct {
	records ledger.RecordRepo
	clock   utils.Clock
	// largeItemShare is the fraction of monthly income above which a single
	// outflow is reported as a large item.
	largeItemShare float64
}

func NewService(records ledger.RecordRepo, clock utils.Clock, largeItemShare float64) *ServiceImpl {
	return &ServiceImpl{records: records, clock: clock, largeItemShare: largeItemShare}
}

// Analyze computes every section of the trend report for the given current
// month. "Previous month" always means the immediately preceding key in
// sorted month-key order: a month with no activity is simply absent, so the
// comparison falls back to the nearest known month rather than the calendar
// neighbor.
func (s *ServiceImpl) Analyze(ctx context.Context, current ledger.MonthKey) (Report, error) {
	email, err := session.CurrentEmail(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to get current user: %w", err)
	}
	record, err := s.records.Load(ctx, email)
	if err != nil {
		return Report{}, err
	}

	cur, ok := record.Months[current]
	if !ok {
		return Report{}, fmt.Errorf("%w: %s", ErrMonthNotFound, current)
	}

	months := record.MonthKeys()
	var prev *ledger.MonthLedger
	var prevKey ledger.MonthKey
	for i, key := range months {
		if key == current && i > 0 {
			prevKey = months[i-1]
			m := record.Months[prevKey]
			prev = &m
		}
	}
	log.Debugf("analyzing %s for %s across %d known months", current, email, len(months))

	r := Report{
		CurrentMonth: CurrentMonthSection{
			Month:  current,
			Totals: report.ComputeTotals(cur),
			Alerts: report.GenerateAlerts(cur),
		},
	}

	curHigh := report.SumExpensesByPriority(cur, ledger.PriorityHigh)
	curLow := report.SumExpensesByPriority(cur, ledger.PriorityLow)

	r.Priority = prioritySection(curHigh, curLow)
	r.LowPriorityTrend = lowPriorityTrendSection(curLow, current, prev, prevKey)
	r.LowVsSavings = lowVsSavingsSection(curLow, r.CurrentMonth.Totals.Goals)
	r.SavingsTrend = savingsTrendSection(r.CurrentMonth.Totals.Remaining, prev)
	r.FutureCommitments = futureCommitments(cur, s.clock.Now())
	r.UpwardSections = upwardSections(cur, prev)
	r.Unfunded = unfundedSection(cur, prev)
	r.LargeItems, r.LargeItemsNote = s.largeItems(cur, r.CurrentMonth.Totals.Income)

	return r, nil
}

func prioritySection(high, low float64) string {
	if low > high && high > 0 {
		return "Low-priority expenses exceed high-priority spend - consider trimming low-priority items."
	}
	return "Priority distribution OK."
}

func lowPriorityTrendSection(curLow float64, current ledger.MonthKey, prev *ledger.MonthLedger, prevKey ledger.MonthKey) string {
	if prev == nil {
		return "No previous month to compare low-priority spending."
	}
	prevLow := report.SumExpensesByPriority(*prev, ledger.PriorityLow)
	if curLow > prevLow {
		return fmt.Sprintf("Low-priority spending increased from %.2f (%s) to %.2f (%s).", prevLow, prevKey, curLow, current)
	}
	return fmt.Sprintf("Low-priority spending stable or decreased vs %s.", prevKey)
}

func lowVsSavingsSection(curLow, goalsTotal float64) string {
	if goalsTotal == 0 {
		return "No savings goals set."
	}
	if curLow > goalsTotal {
		return fmt.Sprintf("Low-priority spending (%.2f) exceeds savings targets total (%.2f). Consider reallocating.", curLow, goalsTotal)
	}
	return "Low-priority spending does not exceed goals total."
}

func savingsTrendSection(curRemaining float64, prev *ledger.MonthLedger) string {
	if prev == nil {
		return "No previous month to compare savings."
	}
	prevRemaining := report.ComputeTotals(*prev).Remaining
	if curRemaining < prevRemaining {
		return fmt.Sprintf("Savings decreased vs previous month (%.2f -> %.2f).", prevRemaining, curRemaining)
	}
	return fmt.Sprintf("Savings stable/increased vs previous month (%.2f -> %.2f).", prevRemaining, curRemaining)
}

func futureCommitments(cur ledger.MonthLedger, today time.Time) []string {
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	notes := []string{}
	for _, ev := range cur.Events {
		if d, err := time.Parse("2006-01-02", ev.Date); err == nil && d.After(midnight) {
			notes = append(notes, fmt.Sprintf("Event %s on %s - %.2f", ev.Name, ev.Date, ev.Budget))
		}
	}
	for _, g := range cur.Goals {
		if g.Deadline == "" {
			continue
		}
		if d, err := time.Parse("2006-01-02", g.Deadline); err == nil && d.After(midnight) {
			notes = append(notes, fmt.Sprintf("Goal %s by %s - %.2f", g.Name, g.Deadline, g.Target))
		}
	}
	if len(notes) == 0 {
		return []string{"No future events/goals"}
	}
	return notes
}

func upwardSections(cur ledger.MonthLedger, prev *ledger.MonthLedger) []UpwardSection {
	upward := []UpwardSection{}
	if prev == nil {
		return upward
	}
	curTotals := report.ComputeTotals(cur)
	prevTotals := report.ComputeTotals(*prev)

	sections := []struct {
		name     string
		previous float64
		current  float64
	}{
		{"income", prevTotals.Income, curTotals.Income},
		{"expenses", prevTotals.Expenses, curTotals.Expenses},
		{"events", prevTotals.Events, curTotals.Events},
		{"goals", prevTotals.Goals, curTotals.Goals},
	}
	for _, section := range sections {
		if section.current > section.previous {
			upward = append(upward, UpwardSection{Section: section.name, Previous: section.previous, Current: section.current})
		}
	}
	return upward
}

func unfundedSection(cur ledger.MonthLedger, prev *ledger.MonthLedger) []string {
	unfunded := []string{}
	if prev == nil {
		return unfunded
	}
	prevTotals := report.ComputeTotals(*prev)
	prevCommitments := prevTotals.Events + prevTotals.Goals
	reserved := report.SumImportedExpenses(cur)
	if prevCommitments > reserved {
		unfunded = append(unfunded, fmt.Sprintf("Previous month commitments %.2f vs reserved %.2f - consider keeping funds.", prevCommitments, reserved))
	}
	return unfunded
}

func (s *ServiceImpl) largeItems(cur ledger.MonthLedger, incomeTotal float64) ([]LargeItem, string) {
	items := []LargeItem{}
	if incomeTotal > 0 {
		threshold := incomeTotal * s.largeItemShare
		for _, entry := range cur.Outflows() {
			if entry.Value() > threshold {
				items = append(items, LargeItem{Label: entry.Label(), Amount: entry.Value()})
			}
		}
	}
	if len(items) == 0 {
		return items, fmt.Sprintf("No single item >%.0f%% of income", s.largeItemShare*100)
	}
	return items, ""
}
