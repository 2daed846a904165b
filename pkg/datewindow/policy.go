// Package datewindow decides whether a calendar date may be attached to a
// selected month. Only the selected month and the immediately following one
// are ever valid targets, and past dates are never accepted.
package datewindow

import (
	"errors"
	"fmt"
	"time"

	"github.com/finbook/finbook/pkg/ledger"
)

var (
	ErrInvalidDate   = errors.New("invalid date format")
	ErrPastDate      = errors.New("cannot add to past dates")
	ErrOutsideWindow = errors.New("only the selected month or the next month are allowed")
)

const dateLayout = "2006-01-02"

// Decision reports which month's ledger must hold the dated entry.
type Decision struct {
	// InSelectedMonth is true when the date falls inside the selected month
	// itself; false when it falls inside the following month.
	InSelectedMonth bool
	// Month is the month-key the entry belongs to.
	Month ledger.MonthKey
}

// Check evaluates the window rules in order: parseability, no past dates,
// selected month, next month. today is injected by the caller and truncated
// to midnight here, so time of day never influences the outcome.
func Check(date string, selectedMonth ledger.MonthKey, today time.Time) (Decision, error) {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return Decision{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if d.Before(midnight) {
		return Decision{}, ErrPastDate
	}

	if !d.Before(selectedMonth.FirstDay()) && !d.After(selectedMonth.LastDay()) {
		return Decision{InSelectedMonth: true, Month: selectedMonth}, nil
	}

	next := selectedMonth.Next()
	if !d.Before(next.FirstDay()) && !d.After(next.LastDay()) {
		return Decision{InSelectedMonth: false, Month: next}, nil
	}

	return Decision{}, ErrOutsideWindow
}

// Policy adapts Check to the ledger service's DateWindowPolicy interface.
type Policy struct{}

func (Policy) Check(date string, selectedMonth ledger.MonthKey, today time.Time) (ledger.MonthKey, error) {
	decision, err := Check(date, selectedMonth, today)
	if err != nil {
		return "", err
	}
	return decision.Month, nil
}
