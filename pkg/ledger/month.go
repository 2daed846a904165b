package ledger

import (
	"fmt"
	"sort"
	"time"
)

// MonthKey is the canonical YYYY-MM identifier of a calendar month.
type MonthKey string

const monthKeyLayout = "2006-01"

// ParseMonthKey validates that s names a real calendar year-month.
func ParseMonthKey(s string) (MonthKey, error) {
	t, err := time.Parse(monthKeyLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid month key %q: %w", s, err)
	}
	// time.Parse accepts e.g. "2025-1"; re-format to keep keys canonical.
	return MonthKey(t.Format(monthKeyLayout)), nil
}

// MonthKeyOf returns the month-key of the given point in time.
func MonthKeyOf(t time.Time) MonthKey {
	return MonthKey(t.Format(monthKeyLayout))
}

func (k MonthKey) String() string { return string(k) }

func (k MonthKey) time() time.Time {
	t, _ := time.Parse(monthKeyLayout, string(k))
	return t
}

// FirstDay returns midnight on the first day of the month.
func (k MonthKey) FirstDay() time.Time {
	return k.time()
}

// LastDay returns midnight on the last day of the month.
func (k MonthKey) LastDay() time.Time {
	return k.time().AddDate(0, 1, -1)
}

// Next returns the key of the immediately following calendar month.
func (k MonthKey) Next() MonthKey {
	return MonthKey(k.time().AddDate(0, 1, 0).Format(monthKeyLayout))
}

// Prev returns the key of the immediately preceding calendar month.
func (k MonthKey) Prev() MonthKey {
	return MonthKey(k.time().AddDate(0, -1, 0).Format(monthKeyLayout))
}

func sortMonthKeys(keys []MonthKey) {
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
}
