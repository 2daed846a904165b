package datewindow

import (
	"testing"
	"time"

	"github.com/finbook/finbook/pkg/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	today := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		date          string
		selectedMonth ledger.MonthKey
		wantMonth     ledger.MonthKey
		wantInMonth   bool
		wantErr       error
	}{
		{
			name:          "date inside the selected month",
			date:          "2025-03-20",
			selectedMonth: "2025-03",
			wantMonth:     "2025-03",
			wantInMonth:   true,
		},
		{
			name:          "today itself is allowed",
			date:          "2025-03-15",
			selectedMonth: "2025-03",
			wantMonth:     "2025-03",
			wantInMonth:   true,
		},
		{
			name:          "date in the following month",
			date:          "2025-04-02",
			selectedMonth: "2025-03",
			wantMonth:     "2025-04",
			wantInMonth:   false,
		},
		{
			name:          "last day of the following month",
			date:          "2025-04-30",
			selectedMonth: "2025-03",
			wantMonth:     "2025-04",
			wantInMonth:   false,
		},
		{
			name:          "date two months ahead",
			date:          "2025-05-01",
			selectedMonth: "2025-03",
			wantErr:       ErrOutsideWindow,
		},
		{
			name:          "yesterday is a past date regardless of selection",
			date:          "2025-03-14",
			selectedMonth: "2025-03",
			wantErr:       ErrPastDate,
		},
		{
			name:          "yesterday with the next month selected",
			date:          "2025-03-14",
			selectedMonth: "2025-04",
			wantErr:       ErrPastDate,
		},
		{
			name:          "future date before the selected month",
			date:          "2025-05-10",
			selectedMonth: "2025-06",
			wantErr:       ErrOutsideWindow,
		},
		{
			name:          "garbage date",
			date:          "not-a-date",
			selectedMonth: "2025-03",
			wantErr:       ErrInvalidDate,
		},
		{
			name:          "month-only date",
			date:          "2025-03",
			selectedMonth: "2025-03",
			wantErr:       ErrInvalidDate,
		},
		{
			name:          "empty date",
			date:          "",
			selectedMonth: "2025-03",
			wantErr:       ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := Check(tt.date, tt.selectedMonth, today)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMonth, decision.Month)
			assert.Equal(t, tt.wantInMonth, decision.InSelectedMonth)
		})
	}
}

func TestCheck_TimeOfDayDoesNotMatter(t *testing.T) {
	lateToday := time.Date(2025, time.March, 15, 23, 59, 59, 0, time.UTC)

	decision, err := Check("2025-03-15", "2025-03", lateToday)

	require.NoError(t, err)
	assert.Equal(t, ledger.MonthKey("2025-03"), decision.Month)
}
