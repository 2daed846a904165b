package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonthKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    MonthKey
		wantErr bool
	}{
		{name: "canonical key", input: "2025-03", want: "2025-03"},
		{name: "single digit month is canonicalized", input: "2025-3", want: "2025-03"},
		{name: "month out of range", input: "2025-13", wantErr: true},
		{name: "full date", input: "2025-03-01", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "march", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMonthKey(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMonthKey_NextPrev(t *testing.T) {
	assert.Equal(t, MonthKey("2025-04"), MonthKey("2025-03").Next())
	assert.Equal(t, MonthKey("2026-01"), MonthKey("2025-12").Next())
	assert.Equal(t, MonthKey("2025-02"), MonthKey("2025-03").Prev())
	assert.Equal(t, MonthKey("2024-12"), MonthKey("2025-01").Prev())
}

func TestMonthKey_FirstAndLastDay(t *testing.T) {
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), MonthKey("2025-02").FirstDay())
	assert.Equal(t, time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC), MonthKey("2025-02").LastDay())
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), MonthKey("2024-02").LastDay())
}

func TestUserRecord_MonthKeysAreSorted(t *testing.T) {
	record := NewUserRecord("user", "pass")
	record.SetMonth("2025-03", NewMonthLedger())
	record.SetMonth("2024-11", NewMonthLedger())
	record.SetMonth("2025-01", NewMonthLedger())

	assert.Equal(t, []MonthKey{"2024-11", "2025-01", "2025-03"}, record.MonthKeys())
}

func TestUserRecord_MonthLazilyCreates(t *testing.T) {
	record := NewUserRecord("user", "pass")

	m := record.Month("2025-03")

	assert.Empty(t, m.Income)
	assert.Contains(t, record.Months, MonthKey("2025-03"))
}
