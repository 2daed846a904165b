package user

import (
	"context"
	"time"

	"github.com/finbook/finbook/pkg/ledger"
)

type StubRecentMonthsRepo struct {
	months map[string][]ledger.MonthKey
}

func NewStubRecentMonthsRepo() *StubRecentMonthsRepo {
	return &StubRecentMonthsRepo{months: map[string][]ledger.MonthKey{}}
}

func (s *StubRecentMonthsRepo) Add(ctx context.Context, email string, month ledger.MonthKey, openedAt time.Time) error {
	for _, m := range s.months[email] {
		if m == month {
			return nil
		}
	}
	s.months[email] = append(s.months[email], month)
	return nil
}

func (s *StubRecentMonthsRepo) List(ctx context.Context, email string) ([]ledger.MonthKey, error) {
	return append([]ledger.MonthKey(nil), s.months[email]...), nil
}

func (s *StubRecentMonthsRepo) Trim(ctx context.Context, email string, limit int) error {
	if months := s.months[email]; len(months) > limit {
		s.months[email] = append([]ledger.MonthKey(nil), months[len(months)-limit:]...)
	}
	return nil
}
