package ledger

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/finbook/finbook/internal/utils"
	"github.com/finbook/finbook/pkg/session"
	log "github.com/sirupsen/logrus"
)

// DateWindowPolicy decides which month's ledger a dated entry belongs to, or
// rejects the date altogether.
type DateWindowPolicy interface {
	Check(date string, selectedMonth MonthKey, today time.Time) (MonthKey, error)
}

// Payload is implemented by the four entry payloads.
type Payload interface {
	Kind() Kind
}

type IncomePayload struct {
	Title    string
	Amount   float64
	Category string
}

func (p IncomePayload) Kind() Kind { return KindIncome }

type ExpensePayload struct {
	Title     string
	Amount    float64
	Priority  Priority
	Recurring bool
}

func (p ExpensePayload) Kind() Kind { return KindExpense }

type EventPayload struct {
	Name     string
	Date     string
	Budget   float64
	Priority Priority
}

func (p EventPayload) Kind() Kind { return KindEvent }

type GoalPayload struct {
	Name     string
	Deadline string
	Target   float64
	Priority Priority
}

func (p GoalPayload) Kind() Kind { return KindGoal }

// Placement reports where an added entry was stored. Month can differ from
// the selected month when the entry's date falls into the following month.
type Placement struct {
	Month MonthKey
	Index int
}

type Service interface {
	GetMonth(ctx context.Context, month MonthKey) (MonthLedger, error)
	Months(ctx context.Context) ([]MonthKey, error)
	AddIncome(ctx context.Context, month MonthKey, payload IncomePayload) (Placement, error)
	AddExpense(ctx context.Context, month MonthKey, payload ExpensePayload) (Placement, error)
	AddEvent(ctx context.Context, month MonthKey, payload EventPayload) (Placement, error)
	AddGoal(ctx context.Context, month MonthKey, payload GoalPayload) (Placement, error)
	UpdateEntry(ctx context.Context, month MonthKey, kind Kind, index int, payload Payload) error
	DeleteEntry(ctx context.Context, month MonthKey, kind Kind, index int) error
}

type ServiceImpl struct {
	repo   RecordRepo
	policy DateWindowPolicy
	clock  utils.Clock
}

func NewService(repo RecordRepo, policy DateWindowPolicy, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, policy: policy, clock: clock}
}

func (s *ServiceImpl) GetMonth(ctx context.Context, month MonthKey) (MonthLedger, error) {
	record, err := s.loadRecord(ctx)
	if err != nil {
		return MonthLedger{}, err
	}
	return record.Month(month), nil
}

func (s *ServiceImpl) Months(ctx context.Context) ([]MonthKey, error) {
	record, err := s.loadRecord(ctx)
	if err != nil {
		return nil, err
	}
	return record.MonthKeys(), nil
}

func (s *ServiceImpl) AddIncome(ctx context.Context, month MonthKey, payload IncomePayload) (Placement, error) {
	if err := validateTitleAmount("title", payload.Title, "amount", payload.Amount); err != nil {
		return Placement{}, err
	}

	return s.mutate(ctx, func(record *UserRecord) (Placement, error) {
		m := record.Month(month)
		m.Income = append(m.Income, IncomeEntry{
			Title:     strings.TrimSpace(payload.Title),
			Amount:    payload.Amount,
			Category:  payload.Category,
			CreatedAt: s.clock.Now(),
		})
		record.SetMonth(month, m)
		return Placement{Month: month, Index: len(m.Income) - 1}, nil
	})
}

func (s *ServiceImpl) AddExpense(ctx context.Context, month MonthKey, payload ExpensePayload) (Placement, error) {
	if err := validateTitleAmount("title", payload.Title, "amount", payload.Amount); err != nil {
		return Placement{}, err
	}
	priority, err := normalizePriority(payload.Priority)
	if err != nil {
		return Placement{}, err
	}

	return s.mutate(ctx, func(record *UserRecord) (Placement, error) {
		m := record.Month(month)
		m.Expenses = append(m.Expenses, ExpenseEntry{
			Title:     strings.TrimSpace(payload.Title),
			Amount:    payload.Amount,
			Priority:  priority,
			Recurring: payload.Recurring,
			CreatedAt: s.clock.Now(),
		})
		record.SetMonth(month, m)
		return Placement{Month: month, Index: len(m.Expenses) - 1}, nil
	})
}

func (s *ServiceImpl) AddEvent(ctx context.Context, month MonthKey, payload EventPayload) (Placement, error) {
	if err := validateTitleAmount("name", payload.Name, "budget", payload.Budget); err != nil {
		return Placement{}, err
	}
	priority, err := normalizePriority(payload.Priority)
	if err != nil {
		return Placement{}, err
	}
	target, err := s.policy.Check(payload.Date, month, s.clock.Now())
	if err != nil {
		return Placement{}, &PolicyViolation{Err: err}
	}

	return s.mutate(ctx, func(record *UserRecord) (Placement, error) {
		m := record.Month(target)
		m.Events = append(m.Events, EventEntry{
			Name:      strings.TrimSpace(payload.Name),
			Date:      payload.Date,
			Budget:    payload.Budget,
			Priority:  priority,
			CreatedAt: s.clock.Now(),
		})
		record.SetMonth(target, m)
		return Placement{Month: target, Index: len(m.Events) - 1}, nil
	})
}

func (s *ServiceImpl) AddGoal(ctx context.Context, month MonthKey, payload GoalPayload) (Placement, error) {
	if err := validateTitleAmount("name", payload.Name, "target", payload.Target); err != nil {
		return Placement{}, err
	}
	priority, err := normalizePriority(payload.Priority)
	if err != nil {
		return Placement{}, err
	}
	target := month
	if payload.Deadline != "" {
		target, err = s.policy.Check(payload.Deadline, month, s.clock.Now())
		if err != nil {
			return Placement{}, &PolicyViolation{Err: err}
		}
	}

	return s.mutate(ctx, func(record *UserRecord) (Placement, error) {
		m := record.Month(target)
		m.Goals = append(m.Goals, GoalEntry{
			Name:      strings.TrimSpace(payload.Name),
			Deadline:  payload.Deadline,
			Target:    payload.Target,
			Priority:  priority,
			CreatedAt: s.clock.Now(),
		})
		record.SetMonth(target, m)
		return Placement{Month: target, Index: len(m.Goals) - 1}, nil
	})
}

func (s *ServiceImpl) UpdateEntry(ctx context.Context, month MonthKey, kind Kind, index int, payload Payload) error {
	if payload == nil || payload.Kind() != kind {
		return &ValidationError{Field: "kind", Reason: "payload does not match entry kind"}
	}

	_, err := s.mutate(ctx, func(record *UserRecord) (Placement, error) {
		m := record.Month(month)
		if index < 0 || index >= m.Len(kind) {
			return Placement{}, ErrEntryNotFound
		}

		switch p := payload.(type) {
		case IncomePayload:
			if err := validateTitleAmount("title", p.Title, "amount", p.Amount); err != nil {
				return Placement{}, err
			}
			entry := &m.Income[index]
			entry.Title = strings.TrimSpace(p.Title)
			entry.Amount = p.Amount
			entry.Category = p.Category
		case ExpensePayload:
			if err := validateTitleAmount("title", p.Title, "amount", p.Amount); err != nil {
				return Placement{}, err
			}
			priority, err := normalizePriority(p.Priority)
			if err != nil {
				return Placement{}, err
			}
			entry := &m.Expenses[index]
			entry.Title = strings.TrimSpace(p.Title)
			entry.Amount = p.Amount
			entry.Priority = priority
			entry.Recurring = p.Recurring
		case EventPayload:
			if err := validateTitleAmount("name", p.Name, "budget", p.Budget); err != nil {
				return Placement{}, err
			}
			priority, err := normalizePriority(p.Priority)
			if err != nil {
				return Placement{}, err
			}
			// The entry stays in its month; an edit whose date falls outside
			// the month's window is rejected, and the caller can move the
			// entry by deleting and re-adding it in the adjacent month.
			if _, err := s.policy.Check(p.Date, month, s.clock.Now()); err != nil {
				return Placement{}, &PolicyViolation{Err: err}
			}
			entry := &m.Events[index]
			entry.Name = strings.TrimSpace(p.Name)
			entry.Date = p.Date
			entry.Budget = p.Budget
			entry.Priority = priority
		case GoalPayload:
			if err := validateTitleAmount("name", p.Name, "target", p.Target); err != nil {
				return Placement{}, err
			}
			priority, err := normalizePriority(p.Priority)
			if err != nil {
				return Placement{}, err
			}
			if p.Deadline != "" {
				if _, err := s.policy.Check(p.Deadline, month, s.clock.Now()); err != nil {
					return Placement{}, &PolicyViolation{Err: err}
				}
			}
			entry := &m.Goals[index]
			entry.Name = strings.TrimSpace(p.Name)
			entry.Deadline = p.Deadline
			entry.Target = p.Target
			entry.Priority = priority
		default:
			return Placement{}, &ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown payload type %T", payload)}
		}

		record.SetMonth(month, m)
		return Placement{Month: month, Index: index}, nil
	})
	return err
}

func (s *ServiceImpl) DeleteEntry(ctx context.Context, month MonthKey, kind Kind, index int) error {
	_, err := s.mutate(ctx, func(record *UserRecord) (Placement, error) {
		m := record.Month(month)
		if index < 0 || index >= m.Len(kind) {
			return Placement{}, ErrEntryNotFound
		}

		switch kind {
		case KindIncome:
			m.Income = append(m.Income[:index], m.Income[index+1:]...)
		case KindExpense:
			m.Expenses = append(m.Expenses[:index], m.Expenses[index+1:]...)
		case KindEvent:
			m.Events = append(m.Events[:index], m.Events[index+1:]...)
		case KindGoal:
			m.Goals = append(m.Goals[:index], m.Goals[index+1:]...)
		}

		record.SetMonth(month, m)
		return Placement{Month: month, Index: index}, nil
	})
	return err
}

// mutate runs one load-modify-save cycle for the session user. The mutation
// function must validate before touching the record so failed operations
// leave the ledger unchanged.
func (s *ServiceImpl) mutate(ctx context.Context, fn func(record *UserRecord) (Placement, error)) (Placement, error) {
	email, err := session.CurrentEmail(ctx)
	if err != nil {
		return Placement{}, fmt.Errorf("failed to get current user: %w", err)
	}
	record, err := s.repo.Load(ctx, email)
	if err != nil {
		return Placement{}, err
	}

	placement, err := fn(&record)
	if err != nil {
		return Placement{}, err
	}

	if err := s.repo.Save(ctx, email, record); err != nil {
		return Placement{}, err
	}
	log.Debugf("ledger updated for %s (%s, entry %d)", email, placement.Month, placement.Index)
	return placement, nil
}

func (s *ServiceImpl) loadRecord(ctx context.Context) (UserRecord, error) {
	email, err := session.CurrentEmail(ctx)
	if err != nil {
		return UserRecord{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Load(ctx, email)
}

func validateTitleAmount(titleField, title, amountField string, amount float64) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: titleField, Reason: "must not be empty"}
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return &ValidationError{Field: amountField, Reason: "must be a finite number"}
	}
	if amount <= 0 {
		return &ValidationError{Field: amountField, Reason: "must be greater than zero"}
	}
	return nil
}

func normalizePriority(p Priority) (Priority, error) {
	switch p {
	case "":
		return PriorityMedium, nil
	case PriorityHigh, PriorityMedium, PriorityLow:
		return p, nil
	default:
		return "", &ValidationError{Field: "priority", Reason: "must be High, Medium, or Low"}
	}
}
