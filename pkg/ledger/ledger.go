package ledger

import (
	"time"
)

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Kind identifies one of the four record sequences of a month.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
	KindEvent   Kind = "event"
	KindGoal    Kind = "goal"
)

// Entry is the common view over all four record kinds, used by generic scans
// such as the large-item analysis.
type Entry interface {
	EntryKind() Kind
	Label() string
	Value() float64
}

type IncomeEntry struct {
	Title     string    `json:"title"`
	Amount    float64   `json:"amount"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (e IncomeEntry) EntryKind() Kind { return KindIncome }
func (e IncomeEntry) Label() string   { return e.Title }
func (e IncomeEntry) Value() float64  { return e.Amount }

type ExpenseEntry struct {
	Title     string    `json:"title"`
	Amount    float64   `json:"amount"`
	Priority  Priority  `json:"priority"`
	Recurring bool      `json:"recurring"`
	CreatedAt time.Time `json:"createdAt"`
	// ImportedFrom holds the source month-key when the expense was created by
	// the carry-forward importer.
	ImportedFrom MonthKey `json:"importedFrom,omitempty"`
}

func (e ExpenseEntry) EntryKind() Kind { return KindExpense }
func (e ExpenseEntry) Label() string   { return e.Title }
func (e ExpenseEntry) Value() float64  { return e.Amount }

type EventEntry struct {
	Name         string    `json:"name"`
	Date         string    `json:"date"`
	Budget       float64   `json:"budget"`
	Priority     Priority  `json:"priority"`
	CreatedAt    time.Time `json:"createdAt"`
	ImportedFrom MonthKey  `json:"importedFrom,omitempty"`
}

func (e EventEntry) EntryKind() Kind { return KindEvent }
func (e EventEntry) Label() string   { return e.Name }
func (e EventEntry) Value() float64  { return e.Budget }

type GoalEntry struct {
	Name         string    `json:"name"`
	Deadline     string    `json:"deadline,omitempty"`
	Target       float64   `json:"target"`
	Priority     Priority  `json:"priority"`
	Progress     float64   `json:"progress"`
	CreatedAt    time.Time `json:"createdAt"`
	ImportedFrom MonthKey  `json:"importedFrom,omitempty"`
}

func (e GoalEntry) EntryKind() Kind { return KindGoal }
func (e GoalEntry) Label() string   { return e.Name }
func (e GoalEntry) Value() float64  { return e.Target }

// MonthLedger holds all records of one user for one month. Slice order is
// insertion order; presentation sorting never touches these slices.
type MonthLedger struct {
	Income   []IncomeEntry  `json:"income"`
	Expenses []ExpenseEntry `json:"expenses"`
	Events   []EventEntry   `json:"events"`
	Goals    []GoalEntry    `json:"goals"`
}

func NewMonthLedger() MonthLedger {
	return MonthLedger{
		Income:   []IncomeEntry{},
		Expenses: []ExpenseEntry{},
		Events:   []EventEntry{},
		Goals:    []GoalEntry{},
	}
}

// Len reports the number of entries stored under the given kind.
func (m MonthLedger) Len(kind Kind) int {
	switch kind {
	case KindIncome:
		return len(m.Income)
	case KindExpense:
		return len(m.Expenses)
	case KindEvent:
		return len(m.Events)
	case KindGoal:
		return len(m.Goals)
	}
	return 0
}

// Outflows returns the expense, event, and goal entries of the month as a
// single sequence, in that order.
func (m MonthLedger) Outflows() []Entry {
	entries := make([]Entry, 0, len(m.Expenses)+len(m.Events)+len(m.Goals))
	for _, e := range m.Expenses {
		entries = append(entries, e)
	}
	for _, e := range m.Events {
		entries = append(entries, e)
	}
	for _, g := range m.Goals {
		entries = append(entries, g)
	}
	return entries
}

// UserRecord is the persistence shape of one user: credentials plus every
// month ledger the user ever touched.
type UserRecord struct {
	Username string                   `json:"username"`
	Password string                   `json:"password"`
	Months   map[MonthKey]MonthLedger `json:"months"`
}

func NewUserRecord(username, password string) UserRecord {
	return UserRecord{
		Username: username,
		Password: password,
		Months:   map[MonthKey]MonthLedger{},
	}
}

// Month returns the ledger stored under the given key, lazily creating an
// empty one on first reference.
func (r *UserRecord) Month(key MonthKey) MonthLedger {
	if r.Months == nil {
		r.Months = map[MonthKey]MonthLedger{}
	}
	m, ok := r.Months[key]
	if !ok {
		m = NewMonthLedger()
		r.Months[key] = m
	}
	return m
}

// SetMonth stores the ledger back under the given key.
func (r *UserRecord) SetMonth(key MonthKey, m MonthLedger) {
	if r.Months == nil {
		r.Months = map[MonthKey]MonthLedger{}
	}
	r.Months[key] = m
}

// MonthKeys returns all touched month-keys in ascending order. Month-keys
// sort lexicographically, which for the YYYY-MM form equals chronological
// order.
func (r UserRecord) MonthKeys() []MonthKey {
	keys := make([]MonthKey, 0, len(r.Months))
	for k := range r.Months {
		keys = append(keys, k)
	}
	sortMonthKeys(keys)
	return keys
}
