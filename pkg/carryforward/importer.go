// Package carryforward copies unresolved commitments (events and goals) from
// the previous calendar month into a newly opened month and reserves funds
// for them with one synthetic expense. Selection is never interactive: the
// caller passes the indices to skip over the candidate list this package
// computed.
package carryforward

import (
	"context"
	"fmt"

	"github.com/finbook/finbook/internal/utils"
	"github.com/finbook/finbook/pkg/ledger"
	"github.com/finbook/finbook/pkg/session"
	log "github.com/sirupsen/logrus"
)

// ReserveTitle is the title of the synthetic expense holding back funds for
// imported commitments.
const ReserveTitle = "Imported prev-month commitments"

// Candidate is one importable entry from the previous month. Indices are
// stable over the concatenated [events..., goals...] list.
type Candidate struct {
	Index    int             `json:"index"`
	Kind     ledger.Kind     `json:"kind"`
	Name     string          `json:"name"`
	Date     string          `json:"date,omitempty"`
	Amount   float64         `json:"amount"`
	Priority ledger.Priority `json:"priority"`
}

type ImportResult struct {
	SourceMonth    ledger.MonthKey `json:"sourceMonth"`
	ImportedEvents int             `json:"importedEvents"`
	ImportedGoals  int             `json:"importedGoals"`
	Reserved       float64         `json:"reserved"`
}

type Importer interface {
	// Candidates lists the previous calendar month's events and goals, in
	// that order. An empty slice means there is nothing to carry forward.
	Candidates(ctx context.Context, month ledger.MonthKey) ([]Candidate, error)
	// Import copies every candidate whose index is not in skip into month as
	// a new entry and reserves the imported sum via one synthetic expense.
	Import(ctx context.Context, month ledger.MonthKey, skip []int) (ImportResult, error)
}

type ImporterImpl struct {
	records ledger.RecordRepo
	clock   utils.Clock
}

func NewImporter(records ledger.RecordRepo, clock utils.Clock) *ImporterImpl {
	return &ImporterImpl{records: records, clock: clock}
}

func (i *ImporterImpl) Candidates(ctx context.Context, month ledger.MonthKey) ([]Candidate, error) {
	email, err := session.CurrentEmail(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	record, err := i.records.Load(ctx, email)
	if err != nil {
		return nil, err
	}

	prev, ok := record.Months[month.Prev()]
	if !ok {
		return []Candidate{}, nil
	}
	return candidatesOf(prev), nil
}

func candidatesOf(prev ledger.MonthLedger) []Candidate {
	candidates := make([]Candidate, 0, len(prev.Events)+len(prev.Goals))
	for _, ev := range prev.Events {
		candidates = append(candidates, Candidate{
			Index:    len(candidates),
			Kind:     ledger.KindEvent,
			Name:     ev.Name,
			Date:     ev.Date,
			Amount:   ev.Budget,
			Priority: ev.Priority,
		})
	}
	for _, g := range prev.Goals {
		candidates = append(candidates, Candidate{
			Index:    len(candidates),
			Kind:     ledger.KindGoal,
			Name:     g.Name,
			Date:     g.Deadline,
			Amount:   g.Target,
			Priority: g.Priority,
		})
	}
	return candidates
}

func (i *ImporterImpl) Import(ctx context.Context, month ledger.MonthKey, skip []int) (ImportResult, error) {
	email, err := session.CurrentEmail(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to get current user: %w", err)
	}
	record, err := i.records.Load(ctx, email)
	if err != nil {
		return ImportResult{}, err
	}

	prevKey := month.Prev()
	prev, ok := record.Months[prevKey]
	if !ok || (len(prev.Events) == 0 && len(prev.Goals) == 0) {
		return ImportResult{SourceMonth: prevKey}, nil
	}

	skipSet := make(map[int]struct{}, len(skip))
	for _, idx := range skip {
		skipSet[idx] = struct{}{}
	}

	result := ImportResult{SourceMonth: prevKey}
	cur := record.Month(month)
	now := i.clock.Now()

	idx := 0
	for _, ev := range prev.Events {
		if _, skipped := skipSet[idx]; !skipped {
			cur.Events = append(cur.Events, ledger.EventEntry{
				Name:         ev.Name,
				Date:         ev.Date,
				Budget:       ev.Budget,
				Priority:     ev.Priority,
				CreatedAt:    now,
				ImportedFrom: prevKey,
			})
			result.ImportedEvents++
			result.Reserved += ev.Budget
		}
		idx++
	}
	for _, g := range prev.Goals {
		if _, skipped := skipSet[idx]; !skipped {
			cur.Goals = append(cur.Goals, ledger.GoalEntry{
				Name:         g.Name,
				Deadline:     g.Deadline,
				Target:       g.Target,
				Priority:     g.Priority,
				Progress:     g.Progress,
				CreatedAt:    now,
				ImportedFrom: prevKey,
			})
			result.ImportedGoals++
			result.Reserved += g.Target
		}
		idx++
	}

	if result.Reserved > 0 {
		cur.Expenses = append(cur.Expenses, ledger.ExpenseEntry{
			Title:        ReserveTitle,
			Amount:       result.Reserved,
			Priority:     ledger.PriorityHigh,
			Recurring:    false,
			CreatedAt:    now,
			ImportedFrom: prevKey,
		})
	}

	record.SetMonth(month, cur)
	if err := i.records.Save(ctx, email, record); err != nil {
		return ImportResult{}, err
	}
	log.Infof("carried %d event(s) and %d goal(s) from %s into %s, reserving %.2f",
		result.ImportedEvents, result.ImportedGoals, prevKey, month, result.Reserved)
	return result, nil
}
