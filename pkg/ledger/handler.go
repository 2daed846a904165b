package ledger

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/finbook/finbook/internal/rest"
	"github.com/finbook/finbook/pkg/session"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type MonthLedgerDTO struct {
	Month    string            `json:"month"`
	Income   []IncomeEntryDTO  `json:"income"`
	Expenses []ExpenseEntryDTO `json:"expenses"`
	Events   []EventEntryDTO   `json:"events"`
	Goals    []GoalEntryDTO    `json:"goals"`
}

type IncomeEntryDTO struct {
	Title    string  `json:"title"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category,omitempty"`
}

type ExpenseEntryDTO struct {
	Title        string  `json:"title"`
	Amount       float64 `json:"amount"`
	Priority     string  `json:"priority"`
	Recurring    bool    `json:"recurring"`
	ImportedFrom string  `json:"importedFrom,omitempty"`
}

type EventEntryDTO struct {
	Name         string  `json:"name"`
	Date         string  `json:"date"`
	Budget       float64 `json:"budget"`
	Priority     string  `json:"priority"`
	ImportedFrom string  `json:"importedFrom,omitempty"`
}

type GoalEntryDTO struct {
	Name         string  `json:"name"`
	Deadline     string  `json:"deadline,omitempty"`
	Target       float64 `json:"target"`
	Priority     string  `json:"priority"`
	Progress     float64 `json:"progress"`
	ImportedFrom string  `json:"importedFrom,omitempty"`
}

type PlacementDTO struct {
	Month string `json:"month"`
	Index int    `json:"index"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListMonths returns every month key present in the user's record, sorted.
func (h *Handler) ListMonths(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing ledger months")
	w.Header().Set("Content-Type", "application/json")

	months, err := h.service.Months(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	keys := make([]string, 0, len(months))
	for _, m := range months {
		keys = append(keys, m.String())
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(keys); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetMonth returns the full ledger of one month in storage order.
func (h *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting month ledger")
	w.Header().Set("Content-Type", "application/json")

	month, ok := monthFromRequest(w, r)
	if !ok {
		return
	}

	m, err := h.service.GetMonth(r.Context(), month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if r.URL.Query().Get("order") == "display" {
		m = displayOrder(m)
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(monthToDTO(month, m)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// AddEntry appends a new entry of the kind named in the path.
func (h *Handler) AddEntry(w http.ResponseWriter, r *http.Request) {
	log.Debug("Adding ledger entry")
	w.Header().Set("Content-Type", "application/json")

	month, ok := monthFromRequest(w, r)
	if !ok {
		return
	}
	kind, ok := kindFromRequest(w, r)
	if !ok {
		return
	}
	payload, ok := decodePayload(w, r, kind)
	if !ok {
		return
	}

	var placement Placement
	var err error
	switch p := payload.(type) {
	case IncomePayload:
		placement, err = h.service.AddIncome(r.Context(), month, p)
	case ExpensePayload:
		placement, err = h.service.AddExpense(r.Context(), month, p)
	case EventPayload:
		placement, err = h.service.AddEvent(r.Context(), month, p)
	case GoalPayload:
		placement, err = h.service.AddGoal(r.Context(), month, p)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(PlacementDTO{Month: placement.Month.String(), Index: placement.Index}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// UpdateEntry replaces the entry at the given position.
func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating ledger entry")
	w.Header().Set("Content-Type", "application/json")

	month, ok := monthFromRequest(w, r)
	if !ok {
		return
	}
	kind, ok := kindFromRequest(w, r)
	if !ok {
		return
	}
	index, ok := indexFromRequest(w, r)
	if !ok {
		return
	}
	payload, ok := decodePayload(w, r, kind)
	if !ok {
		return
	}

	if err := h.service.UpdateEntry(r.Context(), month, kind, index, payload); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteEntry removes the entry at the given position.
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	log.Debug("Deleting ledger entry")
	w.Header().Set("Content-Type", "application/json")

	month, ok := monthFromRequest(w, r)
	if !ok {
		return
	}
	kind, ok := kindFromRequest(w, r)
	if !ok {
		return
	}
	index, ok := indexFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteEntry(r.Context(), month, kind, index); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func monthFromRequest(w http.ResponseWriter, r *http.Request) (MonthKey, bool) {
	month, err := ParseMonthKey(mux.Vars(r)["month"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid month key, expected YYYY-MM")
		return "", false
	}
	return month, true
}

func kindFromRequest(w http.ResponseWriter, r *http.Request) (Kind, bool) {
	switch kind := Kind(mux.Vars(r)["kind"]); kind {
	case KindIncome, KindExpense, KindEvent, KindGoal:
		return kind, true
	default:
		rest.WriteError(w, http.StatusBadRequest, "Unknown entry kind")
		return "", false
	}
}

func indexFromRequest(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid entry index")
		return 0, false
	}
	return index, true
}

func decodePayload(w http.ResponseWriter, r *http.Request, kind Kind) (Payload, bool) {
	var payload Payload
	var err error
	switch kind {
	case KindIncome:
		var dto IncomeEntryDTO
		if err = json.NewDecoder(r.Body).Decode(&dto); err == nil {
			payload = IncomePayload{Title: dto.Title, Amount: dto.Amount, Category: dto.Category}
		}
	case KindExpense:
		var dto ExpenseEntryDTO
		if err = json.NewDecoder(r.Body).Decode(&dto); err == nil {
			payload = ExpensePayload{Title: dto.Title, Amount: dto.Amount, Priority: Priority(dto.Priority), Recurring: dto.Recurring}
		}
	case KindEvent:
		var dto EventEntryDTO
		if err = json.NewDecoder(r.Body).Decode(&dto); err == nil {
			payload = EventPayload{Name: dto.Name, Date: dto.Date, Budget: dto.Budget, Priority: Priority(dto.Priority)}
		}
	case KindGoal:
		var dto GoalEntryDTO
		if err = json.NewDecoder(r.Body).Decode(&dto); err == nil {
			payload = GoalPayload{Name: dto.Name, Deadline: dto.Deadline, Target: dto.Target, Priority: Priority(dto.Priority)}
		}
	}
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return nil, false
	}
	return payload, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *ValidationError
	var policyErr *PolicyViolation
	switch {
	case errors.As(err, &validationErr):
		rest.WriteError(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &policyErr):
		rest.WriteError(w, http.StatusUnprocessableEntity, policyErr.Error())
	case errors.Is(err, ErrEntryNotFound) || errors.Is(err, ErrRecordNotFound):
		rest.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrNoUser):
		rest.WriteError(w, http.StatusForbidden, err.Error())
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func monthToDTO(month MonthKey, m MonthLedger) MonthLedgerDTO {
	dto := MonthLedgerDTO{
		Month:    month.String(),
		Income:   make([]IncomeEntryDTO, 0, len(m.Income)),
		Expenses: make([]ExpenseEntryDTO, 0, len(m.Expenses)),
		Events:   make([]EventEntryDTO, 0, len(m.Events)),
		Goals:    make([]GoalEntryDTO, 0, len(m.Goals)),
	}
	for _, e := range m.Income {
		dto.Income = append(dto.Income, IncomeEntryDTO{Title: e.Title, Amount: e.Amount, Category: e.Category})
	}
	for _, e := range m.Expenses {
		dto.Expenses = append(dto.Expenses, ExpenseEntryDTO{
			Title: e.Title, Amount: e.Amount, Priority: string(e.Priority),
			Recurring: e.Recurring, ImportedFrom: e.ImportedFrom.String(),
		})
	}
	for _, e := range m.Events {
		dto.Events = append(dto.Events, EventEntryDTO{
			Name: e.Name, Date: e.Date, Budget: e.Budget,
			Priority: string(e.Priority), ImportedFrom: e.ImportedFrom.String(),
		})
	}
	for _, g := range m.Goals {
		dto.Goals = append(dto.Goals, GoalEntryDTO{
			Name: g.Name, Deadline: g.Deadline, Target: g.Target,
			Priority: string(g.Priority), Progress: g.Progress, ImportedFrom: g.ImportedFrom.String(),
		})
	}
	return dto
}
