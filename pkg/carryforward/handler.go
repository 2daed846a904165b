package carryforward

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/finbook/finbook/internal/event_bus"
	"github.com/finbook/finbook/internal/rest"
	"github.com/finbook/finbook/pkg/ledger"
	"github.com/finbook/finbook/pkg/session"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type ImportRequestDTO struct {
	Skip []int `json:"skip"`
}

type Handler struct {
	importer Importer
	eventBus *event_bus.EventBus
}

func NewHandler(importer Importer, eventBus *event_bus.EventBus) *Handler {
	return &Handler{importer: importer, eventBus: eventBus}
}

// GetCandidates lists the previous month's importable events and goals.
func (h *Handler) GetCandidates(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing carry-forward candidates")
	w.Header().Set("Content-Type", "application/json")

	month, ok := monthFromRequest(w, r)
	if !ok {
		return
	}

	candidates, err := h.importer.Candidates(r.Context(), month)
	if err != nil {
		writeImporterError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(candidates); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Import runs the carry-forward into the given month. Opening a month goes
// through here, so a month-opened event is published for the recent-months
// history even when nothing was imported.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	log.Debug("Importing carry-forward commitments")
	w.Header().Set("Content-Type", "application/json")

	month, ok := monthFromRequest(w, r)
	if !ok {
		return
	}

	var request ImportRequestDTO
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
			return
		}
	}

	result, err := h.importer.Import(r.Context(), month, request.Skip)
	if err != nil {
		writeImporterError(w, err)
		return
	}

	if email, err := session.CurrentEmail(r.Context()); err == nil {
		event := event_bus.NewEvent(r.Context(), event_bus.EventTypeMonthOpened,
			event_bus.MonthOpened{Email: email, Month: month.String()})
		if err := h.eventBus.Publish(event); err != nil {
			log.Errorf("failed to publish month opened event: %v", err)
		}
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func monthFromRequest(w http.ResponseWriter, r *http.Request) (ledger.MonthKey, bool) {
	month, err := ledger.ParseMonthKey(mux.Vars(r)["month"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid month key, expected YYYY-MM")
		return "", false
	}
	return month, true
}

func writeImporterError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNoUser):
		rest.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ledger.ErrRecordNotFound):
		rest.WriteError(w, http.StatusNotFound, err.Error())
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
