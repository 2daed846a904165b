package analysis

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/finbook/finbook/internal/rest"
	"github.com/finbook/finbook/pkg/ledger"
	"github.com/finbook/finbook/pkg/session"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// AnalyzeMonth returns the cross-month analysis report for one month.
func (h *Handler) AnalyzeMonth(w http.ResponseWriter, r *http.Request) {
	log.Debug("Analyzing month")
	w.Header().Set("Content-Type", "application/json")

	month, err := ledger.ParseMonthKey(mux.Vars(r)["month"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid month key, expected YYYY-MM")
		return
	}

	report, err := h.service.Analyze(r.Context(), month)
	if err != nil {
		switch {
		case errors.Is(err, ErrMonthNotFound) || errors.Is(err, ledger.ErrRecordNotFound):
			rest.WriteError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, session.ErrNoUser):
			rest.WriteError(w, http.StatusForbidden, err.Error())
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(report); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
