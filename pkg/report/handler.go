package report

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

type MonthReportDTO struct {
	Month  string   `json:"month"`
	Totals Totals   `json:"totals"`
	Alerts []string `json:"alerts"`
}

type Handler struct {
	ledgerService ledger.Service
	renderer      *CsvReportRendererImpl
}

func NewHandler(ledgerService ledger.Service, renderer *CsvReportRendererImpl) *Handler {
	return &Handler{ledgerService: ledgerService, renderer: renderer}
}

// GetMonthReport returns totals and alert messages for one month.
func (h *Handler) GetMonthReport(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting month report")
	w.Header().Set("Content-Type", "application/json")

	month, m, ok := h.loadMonth(w, r)
	if !ok {
		return
	}

	report := MonthReportDTO{
		Month:  month.String(),
		Totals: ComputeTotals(m),
		Alerts: GenerateAlerts(m),
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(report); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ExportMonthCsv streams the month's report as a CSV attachment.
func (h *Handler) ExportMonthCsv(w http.ResponseWriter, r *http.Request) {
	log.Debug("Exporting month report to CSV")

	month, m, ok := h.loadMonth(w, r)
	if !ok {
		return
	}

	csvData, err := h.renderer.RenderMonth(month, m)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=report-"+month.String()+".csv")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(csvData)); err != nil {
		log.Errorf("failed to write CSV response: %v", err)
	}
}

func (h *Handler) loadMonth(w http.ResponseWriter, r *http.Request) (ledger.MonthKey, ledger.MonthLedger, bool) {
	month, err := ledger.ParseMonthKey(mux.Vars(r)["month"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid month key, expected YYYY-MM")
		return "", ledger.MonthLedger{}, false
	}

	m, err := h.ledgerService.GetMonth(r.Context(), month)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNoUser):
			rest.WriteError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, ledger.ErrRecordNotFound):
			rest.WriteError(w, http.StatusNotFound, err.Error())
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return "", ledger.MonthLedger{}, false
	}
	return month, m, true
}
