package app

import (
	"github.com/finbook/finbook/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// User management
	r.HandleFunc("/api/user", deps.UserHandler.Register).Methods("POST")
	r.HandleFunc("/api/user/login", deps.UserHandler.Login).Methods("POST")
	r.HandleFunc("/api/user/current", deps.UserHandler.GetCurrentUser).Methods("GET")
	r.HandleFunc("/api/user/current/recent-months", deps.UserHandler.RecentMonths).Methods("GET")

	// Ledger
	r.HandleFunc("/api/ledger", deps.LedgerHandler.ListMonths).Methods("GET")
	r.HandleFunc("/api/ledger/{month}", deps.LedgerHandler.GetMonth).Methods("GET")
	r.HandleFunc("/api/ledger/{month}/{kind}", deps.LedgerHandler.AddEntry).Methods("POST")
	r.HandleFunc("/api/ledger/{month}/{kind}/{index}", deps.LedgerHandler.UpdateEntry).Methods("PUT")
	r.HandleFunc("/api/ledger/{month}/{kind}/{index}", deps.LedgerHandler.DeleteEntry).Methods("DELETE")

	// Reports
	r.HandleFunc("/api/report/{month}", deps.ReportHandler.GetMonthReport).Methods("GET")
	r.HandleFunc("/api/report/{month}/csv", deps.ReportHandler.ExportMonthCsv).Methods("GET")

	// Analysis
	r.HandleFunc("/api/analysis/{month}", deps.AnalysisHandler.AnalyzeMonth).Methods("GET")

	// Carry-forward
	r.HandleFunc("/api/carryforward/{month}/candidates", deps.CarryForwardHandler.GetCandidates).Methods("GET")
	r.HandleFunc("/api/carryforward/{month}/import", deps.CarryForwardHandler.Import).Methods("POST")
}
