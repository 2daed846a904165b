package app

import (
	"database/sql"

	"github.com/finbook/finbook/internal/config"
	"github.com/finbook/finbook/internal/event_bus"
	"github.com/finbook/finbook/internal/utils"
	"github.com/finbook/finbook/pkg/analysis"
	"github.com/finbook/finbook/pkg/carryforward"
	"github.com/finbook/finbook/pkg/datewindow"
	"github.com/finbook/finbook/pkg/ledger"
	"github.com/finbook/finbook/pkg/report"
	"github.com/finbook/finbook/pkg/user"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus

	RecordRepo ledger.RecordRepo

	RecentMonthsRepo user.RecentMonthsRepo
	UserService      user.Service
	UserHandler      *user.Handler

	LedgerService ledger.Service
	LedgerHandler *ledger.Handler

	CsvReportRenderer *report.CsvReportRendererImpl
	ReportHandler     *report.Handler

	AnalysisService analysis.Service
	AnalysisHandler *analysis.Handler

	Importer            carryforward.Importer
	CarryForwardHandler *carryforward.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.EventBus = event_bus.NewEventBus()

	deps.RecordRepo = ledger.NewRecordRepo(db)

	deps.RecentMonthsRepo = user.NewRecentMonthsRepo(db)
	deps.UserService = user.NewService(deps.RecordRepo, deps.RecentMonthsRepo, deps.Clock, cfg.Policy.RecentMonthsLimit)
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.LedgerService = ledger.NewService(deps.RecordRepo, datewindow.Policy{}, deps.Clock)
	deps.LedgerHandler = ledger.NewHandler(deps.LedgerService)

	deps.CsvReportRenderer = report.NewCsvReportRenderer()
	deps.ReportHandler = report.NewHandler(deps.LedgerService, deps.CsvReportRenderer)

	deps.AnalysisService = analysis.NewService(deps.RecordRepo, deps.Clock, cfg.Policy.LargeItemShare)
	deps.AnalysisHandler = analysis.NewHandler(deps.AnalysisService)

	deps.Importer = carryforward.NewImporter(deps.RecordRepo, deps.Clock)
	deps.CarryForwardHandler = carryforward.NewHandler(deps.Importer, deps.EventBus)

	event_bus.SubscribeTyped(deps.EventBus, event_bus.EventTypeMonthOpened, func(e event_bus.EventT[event_bus.MonthOpened]) error {
		month, err := ledger.ParseMonthKey(e.Data.Month)
		if err != nil {
			log.Errorf("month opened event with bad month key %q: %v", e.Data.Month, err)
			return err
		}
		return deps.UserService.RecordMonthOpened(e.Context(), e.Data.Email, month)
	})

	return deps
}
