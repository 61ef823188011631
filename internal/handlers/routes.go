package handlers

import (
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jjenkins/parlamentar/internal/logger"
	"github.com/jjenkins/parlamentar/internal/observability"
	"github.com/jjenkins/parlamentar/internal/service"
)

// Services groups what the routes depend on
type Services struct {
	Legislators  *service.LegislatorService
	Expenditures *service.ExpenditureService
	Bills        *service.BillService
	Rankings     *service.RankingService
	Metrics      *service.MetricsService
}

// Options tunes the HTTP surface
type Options struct {
	MaxPerPage int
	// AccessLog enables fiber's request logger
	AccessLog bool
}

// NewApp builds the fiber application with every route mounted
func NewApp(svc Services, opts Options, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Parlamentar",
		ErrorHandler: ErrorHandler(log),
	})

	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(fiberlogger.New())
	}
	app.Use(observability.Middleware())

	app.Get("/", HomeHandler(svc.Metrics, svc.Rankings, log))
	app.Get("/metrics", observability.Handler())

	deputado := app.Group("/deputado")
	deputado.Get("/get_by_id/:id", GetLegislatorHandler(svc.Legislators))
	deputado.Get("/get_all", ListLegislatorsHandler(svc.Legislators, opts.MaxPerPage))
	deputado.Post("/create", CreateLegislatorHandler(svc.Legislators))
	deputado.Put("/update/:id", UpdateLegislatorHandler(svc.Legislators))
	deputado.Delete("/delete/:id", DeleteLegislatorHandler(svc.Legislators))
	deputado.Get("/ranking/deputados_despesa", LegislatorExpensesHandler(svc.Rankings, opts.MaxPerPage))
	deputado.Get("/ranking/deputados/votos_sim_pl", YesVotesHandler(svc.Rankings))
	deputado.Get("/ranking/atuantes", MostActiveHandler(svc.Rankings, opts.MaxPerPage))
	deputado.Get("/deputados/:id/resumo", ActivitySummaryHandler(svc.Rankings))

	despesa := app.Group("/despesa")
	despesa.Get("/get_by_id/:id", GetExpenditureHandler(svc.Expenditures))
	despesa.Get("/get_all", ListExpendituresHandler(svc.Expenditures, opts.MaxPerPage))
	despesa.Post("/create", CreateExpenditureHandler(svc.Expenditures))
	despesa.Put("/update/:id", UpdateExpenditureHandler(svc.Expenditures))
	despesa.Delete("/delete/:id", DeleteExpenditureHandler(svc.Expenditures))

	proposicao := app.Group("/proposicao")
	proposicao.Get("/get_by_id/:id", GetBillHandler(svc.Bills))
	proposicao.Get("/get_all", ListBillsHandler(svc.Bills, opts.MaxPerPage))
	proposicao.Get("/mais_votadas", MostVotedBillsHandler(svc.Rankings))

	analise := app.Group("/analise")
	analise.Get("/ranking/partidos_despesa", PartyExpensesHandler(svc.Rankings))
	analise.Get("/comparativo_estados", StateComparisonHandler(svc.Rankings))

	return app
}
