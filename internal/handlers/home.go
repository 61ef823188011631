package handlers

import (
	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jjenkins/parlamentar/internal/logger"
	"github.com/jjenkins/parlamentar/internal/service"
	"github.com/jjenkins/parlamentar/internal/templates"
)

// HomeHandler renders the dashboard. Sections that fail to load are logged
// and left empty.
func HomeHandler(metrics *service.MetricsService, rankings *service.RankingService, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		data := templates.HomeData{}

		m, err := metrics.Calculate(ctx, rankings.DefaultYear())
		if err != nil {
			log.Error("failed to calculate dashboard metrics", "error", err)
		} else {
			data.Metrics = *m
			data.HasData = m.TotalLegislators > 0
		}

		if data.HasData {
			if data.Parties, err = rankings.PartyExpenses(ctx, 0); err != nil {
				log.Error("failed to load party ranking", "error", err)
			}
			if data.Bills, err = rankings.MostVotedBills(ctx); err != nil {
				log.Error("failed to load most voted bills", "error", err)
			}
		}

		page := templates.Home(data)
		handler := adaptor.HTTPHandler(templ.Handler(page))

		return handler(c)
	}
}
