package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jjenkins/parlamentar/internal/service"
)

// Handlers of the analytical catalog. ?ano= overrides the configured
// analysis year where a ranking depends on one.

func LegislatorExpensesHandler(rankings *service.RankingService, maxPerPage int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := pageParams(c, maxPerPage)
		if err != nil {
			return err
		}

		year, err := queryInt(c, "ano", 0)
		if err != nil {
			return err
		}

		page, err := rankings.LegislatorExpenses(c.UserContext(), year, p)
		if err != nil {
			return err
		}
		return c.JSON(page)
	}
}

func YesVotesHandler(rankings *service.RankingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		voters, err := rankings.YesVotes(c.UserContext(), service.YesVoteBillType)
		if err != nil {
			return err
		}
		return c.JSON(voters)
	}
}

func MostActiveHandler(rankings *service.RankingService, maxPerPage int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := pageParams(c, maxPerPage)
		if err != nil {
			return err
		}

		page, err := rankings.MostActive(c.UserContext(), p)
		if err != nil {
			return err
		}
		return c.JSON(page)
	}
}

func ActivitySummaryHandler(rankings *service.RankingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}

		year, err := queryInt(c, "ano", 0)
		if err != nil {
			return err
		}

		summary, err := rankings.ActivitySummary(c.UserContext(), id, year)
		if err != nil {
			return err
		}
		return c.JSON(summary)
	}
}

func PartyExpensesHandler(rankings *service.RankingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, err := queryInt(c, "ano", 0)
		if err != nil {
			return err
		}

		parties, err := rankings.PartyExpenses(c.UserContext(), year)
		if err != nil {
			return err
		}
		return c.JSON(parties)
	}
}

func StateComparisonHandler(rankings *service.RankingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, err := queryInt(c, "ano", 0)
		if err != nil {
			return err
		}

		states, err := rankings.StateComparison(c.UserContext(), year, c.Query("uf"))
		if err != nil {
			return err
		}
		return c.JSON(states)
	}
}
