package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jjenkins/parlamentar/internal/model"
	"github.com/jjenkins/parlamentar/internal/service"
)

func GetBillHandler(bills *service.BillService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}

		b, err := bills.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(b)
	}
}

func ListBillsHandler(bills *service.BillService, maxPerPage int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := pageParams(c, maxPerPage)
		if err != nil {
			return err
		}

		year, err := queryInt(c, "ano", 0)
		if err != nil {
			return err
		}

		filter := model.BillFilter{
			Year:     year,
			TypeCode: strings.ToUpper(c.Query("sigla_tipo")),
		}

		page, err := bills.List(c.UserContext(), filter, p)
		if err != nil {
			return err
		}
		return c.JSON(page)
	}
}

func MostVotedBillsHandler(rankings *service.RankingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bills, err := rankings.MostVotedBills(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(bills)
	}
}
