package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jjenkins/parlamentar/internal/model"
	"github.com/jjenkins/parlamentar/internal/service"
)

func GetLegislatorHandler(legislators *service.LegislatorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}

		l, err := legislators.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(l)
	}
}

func ListLegislatorsHandler(legislators *service.LegislatorService, maxPerPage int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := pageParams(c, maxPerPage)
		if err != nil {
			return err
		}

		filter := model.LegislatorFilter{
			StateCode: strings.ToUpper(c.Query("uf")),
			Sex:       strings.ToUpper(c.Query("sexo")),
			PartyCode: strings.ToUpper(c.Query("partido")),
		}

		page, err := legislators.List(c.UserContext(), filter, p)
		if err != nil {
			return err
		}
		return c.JSON(page)
	}
}

func CreateLegislatorHandler(legislators *service.LegislatorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.LegislatorInput
		if err := parseBody(c, &in); err != nil {
			return err
		}

		l, err := legislators.Create(c.UserContext(), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(l)
	}
}

func UpdateLegislatorHandler(legislators *service.LegislatorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		var in service.LegislatorInput
		if err := parseBody(c, &in); err != nil {
			return err
		}

		l, err := legislators.Update(c.UserContext(), id, in)
		if err != nil {
			return err
		}
		return c.JSON(l)
	}
}

func DeleteLegislatorHandler(legislators *service.LegislatorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}

		if err := legislators.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "Deputado deletado com sucesso."})
	}
}
