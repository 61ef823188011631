package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jjenkins/parlamentar/internal/model"
	"github.com/jjenkins/parlamentar/internal/service"
)

func GetExpenditureHandler(expenditures *service.ExpenditureService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}

		e, err := expenditures.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(e)
	}
}

func ListExpendituresHandler(expenditures *service.ExpenditureService, maxPerPage int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := pageParams(c, maxPerPage)
		if err != nil {
			return err
		}

		var filter model.ExpenditureFilter
		if filter.LegislatorID, err = queryInt(c, "id_deputado", 0); err != nil {
			return err
		}
		if filter.Year, err = queryInt(c, "ano", 0); err != nil {
			return err
		}
		if filter.Month, err = queryInt(c, "mes", 0); err != nil {
			return err
		}

		page, err := expenditures.List(c.UserContext(), filter, p)
		if err != nil {
			return err
		}
		return c.JSON(page)
	}
}

func CreateExpenditureHandler(expenditures *service.ExpenditureService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.ExpenditureInput
		if err := parseBody(c, &in); err != nil {
			return err
		}

		e, err := expenditures.Create(c.UserContext(), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(e)
	}
}

func UpdateExpenditureHandler(expenditures *service.ExpenditureService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		var u service.ExpenditureUpdate
		if err := parseBody(c, &u); err != nil {
			return err
		}

		e, err := expenditures.Update(c.UserContext(), id, u)
		if err != nil {
			return err
		}
		return c.JSON(e)
	}
}

func DeleteExpenditureHandler(expenditures *service.ExpenditureService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}

		if err := expenditures.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "Despesa deletada com sucesso."})
	}
}
