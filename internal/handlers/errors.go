package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jjenkins/parlamentar/internal/apperr"
	"github.com/jjenkins/parlamentar/internal/logger"
	"github.com/jjenkins/parlamentar/internal/pagination"
)

// ErrorHandler renders every error as {"detail": ...}. Internal failures are
// logged with a reference id and only the generic message and the reference
// reach the client.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"detail": fe.Message})
		}

		status := apperr.Status(err)
		if status != fiber.StatusInternalServerError {
			return c.Status(status).JSON(fiber.Map{"detail": apperr.PublicMessage(err)})
		}

		ref := uuid.NewString()
		log.Error("request failed",
			"referencia", ref,
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
		return c.Status(status).JSON(fiber.Map{
			"detail":     apperr.PublicMessage(err),
			"referencia": ref,
		})
	}
}

func idParam(c *fiber.Ctx) (int, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, apperr.Validation("ID inválido: '%s'.", c.Params("id"))
	}
	return id, nil
}

// queryInt reads an optional integer query parameter. An absent or empty
// value yields def; anything that is not an integer is a ValidationError.
func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation("Parâmetro '%s' inválido: '%s'.", key, raw)
	}
	return v, nil
}

func pageParams(c *fiber.Ctx, maxPerPage int) (pagination.Params, error) {
	page, err := queryInt(c, "page", pagination.DefaultPage)
	if err != nil {
		return pagination.Params{}, err
	}
	perPage, err := queryInt(c, "per_page", pagination.DefaultPerPage)
	if err != nil {
		return pagination.Params{}, err
	}

	p, err := pagination.New(page, perPage, maxPerPage)
	if err != nil {
		return p, apperr.Validation("%s", err.Error())
	}
	return p, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperr.Validation("Corpo da requisição inválido.")
	}
	return nil
}
