package sale

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mariodelcid/POS-Chillers/internal/auth"
	"github.com/mariodelcid/POS-Chillers/internal/period"
	"github.com/mariodelcid/POS-Chillers/internal/web"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// toHTTPError maps service errors onto the API's status codes.
func toHTTPError(err error) error {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.NewError(fiber.StatusBadRequest, verr.Message)
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Sale not found")
	default:
		return err
	}
}

func parseRange(c *fiber.Ctx) (period.Range, error) {
	r, err := period.Parse(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return period.Range{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return r, nil
}

// POST /api/sales
func CreateSaleHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		res, err := svc.Create(c.UserContext(), body)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(res)
	}
}

// GET /api/sales?startDate=2025-08-01&endDate=2025-08-31
func ListSalesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := parseRange(c)
		if err != nil {
			return err
		}
		sales, err := svc.List(c.UserContext(), r)
		if err != nil {
			return err
		}
		return c.JSON(sales)
	}
}

// GET /api/sales/stats
func StatsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := parseRange(c)
		if err != nil {
			return err
		}
		stats, err := svc.Stats(c.UserContext(), r)
		if err != nil {
			return err
		}
		return c.JSON(stats)
	}
}

// GET /api/sales/export
func ExportHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := parseRange(c)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := svc.Export(c.UserContext(), r, &buf); err != nil {
			return err
		}

		name := fmt.Sprintf("sales-%s.xlsx", time.Now().UTC().Format(period.DateLayout))
		c.Set(fiber.HeaderContentType, xlsxContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
		return c.Send(buf.Bytes())
	}
}

// PUT /api/sales/:id
func UpdateSaleHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ParamID(c, "id")
		if err != nil {
			return err
		}

		var body UpdateRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		sale, err := svc.Update(c.UserContext(), id, body, auth.ActorFrom(c))
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(sale)
	}
}

// DELETE /api/sales/:id?restock=true
func DeleteSaleHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ParamID(c, "id")
		if err != nil {
			return err
		}

		restock := c.QueryBool("restock", false)
		if err := svc.Delete(c.UserContext(), id, restock, auth.ActorFrom(c)); err != nil {
			return toHTTPError(err)
		}
		return c.JSON(fiber.Map{"ok": true})
	}
}
