// Package web holds the Fiber plumbing shared by every handler package.
package web

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders every error as {"error": msg}. Unexpected errors become
// a generic 500; in development the underlying error is added as "detail".
func ErrorHandler(development bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"error": fe.Message,
			})
		}

		slog.Error("unexpected error",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", RequestID(c),
			"error", err,
		)
		body := fiber.Map{"error": "Server error"}
		if development {
			body["detail"] = err.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(body)
	}
}

// ParamID parses a positive numeric route parameter.
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	return uint(id), nil
}
