package audit

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/mariodelcid/POS-Chillers/internal/auth"
	"github.com/mariodelcid/POS-Chillers/internal/models"
	"github.com/mariodelcid/POS-Chillers/internal/web"
	"gorm.io/gorm"
)

// GET /api/audit-logs?entityType=sale&entityId=1
func ListAuditLogsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := db.Model(&models.AuditLog{})

		if entityType := c.Query("entityType"); entityType != "" {
			dbq = dbq.Where("entity_type = ?", entityType)
		}
		if idStr := c.Query("entityId"); idStr != "" {
			id, err := strconv.ParseUint(idStr, 10, 64)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid entityId")
			}
			dbq = dbq.Where("entity_id = ?", id)
		}

		logs := make([]models.AuditLog, 0)
		if err := dbq.Order("created_at DESC, id DESC").Find(&logs).Error; err != nil {
			return err
		}
		return c.JSON(logs)
	}
}

// POST /api/audit-logs/:id/undo
func UndoAuditLogHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ParamID(c, "id")
		if err != nil {
			return err
		}

		err = UndoLog(db, id, auth.ActorFrom(c))
		switch {
		case errors.Is(err, ErrNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Audit log not found")
		case errors.Is(err, ErrAlreadyUndone), errors.Is(err, ErrNotUndoable):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case err != nil:
			return err
		}

		return c.JSON(fiber.Map{"ok": true})
	}
}
