// Package timeclock stores employee clock-in/clock-out punches.
package timeclock

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mariodelcid/POS-Chillers/internal/audit"
	"github.com/mariodelcid/POS-Chillers/internal/auth"
	"github.com/mariodelcid/POS-Chillers/internal/models"
	"github.com/mariodelcid/POS-Chillers/internal/period"
	"gorm.io/gorm"
)

type CreateTimeEntryRequest struct {
	EmployeeName string `json:"employeeName"`
	Type         string `json:"type"`
	Timestamp    string `json:"timestamp"` // RFC 3339, e.g. new Date().toISOString()
}

// GET /api/time-entries?startDate&endDate&employeeName
func ListTimeEntriesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := period.Parse(c.Query("startDate"), c.Query("endDate"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		entries, err := List(db, r, c.Query("employeeName"))
		if err != nil {
			return err
		}
		return c.JSON(entries)
	}
}

// List returns punches inside r, newest first. An empty employee matches all.
func List(db *gorm.DB, r period.Range, employee string) ([]models.TimeEntry, error) {
	q := r.Apply(db, "timestamp")
	if employee = strings.TrimSpace(employee); employee != "" {
		q = q.Where("employee_name = ?", employee)
	}

	entries := make([]models.TimeEntry, 0)
	err := q.Order("timestamp DESC, id DESC").Find(&entries).Error
	return entries, err
}

// POST /api/time-entries
func CreateTimeEntryHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTimeEntryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		entry, err := Create(db, body, auth.ActorFrom(c))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true, "timeEntryId": entry.ID})
	}
}

func Create(db *gorm.DB, req CreateTimeEntryRequest, actor auth.Actor) (*models.TimeEntry, error) {
	name := strings.TrimSpace(req.EmployeeName)
	if name == "" || req.Type == "" || req.Timestamp == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Missing required fields")
	}

	typ := models.TimeEntryType(req.Type)
	if typ != models.ClockIn && typ != models.ClockOut {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid type. Must be clock_in or clock_out")
	}

	ts, err := time.Parse(time.RFC3339, req.Timestamp)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid timestamp")
	}

	entry := models.TimeEntry{
		EmployeeName: name,
		Type:         typ,
		Timestamp:    ts.UTC(),
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		return audit.WriteLog(tx, audit.LogOptions{
			Actor:       actor,
			EntityType:  audit.EntityTimeEntry,
			EntityID:    entry.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("%s %s at %s", entry.EmployeeName, entry.Type, entry.Timestamp.Format(time.RFC3339)),
			After:       entry,
		})
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
