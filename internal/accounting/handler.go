// Package accounting keeps the manual reconciliation ledger: what was sold,
// deposited and paid in tax per day, with running balances.
package accounting

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mariodelcid/POS-Chillers/internal/audit"
	"github.com/mariodelcid/POS-Chillers/internal/auth"
	"github.com/mariodelcid/POS-Chillers/internal/models"
	"github.com/mariodelcid/POS-Chillers/internal/period"
	"github.com/mariodelcid/POS-Chillers/internal/web"
	"gorm.io/gorm"
)

var errEntryNotFound = fiber.NewError(fiber.StatusNotFound, "Accounting entry not found")

// EntryRequest is the body of POST and PUT. Amounts are integer cents.
type EntryRequest struct {
	Date        string `json:"date"` // "2025-08-01"
	CashSales   int64  `json:"cashSales"`
	CreditSales int64  `json:"creditSales"`
	SquareFees  int64  `json:"squareFees"`
	SalesTax    int64  `json:"salesTax"`
	Deposits    int64  `json:"deposits"`
	TaxPayments int64  `json:"taxPayments"`
}

func (r EntryRequest) apply(e *models.AccountingEntry) error {
	if r.Date == "" {
		return fiber.NewError(fiber.StatusBadRequest, "date is required")
	}
	d, err := time.ParseInLocation(period.DateLayout, r.Date, time.UTC)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	e.Date = d
	e.CashSales = r.CashSales
	e.CreditSales = r.CreditSales
	e.SquareFees = r.SquareFees
	e.SalesTax = r.SalesTax
	e.Deposits = r.Deposits
	e.TaxPayments = r.TaxPayments
	return nil
}

func parseBody(c *fiber.Ctx) (EntryRequest, error) {
	var body EntryRequest
	if err := c.BodyParser(&body); err != nil {
		return body, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return body, nil
}

// GET /api/accounting?startDate&endDate
func ListEntriesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := period.Parse(c.Query("startDate"), c.Query("endDate"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		entries := make([]models.AccountingEntry, 0)
		if err := r.Apply(db, "date").Order("date asc, id asc").Find(&entries).Error; err != nil {
			return err
		}
		return c.JSON(WithBalances(entries))
	}
}

// POST /api/accounting
func CreateEntryHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := parseBody(c)
		if err != nil {
			return err
		}

		var entry models.AccountingEntry
		if err := body.apply(&entry); err != nil {
			return err
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				Actor:       auth.ActorFrom(c),
				EntityType:  audit.EntityAccountingEntry,
				EntityID:    entry.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Accounting entry for %s created", body.Date),
				After:       entry,
			})
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(entry)
	}
}

// PUT /api/accounting/:id
func UpdateEntryHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ParamID(c, "id")
		if err != nil {
			return err
		}
		body, err := parseBody(c)
		if err != nil {
			return err
		}

		var entry models.AccountingEntry
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&entry, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errEntryNotFound
				}
				return err
			}
			before := entry

			if err := body.apply(&entry); err != nil {
				return err
			}
			if err := tx.Save(&entry).Error; err != nil {
				return err
			}

			return audit.WriteLog(tx, audit.LogOptions{
				Actor:       auth.ActorFrom(c),
				EntityType:  audit.EntityAccountingEntry,
				EntityID:    entry.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Accounting entry for %s updated", body.Date),
				Before:      before,
				After:       entry,
			})
		})
		if err != nil {
			return err
		}
		return c.JSON(entry)
	}
}

// DELETE /api/accounting/:id
func DeleteEntryHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ParamID(c, "id")
		if err != nil {
			return err
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			var entry models.AccountingEntry
			if err := tx.First(&entry, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errEntryNotFound
				}
				return err
			}
			if err := tx.Delete(&entry).Error; err != nil {
				return err
			}

			return audit.WriteLog(tx, audit.LogOptions{
				Actor:       auth.ActorFrom(c),
				EntityType:  audit.EntityAccountingEntry,
				EntityID:    entry.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Accounting entry for %s deleted", entry.Date.Format(period.DateLayout)),
				Before:      entry,
			})
		})
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true})
	}
}
