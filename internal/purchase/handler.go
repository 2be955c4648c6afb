// Package purchase records cash spent from the register.
package purchase

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mariodelcid/POS-Chillers/internal/audit"
	"github.com/mariodelcid/POS-Chillers/internal/auth"
	"github.com/mariodelcid/POS-Chillers/internal/models"
	"github.com/mariodelcid/POS-Chillers/internal/money"
	"github.com/mariodelcid/POS-Chillers/internal/period"
	"gorm.io/gorm"
)

const defaultDescription = "Daily purchase"

type CreatePurchaseRequest struct {
	AmountCents   int64                `json:"amountCents"`
	Description   string               `json:"description"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
}

type CreatePurchaseResponse struct {
	OK          bool  `json:"ok"`
	PurchaseID  uint  `json:"purchaseId"`
	AmountCents int64 `json:"amountCents"`
}

// GET /api/purchases?startDate=2025-08-01&endDate=2025-08-31
func ListPurchasesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := period.Parse(c.Query("startDate"), c.Query("endDate"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		purchases, err := List(db, r)
		if err != nil {
			return err
		}
		return c.JSON(purchases)
	}
}

// List returns purchases inside r, newest first.
func List(db *gorm.DB, r period.Range) ([]models.Purchase, error) {
	purchases := make([]models.Purchase, 0)
	err := r.Apply(db, "created_at").
		Order("created_at DESC, id DESC").
		Find(&purchases).Error
	return purchases, err
}

// POST /api/purchases
func CreatePurchaseHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePurchaseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		p, err := Create(db, body, auth.ActorFrom(c))
		if err != nil {
			return err
		}

		return c.JSON(CreatePurchaseResponse{
			OK:          true,
			PurchaseID:  p.ID,
			AmountCents: p.AmountCents,
		})
	}
}

func Create(db *gorm.DB, req CreatePurchaseRequest, actor auth.Actor) (*models.Purchase, error) {
	if req.AmountCents <= 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid amount")
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = models.PaymentCash
	}
	if !req.PaymentMethod.Valid() {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid payment method")
	}
	desc := strings.TrimSpace(req.Description)
	if desc == "" {
		desc = defaultDescription
	}

	p := models.Purchase{
		AmountCents:   req.AmountCents,
		Description:   desc,
		PaymentMethod: req.PaymentMethod,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		return audit.WriteLog(tx, audit.LogOptions{
			Actor:       actor,
			EntityType:  audit.EntityPurchase,
			EntityID:    p.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Purchase %s: %s", money.Format(p.AmountCents), p.Description),
			After:       p,
		})
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}
