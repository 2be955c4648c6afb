package sale

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mariodelcid/POS-Chillers/internal/audit"
	"github.com/mariodelcid/POS-Chillers/internal/auth"
	"github.com/mariodelcid/POS-Chillers/internal/inventory"
	"github.com/mariodelcid/POS-Chillers/internal/models"
	"github.com/mariodelcid/POS-Chillers/internal/money"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpdateRequest corrects a recorded sale. Nil fields are left alone.
type UpdateRequest struct {
	PaymentMethod *models.PaymentMethod `json:"paymentMethod"`
	TotalCents    *int64                `json:"totalCents"`
}

// Update applies an admin correction to a sale's payment method or total.
// Switching to credit clears the cash tender fields.
func (s *Service) Update(ctx context.Context, id uint, req UpdateRequest, actor auth.Actor) (*models.Sale, error) {
	if req.PaymentMethod != nil && !req.PaymentMethod.Valid() {
		return nil, invalid(ReasonPaymentMethod, "Invalid payment method")
	}
	if req.TotalCents != nil && *req.TotalCents < 0 {
		return nil, invalid(ReasonInvalidTotal, "Invalid total")
	}

	var sale models.Sale
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&sale, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		before := sale

		if req.PaymentMethod != nil {
			sale.PaymentMethod = *req.PaymentMethod
		}
		if req.TotalCents != nil {
			sale.TotalCents = *req.TotalCents
			sale.SubtotalCents = *req.TotalCents - sale.TaxCents
		}

		switch sale.PaymentMethod {
		case models.PaymentCredit:
			sale.AmountTenderedCents = nil
			sale.ChangeDueCents = nil
		case models.PaymentCash:
			if sale.AmountTenderedCents != nil {
				change := *sale.AmountTenderedCents - sale.TotalCents
				if change < 0 {
					return invalid(ReasonTender, "Insufficient cash tendered")
				}
				sale.ChangeDueCents = &change
			}
		}

		if err := tx.Model(&sale).
			Select("payment_method", "subtotal_cents", "total_cents", "amount_tendered_cents", "change_due_cents", "updated_at").
			Updates(&sale).Error; err != nil {
			return fmt.Errorf("update sale: %w", err)
		}

		return audit.WriteLog(tx, audit.LogOptions{
			Actor:      actor,
			EntityType: audit.EntitySale,
			EntityID:   sale.ID,
			Action:     models.AuditActionUpdate,
			Description: fmt.Sprintf("Sale #%d corrected: %s %s -> %s %s", sale.ID,
				before.PaymentMethod, money.Format(before.TotalCents),
				sale.PaymentMethod, money.Format(sale.TotalCents)),
			Before: before,
			After:  sale,
		})
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// Delete removes a sale and its items. With restock set, the packaging the
// sale consumed is put back and the reversal is recorded in the ledger.
func (s *Service) Delete(ctx context.Context, id uint, restock bool, actor auth.Actor) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sale models.Sale
		if err := tx.Preload("Items").First(&sale, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if restock {
			if err := reverseMovements(tx, sale.ID); err != nil {
				return err
			}
		}

		if err := tx.Where("sale_id = ?", sale.ID).Delete(&models.SaleItem{}).Error; err != nil {
			return fmt.Errorf("delete sale items: %w", err)
		}
		if err := tx.Delete(&models.Sale{}, sale.ID).Error; err != nil {
			return fmt.Errorf("delete sale: %w", err)
		}

		desc := fmt.Sprintf("Sale #%d deleted (%s)", sale.ID, money.Format(sale.TotalCents))
		if restock {
			desc += ", packaging restocked"
		}
		if err := audit.WriteLog(tx, audit.LogOptions{
			Actor:       actor,
			EntityType:  audit.EntitySale,
			EntityID:    sale.ID,
			Action:      models.AuditActionDelete,
			Description: desc,
			Before:      sale,
		}); err != nil {
			return err
		}

		slog.Info("sale deleted", "sale_id", sale.ID, "restock", restock, "user", actor.UserName)
		return nil
	})
}

func reverseMovements(tx *gorm.DB, saleID uint) error {
	var movements []models.PackagingMovement
	if err := tx.Where("sale_id = ? AND reason = ?", saleID, models.MovementSale).
		Order("material_id asc").
		Find(&movements).Error; err != nil {
		return fmt.Errorf("load movements: %w", err)
	}

	for _, mv := range movements {
		var m models.PackagingMaterial
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, mv.MaterialID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// material removed since the sale; nothing to return stock to
			continue
		}
		if err != nil {
			return err
		}

		returned := -mv.Delta
		before := m.Stock
		if err := tx.Model(&m).Update("stock", gorm.Expr("stock + ?", returned)).Error; err != nil {
			return fmt.Errorf("restock %s: %w", m.Name, err)
		}
		if err := inventory.WriteMovement(tx, &m, before, before+returned, models.MovementSaleReversal, &saleID); err != nil {
			return err
		}
	}
	return nil
}
