package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/gofiber/fiber/v2"
	"github.com/mariodelcid/POS-Chillers/internal/audit"
	"github.com/mariodelcid/POS-Chillers/internal/auth"
	"github.com/mariodelcid/POS-Chillers/internal/models"
	"github.com/mariodelcid/POS-Chillers/internal/web"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrMaterialNotFound = errors.New("packaging material not found")

type updateStockRequest struct {
	Stock *float64 `json:"stock"`
}

// GET /api/packaging
func ListPackagingHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		materials, err := ListMaterials(db)
		if err != nil {
			return err
		}
		return c.JSON(materials)
	}
}

func ListMaterials(db *gorm.DB) ([]models.PackagingMaterial, error) {
	materials := make([]models.PackagingMaterial, 0)
	err := db.Order("name asc").Find(&materials).Error
	return materials, err
}

// PUT /api/packaging/:id
func UpdatePackagingStockHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// A non-numeric id names no material, so it is a 404 like an unknown one.
		id, err := web.ParamID(c, "id")
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Packaging material not found")
		}

		var body updateStockRequest
		if err := json.Unmarshal(c.Body(), &body); err != nil || body.Stock == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid stock value")
		}
		stock := *body.Stock
		if stock < 0 || stock != math.Trunc(stock) || stock > math.MaxInt32 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid stock value")
		}

		material, err := SetStock(db, id, int64(stock), auth.ActorFrom(c))
		if errors.Is(err, ErrMaterialNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Packaging material not found")
		}
		if err != nil {
			return err
		}
		return c.JSON(material)
	}
}

// SetStock overwrites a material's stock (restock or count correction) and
// records the difference in the movement ledger.
func SetStock(db *gorm.DB, id uint, stock int64, actor auth.Actor) (*models.PackagingMaterial, error) {
	var material models.PackagingMaterial
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&material, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMaterialNotFound
			}
			return err
		}
		before := material

		if err := tx.Model(&material).Update("stock", stock).Error; err != nil {
			return err
		}
		if err := WriteMovement(tx, &material, before.Stock, stock, models.MovementAdjustment, nil); err != nil {
			return err
		}

		return audit.WriteLog(tx, audit.LogOptions{
			Actor:       actor,
			EntityType:  audit.EntityPackagingMaterial,
			EntityID:    material.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Stock of %s set from %d to %d %s", material.Name, before.Stock, stock, material.Unit),
			Before:      before,
			After:       material,
		})
	})
	if err != nil {
		return nil, err
	}
	return &material, nil
}

// WriteMovement appends one ledger row for a stock change of m.
func WriteMovement(tx *gorm.DB, m *models.PackagingMaterial, before, after int64, reason models.MovementReason, saleID *uint) error {
	return tx.Create(&models.PackagingMovement{
		MaterialID:   m.ID,
		MaterialName: m.Name,
		Delta:        after - before,
		StockBefore:  before,
		StockAfter:   after,
		Reason:       reason,
		SaleID:       saleID,
	}).Error
}

// GET /api/packaging/:id/movements
func ListMovementsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := web.ParamID(c, "id")
		if err != nil {
			return err
		}

		var count int64
		if err := db.Model(&models.PackagingMaterial{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Packaging material not found")
		}

		movements := make([]models.PackagingMovement, 0)
		if err := db.Where("material_id = ?", id).
			Order("created_at DESC, id DESC").
			Find(&movements).Error; err != nil {
			return err
		}
		return c.JSON(movements)
	}
}
