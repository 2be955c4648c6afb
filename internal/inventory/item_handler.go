package inventory

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mariodelcid/POS-Chillers/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BulkItem struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	PriceCents int64   `json:"priceCents"`
	Stock      *int64  `json:"stock"`     // kept when omitted on update
	Packaging  *string `json:"packaging"` // kept when omitted on update
	ImageURL   *string `json:"imageUrl"`
}

type bulkItemsRequest struct {
	Items *[]BulkItem `json:"items"`
}

// GET /api/items
// GET /api/inventory
func ListItemsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := ListItems(db)
		if err != nil {
			return err
		}
		return c.JSON(items)
	}
}

func ListItems(db *gorm.DB) ([]models.Item, error) {
	items := make([]models.Item, 0)
	err := db.Order("category asc").Order("name asc").Find(&items).Error
	return items, err
}

// POST /api/items/bulk
func BulkUpsertItemsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body bulkItemsRequest
		if err := json.Unmarshal(c.Body(), &body); err != nil || body.Items == nil {
			return fiber.NewError(fiber.StatusBadRequest, "items must be an array")
		}

		n, err := UpsertItems(db, *body.Items)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true, "count": n})
	}
}

// UpsertItems creates or updates items by name in one transaction.
func UpsertItems(db *gorm.DB, items []BulkItem) (int, error) {
	for i := range items {
		items[i].Name = strings.TrimSpace(items[i].Name)
		items[i].Category = strings.TrimSpace(items[i].Category)
		if items[i].Name == "" || items[i].Category == "" {
			return 0, fiber.NewError(fiber.StatusBadRequest, "Every item needs a name and a category")
		}
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, it := range items {
			row := models.Item{
				Name:       it.Name,
				Category:   it.Category,
				PriceCents: it.PriceCents,
				Packaging:  nonEmpty(it.Packaging),
				ImageURL:   nonEmpty(it.ImageURL),
			}
			cols := []string{"category", "price_cents", "image_url", "updated_at"}
			if it.Stock != nil {
				row.Stock = *it.Stock
				cols = append(cols, "stock")
			}
			if it.Packaging != nil {
				cols = append(cols, "packaging")
			}

			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns(cols),
			}).Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
