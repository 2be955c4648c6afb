// Package seed loads the starting menu and packaging stock.
package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/mariodelcid/POS-Chillers/internal/inventory"
	"github.com/mariodelcid/POS-Chillers/internal/models"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed seed.yaml
var defaultData []byte

type Material struct {
	Name  string `yaml:"name"`
	Stock int64  `yaml:"stock"`
	Unit  string `yaml:"unit"`
}

type Item struct {
	Name       string  `yaml:"name"`
	Category   string  `yaml:"category"`
	PriceCents int64   `yaml:"price_cents"`
	Packaging  *string `yaml:"packaging"`
}

type Data struct {
	Packaging []Material `yaml:"packaging"`
	Items     []Item     `yaml:"items"`
}

type Result struct {
	Materials int
	Items     int
}

// Default returns the embedded seed data.
func Default() (*Data, error) {
	return Parse(defaultData)
}

func Parse(b []byte) (*Data, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	var d Data
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	for i, m := range d.Packaging {
		if m.Name == "" || m.Stock < 0 {
			return nil, fmt.Errorf("packaging[%d]: name and a non-negative stock are required", i)
		}
		if m.Unit == "" {
			d.Packaging[i].Unit = models.UnitPieces
		} else if m.Unit != models.UnitPieces && m.Unit != models.UnitOunces {
			return nil, fmt.Errorf("packaging[%d]: unit must be %q or %q", i, models.UnitPieces, models.UnitOunces)
		}
	}
	return &d, nil
}

// Apply upserts materials (stock and unit are overwritten) and menu items by
// name. Every material stock it sets is recorded as a seed movement.
func Apply(db *gorm.DB, d *Data) (Result, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, m := range d.Packaging {
			var existing models.PackagingMaterial
			var before int64
			if err := tx.Where("name = ?", m.Name).First(&existing).Error; err == nil {
				before = existing.Stock
			}

			row := models.PackagingMaterial{Name: m.Name, Stock: m.Stock, Unit: m.Unit}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"stock", "unit", "updated_at"}),
			}).Create(&row).Error; err != nil {
				return fmt.Errorf("seed %s: %w", m.Name, err)
			}
			if err := tx.Where("name = ?", m.Name).First(&row).Error; err != nil {
				return err
			}
			if err := inventory.WriteMovement(tx, &row, before, m.Stock, models.MovementSeed, nil); err != nil {
				return err
			}
		}

		items := make([]inventory.BulkItem, 0, len(d.Items))
		for _, it := range d.Items {
			pkg := ""
			if it.Packaging != nil {
				pkg = *it.Packaging
			}
			items = append(items, inventory.BulkItem{
				Name:       it.Name,
				Category:   it.Category,
				PriceCents: it.PriceCents,
				Packaging:  &pkg,
			})
		}
		_, err := inventory.UpsertItems(tx, items)
		return err
	})
	if err != nil {
		return Result{}, err
	}

	res := Result{Materials: len(d.Packaging), Items: len(d.Items)}
	slog.Info("seed applied", "materials", res.Materials, "items", res.Items)
	return res, nil
}
