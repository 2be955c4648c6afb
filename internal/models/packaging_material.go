package models

import "time"

const (
	UnitPieces = "pcs"
	UnitOunces = "oz"
)

type PackagingMaterial struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Stock     int64     `gorm:"not null;default:0" json:"stock"`
	Unit      string    `gorm:"size:10;not null;default:pcs" json:"unit"` // pcs, oz
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type MovementReason string

const (
	MovementSale         MovementReason = "sale"
	MovementAdjustment   MovementReason = "adjustment"
	MovementSaleReversal MovementReason = "sale_reversal"
	MovementSeed         MovementReason = "seed"
)

// PackagingMovement is one stock change of a packaging material. Rows are
// written in the same transaction as the change itself.
type PackagingMovement struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	MaterialID   uint           `gorm:"index;not null" json:"materialId"`
	MaterialName string         `gorm:"size:100;not null" json:"materialName"`
	Delta        int64          `gorm:"not null" json:"delta"` // negative = consumed
	StockBefore  int64          `gorm:"not null" json:"stockBefore"`
	StockAfter   int64          `gorm:"not null" json:"stockAfter"`
	Reason       MovementReason `gorm:"size:20;not null" json:"reason"`
	SaleID       *uint          `gorm:"index" json:"saleId"`
	CreatedAt    time.Time      `gorm:"index" json:"createdAt"`
}
