package models

import "time"

type Item struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Category   string    `gorm:"size:50;not null;index" json:"category"`
	PriceCents int64     `gorm:"not null" json:"priceCents"`
	Stock      int64     `gorm:"not null;default:0" json:"stock"` // legacy, not checked by sales
	Packaging  *string   `gorm:"size:100" json:"packaging"`       // PackagingMaterial.Name, by convention
	ImageURL   *string   `gorm:"size:255" json:"imageUrl"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
