package models

import "time"

// Purchase is a cash outflow netted against cash sales in reports.
type Purchase struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	AmountCents   int64         `gorm:"not null" json:"amountCents"`
	Description   string        `gorm:"size:255" json:"description"`
	PaymentMethod PaymentMethod `gorm:"size:10;not null;default:cash" json:"paymentMethod"`
	CreatedAt     time.Time     `gorm:"index" json:"createdAt"`
}
