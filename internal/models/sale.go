package models

import "time"

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCredit PaymentMethod = "credit"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentCash || p == PaymentCredit
}

type Sale struct {
	ID                  uint          `gorm:"primaryKey" json:"id"`
	PaymentMethod       PaymentMethod `gorm:"size:10;not null" json:"paymentMethod"`
	SubtotalCents       int64         `gorm:"not null" json:"subtotalCents"`
	TaxCents            int64         `gorm:"not null;default:0" json:"taxCents"`
	TotalCents          int64         `gorm:"not null" json:"totalCents"`
	AmountTenderedCents *int64        `json:"amountTenderedCents"` // cash only
	ChangeDueCents      *int64        `json:"changeDueCents"`      // cash only
	Items               []SaleItem    `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt           time.Time     `gorm:"index" json:"createdAt"`
	UpdatedAt           time.Time     `json:"updatedAt"`
}

type SaleItem struct {
	ID             uint  `gorm:"primaryKey" json:"id"`
	SaleID         uint  `gorm:"index;not null" json:"saleId"`
	ItemID         uint  `gorm:"index;not null" json:"itemId"`
	Item           Item  `json:"item"`
	Quantity       int64 `gorm:"not null" json:"quantity"`
	UnitPriceCents int64 `gorm:"not null" json:"unitPriceCents"` // price snapshot at sale time
	LineTotalCents int64 `gorm:"not null" json:"lineTotalCents"`
}
