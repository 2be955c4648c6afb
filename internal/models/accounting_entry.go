package models

import "time"

// AccountingEntry: manually entered reconciliation row (daily or weekly).
type AccountingEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Date        time.Time `gorm:"index;not null" json:"date"`
	CashSales   int64     `gorm:"not null;default:0" json:"cashSales"`
	CreditSales int64     `gorm:"not null;default:0" json:"creditSales"`
	SquareFees  int64     `gorm:"not null;default:0" json:"squareFees"`
	SalesTax    int64     `gorm:"not null;default:0" json:"salesTax"`
	Deposits    int64     `gorm:"not null;default:0" json:"deposits"`
	TaxPayments int64     `gorm:"not null;default:0" json:"taxPayments"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
