package accounting

import "github.com/mariodelcid/POS-Chillers/internal/models"

// EntryWithBalance is an entry plus its net amounts and the running balances
// up to and including it.
type EntryWithBalance struct {
	models.AccountingEntry
	NetCash       int64 `json:"netCash"`
	NetCredit     int64 `json:"netCredit"`
	CashBalance   int64 `json:"cashBalance"`
	CreditBalance int64 `json:"creditBalance"`
	GrandBalance  int64 `json:"grandBalance"`
}

// WithBalances expects entries in date order.
func WithBalances(entries []models.AccountingEntry) []EntryWithBalance {
	out := make([]EntryWithBalance, 0, len(entries))
	var cash, credit int64
	for _, e := range entries {
		netCash := e.CashSales - e.Deposits - e.TaxPayments
		netCredit := e.CreditSales - e.SquareFees
		cash += netCash
		credit += netCredit
		out = append(out, EntryWithBalance{
			AccountingEntry: e,
			NetCash:         netCash,
			NetCredit:       netCredit,
			CashBalance:     cash,
			CreditBalance:   credit,
			GrandBalance:    cash + credit,
		})
	}
	return out
}
