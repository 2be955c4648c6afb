package sale

import (
	"context"
	"sort"

	"github.com/mariodelcid/POS-Chillers/internal/models"
	"github.com/mariodelcid/POS-Chillers/internal/period"
	"github.com/mariodelcid/POS-Chillers/internal/purchase"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const topItemsLimit = 10

// List returns the sales inside r, newest first, with their items.
func (s *Service) List(ctx context.Context, r period.Range) ([]models.Sale, error) {
	return listSales(s.db.WithContext(ctx), r)
}

func listSales(db *gorm.DB, r period.Range) ([]models.Sale, error) {
	sales := make([]models.Sale, 0)
	err := r.Apply(db, "created_at").
		Preload("Items", func(q *gorm.DB) *gorm.DB { return q.Order("id asc") }).
		Preload("Items.Item").
		Order("created_at DESC, id DESC").
		Find(&sales).Error
	return sales, err
}

type Summary struct {
	TotalSales        int64 `json:"totalSales"`
	CashSales         int64 `json:"cashSales"`
	CreditSales       int64 `json:"creditSales"`
	TotalPurchases    int64 `json:"totalPurchases"`
	NetCash           int64 `json:"netCash"`
	TotalTransactions int   `json:"totalTransactions"`
}

type TopItem struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Quantity int64  `json:"quantity"`
	Revenue  int64  `json:"revenue"`
}

type Stats struct {
	Summary   Summary           `json:"summary"`
	TopItems  []TopItem         `json:"topItems"`
	Sales     []models.Sale     `json:"sales"`
	Purchases []models.Purchase `json:"purchases"`
}

// Stats summarises sales and register purchases inside r.
func (s *Service) Stats(ctx context.Context, r period.Range) (*Stats, error) {
	var (
		sales     []models.Sale
		purchases []models.Purchase
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sales, err = listSales(s.db.WithContext(gctx), r)
		return err
	})
	g.Go(func() error {
		var err error
		purchases, err = purchase.List(s.db.WithContext(gctx), r)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Stats{
		Summary:   summarize(sales, purchases),
		TopItems:  topItems(sales, topItemsLimit),
		Sales:     sales,
		Purchases: purchases,
	}, nil
}

func summarize(sales []models.Sale, purchases []models.Purchase) Summary {
	var sum Summary
	for _, s := range sales {
		sum.TotalSales += s.TotalCents
		switch s.PaymentMethod {
		case models.PaymentCash:
			sum.CashSales += s.TotalCents
		case models.PaymentCredit:
			sum.CreditSales += s.TotalCents
		}
	}
	for _, p := range purchases {
		sum.TotalPurchases += p.AmountCents
	}
	sum.NetCash = sum.CashSales - sum.TotalPurchases
	sum.TotalTransactions = len(sales)
	return sum
}

// topItems ranks items by quantity sold; ties keep name order.
func topItems(sales []models.Sale, limit int) []TopItem {
	byName := make(map[string]*TopItem)
	for _, s := range sales {
		for _, si := range s.Items {
			ti, ok := byName[si.Item.Name]
			if !ok {
				ti = &TopItem{Name: si.Item.Name, Category: si.Item.Category}
				byName[si.Item.Name] = ti
			}
			ti.Quantity += si.Quantity
			ti.Revenue += si.LineTotalCents
		}
	}

	out := make([]TopItem, 0, len(byName))
	for _, ti := range byName {
		out = append(out, *ti)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
