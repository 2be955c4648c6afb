// Package sale records POS sales and keeps packaging stock in step with them.
package sale

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mariodelcid/POS-Chillers/internal/inventory"
	"github.com/mariodelcid/POS-Chillers/internal/metrics"
	"github.com/mariodelcid/POS-Chillers/internal/models"
	"github.com/mariodelcid/POS-Chillers/internal/packaging"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("sale not found")

// Rejection reasons, used as the metrics label.
const (
	ReasonEmptyCart         = "empty_cart"
	ReasonPaymentMethod     = "payment_method"
	ReasonQuantity          = "quantity"
	ReasonItemNotFound      = "item_not_found"
	ReasonTender            = "tender"
	ReasonUnknownMaterial   = "unknown_material"
	ReasonInsufficientStock = "insufficient_stock"
	ReasonInvalidTotal      = "invalid_total"
)

// ValidationError is a client error; Message is shown to the cashier as is.
type ValidationError struct {
	Reason  string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(reason, format string, args ...any) *ValidationError {
	return &ValidationError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

type Service struct {
	db      *gorm.DB
	rules   *packaging.RuleSet
	metrics *metrics.Metrics
}

// NewService wires the sale service. m may be nil.
func NewService(db *gorm.DB, rules *packaging.RuleSet, m *metrics.Metrics) *Service {
	return &Service{db: db, rules: rules, metrics: m}
}

type CartLine struct {
	ItemID   uint  `json:"itemId"`
	Quantity int64 `json:"quantity"`
}

// MaxLineQuantity bounds one cart line so price and usage products stay far
// from int64 overflow.
const MaxLineQuantity = 10000

type CreateRequest struct {
	Items               []CartLine           `json:"items"`
	PaymentMethod       models.PaymentMethod `json:"paymentMethod"`
	AmountTenderedCents *int64               `json:"amountTenderedCents"`
}

type CreateResult struct {
	OK             bool  `json:"ok"`
	SaleID         uint  `json:"saleId"`
	TotalCents     int64 `json:"totalCents"`
	ChangeDueCents int64 `json:"changeDueCents"`
}

// Create validates and prices the cart, then stores the sale and consumes its
// packaging in one transaction. Stock is checked once up front and again
// under lock; either failure rejects the sale without writing anything.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	res, err := s.create(ctx, req)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) && s.metrics != nil {
			s.metrics.SalesRejected.WithLabelValues(verr.Reason).Inc()
		}
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.Sales.WithLabelValues(string(req.PaymentMethod)).Inc()
		// Counters only go up; discount-only carts are counted as sales but
		// add no revenue.
		if res.TotalCents > 0 {
			s.metrics.RevenueCents.Add(float64(res.TotalCents))
		}
	}
	return res, nil
}

func (s *Service) create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	db := s.db.WithContext(ctx)

	if len(req.Items) == 0 {
		return nil, invalid(ReasonEmptyCart, "No items in sale")
	}
	if !req.PaymentMethod.Valid() {
		return nil, invalid(ReasonPaymentMethod, "Invalid payment method")
	}
	for _, l := range req.Items {
		if l.Quantity <= 0 || l.Quantity > MaxLineQuantity {
			return nil, invalid(ReasonQuantity, "Invalid quantity for item %d", l.ItemID)
		}
	}

	catalog, err := loadItems(db, req.Items)
	if err != nil {
		return nil, err
	}

	saleItems := make([]models.SaleItem, 0, len(req.Items))
	usageLines := make([]packaging.Line, 0, len(req.Items))
	var subtotal int64
	for _, l := range req.Items {
		item := catalog[l.ItemID]
		line := item.PriceCents * l.Quantity
		subtotal += line
		saleItems = append(saleItems, models.SaleItem{
			ItemID:         item.ID,
			Quantity:       l.Quantity,
			UnitPriceCents: item.PriceCents,
			LineTotalCents: line,
		})
		usageLines = append(usageLines, packaging.Line{
			ItemName:  item.Name,
			Packaging: item.Packaging,
			Quantity:  l.Quantity,
		})
	}
	var tax int64
	total := subtotal + tax

	var changeDue *int64
	if req.PaymentMethod == models.PaymentCash {
		if req.AmountTenderedCents == nil {
			return nil, invalid(ReasonTender, "amountTenderedCents required for cash")
		}
		if *req.AmountTenderedCents < total {
			return nil, invalid(ReasonTender, "Insufficient cash tendered")
		}
		change := *req.AmountTenderedCents - total
		changeDue = &change
	}

	needs, err := s.rules.Usage(usageLines)
	if err != nil {
		return nil, err
	}

	// fast fail before taking any lock
	materials, err := loadMaterials(db, needs, false)
	if err != nil {
		return nil, err
	}
	if err := checkStock(needs, materials); err != nil {
		return nil, err
	}

	sale := models.Sale{
		PaymentMethod:  req.PaymentMethod,
		SubtotalCents:  subtotal,
		TaxCents:       tax,
		TotalCents:     total,
		ChangeDueCents: changeDue,
	}
	if req.PaymentMethod == models.PaymentCash {
		sale.AmountTenderedCents = req.AmountTenderedCents
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		locked, err := loadMaterials(tx, needs, true)
		if err != nil {
			return err
		}
		if err := checkStock(needs, locked); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(&sale).Error; err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		for i := range saleItems {
			saleItems[i].SaleID = sale.ID
		}
		if err := tx.Omit(clause.Associations).Create(&saleItems).Error; err != nil {
			return fmt.Errorf("create sale items: %w", err)
		}

		for _, n := range needs {
			m := locked[n.Material]
			res := tx.Model(&models.PackagingMaterial{}).
				Where("id = ? AND stock >= ?", m.ID, n.Units).
				Update("stock", gorm.Expr("stock - ?", n.Units))
			if res.Error != nil {
				return fmt.Errorf("decrement %s: %w", m.Name, res.Error)
			}
			if res.RowsAffected != 1 {
				return insufficient(m, n.Units)
			}
			if err := inventory.WriteMovement(tx, &m, m.Stock, m.Stock-n.Units, models.MovementSale, &sale.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &CreateResult{OK: true, SaleID: sale.ID, TotalCents: total}
	if changeDue != nil {
		result.ChangeDueCents = *changeDue
	}
	slog.Info("sale committed",
		"sale_id", sale.ID,
		"payment_method", sale.PaymentMethod,
		"total_cents", total,
		"lines", len(saleItems),
	)
	return result, nil
}

func loadItems(db *gorm.DB, lines []CartLine) (map[uint]models.Item, error) {
	ids := make([]uint, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ItemID)
	}
	var items []models.Item
	if err := db.Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	byID := make(map[uint]models.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	for _, l := range lines {
		if _, ok := byID[l.ItemID]; !ok {
			return nil, invalid(ReasonItemNotFound, "Item not found: %d", l.ItemID)
		}
	}
	return byID, nil
}

// loadMaterials reads the materials a cart needs, keyed by name. With lock
// set the rows are taken FOR UPDATE in name order.
func loadMaterials(db *gorm.DB, needs []packaging.Need, lock bool) (map[string]models.PackagingMaterial, error) {
	out := make(map[string]models.PackagingMaterial, len(needs))
	if len(needs) == 0 {
		return out, nil
	}
	names := make([]string, 0, len(needs))
	for _, n := range needs {
		names = append(names, n.Material)
	}

	q := db.Where("name IN ?", names).Order("name asc")
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var rows []models.PackagingMaterial
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load packaging: %w", err)
	}
	for _, m := range rows {
		out[m.Name] = m
	}
	return out, nil
}

func checkStock(needs []packaging.Need, materials map[string]models.PackagingMaterial) error {
	for _, n := range needs {
		m, ok := materials[n.Material]
		if !ok {
			return invalid(ReasonUnknownMaterial, "Packaging material not found: %s", n.Material)
		}
		if m.Stock < n.Units {
			return insufficient(m, n.Units)
		}
	}
	return nil
}

func insufficient(m models.PackagingMaterial, need int64) *ValidationError {
	return invalid(ReasonInsufficientStock, "Insufficient %s stock. Need %d %s, have %d %s",
		m.Name, need, m.Unit, m.Stock, m.Unit)
}
