package sale

import (
	"context"
	"fmt"
	"io"

	"github.com/mariodelcid/POS-Chillers/internal/money"
	"github.com/mariodelcid/POS-Chillers/internal/period"
	"github.com/xuri/excelize/v2"
)

const (
	salesSheet   = "Sales"
	summarySheet = "Summary"
	dollarFormat = `"$"#,##0.00`
	timeLayout   = "2006-01-02 15:04"
)

var salesHeader = []any{
	"Sale ID", "Date", "Payment", "Item", "Category",
	"Quantity", "Unit Price", "Line Total", "Sale Total",
}

// Export writes the sales inside r as an .xlsx workbook: one row per sold
// line on "Sales" and the period totals on "Summary".
func (s *Service) Export(ctx context.Context, r period.Range, w io.Writer) error {
	stats, err := s.Stats(ctx, r)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", salesSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	dollars, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr(dollarFormat)})
	if err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(salesSheet, "A1", &salesHeader); err != nil {
		return err
	}
	if err := f.SetRowStyle(salesSheet, 1, 1, bold); err != nil {
		return err
	}

	row := 2
	for _, sale := range stats.Sales {
		for _, si := range sale.Items {
			values := []any{
				sale.ID,
				sale.CreatedAt.Format(timeLayout),
				string(sale.PaymentMethod),
				si.Item.Name,
				si.Item.Category,
				si.Quantity,
				money.Dollars(si.UnitPriceCents).InexactFloat64(),
				money.Dollars(si.LineTotalCents).InexactFloat64(),
				money.Dollars(sale.TotalCents).InexactFloat64(),
			}
			if err := f.SetSheetRow(salesSheet, fmt.Sprintf("A%d", row), &values); err != nil {
				return err
			}
			row++
		}
	}
	if row > 2 {
		if err := f.SetCellStyle(salesSheet, "G2", fmt.Sprintf("I%d", row-1), dollars); err != nil {
			return err
		}
	}

	sum := stats.Summary
	summary := [][]any{
		{"Total sales", money.Dollars(sum.TotalSales).InexactFloat64()},
		{"Cash sales", money.Dollars(sum.CashSales).InexactFloat64()},
		{"Credit sales", money.Dollars(sum.CreditSales).InexactFloat64()},
		{"Purchases", money.Dollars(sum.TotalPurchases).InexactFloat64()},
		{"Net cash", money.Dollars(sum.NetCash).InexactFloat64()},
		{"Transactions", sum.TotalTransactions},
	}
	for i, values := range summary {
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &values); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(summarySheet, "B1", "B5", dollars); err != nil {
		return err
	}
	if err := f.SetColWidth(salesSheet, "B", "E", 18); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 16); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

func strPtr(s string) *string { return &s }
