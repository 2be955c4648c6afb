package inventory

import (
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mariodelcid/POS-Chillers/internal/money"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// POST /api/items/import
// Multipart upload "file": an .xlsx whose first sheet lists
// name | category | price (dollars) | packaging (optional).
func ImportItemsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "file is required")
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Only .xlsx files can be imported")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return err
		}
		defer file.Close()

		items, err := ParseItemsWorkbook(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if len(items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "No items found in file")
		}

		n, err := UpsertItems(db, items)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true, "count": n})
	}
}

// ParseItemsWorkbook reads menu items from the first sheet. A header row
// starting with "name" is skipped, as are blank rows.
func ParseItemsWorkbook(r io.Reader) ([]BulkItem, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("cannot read sheet %q: %v", sheets[0], err)
	}

	items := make([]BulkItem, 0, len(rows))
	for i, row := range rows {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		if i == 0 && strings.EqualFold(strings.TrimSpace(row[0]), "name") {
			continue
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("row %d: name, category and price are required", i+1)
		}

		price, err := money.ParseDollars(strings.TrimPrefix(strings.TrimSpace(row[2]), "$"))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid price %q", i+1, row[2])
		}

		it := BulkItem{
			Name:       strings.TrimSpace(row[0]),
			Category:   strings.TrimSpace(row[1]),
			PriceCents: price,
		}
		if len(row) > 3 {
			pkg := strings.TrimSpace(row[3])
			it.Packaging = &pkg
		}
		items = append(items, it)
	}
	return items, nil
}
