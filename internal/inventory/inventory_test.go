package inventory

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/mariodelcid/POS-Chillers/internal/database"
	"github.com/mariodelcid/POS-Chillers/internal/models"
	"github.com/mariodelcid/POS-Chillers/internal/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := database.OpenTest(t)
	app := fiber.New(fiber.Config{ErrorHandler: web.ErrorHandler(false)})
	app.Get("/api/items", ListItemsHandler(db))
	app.Post("/api/items/bulk", BulkUpsertItemsHandler(db))
	app.Post("/api/items/import", ImportItemsHandler(db))
	app.Get("/api/packaging", ListPackagingHandler(db))
	app.Put("/api/packaging/:id", UpdatePackagingStockHandler(db))
	app.Get("/api/packaging/:id/movements", ListMovementsHandler(db))
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, b
}

func errorMessage(t *testing.T, b []byte) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(b, &body))
	return body.Error
}

func TestBulkUpsert_RoundTrip(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := doJSON(t, app, http.MethodPost, "/api/items/bulk", `{"items":[
		{"name":"Mangonada","category":"Drinks","priceCents":700,"packaging":"24oz cup"},
		{"name":"Elote Chico","category":"Elotes","priceCents":500,"packaging":"8oz cup"}
	]}`)
	require.Equal(t, http.StatusOK, status)

	status, b := doJSON(t, app, http.MethodGet, "/api/items", "")
	require.Equal(t, http.StatusOK, status)
	var items []models.Item
	require.NoError(t, json.Unmarshal(b, &items))
	require.Len(t, items, 2)

	// category asc
	assert.Equal(t, "Mangonada", items[0].Name)
	assert.Equal(t, "Drinks", items[0].Category)
	assert.Equal(t, int64(700), items[0].PriceCents)
	assert.Equal(t, "Elote Chico", items[1].Name)
	require.NotNil(t, items[1].Packaging)
	assert.Equal(t, "8oz cup", *items[1].Packaging)
}

func TestBulkUpsert_UpdatesByName(t *testing.T) {
	app, db := newTestApp(t)

	status, _ := doJSON(t, app, http.MethodPost, "/api/items/bulk",
		`{"items":[{"name":"Mangonada","category":"Drinks","priceCents":700,"packaging":"24oz cup"}]}`)
	require.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, app, http.MethodPost, "/api/items/bulk",
		`{"items":[{"name":"Mangonada","category":"Drinks","priceCents":750}]}`)
	require.Equal(t, http.StatusOK, status)

	var items []models.Item
	require.NoError(t, db.Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, int64(750), items[0].PriceCents)
	require.NotNil(t, items[0].Packaging, "omitted packaging is kept")
	assert.Equal(t, "24oz cup", *items[0].Packaging)
}

func TestBulkUpsert_Rejects(t *testing.T) {
	app, _ := newTestApp(t)

	for _, body := range []string{`{"items":"nope"}`, `{}`, `not json`} {
		status, b := doJSON(t, app, http.MethodPost, "/api/items/bulk", body)
		assert.Equal(t, http.StatusBadRequest, status, body)
		assert.Equal(t, "items must be an array", errorMessage(t, b))
	}

	status, _ := doJSON(t, app, http.MethodPost, "/api/items/bulk", `{"items":[{"name":" ","category":"Drinks"}]}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestUpdatePackagingStock(t *testing.T) {
	app, db := newTestApp(t)
	cups := models.PackagingMaterial{Name: "16oz cup", Stock: 10, Unit: models.UnitPieces}
	require.NoError(t, db.Create(&cups).Error)

	status, b := doJSON(t, app, http.MethodPut, "/api/packaging/1", `{"stock":250}`)
	require.Equal(t, http.StatusOK, status, string(b))

	var got models.PackagingMaterial
	require.NoError(t, db.First(&got, cups.ID).Error)
	assert.Equal(t, int64(250), got.Stock)

	var movements []models.PackagingMovement
	require.NoError(t, db.Find(&movements).Error)
	require.Len(t, movements, 1)
	assert.Equal(t, models.MovementAdjustment, movements[0].Reason)
	assert.Equal(t, int64(240), movements[0].Delta)
	assert.Equal(t, int64(10), movements[0].StockBefore)
	assert.Equal(t, int64(250), movements[0].StockAfter)

	var logs int64
	require.NoError(t, db.Model(&models.AuditLog{}).Count(&logs).Error)
	assert.Equal(t, int64(1), logs)
}

func TestUpdatePackagingStock_Rejects(t *testing.T) {
	app, db := newTestApp(t)
	require.NoError(t, db.Create(&models.PackagingMaterial{Name: "charolas", Stock: 5}).Error)

	for _, body := range []string{`{"stock":-1}`, `{"stock":"ten"}`, `{"stock":2.5}`, `{}`, `[]`} {
		status, b := doJSON(t, app, http.MethodPut, "/api/packaging/1", body)
		assert.Equal(t, http.StatusBadRequest, status, body)
		assert.Equal(t, "Invalid stock value", errorMessage(t, b))
	}

	status, b := doJSON(t, app, http.MethodPut, "/api/packaging/99", `{"stock":1}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Packaging material not found", errorMessage(t, b))

	status, b = doJSON(t, app, http.MethodPut, "/api/packaging/abc", `{"stock":1}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Packaging material not found", errorMessage(t, b))

	var got models.PackagingMaterial
	require.NoError(t, db.First(&got).Error)
	assert.Equal(t, int64(5), got.Stock)
}

func TestListPackaging_Idempotent(t *testing.T) {
	app, db := newTestApp(t)
	require.NoError(t, db.Create(&[]models.PackagingMaterial{
		{Name: "elote", Stock: 320, Unit: models.UnitOunces},
		{Name: "charolas", Stock: 40},
	}).Error)

	_, first := doJSON(t, app, http.MethodGet, "/api/packaging", "")
	_, second := doJSON(t, app, http.MethodGet, "/api/packaging", "")
	assert.JSONEq(t, string(first), string(second))

	var materials []models.PackagingMaterial
	require.NoError(t, json.Unmarshal(first, &materials))
	require.Len(t, materials, 2)
	assert.Equal(t, "charolas", materials[0].Name)
	assert.Equal(t, models.UnitPieces, materials[0].Unit)
}

func TestListMovements(t *testing.T) {
	app, db := newTestApp(t)
	m := models.PackagingMaterial{Name: "elote", Stock: 100, Unit: models.UnitOunces}
	require.NoError(t, db.Create(&m).Error)

	doJSON(t, app, http.MethodPut, "/api/packaging/1", `{"stock":80}`)
	doJSON(t, app, http.MethodPut, "/api/packaging/1", `{"stock":200}`)

	status, b := doJSON(t, app, http.MethodGet, "/api/packaging/1/movements", "")
	require.Equal(t, http.StatusOK, status)
	var movements []models.PackagingMovement
	require.NoError(t, json.Unmarshal(b, &movements))
	require.Len(t, movements, 2)
	assert.Equal(t, int64(120), movements[0].Delta)
	assert.Equal(t, int64(-20), movements[1].Delta)

	status, _ = doJSON(t, app, http.MethodGet, "/api/packaging/7/movements", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func testWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseItemsWorkbook(t *testing.T) {
	data := testWorkbook(t, [][]any{
		{"Name", "Category", "Price", "Packaging"},
		{"Elote Chico", "Elotes", "$4.99", "8oz cup"},
		{},
		{"Mangonada", "Drinks", "7"},
	})

	items, err := ParseItemsWorkbook(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Elote Chico", items[0].Name)
	assert.Equal(t, int64(499), items[0].PriceCents)
	require.NotNil(t, items[0].Packaging)
	assert.Equal(t, "8oz cup", *items[0].Packaging)
	assert.Equal(t, int64(700), items[1].PriceCents)
	assert.Nil(t, items[1].Packaging)
}

func TestParseItemsWorkbook_BadPrice(t *testing.T) {
	data := testWorkbook(t, [][]any{{"Elote Chico", "Elotes", "cheap"}})
	_, err := ParseItemsWorkbook(bytes.NewReader(data))
	assert.ErrorContains(t, err, "row 1")
}

func TestImportItemsHandler(t *testing.T) {
	app, db := newTestApp(t)
	data := testWorkbook(t, [][]any{{"Takis", "Snacks", "2.50"}})

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "menu.xlsx")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/items/import", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var item models.Item
	require.NoError(t, db.Where("name = ?", "Takis").First(&item).Error)
	assert.Equal(t, int64(250), item.PriceCents)
}
