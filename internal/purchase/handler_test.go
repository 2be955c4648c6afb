package purchase

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mariodelcid/POS-Chillers/internal/audit"
	"github.com/mariodelcid/POS-Chillers/internal/auth"
	"github.com/mariodelcid/POS-Chillers/internal/database"
	"github.com/mariodelcid/POS-Chillers/internal/models"
	"github.com/mariodelcid/POS-Chillers/internal/period"
	"github.com/mariodelcid/POS-Chillers/internal/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(t *testing.T, app *fiber.App, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/purchases", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, b
}

func TestCreatePurchaseHandler(t *testing.T) {
	db := database.OpenTest(t)
	app := fiber.New(fiber.Config{ErrorHandler: web.ErrorHandler(false)})
	app.Post("/api/purchases", CreatePurchaseHandler(db))

	status, b := post(t, app, `{"amountCents":1250}`)
	require.Equal(t, http.StatusOK, status, string(b))

	var resp CreatePurchaseResponse
	require.NoError(t, json.Unmarshal(b, &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, int64(1250), resp.AmountCents)

	var p models.Purchase
	require.NoError(t, db.First(&p, resp.PurchaseID).Error)
	assert.Equal(t, "Daily purchase", p.Description)
	assert.Equal(t, models.PaymentCash, p.PaymentMethod)

	var logs []models.AuditLog
	require.NoError(t, db.Where("entity_type = ?", audit.EntityPurchase).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, models.AuditActionCreate, logs[0].Action)
}

func TestCreatePurchaseHandler_Rejects(t *testing.T) {
	db := database.OpenTest(t)
	app := fiber.New(fiber.Config{ErrorHandler: web.ErrorHandler(false)})
	app.Post("/api/purchases", CreatePurchaseHandler(db))

	status, b := post(t, app, `{"amountCents":0}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"error":"Invalid amount"}`, string(b))

	status, _ = post(t, app, `{"amountCents":100,"paymentMethod":"bitcoin"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	var n int64
	require.NoError(t, db.Model(&models.Purchase{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestList_FiltersByRange(t *testing.T) {
	db := database.OpenTest(t)
	day := func(d int) time.Time { return time.Date(2025, 8, d, 15, 0, 0, 0, time.UTC) }
	require.NoError(t, db.Create(&[]models.Purchase{
		{AmountCents: 100, Description: "ice", PaymentMethod: models.PaymentCash, CreatedAt: day(1)},
		{AmountCents: 200, Description: "corn", PaymentMethod: models.PaymentCash, CreatedAt: day(2)},
		{AmountCents: 300, Description: "cups", PaymentMethod: models.PaymentCash, CreatedAt: day(3)},
	}).Error)

	r, err := period.Parse("2025-08-02", "2025-08-03")
	require.NoError(t, err)
	got, err := List(db, r)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "cups", got[0].Description)
	assert.Equal(t, "corn", got[1].Description)
}

func TestUndoCreatedPurchase(t *testing.T) {
	db := database.OpenTest(t)
	p, err := Create(db, CreatePurchaseRequest{AmountCents: 500}, auth.Actor{UserName: "anonymous"})
	require.NoError(t, err)

	var log models.AuditLog
	require.NoError(t, db.Where("entity_id = ?", p.ID).First(&log).Error)
	require.NoError(t, audit.UndoLog(db, log.ID, auth.Actor{UserName: "anonymous"}))

	var n int64
	require.NoError(t, db.Model(&models.Purchase{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCreatePurchaseHandler_LongDescription(t *testing.T) {
	db := database.OpenTest(t)
	app := fiber.New(fiber.Config{ErrorHandler: web.ErrorHandler(false)})
	app.Post("/api/purchases", CreatePurchaseHandler(db))

	desc := strings.Repeat("x", 250)
	status, b := post(t, app, `{"amountCents":500,"description":"`+desc+`"}`)
	require.Equal(t, http.StatusOK, status, string(b))

	var p models.Purchase
	require.NoError(t, db.First(&p).Error)
	assert.Equal(t, desc, p.Description)

	var entry models.AuditLog
	require.NoError(t, db.Where("entity_type = ?", audit.EntityPurchase).First(&entry).Error)
	assert.Len(t, entry.Description, 255)
	assert.True(t, strings.HasPrefix(entry.Description, "Purchase $5.00: xxx"))
}
