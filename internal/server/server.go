// Package server assembles the Fiber application: middleware, routes and the
// handlers of every domain package.
package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mariodelcid/POS-Chillers/internal/accounting"
	"github.com/mariodelcid/POS-Chillers/internal/audit"
	"github.com/mariodelcid/POS-Chillers/internal/auth"
	"github.com/mariodelcid/POS-Chillers/internal/config"
	"github.com/mariodelcid/POS-Chillers/internal/inventory"
	"github.com/mariodelcid/POS-Chillers/internal/metrics"
	"github.com/mariodelcid/POS-Chillers/internal/packaging"
	"github.com/mariodelcid/POS-Chillers/internal/purchase"
	"github.com/mariodelcid/POS-Chillers/internal/sale"
	"github.com/mariodelcid/POS-Chillers/internal/timeclock"
	"github.com/mariodelcid/POS-Chillers/internal/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

const bodyLimit = 8 << 20 // item imports

// New builds the app. Nothing is started; call Listen on the result.
func New(cfg *config.Config, db *gorm.DB, rules *packaging.RuleSet, m *metrics.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "chillers-pos",
		ErrorHandler: web.ErrorHandler(cfg.IsDevelopment()),
		BodyLimit:    bodyLimit,
	})

	origins := strings.Split(cfg.CORSOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	app.Use(web.RequestIDMiddleware())
	app.Use(web.LoggingMiddleware(m))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Join(origins, ","),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, " + web.HeaderRequestID,
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		ExposeHeaders: web.HeaderRequestID + ", Content-Disposition",
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))

	sales := sale.NewService(db, rules, m)
	adminOnly := auth.AdminOnly(cfg)

	api := app.Group("/api")
	api.Get("/health", healthHandler(db))

	// Auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(db))
	api.Post("/auth/login", auth.LoginHandler(db, cfg))
	if cfg.AuthEnabled() {
		api.Get("/auth/me", auth.JWTMiddleware(cfg), auth.MeHandler(db))
	}

	// Menu items
	api.Get("/items", inventory.ListItemsHandler(db))
	api.Get("/inventory", inventory.ListItemsHandler(db))
	api.Post("/items/bulk", inventory.BulkUpsertItemsHandler(db))
	api.Post("/items/import", inventory.ImportItemsHandler(db))

	// Packaging
	api.Get("/packaging", inventory.ListPackagingHandler(db))
	api.Put("/packaging/:id", inventory.UpdatePackagingStockHandler(db))
	api.Get("/packaging/:id/movements", inventory.ListMovementsHandler(db))

	// Sales
	api.Get("/sales", sale.ListSalesHandler(sales))
	api.Get("/sales/stats", sale.StatsHandler(sales))
	api.Get("/sales/export", sale.ExportHandler(sales))
	api.Post("/sales", sale.CreateSaleHandler(sales))
	api.Put("/sales/:id", append(adminOnly, sale.UpdateSaleHandler(sales))...)
	api.Delete("/sales/:id", append(adminOnly, sale.DeleteSaleHandler(sales))...)

	// Purchases
	api.Get("/purchases", purchase.ListPurchasesHandler(db))
	api.Post("/purchases", purchase.CreatePurchaseHandler(db))

	// Time clock
	api.Get("/time-entries", timeclock.ListTimeEntriesHandler(db))
	api.Get("/time-entries/summary", timeclock.SummaryHandler(db))
	api.Post("/time-entries", timeclock.CreateTimeEntryHandler(db))

	// Accounting
	api.Get("/accounting", accounting.ListEntriesHandler(db))
	api.Post("/accounting", accounting.CreateEntryHandler(db))
	api.Put("/accounting/:id", accounting.UpdateEntryHandler(db))
	api.Delete("/accounting/:id", accounting.DeleteEntryHandler(db))

	// Audit trail
	api.Get("/audit-logs", append(adminOnly, audit.ListAuditLogsHandler(db))...)
	api.Post("/audit-logs/:id/undo", append(adminOnly, audit.UndoAuditLogHandler(db))...)

	return app
}

// GET /api/health
func healthHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "Database unavailable")
		}
		return c.JSON(fiber.Map{"ok": true})
	}
}
