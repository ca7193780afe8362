package main

import (
	"context"
	"log"
	"strings"

	"alhidayah-backend/internal/apperr"
	"alhidayah-backend/internal/audit"
	"alhidayah-backend/internal/auth"
	"alhidayah-backend/internal/cache"
	"alhidayah-backend/internal/config"
	"alhidayah-backend/internal/customers"
	"alhidayah-backend/internal/dashboard"
	"alhidayah-backend/internal/database"
	"alhidayah-backend/internal/drivers"
	"alhidayah-backend/internal/logger"
	"alhidayah-backend/internal/menu"
	"alhidayah-backend/internal/models"
	"alhidayah-backend/internal/orders"
	"alhidayah-backend/internal/promos"
	"alhidayah-backend/internal/reports"
	"alhidayah-backend/internal/settings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(&logger.LogConfig{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		Output:     cfg.LogOutput,
		LogPath:    cfg.LogPath,
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}); err != nil {
		log.Fatalf("[FATAL] Logger başlatılamadı: %v", err)
	}
	appLog := logger.GetAppLogger()

	database.Init(cfg)
	cache.Init(cfg)

	// Firebase opsiyonel, yoksa /auth/firebase 501 döner
	var verifier auth.IDTokenVerifier
	if cfg.FirebaseEnabled() {
		v, err := auth.NewFirebaseVerifier(context.Background(), cfg.FirebaseProjectID, cfg.FirebaseCredentialsPath)
		if err != nil {
			appLog.WithError(err).Warn("Firebase girişi devre dışı")
		} else {
			verifier = v
		}
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: apperr.Handler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Output: appLog.Writer(),
		Format: "${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORSOriginList(), ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-super-admin", auth.RegisterSuperAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))
	api.Post("/auth/firebase", auth.FirebaseLoginHandler(cfg, verifier))

	// Panel sadece SUPER_ADMIN içindir
	protected := api.Group("", auth.JWTMiddleware(cfg), auth.RequireRole(models.RoleSuperAdmin))

	protected.Get("/auth/me", auth.MeHandler())
	protected.Post("/auth/logout", auth.LogoutHandler())

	// Dashboard
	protected.Get("/dashboard/overview", dashboard.OverviewHandler(cfg))
	protected.Get("/dashboard/revenue-chart", dashboard.RevenueChartHandler(cfg))

	// Siparişler (sabit yollar :id'den önce)
	protected.Get("/orders", orders.ListOrdersHandler(cfg))
	protected.Get("/orders/stream", orders.StreamOrdersHandler(cfg))
	protected.Get("/orders/export.csv", orders.ExportOrdersCSVHandler(cfg))
	protected.Get("/orders/:id", orders.GetOrderHandler(cfg))
	protected.Patch("/orders/:id/status", orders.UpdateOrderStatusHandler(cfg))
	protected.Patch("/orders/:id/assign", orders.AssignDriverHandler(cfg))

	// Sürücüler
	protected.Get("/drivers", drivers.ListDriversHandler(cfg))
	protected.Get("/drivers/active-count", drivers.ActiveCountHandler(cfg))
	protected.Get("/drivers/:id", drivers.GetDriverHandler(cfg))
	protected.Get("/drivers/:id/stats", drivers.DriverStatsHandler(cfg))
	protected.Patch("/drivers/:id/status", drivers.UpdateDriverStatusHandler(cfg))
	protected.Patch("/drivers/:id", drivers.UpdateDriverHandler(cfg))

	// Müşteriler
	protected.Get("/customers", customers.ListCustomersHandler())
	protected.Get("/customers/:uid", customers.GetCustomerHandler())
	protected.Get("/customers/:uid/orders", customers.CustomerOrdersHandler())

	// Menü
	protected.Get("/menu", menu.ListMenuHandler(cfg))
	protected.Post("/menu", menu.CreateMenuItemHandler(cfg))
	protected.Get("/menu/:id", menu.GetMenuItemHandler(cfg))
	protected.Get("/menu/:id/reviews", menu.MenuReviewsHandler(cfg))
	protected.Patch("/menu/:id", menu.UpdateMenuItemHandler(cfg))
	protected.Patch("/menu/:id/availability", menu.ToggleAvailabilityHandler(cfg))
	protected.Delete("/menu/:id", menu.DeleteMenuItemHandler(cfg))

	// Promosyonlar
	protected.Get("/promos", promos.ListPromosHandler(cfg))
	protected.Post("/promos", promos.CreatePromoHandler(cfg))
	protected.Get("/promos/:id", promos.GetPromoHandler(cfg))
	protected.Get("/promos/:id/qrcode.png", promos.PromoQRCodeHandler(cfg))
	protected.Patch("/promos/:id", promos.UpdatePromoHandler(cfg))
	protected.Patch("/promos/:id/status", promos.TogglePromoStatusHandler(cfg))
	protected.Delete("/promos/:id", promos.DeletePromoHandler(cfg))

	// Raporlar
	protected.Get("/reports/summary", reports.SummaryHandler(cfg))
	protected.Get("/reports/summary.csv", reports.SummaryCSVHandler(cfg))
	protected.Get("/reports/summary.xlsx", reports.SummaryXLSXHandler(cfg))
	protected.Post("/reports/snapshots", reports.CreateSnapshotHandler(cfg))
	protected.Get("/reports/snapshots", reports.ListSnapshotsHandler(cfg))
	protected.Get("/reports/snapshots/:id", reports.GetSnapshotHandler(cfg))

	// Ayarlar
	protected.Get("/settings/profile", settings.GetProfileHandler())
	protected.Put("/settings/profile", settings.UpdateProfileHandler())
	protected.Get("/settings/notifications", settings.GetNotificationsHandler())
	protected.Put("/settings/notifications", settings.UpdateNotificationsHandler())
	protected.Get("/settings/system", settings.GetSystemHandler(cfg))
	protected.Put("/settings/system", settings.UpdateSystemHandler(cfg))

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler(cfg))
	protected.Post("/audit-logs/:id/undo", audit.UndoAuditLogHandler(cfg))

	appLog.Infof("Server çalışıyor port: %s", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		appLog.Fatal(err)
	}
}
