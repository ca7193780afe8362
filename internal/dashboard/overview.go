package dashboard

import (
	"fmt"
	"time"

	"alhidayah-backend/internal/cache"
	"alhidayah-backend/internal/config"
	"alhidayah-backend/internal/drivers"
	"alhidayah-backend/internal/logger"
	"alhidayah-backend/internal/models"
	"alhidayah-backend/internal/orders"
	"alhidayah-backend/internal/settings"

	"github.com/gofiber/fiber/v2"
)

const recentOrdersLimit = 5

type Overview struct {
	TodayOrders   int64                      `json:"today_orders"`
	TodayRevenue  float64                    `json:"today_revenue"`
	ActiveDrivers string                     `json:"active_drivers"` // "aktif / toplam"
	Drivers       drivers.ActiveCount        `json:"drivers"`
	TotalOrders   int64                      `json:"total_orders"`
	RecentOrders  []models.Order             `json:"recent_orders"`
	ByStatus      map[models.OrderStatus]int `json:"recent_by_status"`
	GeneratedAt   time.Time                  `json:"generated_at"`
}

func overviewKey(outletID string) string {
	return "dashboard:overview:" + outletID
}

// GET /api/dashboard/overview
// Sonuç kısa bir süre redis'te tutulur.
func OverviewHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		key := overviewKey(cfg.OutletID)

		var cached Overview
		if ok, err := cache.GetJSON(ctx, key, &cached); err != nil {
			logger.GetAppLogger().WithError(err).Warn("Dashboard önbelleği okunamadı")
		} else if ok {
			c.Set("X-Cache", "HIT")
			return c.JSON(cached)
		}

		loc := settings.Location(ctx, cfg.OutletID)
		today := orders.Today(ctx, cfg.OutletID, loc)
		active := drivers.CountActive(ctx, cfg.OutletID)

		total, err := orders.Count(ctx, cfg.OutletID)
		if err != nil {
			logger.GetAppLogger().WithError(err).Error("Toplam sipariş sayısı okunamadı")
			return fiber.NewError(fiber.StatusInternalServerError, "Dashboard verisi okunamadı")
		}

		recent, err := orders.List(ctx, cfg.OutletID, orders.ListFilter{Limit: recentOrdersLimit})
		if err != nil {
			logger.GetAppLogger().WithError(err).Error("Son siparişler okunamadı")
			return fiber.NewError(fiber.StatusInternalServerError, "Dashboard verisi okunamadı")
		}
		if recent == nil {
			recent = []models.Order{}
		}

		out := Overview{
			TodayOrders:   today.OrdersCount,
			TodayRevenue:  today.Revenue,
			ActiveDrivers: fmt.Sprintf("%d / %d", active.Active, active.Total),
			Drivers:       active,
			TotalOrders:   total,
			RecentOrders:  recent,
			ByStatus:      orders.ComputeStats(recent).ByStatus,
			GeneratedAt:   time.Now(),
		}

		if err := cache.SetJSON(ctx, key, out, cfg.OverviewCacheTTL); err != nil {
			logger.GetAppLogger().WithError(err).Warn("Dashboard önbelleğe yazılamadı")
		}
		c.Set("X-Cache", "MISS")
		return c.JSON(out)
	}
}
