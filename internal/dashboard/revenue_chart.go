package dashboard

import (
	"strconv"
	"time"

	"alhidayah-backend/internal/config"
	"alhidayah-backend/internal/logger"
	"alhidayah-backend/internal/models"
	"alhidayah-backend/internal/orders"
	"alhidayah-backend/internal/settings"

	"github.com/gofiber/fiber/v2"
)

const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"

	maxChartCount = 366
)

type RevenuePoint struct {
	Label   string  `json:"label"` // gün / hafta başlangıcı / ay
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

type RevenueTotals struct {
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

type RevenueChartResponse struct {
	Period      string         `json:"period"` // daily | weekly | monthly
	From        string         `json:"from"`
	To          string         `json:"to"`
	Points      []RevenuePoint `json:"points"`
	GrandTotals RevenueTotals  `json:"grand_totals"`
}

func defaultCount(period string) int {
	switch period {
	case PeriodWeekly:
		return 8
	case PeriodMonthly:
		return 12
	default:
		return 7
	}
}

// bucketStart t'nin düştüğü dönemin başlangıcı. Haftalar pazartesi başlar.
func bucketStart(period string, t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	switch period {
	case PeriodWeekly:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case PeriodMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	default:
		return day
	}
}

func nextBucket(period string, t time.Time) time.Time {
	switch period {
	case PeriodWeekly:
		return t.AddDate(0, 0, 7)
	case PeriodMonthly:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// chartRange son count dönemi kapsayan [start, end) aralığı
func chartRange(period string, count int, now time.Time) (time.Time, time.Time) {
	current := bucketStart(period, now)
	end := nextBucket(period, current)

	var start time.Time
	switch period {
	case PeriodWeekly:
		start = current.AddDate(0, 0, -7*(count-1))
	case PeriodMonthly:
		start = current.AddDate(0, -(count - 1), 0)
	default:
		start = current.AddDate(0, 0, -(count - 1))
	}
	return start, end
}

func label(period string, t time.Time) string {
	if period == PeriodMonthly {
		return t.Format("2006-01")
	}
	return t.Format("2006-01-02")
}

// BuildChart siparişleri dönemlere böler. Siparişi olmayan dönemler sıfır ile döner.
func BuildChart(period string, count int, now time.Time, list []models.Order) RevenueChartResponse {
	loc := now.Location()
	start, end := chartRange(period, count, now)

	points := make([]RevenuePoint, 0, count)
	index := make(map[time.Time]int, count)
	for b := start; b.Before(end); b = nextBucket(period, b) {
		index[b] = len(points)
		points = append(points, RevenuePoint{Label: label(period, b)})
	}

	var grand RevenueTotals
	for _, o := range list {
		b := bucketStart(period, o.CreatedAt.In(loc))
		i, ok := index[b]
		if !ok {
			continue
		}
		points[i].Revenue += o.Total
		points[i].Orders++
		grand.Revenue += o.Total
		grand.Orders++
	}

	return RevenueChartResponse{
		Period:      period,
		From:        start.Format("2006-01-02"),
		To:          end.AddDate(0, 0, -1).Format("2006-01-02"),
		Points:      points,
		GrandTotals: grand,
	}
}

// GET /api/dashboard/revenue-chart?period=daily&count=7
func RevenueChartHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		period := c.Query("period", PeriodDaily)
		switch period {
		case PeriodDaily, PeriodWeekly, PeriodMonthly:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "period daily, weekly veya monthly olmalı")
		}

		count := defaultCount(period)
		if v := c.Query("count"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 || n > maxChartCount {
				return fiber.NewError(fiber.StatusBadRequest, "count geçersiz")
			}
			count = n
		}

		ctx := c.UserContext()
		now := time.Now().In(settings.Location(ctx, cfg.OutletID))
		start, end := chartRange(period, count, now)

		list, err := orders.Totals(ctx, cfg.OutletID, start, end)
		if err != nil {
			logger.GetAppLogger().WithError(err).Error("Gelir grafiği verisi okunamadı")
			return fiber.NewError(fiber.StatusInternalServerError, "Veri toplanırken hata oluştu")
		}

		return c.JSON(BuildChart(period, count, now, list))
	}
}
