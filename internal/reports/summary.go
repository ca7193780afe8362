package reports

import (
	"fmt"
	"math"
	"time"

	"alhidayah-backend/internal/models"
)

const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
	PeriodAll   = "all"
)

// Summary rapor sayfasındaki özet kartlar
type Summary struct {
	Period           string  `json:"period"`
	From             string  `json:"from,omitempty"`
	TotalOrders      int     `json:"total_orders"`
	CompletedOrders  int     `json:"completed_orders"`
	CancelledOrders  int     `json:"cancelled_orders"`
	TotalRevenue     float64 `json:"total_revenue"`
	AvgOrderValue    float64 `json:"avg_order_value"`
	TotalDrivers     int     `json:"total_drivers"`
	CompletionRate   float64 `json:"completion_rate"`   // yüzde
	CancellationRate float64 `json:"cancellation_rate"` // yüzde
}

// PeriodStart dönemin başlangıcını loc'a göre hesaplar. "all" için nil döner.
func PeriodStart(period string, now time.Time) (*time.Time, error) {
	loc := now.Location()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	var start time.Time
	switch period {
	case PeriodToday:
		start = midnight
	case PeriodWeek:
		// hafta pazartesi başlar
		offset := (int(midnight.Weekday()) + 6) % 7
		start = midnight.AddDate(0, 0, -offset)
	case PeriodMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	case PeriodYear:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)
	case PeriodAll:
		return nil, nil
	default:
		return nil, fmt.Errorf("bilinmeyen dönem: %s", period)
	}
	return &start, nil
}

// Summarize tamamlanan (DELIVERED) siparişlerden ciro ve ortalama sepet tutarını,
// tüm listeden tamamlanma/iptal oranlarını hesaplar.
func Summarize(list []models.Order, driverCount int) Summary {
	s := Summary{
		TotalOrders:  len(list),
		TotalDrivers: driverCount,
	}
	for _, o := range list {
		switch o.Status {
		case models.OrderStatusDelivered:
			s.CompletedOrders++
			s.TotalRevenue += o.Total
		case models.OrderStatusCancelled:
			s.CancelledOrders++
		}
	}
	if s.CompletedOrders > 0 {
		s.AvgOrderValue = round2(s.TotalRevenue / float64(s.CompletedOrders))
	}
	if s.TotalOrders > 0 {
		s.CompletionRate = round1(float64(s.CompletedOrders) * 100 / float64(s.TotalOrders))
		s.CancellationRate = round1(float64(s.CancelledOrders) * 100 / float64(s.TotalOrders))
	}
	s.TotalRevenue = round2(s.TotalRevenue)
	return s
}

// CountByStatus her durum için sipariş sayısı. Listede olmayan durumlar 0 ile yer alır.
func CountByStatus(list []models.Order) map[models.OrderStatus]int {
	out := make(map[models.OrderStatus]int, len(models.OrderStatuses))
	for _, s := range models.OrderStatuses {
		out[s] = 0
	}
	for _, o := range list {
		out[o.Status]++
	}
	return out
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
