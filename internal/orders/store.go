package orders

import (
	"context"
	"fmt"
	"time"

	"alhidayah-backend/internal/database"
	"alhidayah-backend/internal/logger"
	"alhidayah-backend/internal/models"

	"gorm.io/gorm"
)

// StreamLimit canlı akışta gönderilen en yeni sipariş sayısı
const StreamLimit = 50

type ListFilter struct {
	Status     models.OrderStatus
	StartDate  *time.Time
	EndDate    *time.Time
	CustomerID string
	DriverID   string
	Limit      int
}

type TodayStats struct {
	OrdersCount int64   `json:"orders_count"`
	Revenue     float64 `json:"revenue"`
}

// List siparişleri kalemleriyle birlikte en yeniden eskiye döndürür.
func List(ctx context.Context, outletID string, f ListFilter) ([]models.Order, error) {
	q := database.DB.WithContext(ctx).
		Preload("Items").
		Where("outlet_id = ?", outletID)

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.StartDate != nil {
		q = q.Where("created_at >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("created_at <= ?", *f.EndDate)
	}
	if f.CustomerID != "" {
		q = q.Where("user_id = ?", f.CustomerID)
	}
	if f.DriverID != "" {
		q = q.Where("assigned_driver_id = ?", f.DriverID)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var orders []models.Order
	if err := q.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("siparişler okunamadı: %w", err)
	}
	return orders, nil
}

// Get bulunamazsa gorm.ErrRecordNotFound döner.
func Get(ctx context.Context, outletID, id string) (*models.Order, error) {
	var order models.Order
	err := database.DB.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND outlet_id = ?", id, outletID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func UpdateStatus(ctx context.Context, outletID, id string, status models.OrderStatus) error {
	return update(ctx, outletID, id, map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
}

// AssignDriver siparişi sürücüye bağlar ve durumu ASSIGNED yapar.
func AssignDriver(ctx context.Context, outletID, id, driverID, driverName string) error {
	return update(ctx, outletID, id, map[string]interface{}{
		"assigned_driver_id":   driverID,
		"assigned_driver_name": driverName,
		"status":               models.OrderStatusAssigned,
		"updated_at":           time.Now(),
	})
}

func update(ctx context.Context, outletID, id string, values map[string]interface{}) error {
	res := database.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND outlet_id = ?", id, outletID).
		Updates(values)
	if res.Error != nil {
		return fmt.Errorf("sipariş güncellenemedi: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Today verilen saat diliminde bugünün başlangıcından itibaren iptal edilmemiş
// siparişlerin sayısı ve cirosu. Hata durumunda sıfır döner.
func Today(ctx context.Context, outletID string, loc *time.Location) TodayStats {
	now := time.Now().In(loc)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	var stats TodayStats
	err := database.DB.WithContext(ctx).
		Model(&models.Order{}).
		Select("COUNT(*) AS orders_count, COALESCE(SUM(total), 0) AS revenue").
		Where("outlet_id = ? AND created_at >= ? AND status <> ?", outletID, midnight, models.OrderStatusCancelled).
		Scan(&stats).Error
	if err != nil {
		logger.GetAppLogger().WithError(err).Warn("Bugünün sipariş istatistikleri okunamadı")
		return TodayStats{}
	}
	return stats
}

func Count(ctx context.Context, outletID string) (int64, error) {
	var n int64
	err := database.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("outlet_id = ?", outletID).
		Count(&n).Error
	return n, err
}

// Totals tarih aralığındaki iptal edilmemiş siparişlerin oluşturulma zamanı ve tutarı.
// Gelir grafiği bu satırları dönemlere böler.
func Totals(ctx context.Context, outletID string, from, to time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := database.DB.WithContext(ctx).
		Select("id", "total", "created_at").
		Where("outlet_id = ? AND created_at >= ? AND created_at < ? AND status <> ?",
			outletID, from, to, models.OrderStatusCancelled).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("sipariş tutarları okunamadı: %w", err)
	}
	return orders, nil
}
