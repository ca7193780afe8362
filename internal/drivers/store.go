package drivers

import (
	"context"
	"fmt"
	"time"

	"alhidayah-backend/internal/database"
	"alhidayah-backend/internal/logger"
	"alhidayah-backend/internal/models"

	"gorm.io/gorm"
)

type ActiveCount struct {
	Active int64 `json:"active"`
	Total  int64 `json:"total"`
}

// Performance sürücü detay kartındaki performans özeti
type Performance struct {
	TotalDeliveries   int                   `json:"total_deliveries"`
	MonthlyDeliveries int                   `json:"monthly_deliveries"`
	Rating            float64               `json:"rating"`
	Earnings          models.DriverEarnings `json:"earnings"`
	DeliveredOrders   int64                 `json:"delivered_orders"`
}

func List(ctx context.Context, outletID string, status models.DriverStatus) ([]models.Driver, error) {
	q := database.DB.WithContext(ctx).Where("outlet_id = ?", outletID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var drivers []models.Driver
	if err := q.Order("created_at DESC").Find(&drivers).Error; err != nil {
		return nil, fmt.Errorf("sürücüler okunamadı: %w", err)
	}
	return drivers, nil
}

func Get(ctx context.Context, outletID, id string) (*models.Driver, error) {
	var d models.Driver
	if err := database.DB.WithContext(ctx).
		Where("id = ? AND outlet_id = ?", id, outletID).
		First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// CountActive müsait sürücü sayısı / toplam. Hata durumunda sıfır döner.
func CountActive(ctx context.Context, outletID string) ActiveCount {
	var out ActiveCount
	err := database.DB.WithContext(ctx).
		Model(&models.Driver{}).
		Select("COUNT(*) FILTER (WHERE status = ?) AS active, COUNT(*) AS total", models.DriverStatusAvailable).
		Where("outlet_id = ?", outletID).
		Scan(&out).Error
	if err != nil {
		logger.GetAppLogger().WithError(err).Warn("Aktif sürücü sayısı okunamadı")
		return ActiveCount{}
	}
	return out
}

func UpdateStatus(ctx context.Context, outletID, id string, status models.DriverStatus) error {
	return Update(ctx, outletID, id, map[string]interface{}{"status": status})
}

// Update sadece verilen alanları yazar.
func Update(ctx context.Context, outletID, id string, values map[string]interface{}) error {
	if len(values) == 0 {
		return nil
	}
	values["updated_at"] = time.Now()

	res := database.DB.WithContext(ctx).
		Model(&models.Driver{}).
		Where("id = ? AND outlet_id = ?", id, outletID).
		Updates(values)
	if res.Error != nil {
		return fmt.Errorf("sürücü güncellenemedi: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetPerformance sürücü bulunamazsa veya okuma hatası olursa gorm.ErrRecordNotFound döner.
func GetPerformance(ctx context.Context, outletID, id string) (*Performance, error) {
	d, err := Get(ctx, outletID, id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}

	var delivered int64
	err = database.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("outlet_id = ? AND assigned_driver_id = ? AND status = ?", outletID, id, models.OrderStatusDelivered).
		Count(&delivered).Error
	if err != nil {
		logger.GetAppLogger().WithError(err).WithField("driver_id", id).Warn("Sürücü teslimatları sayılamadı")
		return nil, gorm.ErrRecordNotFound
	}

	return &Performance{
		TotalDeliveries:   d.TotalDeliveries,
		MonthlyDeliveries: d.MonthlyDeliveries,
		Rating:            d.Rating,
		Earnings:          d.CurrentMonthEarnings,
		DeliveredOrders:   delivered,
	}, nil
}
