package settings

import (
	"context"
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"alhidayah-backend/internal/database"
	"alhidayah-backend/internal/logger"
	"alhidayah-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultDeliveryFee = 10
	DefaultMinSubtotal = 50
	DefaultCurrency    = "SAR"
	DefaultTimezone    = "Asia/Riyadh"
)

func DefaultSystem(outletID string) models.OutletSettings {
	return models.OutletSettings{
		OutletID:    outletID,
		DeliveryFee: DefaultDeliveryFee,
		MinSubtotal: DefaultMinSubtotal,
		Currency:    DefaultCurrency,
		Timezone:    DefaultTimezone,
	}
}

func DefaultNotifications(userID string) models.NotificationPreference {
	return models.NotificationPreference{
		UserID:        userID,
		NewOrders:     true,
		OrderUpdates:  true,
		DriverStatus:  true,
		SystemUpdates: false,
	}
}

// System kayıt yoksa varsayılan ayarları döndürür.
func System(ctx context.Context, outletID string) (models.OutletSettings, error) {
	var s models.OutletSettings
	err := database.DB.WithContext(ctx).Where("outlet_id = ?", outletID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DefaultSystem(outletID), nil
	}
	if err != nil {
		return models.OutletSettings{}, fmt.Errorf("sistem ayarları okunamadı: %w", err)
	}
	return s, nil
}

func SaveSystem(ctx context.Context, s *models.OutletSettings) error {
	s.UpdatedAt = time.Now()
	err := database.DB.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(s).Error
	if err != nil {
		return fmt.Errorf("sistem ayarları kaydedilemedi: %w", err)
	}
	return nil
}

func Notifications(ctx context.Context, userID string) (models.NotificationPreference, error) {
	var p models.NotificationPreference
	err := database.DB.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DefaultNotifications(userID), nil
	}
	if err != nil {
		return models.NotificationPreference{}, fmt.Errorf("bildirim tercihleri okunamadı: %w", err)
	}
	return p, nil
}

func SaveNotifications(ctx context.Context, p *models.NotificationPreference) error {
	p.UpdatedAt = time.Now()
	err := database.DB.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(p).Error
	if err != nil {
		return fmt.Errorf("bildirim tercihleri kaydedilemedi: %w", err)
	}
	return nil
}

// Location outlet'in saat dilimi. Okunamazsa varsayılan dilim kullanılır.
func Location(ctx context.Context, outletID string) *time.Location {
	tz := DefaultTimezone
	if s, err := System(ctx, outletID); err == nil && s.Timezone != "" {
		tz = s.Timezone
	} else if err != nil {
		logger.GetAppLogger().WithError(err).Warn("Saat dilimi okunamadı, varsayılan kullanılıyor")
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc, _ = time.LoadLocation(DefaultTimezone)
	}
	return loc
}
