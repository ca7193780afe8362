package customers

import (
	"context"
	"fmt"

	"alhidayah-backend/internal/database"
	"alhidayah-backend/internal/logger"
	"alhidayah-backend/internal/models"
)

const recentOrdersLimit = 10

// Müşteri kayıtları mobil uygulamadan gelir ve outlet'e bağlı değildir.

func List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := database.DB.WithContext(ctx).
		Where("role = ?", models.RoleCustomer).
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("müşteriler okunamadı: %w", err)
	}
	return users, nil
}

func Get(ctx context.Context, uid string) (*models.User, error) {
	var u models.User
	err := database.DB.WithContext(ctx).
		Where("uid = ? AND role = ?", uid, models.RoleCustomer).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Orders müşterinin son siparişleri. Hata durumunda boş liste döner.
func Orders(ctx context.Context, uid string) []models.Order {
	var orders []models.Order
	err := database.DB.WithContext(ctx).
		Where("user_id = ?", uid).
		Order("created_at DESC").
		Limit(recentOrdersLimit).
		Find(&orders).Error
	if err != nil {
		logger.GetAppLogger().WithError(err).WithField("uid", uid).Warn("Müşteri siparişleri okunamadı")
		return []models.Order{}
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders
}
