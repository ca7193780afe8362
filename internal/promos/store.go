package promos

import (
	"context"
	"fmt"
	"time"

	"alhidayah-backend/internal/database"
	"alhidayah-backend/internal/models"

	"gorm.io/gorm"
)

// List isActive nil ise tüm promosyonları döndürür.
func List(ctx context.Context, outletID string, isActive *bool) ([]models.Promo, error) {
	q := database.DB.WithContext(ctx).Where("outlet_id = ?", outletID)
	if isActive != nil {
		q = q.Where("is_active = ?", *isActive)
	}

	var promos []models.Promo
	if err := q.Order("created_at DESC").Find(&promos).Error; err != nil {
		return nil, fmt.Errorf("promosyonlar okunamadı: %w", err)
	}
	return promos, nil
}

func Get(ctx context.Context, outletID, id string) (*models.Promo, error) {
	var p models.Promo
	err := database.DB.WithContext(ctx).
		Where("id = ? AND outlet_id = ?", id, outletID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func Create(ctx context.Context, outletID string, p *models.Promo) error {
	now := time.Now()
	p.OutletID = outletID
	p.CreatedAt = &now
	if err := database.DB.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("promosyon oluşturulamadı: %w", err)
	}
	return nil
}

func Update(ctx context.Context, outletID, id string, values map[string]interface{}) error {
	res := database.DB.WithContext(ctx).
		Model(&models.Promo{}).
		Where("id = ? AND outlet_id = ?", id, outletID).
		Updates(values)
	return affected(res, "promosyon güncellenemedi")
}

// ToggleStatus sadece is_active kolonunu yazar.
func ToggleStatus(ctx context.Context, outletID, id string, isActive bool) error {
	res := database.DB.WithContext(ctx).
		Model(&models.Promo{}).
		Where("id = ? AND outlet_id = ?", id, outletID).
		UpdateColumn("is_active", isActive)
	return affected(res, "promosyon güncellenemedi")
}

func Delete(ctx context.Context, outletID, id string) error {
	res := database.DB.WithContext(ctx).
		Where("id = ? AND outlet_id = ?", id, outletID).
		Delete(&models.Promo{})
	return affected(res, "promosyon silinemedi")
}

func affected(res *gorm.DB, msg string) error {
	if res.Error != nil {
		return fmt.Errorf("%s: %w", msg, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
