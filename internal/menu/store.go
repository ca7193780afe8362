package menu

import (
	"context"
	"fmt"
	"time"

	"alhidayah-backend/internal/database"
	"alhidayah-backend/internal/models"

	"gorm.io/gorm"
)

func List(ctx context.Context, outletID string) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := database.DB.WithContext(ctx).
		Where("outlet_id = ?", outletID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("menü okunamadı: %w", err)
	}
	return items, nil
}

func Get(ctx context.Context, outletID, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	err := database.DB.WithContext(ctx).
		Where("id = ? AND outlet_id = ?", id, outletID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create outlet ve oluşturulma zamanını kendisi atar.
func Create(ctx context.Context, outletID string, item *models.MenuItem) error {
	item.OutletID = outletID
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	if err := database.DB.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("menü ürünü oluşturulamadı: %w", err)
	}
	return nil
}

func Update(ctx context.Context, outletID, id string, values map[string]interface{}) error {
	values["updated_at"] = time.Now()
	res := database.DB.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("id = ? AND outlet_id = ?", id, outletID).
		Updates(values)
	return affected(res, "menü ürünü güncellenemedi")
}

// ToggleAvailability sadece is_available kolonunu yazar.
func ToggleAvailability(ctx context.Context, outletID, id string, isAvailable bool) error {
	res := database.DB.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("id = ? AND outlet_id = ?", id, outletID).
		UpdateColumn("is_available", isAvailable)
	return affected(res, "menü ürünü güncellenemedi")
}

func Delete(ctx context.Context, outletID, id string) error {
	res := database.DB.WithContext(ctx).
		Where("id = ? AND outlet_id = ?", id, outletID).
		Delete(&models.MenuItem{})
	return affected(res, "menü ürünü silinemedi")
}

// Reviews ürüne ait yorumlar, en yeni önce.
func Reviews(ctx context.Context, menuID string) ([]models.Review, error) {
	var reviews []models.Review
	err := database.DB.WithContext(ctx).
		Where("menu_id = ?", menuID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("yorumlar okunamadı: %w", err)
	}
	return reviews, nil
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
