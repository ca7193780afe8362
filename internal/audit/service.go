package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"alhidayah-backend/internal/auth"
	"alhidayah-backend/internal/database"
	"alhidayah-backend/internal/logger"
	"alhidayah-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	EntityOrder    = "order"
	EntityDriver   = "driver"
	EntityMenuItem = "menu_item"
	EntityPromo    = "promo"
	EntityReport   = "report_snapshot"
)

var (
	ErrAlreadyUndone = errors.New("bu işlem zaten geri alınmış")
	ErrNotUndoable   = errors.New("bu işlem türü geri alınamaz")
	ErrEntityMissing = errors.New("kayıt artık mevcut değil")
)

type LogOptions struct {
	OutletID    string
	UserID      string
	UserName    string
	EntityType  string
	EntityID    string
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

func toJSON(v any) datatypes.JSON {
	// jsonb kolonuna boş değer yerine "null" yazılır
	if v == nil {
		return datatypes.JSON("null")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(b)
}

func WriteLog(ctx context.Context, opts LogOptions) error {
	log := models.AuditLog{
		OutletID:    opts.OutletID,
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  toJSON(opts.Before),
		AfterData:   toJSON(opts.After),
	}

	if err := database.DB.WithContext(ctx).Create(&log).Error; err != nil {
		return fmt.Errorf("audit log kaydedilemedi: %w", err)
	}
	return nil
}

// Record işlemi yapan dashboard kullanıcısını context'ten alıp log yazar.
// Log yazılamazsa istek başarısız sayılmaz.
func Record(c *fiber.Ctx, opts LogOptions) {
	if u, err := auth.CurrentUser(c); err == nil {
		opts.UserID = u.UID
		opts.UserName = u.Name
	}

	if err := WriteLog(c.UserContext(), opts); err != nil {
		logger.GetAppLogger().WithError(err).WithFields(map[string]interface{}{
			"entity_type": opts.EntityType,
			"entity_id":   opts.EntityID,
		}).Error("Audit log yazılamadı")
		return
	}

	logger.GetAuditLogger().WithFields(map[string]interface{}{
		"uid":         opts.UserID,
		"entity_type": opts.EntityType,
		"entity_id":   opts.EntityID,
		"action":      opts.Action,
	}).Info(opts.Description)
}

// UndoLog bir audit kaydını geri alır ve geri alma işlemi için yeni bir kayıt yazar.
// Tüm yazmalar tek transaction içindedir, log satırı FOR UPDATE ile kilitlenir.
func UndoLog(ctx context.Context, outletID string, logID uint, userID, userName string) (*models.AuditLog, error) {
	var log models.AuditLog

	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&log, "id = ? AND outlet_id = ?", logID, outletID).Error; err != nil {
			return err
		}

		if log.IsUndone {
			return ErrAlreadyUndone
		}

		switch log.Action {
		case models.AuditActionCreate:
			if err := deleteEntity(tx, outletID, log.EntityType, log.EntityID); err != nil {
				return fmt.Errorf("kayıt silinemedi: %w", err)
			}
		case models.AuditActionUpdate:
			if err := restoreEntity(tx, outletID, log.EntityType, log.EntityID, log.BeforeData); err != nil {
				return fmt.Errorf("kayıt geri yüklenemedi: %w", err)
			}
		case models.AuditActionDelete:
			if err := recreateEntity(tx, log.EntityType, log.BeforeData); err != nil {
				return fmt.Errorf("kayıt geri oluşturulamadı: %w", err)
			}
		default:
			return ErrNotUndoable
		}

		now := time.Now()
		if err := tx.Model(&models.AuditLog{}).Where("id = ?", log.ID).Updates(map[string]interface{}{
			"is_undone": true,
			"undone_by": userID,
			"undone_at": now,
		}).Error; err != nil {
			return fmt.Errorf("log güncellenemedi: %w", err)
		}
		log.IsUndone = true
		log.UndoneBy = &userID
		log.UndoneAt = &now

		undoLog := models.AuditLog{
			OutletID:    log.OutletID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  log.EntityType,
			EntityID:    log.EntityID,
			Action:      models.AuditActionUndo,
			Description: fmt.Sprintf("Geri alındı: %s", log.Description),
			BeforeData:  log.AfterData,
			AfterData:   log.BeforeData,
		}
		if err := tx.Create(&undoLog).Error; err != nil {
			return fmt.Errorf("undo log kaydedilemedi: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func deleteEntity(db *gorm.DB, outletID, entityType, entityID string) error {
	var res *gorm.DB
	switch entityType {
	case EntityMenuItem:
		res = db.Where("id = ? AND outlet_id = ?", entityID, outletID).Delete(&models.MenuItem{})
	case EntityPromo:
		res = db.Where("id = ? AND outlet_id = ?", entityID, outletID).Delete(&models.Promo{})
	default:
		return ErrNotUndoable
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrEntityMissing
	}
	return nil
}

func recreateEntity(db *gorm.DB, entityType string, data datatypes.JSON) error {
	switch entityType {
	case EntityMenuItem:
		var item models.MenuItem
		if err := json.Unmarshal(data, &item); err != nil {
			return err
		}
		return db.Create(&item).Error
	case EntityPromo:
		var promo models.Promo
		if err := json.Unmarshal(data, &promo); err != nil {
			return err
		}
		return db.Create(&promo).Error
	default:
		return ErrNotUndoable
	}
}

func restoreEntity(db *gorm.DB, outletID, entityType, entityID string, data datatypes.JSON) error {
	var (
		model   any
		updates map[string]interface{}
	)

	switch entityType {
	case EntityOrder:
		var o models.Order
		if err := json.Unmarshal(data, &o); err != nil {
			return err
		}
		model = &models.Order{}
		updates = map[string]interface{}{
			"status":               o.Status,
			"assigned_driver_id":   o.AssignedDriverID,
			"assigned_driver_name": o.AssignedDriverName,
			"updated_at":           time.Now(),
		}
	case EntityDriver:
		var d models.Driver
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		model = &models.Driver{}
		updates = map[string]interface{}{
			"name":           d.Name,
			"phone":          d.Phone,
			"email":          d.Email,
			"vehicle_type":   d.VehicleType,
			"vehicle_number": d.VehicleNumber,
			"photo":          d.Photo,
			"status":         d.Status,
			"updated_at":     time.Now(),
		}
	case EntityMenuItem:
		var m models.MenuItem
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		model = &models.MenuItem{}
		updates = map[string]interface{}{
			"name":         m.Name,
			"description":  m.Description,
			"price":        m.Price,
			"category":     m.Category,
			"image_url":    m.ImageURL,
			"is_active":    m.IsActive,
			"is_available": m.IsAvailable,
			"updated_at":   time.Now(),
		}
	case EntityPromo:
		var p models.Promo
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		model = &models.Promo{}
		updates = map[string]interface{}{
			"title":        p.Title,
			"description":  p.Description,
			"type":         p.Type,
			"value":        p.Value,
			"min_subtotal": p.MinSubtotal,
			"max_discount": p.MaxDiscount,
			"is_active":    p.IsActive,
		}
	default:
		return ErrNotUndoable
	}

	res := db.Model(model).Where("id = ? AND outlet_id = ?", entityID, outletID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrEntityMissing
	}
	return nil
}
