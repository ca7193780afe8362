package audit

import (
	"errors"
	"strconv"

	"alhidayah-backend/internal/auth"
	"alhidayah-backend/internal/config"
	"alhidayah-backend/internal/database"
	"alhidayah-backend/internal/logger"
	"alhidayah-backend/internal/models"
	"alhidayah-backend/internal/realtime"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

type AuditLogResponse struct {
	ID          uint               `json:"id"`
	CreatedAt   string             `json:"created_at"`
	UserID      string             `json:"user_id"`
	UserName    string             `json:"user_name"`
	EntityType  string             `json:"entity_type"`
	EntityID    string             `json:"entity_id"`
	Action      models.AuditAction `json:"action"`
	Description string             `json:"description"`
	IsUndone    bool               `json:"is_undone"`
	UndoneBy    *string            `json:"undone_by"`
	UndoneAt    *string            `json:"undone_at"`
}

func toResponse(log models.AuditLog) AuditLogResponse {
	var undoneAt *string
	if log.UndoneAt != nil {
		formatted := log.UndoneAt.Format("2006-01-02 15:04:05")
		undoneAt = &formatted
	}
	return AuditLogResponse{
		ID:          log.ID,
		CreatedAt:   log.CreatedAt.Format("2006-01-02 15:04:05"),
		UserID:      log.UserID,
		UserName:    log.UserName,
		EntityType:  log.EntityType,
		EntityID:    log.EntityID,
		Action:      log.Action,
		Description: log.Description,
		IsUndone:    log.IsUndone,
		UndoneBy:    log.UndoneBy,
		UndoneAt:    undoneAt,
	}
}

// GET /api/audit-logs?entity_type=promo&entity_id=...&user_id=...&limit=100
func ListAuditLogsHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.WithContext(c.UserContext()).
			Model(&models.AuditLog{}).
			Where("outlet_id = ?", cfg.OutletID)

		if v := c.Query("entity_type"); v != "" {
			dbq = dbq.Where("entity_type = ?", v)
		}
		if v := c.Query("entity_id"); v != "" {
			dbq = dbq.Where("entity_id = ?", v)
		}
		if v := c.Query("user_id"); v != "" {
			dbq = dbq.Where("user_id = ?", v)
		}

		limit := c.QueryInt("limit", defaultListLimit)
		if limit <= 0 || limit > maxListLimit {
			limit = defaultListLimit
		}

		var logs []models.AuditLog
		if err := dbq.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
			logger.GetAppLogger().WithError(err).Error("Audit loglar listelenemedi")
			return fiber.NewError(fiber.StatusInternalServerError, "Loglar listelenemedi")
		}

		resp := make([]AuditLogResponse, 0, len(logs))
		for _, log := range logs {
			resp = append(resp, toResponse(log))
		}
		return c.JSON(resp)
	}
}

// POST /api/audit-logs/:id/undo
func UndoAuditLogHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		logID, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil || logID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz log ID")
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		log, err := UndoLog(c.UserContext(), cfg.OutletID, uint(logID), user.UID, user.Name)
		switch {
		case err == nil:
		case errors.Is(err, gorm.ErrRecordNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Log bulunamadı")
		case errors.Is(err, ErrAlreadyUndone), errors.Is(err, ErrNotUndoable), errors.Is(err, ErrEntityMissing):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		default:
			logger.GetAppLogger().WithError(err).WithField("log_id", logID).Error("Undo başarısız")
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem geri alınamadı")
		}

		if log.EntityType == EntityOrder {
			realtime.PublishOrderChanged(c.UserContext(), cfg.OutletID, log.EntityID)
		}

		logger.GetAuditLogger().WithFields(map[string]interface{}{
			"uid":    user.UID,
			"log_id": log.ID,
		}).Info("Audit işlemi geri alındı")

		return c.JSON(fiber.Map{
			"message": "İşlem başarıyla geri alındı",
			"log":     toResponse(*log),
		})
	}
}
