package settings

import (
	"strings"
	"time"

	"alhidayah-backend/internal/apperr"
	"alhidayah-backend/internal/auth"
	"alhidayah-backend/internal/config"
	"alhidayah-backend/internal/database"
	"alhidayah-backend/internal/logger"
	"alhidayah-backend/internal/models"
	"alhidayah-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type ProfileResponse struct {
	UID   string          `json:"uid"`
	Email string          `json:"email"`
	Name  string          `json:"name"`
	Phone string          `json:"phone"`
	Role  models.UserRole `json:"role"`
}

// Email değiştirilemez, istekte gelse bile yok sayılır.
type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
}

type UpdateNotificationsRequest struct {
	NewOrders     *bool `json:"new_orders"`
	OrderUpdates  *bool `json:"order_updates"`
	DriverStatus  *bool `json:"driver_status"`
	SystemUpdates *bool `json:"system_updates"`
}

type UpdateSystemRequest struct {
	DeliveryFee *float64 `json:"delivery_fee" validate:"omitempty,gte=0"`
	MinSubtotal *float64 `json:"min_subtotal" validate:"omitempty,gte=0"`
	Currency    *string  `json:"currency" validate:"omitempty,len=3"`
	Timezone    *string  `json:"timezone"`
}

func loadProfile(c *fiber.Ctx) (*models.User, error) {
	current, err := auth.CurrentUser(c)
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := database.DB.WithContext(c.UserContext()).First(&u, "uid = ?", current.UID).Error; err != nil {
		return nil, apperr.NotFoundOr(err, "Kullanıcı bulunamadı", "Kullanıcı okunamadı")
	}
	return &u, nil
}

func profileOf(u *models.User) ProfileResponse {
	return ProfileResponse{UID: u.UID, Email: u.Email, Name: u.Name, Phone: u.Phone, Role: u.Role}
}

// GET /api/settings/profile
func GetProfileHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := loadProfile(c)
		if err != nil {
			return err
		}
		return c.JSON(profileOf(u))
	}
}

// PUT /api/settings/profile
func UpdateProfileHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateProfileRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}

		u, err := loadProfile(c)
		if err != nil {
			return err
		}

		u.Name = strings.TrimSpace(body.Name)
		u.Phone = strings.TrimSpace(body.Phone)
		err = database.DB.WithContext(c.UserContext()).
			Model(&models.User{}).
			Where("uid = ?", u.UID).
			Updates(map[string]interface{}{
				"name":       u.Name,
				"phone":      u.Phone,
				"updated_at": time.Now(),
			}).Error
		if err != nil {
			logger.GetAppLogger().WithError(err).Error("Profil güncellenemedi")
			return fiber.NewError(fiber.StatusInternalServerError, "Profil güncellenemedi")
		}

		return c.JSON(profileOf(u))
	}
}

// GET /api/settings/notifications
func GetNotificationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		current, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		p, err := Notifications(c.UserContext(), current.UID)
		if err != nil {
			logger.GetAppLogger().WithError(err).Error("Bildirim tercihleri okunamadı")
			return fiber.NewError(fiber.StatusInternalServerError, "Bildirim tercihleri okunamadı")
		}
		return c.JSON(p)
	}
}

// PUT /api/settings/notifications
func UpdateNotificationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		current, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body UpdateNotificationsRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}

		p, err := Notifications(c.UserContext(), current.UID)
		if err != nil {
			logger.GetAppLogger().WithError(err).Error("Bildirim tercihleri okunamadı")
			return fiber.NewError(fiber.StatusInternalServerError, "Bildirim tercihleri okunamadı")
		}
		if body.NewOrders != nil {
			p.NewOrders = *body.NewOrders
		}
		if body.OrderUpdates != nil {
			p.OrderUpdates = *body.OrderUpdates
		}
		if body.DriverStatus != nil {
			p.DriverStatus = *body.DriverStatus
		}
		if body.SystemUpdates != nil {
			p.SystemUpdates = *body.SystemUpdates
		}

		if err := SaveNotifications(c.UserContext(), &p); err != nil {
			logger.GetAppLogger().WithError(err).Error("Bildirim tercihleri kaydedilemedi")
			return fiber.NewError(fiber.StatusInternalServerError, "Bildirim tercihleri kaydedilemedi")
		}
		return c.JSON(p)
	}
}

// GET /api/settings/system
func GetSystemHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := System(c.UserContext(), cfg.OutletID)
		if err != nil {
			logger.GetAppLogger().WithError(err).Error("Sistem ayarları okunamadı")
			return fiber.NewError(fiber.StatusInternalServerError, "Sistem ayarları okunamadı")
		}
		return c.JSON(s)
	}
}

// PUT /api/settings/system
func UpdateSystemHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateSystemRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}

		if body.Timezone != nil {
			if _, err := time.LoadLocation(*body.Timezone); err != nil || *body.Timezone == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz saat dilimi")
			}
		}

		s, err := System(c.UserContext(), cfg.OutletID)
		if err != nil {
			logger.GetAppLogger().WithError(err).Error("Sistem ayarları okunamadı")
			return fiber.NewError(fiber.StatusInternalServerError, "Sistem ayarları okunamadı")
		}
		if body.DeliveryFee != nil {
			s.DeliveryFee = *body.DeliveryFee
		}
		if body.MinSubtotal != nil {
			s.MinSubtotal = *body.MinSubtotal
		}
		if body.Currency != nil {
			s.Currency = strings.ToUpper(*body.Currency)
		}
		if body.Timezone != nil {
			s.Timezone = *body.Timezone
		}

		if err := SaveSystem(c.UserContext(), &s); err != nil {
			logger.GetAppLogger().WithError(err).Error("Sistem ayarları kaydedilemedi")
			return fiber.NewError(fiber.StatusInternalServerError, "Sistem ayarları kaydedilemedi")
		}

		logger.GetAuditLogger().WithField("outlet_id", cfg.OutletID).Info("Sistem ayarları güncellendi")
		return c.JSON(s)
	}
}
