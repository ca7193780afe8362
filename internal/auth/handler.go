package auth

import (
	"errors"
	"strings"

	"alhidayah-backend/internal/config"
	"alhidayah-backend/internal/database"
	"alhidayah-backend/internal/logger"
	"alhidayah-backend/internal/models"
	"alhidayah-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterSuperAdminRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type FirebaseLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *SessionUser `json:"user"`
}

var (
	errNotSuperAdmin = fiber.NewError(fiber.StatusForbidden, "Yetkisiz: Bu panele sadece Super Admin erişebilir")
	errInactiveUser  = fiber.NewError(fiber.StatusForbidden, "Hesap pasif durumda")
)

// POST /api/auth/register-super-admin
// Sadece hiç super admin yokken çalışır (ilk kurulum).
func RegisterSuperAdminHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterSuperAdminRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var count int64
		if err := database.DB.WithContext(c.UserContext()).Model(&models.User{}).
			Where("role = ?", models.RoleSuperAdmin).
			Count(&count).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcılar kontrol edilemedi")
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusForbidden, "Zaten bir super admin var")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
		}

		user := models.User{
			UID:          uuid.NewString(),
			Name:         strings.TrimSpace(body.Name),
			Email:        body.Email,
			Phone:        strings.TrimSpace(body.Phone),
			Role:         models.RoleSuperAdmin,
			OutletID:     cfg.OutletID,
			PasswordHash: string(hash),
		}
		if err := database.DB.WithContext(c.UserContext()).Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(NewSessionUser(&user))
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}
		email := strings.TrimSpace(strings.ToLower(body.Email))

		var user models.User
		if err := database.DB.WithContext(c.UserContext()).Where("email = ?", email).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email veya şifre hatalı")
		}

		if user.PasswordHash == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Email veya şifre hatalı")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email veya şifre hatalı")
		}

		if user.Role != models.RoleSuperAdmin {
			logger.GetAuditLogger().WithFields(map[string]interface{}{
				"uid":  user.UID,
				"role": user.Role,
			}).Warn("Super admin olmayan kullanıcı dashboard girişi denedi")
			return errNotSuperAdmin
		}
		if !user.Active() {
			logger.GetAuditLogger().WithField("uid", user.UID).Warn("Pasif kullanıcı dashboard girişi denedi")
			return errInactiveUser
		}

		return issueSession(c, cfg, &user)
	}
}

// POST /api/auth/firebase
// Kimlik sağlayıcıda oturum açmış kullanıcının ID token'ı ile giriş.
func FirebaseLoginHandler(cfg *config.Config, verifier IDTokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if verifier == nil {
			return fiber.NewError(fiber.StatusNotImplemented, "Firebase girişi yapılandırılmamış")
		}

		var body FirebaseLoginRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}

		uid, err := verifier.VerifyUID(c.UserContext(), body.IDToken)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Geçersiz kimlik token'ı")
		}

		var user models.User
		err = database.DB.WithContext(c.UserContext()).
			Where("firebase_uid = ? OR uid = ?", uid, uid).
			First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "Kullanıcı verisi bulunamadı")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı okunamadı")
		}

		if user.Role != models.RoleSuperAdmin {
			return errNotSuperAdmin
		}
		if !user.Active() {
			return errInactiveUser
		}

		return issueSession(c, cfg, &user)
	}
}

func issueSession(c *fiber.Ctx, cfg *config.Config, user *models.User) error {
	su := NewSessionUser(user)

	sessionID, err := CreateSession(c.UserContext(), su, cfg.SessionTTL)
	if err != nil {
		logger.GetAppLogger().WithError(err).Error("Oturum oluşturulamadı")
		return fiber.NewError(fiber.StatusInternalServerError, "Oturum oluşturulamadı")
	}

	token, err := GenerateToken(cfg.JWTSecret, su, sessionID, cfg.SessionTTL)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Token oluşturulamadı")
	}

	logger.GetAuditLogger().WithField("uid", su.UID).Info("Dashboard girişi")
	return c.JSON(LoginResponse{Token: token, User: su})
}

// GET /api/auth/me
// Oturumu doğrular; kullanıcı silinmiş veya rolü değişmişse oturumu kapatır.
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		current, err := CurrentUser(c)
		if err != nil {
			return err
		}

		var user models.User
		err = database.DB.WithContext(c.UserContext()).First(&user, "uid = ?", current.UID).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı okunamadı")
		}

		if err != nil || user.Role != models.RoleSuperAdmin || !user.Active() {
			if sid, ok := c.Locals(CtxSessionIDKey).(string); ok {
				_ = DeleteSession(c.UserContext(), sid)
			}
			return fiber.NewError(fiber.StatusUnauthorized, "Oturum geçersiz")
		}

		return c.JSON(NewSessionUser(&user))
	}
}

// POST /api/auth/logout
func LogoutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid, _ := c.Locals(CtxSessionIDKey).(string)
		if sid != "" {
			if err := DeleteSession(c.UserContext(), sid); err != nil {
				logger.GetAppLogger().WithError(err).Error("Oturum silinemedi")
				return fiber.NewError(fiber.StatusInternalServerError, "Çıkış yapılamadı")
			}
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
