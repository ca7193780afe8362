package auth

import (
	"fmt"
	"strings"

	"alhidayah-backend/internal/config"
	"alhidayah-backend/internal/logger"
	"alhidayah-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey    = "user_id"
	CtxUserRoleKey  = "user_role"
	CtxSessionIDKey = "session_id"
	CtxUserKey      = "session_user"
)

// bearerToken Authorization başlığını okur. EventSource başlık gönderemediği için
// başlık yoksa access_token query parametresine bakılır.
func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		if t := c.Query("access_token"); t != "" {
			return t, nil
		}
		return "", fiber.NewError(fiber.StatusUnauthorized, "Authorization header eksik")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Authorization formatı 'Bearer <token>' olmalı")
	}
	return parts[1], nil
}

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := bearerToken(c)
		if err != nil {
			return err
		}

		token, err := jwt.ParseWithClaims(raw, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("geçersiz imzalama yöntemi")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Geçersiz veya süresi dolmuş token")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Token çözümlenemedi")
		}

		user := &SessionUser{UID: claims.UserID, Email: claims.Email, Role: claims.Role}

		// Redis varsa oturumun kapatılmamış olması gerekir
		if SessionsEnabled() {
			stored, found, err := GetSession(c.UserContext(), claims.ID)
			if err != nil {
				logger.GetAppLogger().WithError(err).Error("Oturum okunamadı")
				return fiber.NewError(fiber.StatusServiceUnavailable, "Oturum doğrulanamadı")
			}
			if !found {
				return fiber.NewError(fiber.StatusUnauthorized, "Oturum sonlandırılmış, tekrar giriş yapın")
			}
			user = stored
		}

		c.Locals(CtxUserIDKey, user.UID)
		c.Locals(CtxUserRoleKey, user.Role)
		c.Locals(CtxSessionIDKey, claims.ID)
		c.Locals(CtxUserKey, user)

		return c.Next()
	}
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(CtxUserRoleKey).(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
		}

		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "Bu işlem için yetkiniz yok")
	}
}

// CurrentUser JWTMiddleware'in context'e koyduğu kullanıcı
func CurrentUser(c *fiber.Ctx) (*SessionUser, error) {
	user, ok := c.Locals(CtxUserKey).(*SessionUser)
	if !ok || user == nil {
		return nil, fiber.NewError(fiber.StatusForbidden, "Kullanıcı bilgisi alınamadı")
	}
	return user, nil
}
