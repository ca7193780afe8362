package apperr

import (
	"errors"

	"alhidayah-backend/internal/logger"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Handler fiber.Config.ErrorHandler olarak kullanılır.
// Tüm hatalar {"error": "..."} gövdesiyle döner.
func Handler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error": fe.Message,
		})
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Kayıt bulunamadı",
		})
	}

	logger.GetAppLogger().WithFields(map[string]interface{}{
		"method": c.Method(),
		"path":   c.Path(),
	}).WithError(err).Error("Beklenmeyen hata")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Beklenmeyen sunucu hatası",
	})
}

// NotFoundOr kayıt bulunamadıysa 404, diğer hatalarda loglayıp 500 döndürür.
func NotFoundOr(err error, notFoundMsg, failMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, notFoundMsg)
	}
	logger.GetAppLogger().WithError(err).Error(failMsg)
	return fiber.NewError(fiber.StatusInternalServerError, failMsg)
}
