package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Hata mesajlarında Go alan adı yerine JSON adını göster
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseBody gövdeyi dst'ye çözer ve validate tag'lerini kontrol eder.
func ParseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
	}
	return Struct(dst)
}

// Struct validate hatalarını 400 fiber hatasına çevirir.
func Struct(v any) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s zorunlu", fe.Field()))
		case "oneof":
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s geçersiz (%s)", fe.Field(), strings.ReplaceAll(fe.Param(), " ", "|")))
		default:
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s geçersiz", fe.Field()))
		}
	}
	return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
}
