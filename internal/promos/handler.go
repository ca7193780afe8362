package promos

import (
	"errors"
	"strings"

	"alhidayah-backend/internal/apperr"
	"alhidayah-backend/internal/audit"
	"alhidayah-backend/internal/config"
	"alhidayah-backend/internal/logger"
	"alhidayah-backend/internal/models"
	"alhidayah-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// PromoView promosyon ve hesaplanmış indirim etiketi
type PromoView struct {
	models.Promo
	ValueLabel string `json:"value_label"`
}

type ListResponse struct {
	Items []PromoView `json:"items"`
	Stats Stats       `json:"stats"`
}

type CreatePromoRequest struct {
	Title       string           `json:"title" validate:"required"`
	Description string           `json:"description"`
	Type        models.PromoType `json:"type" validate:"required,oneof=PERCENT FIXED FREE_DELIVERY"`
	Value       float64          `json:"value" validate:"gte=0"`
	MinSubtotal float64          `json:"min_subtotal" validate:"gte=0"`
	MaxDiscount float64          `json:"max_discount" validate:"gte=0"`
	IsActive    *bool            `json:"is_active"`
}

type UpdatePromoRequest struct {
	Title       *string           `json:"title" validate:"omitempty,min=1"`
	Description *string           `json:"description"`
	Type        *models.PromoType `json:"type" validate:"omitempty,oneof=PERCENT FIXED FREE_DELIVERY"`
	Value       *float64          `json:"value" validate:"omitempty,gte=0"`
	MinSubtotal *float64          `json:"min_subtotal" validate:"omitempty,gte=0"`
	MaxDiscount *float64          `json:"max_discount" validate:"omitempty,gte=0"`
	IsActive    *bool             `json:"is_active"`
}

func (r UpdatePromoRequest) values() map[string]interface{} {
	out := map[string]interface{}{}
	if r.Title != nil {
		out["title"] = strings.TrimSpace(*r.Title)
	}
	if r.Description != nil {
		out["description"] = *r.Description
	}
	if r.Type != nil {
		out["type"] = *r.Type
	}
	if r.Value != nil {
		out["value"] = *r.Value
	}
	if r.MinSubtotal != nil {
		out["min_subtotal"] = *r.MinSubtotal
	}
	if r.MaxDiscount != nil {
		out["max_discount"] = *r.MaxDiscount
	}
	if r.IsActive != nil {
		out["is_active"] = *r.IsActive
	}
	return out
}

type ToggleStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

func checkPercent(t models.PromoType, v float64) error {
	if t == models.PromoTypePercent && v > 100 {
		return fiber.NewError(fiber.StatusBadRequest, "Yüzde indirim 100'ü geçemez")
	}
	return nil
}

func view(p models.Promo) PromoView {
	return PromoView{Promo: p, ValueLabel: ValueLabel(p)}
}

// GET /api/promos?status=ACTIVE&search=ramadan
func ListPromosHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		isActive, err := ParseStatus(c.Query("status"))
		if err != nil {
			return err
		}

		list, err := List(c.UserContext(), cfg.OutletID, isActive)
		if err != nil {
			logger.GetAppLogger().WithError(err).Error("Promosyonlar listelenemedi")
			return fiber.NewError(fiber.StatusInternalServerError, "Promosyonlar listelenemedi")
		}

		filtered := Search(list, c.Query("search"))
		items := make([]PromoView, 0, len(filtered))
		for _, p := range filtered {
			items = append(items, view(p))
		}
		return c.JSON(ListResponse{Items: items, Stats: ComputeStats(filtered)})
	}
}

// GET /api/promos/:id
func GetPromoHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := Get(c.UserContext(), cfg.OutletID, c.Params("id"))
		if err != nil {
			return apperr.NotFoundOr(err, "Promosyon bulunamadı", "Promosyon okunamadı")
		}
		return c.JSON(view(*p))
	}
}

// GET /api/promos/:id/qrcode.png?size=256
func PromoQRCodeHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := Get(c.UserContext(), cfg.OutletID, c.Params("id"))
		if err != nil {
			return apperr.NotFoundOr(err, "Promosyon bulunamadı", "Promosyon okunamadı")
		}

		png, err := QRCode(p.ID, c.QueryInt("size", defaultQRSize))
		if err != nil {
			logger.GetAppLogger().WithError(err).Error("QR kod üretilemedi")
			return fiber.NewError(fiber.StatusInternalServerError, "QR kod üretilemedi")
		}

		c.Set(fiber.HeaderContentType, "image/png")
		c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
		return c.Send(png)
	}
}

// POST /api/promos
func CreatePromoHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePromoRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}
		if err := checkPercent(body.Type, body.Value); err != nil {
			return err
		}

		p := models.Promo{
			ID:          uuid.NewString(),
			Title:       strings.TrimSpace(body.Title),
			Description: body.Description,
			Type:        body.Type,
			Value:       body.Value,
			MinSubtotal: body.MinSubtotal,
			MaxDiscount: body.MaxDiscount,
			IsActive:    body.IsActive == nil || *body.IsActive,
		}
		if err := Create(c.UserContext(), cfg.OutletID, &p); err != nil {
			logger.GetAppLogger().WithError(err).Error("Promosyon oluşturulamadı")
			return fiber.NewError(fiber.StatusInternalServerError, "Promosyon oluşturulamadı")
		}

		audit.Record(c, audit.LogOptions{
			OutletID:    cfg.OutletID,
			EntityType:  audit.EntityPromo,
			EntityID:    p.ID,
			Action:      models.AuditActionCreate,
			Description: "Promosyon eklendi: " + p.Title,
			After:       p,
		})

		return c.Status(fiber.StatusCreated).JSON(view(p))
	}
}

// PATCH /api/promos/:id
func UpdatePromoHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdatePromoRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}
		values := body.values()
		if len(values) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Güncellenecek alan yok")
		}

		return mutate(c, cfg, "Promosyon güncellendi", func(before *models.Promo) error {
			t, v := before.Type, before.Value
			if body.Type != nil {
				t = *body.Type
			}
			if body.Value != nil {
				v = *body.Value
			}
			if err := checkPercent(t, v); err != nil {
				return err
			}
			return Update(c.UserContext(), cfg.OutletID, before.ID, values)
		})
	}
}

// PATCH /api/promos/:id/status
func TogglePromoStatusHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ToggleStatusRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}

		desc := "Promosyon pasifleştirildi"
		if *body.IsActive {
			desc = "Promosyon aktifleştirildi"
		}
		return mutate(c, cfg, desc, func(before *models.Promo) error {
			return ToggleStatus(c.UserContext(), cfg.OutletID, before.ID, *body.IsActive)
		})
	}
}

// DELETE /api/promos/:id
func DeletePromoHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		before, err := Get(c.UserContext(), cfg.OutletID, id)
		if err != nil {
			return apperr.NotFoundOr(err, "Promosyon bulunamadı", "Promosyon okunamadı")
		}

		if err := Delete(c.UserContext(), cfg.OutletID, id); err != nil {
			return apperr.NotFoundOr(err, "Promosyon bulunamadı", "Promosyon silinemedi")
		}

		audit.Record(c, audit.LogOptions{
			OutletID:    cfg.OutletID,
			EntityType:  audit.EntityPromo,
			EntityID:    id,
			Action:      models.AuditActionDelete,
			Description: "Promosyon silindi: " + before.Title,
			Before:      before,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func mutate(c *fiber.Ctx, cfg *config.Config, description string, write func(before *models.Promo) error) error {
	ctx := c.UserContext()
	id := c.Params("id")

	before, err := Get(ctx, cfg.OutletID, id)
	if err != nil {
		return apperr.NotFoundOr(err, "Promosyon bulunamadı", "Promosyon okunamadı")
	}

	if err := write(before); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return err
		}
		return apperr.NotFoundOr(err, "Promosyon bulunamadı", "Promosyon güncellenemedi")
	}

	after, err := Get(ctx, cfg.OutletID, id)
	if err != nil {
		return apperr.NotFoundOr(err, "Promosyon bulunamadı", "Promosyon okunamadı")
	}

	audit.Record(c, audit.LogOptions{
		OutletID:    cfg.OutletID,
		EntityType:  audit.EntityPromo,
		EntityID:    id,
		Action:      models.AuditActionUpdate,
		Description: description,
		Before:      before,
		After:       after,
	})

	return c.JSON(view(*after))
}
