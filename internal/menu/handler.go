package menu

import (
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

type ListResponse struct {
	Items      []models.MenuItem `json:"items"`
	Stats      Stats             `json:"stats"`
	Categories []string          `json:"categories"`
}

type CreateMenuItemRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category" validate:"required"`
	ImageURL    string  `json:"image_url"`
	IsActive    *bool   `json:"is_active"`
	IsAvailable *bool   `json:"is_available"`
}

type UpdateMenuItemRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Category    *string  `json:"category" validate:"omitempty,min=1"`
	ImageURL    *string  `json:"image_url"`
	IsActive    *bool    `json:"is_active"`
	IsAvailable *bool    `json:"is_available"`
}

func (r UpdateMenuItemRequest) values() map[string]interface{} {
	out := map[string]interface{}{}
	if r.Name != nil {
		out["name"] = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		out["description"] = *r.Description
	}
	if r.Price != nil {
		out["price"] = *r.Price
	}
	if r.Category != nil {
		out["category"] = strings.TrimSpace(*r.Category)
	}
	if r.ImageURL != nil {
		out["image_url"] = *r.ImageURL
	}
	if r.IsActive != nil {
		out["is_active"] = *r.IsActive
	}
	if r.IsAvailable != nil {
		out["is_available"] = *r.IsAvailable
	}
	return out
}

type ToggleAvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// GET /api/menu?search=kabsa&category=Main
func ListMenuHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		all, err := List(c.UserContext(), cfg.OutletID)
		if err != nil {
			logger.GetAppLogger().WithError(err).Error("Menü listelenemedi")
			return fiber.NewError(fiber.StatusInternalServerError, "Menü listelenemedi")
		}

		items := Filter(all, c.Query("search"), c.Query("category"))
		return c.JSON(ListResponse{
			Items:      items,
			Stats:      ComputeStats(items),
			Categories: Categories(all),
		})
	}
}

// GET /api/menu/:id
func GetMenuItemHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		item, err := Get(c.UserContext(), cfg.OutletID, c.Params("id"))
		if err != nil {
			return apperr.NotFoundOr(err, "Menü ürünü bulunamadı", "Menü ürünü okunamadı")
		}
		return c.JSON(item)
	}
}

// GET /api/menu/:id/reviews
func MenuReviewsHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := Get(c.UserContext(), cfg.OutletID, id); err != nil {
			return apperr.NotFoundOr(err, "Menü ürünü bulunamadı", "Menü ürünü okunamadı")
		}

		reviews, err := Reviews(c.UserContext(), id)
		if err != nil {
			logger.GetAppLogger().WithError(err).Error("Yorumlar listelenemedi")
			return fiber.NewError(fiber.StatusInternalServerError, "Yorumlar listelenemedi")
		}
		return c.JSON(reviews)
	}
}

// POST /api/menu
func CreateMenuItemHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMenuItemRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}

		item := models.MenuItem{
			ID:          uuid.NewString(),
			Name:        strings.TrimSpace(body.Name),
			Description: body.Description,
			Price:       body.Price,
			Category:    strings.TrimSpace(body.Category),
			ImageURL:    body.ImageURL,
			IsActive:    boolOr(body.IsActive, true),
			IsAvailable: boolOr(body.IsAvailable, true),
		}
		if err := Create(c.UserContext(), cfg.OutletID, &item); err != nil {
			logger.GetAppLogger().WithError(err).Error("Menü ürünü oluşturulamadı")
			return fiber.NewError(fiber.StatusInternalServerError, "Menü ürünü oluşturulamadı")
		}

		audit.Record(c, audit.LogOptions{
			OutletID:    cfg.OutletID,
			EntityType:  audit.EntityMenuItem,
			EntityID:    item.ID,
			Action:      models.AuditActionCreate,
			Description: "Menü ürünü eklendi: " + item.Name,
			After:       item,
		})

		return c.Status(fiber.StatusCreated).JSON(item)
	}
}

// PATCH /api/menu/:id
func UpdateMenuItemHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateMenuItemRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}
		values := body.values()
		if len(values) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Güncellenecek alan yok")
		}

		return mutate(c, cfg, "Menü ürünü güncellendi", func(id string) error {
			return Update(c.UserContext(), cfg.OutletID, id, values)
		})
	}
}

// PATCH /api/menu/:id/availability
func ToggleAvailabilityHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ToggleAvailabilityRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}

		desc := "Menü ürünü satışa kapatıldı"
		if *body.IsAvailable {
			desc = "Menü ürünü satışa açıldı"
		}
		return mutate(c, cfg, desc, func(id string) error {
			return ToggleAvailability(c.UserContext(), cfg.OutletID, id, *body.IsAvailable)
		})
	}
}

// DELETE /api/menu/:id
func DeleteMenuItemHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		before, err := Get(c.UserContext(), cfg.OutletID, id)
		if err != nil {
			return apperr.NotFoundOr(err, "Menü ürünü bulunamadı", "Menü ürünü okunamadı")
		}

		if err := Delete(c.UserContext(), cfg.OutletID, id); err != nil {
			return apperr.NotFoundOr(err, "Menü ürünü bulunamadı", "Menü ürünü silinemedi")
		}

		audit.Record(c, audit.LogOptions{
			OutletID:    cfg.OutletID,
			EntityType:  audit.EntityMenuItem,
			EntityID:    id,
			Action:      models.AuditActionDelete,
			Description: "Menü ürünü silindi: " + before.Name,
			Before:      before,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func mutate(c *fiber.Ctx, cfg *config.Config, description string, write func(id string) error) error {
	ctx := c.UserContext()
	id := c.Params("id")

	before, err := Get(ctx, cfg.OutletID, id)
	if err != nil {
		return apperr.NotFoundOr(err, "Menü ürünü bulunamadı", "Menü ürünü okunamadı")
	}

	if err := write(id); err != nil {
		return apperr.NotFoundOr(err, "Menü ürünü bulunamadı", "Menü ürünü güncellenemedi")
	}

	after, err := Get(ctx, cfg.OutletID, id)
	if err != nil {
		return apperr.NotFoundOr(err, "Menü ürünü bulunamadı", "Menü ürünü okunamadı")
	}

	audit.Record(c, audit.LogOptions{
		OutletID:    cfg.OutletID,
		EntityType:  audit.EntityMenuItem,
		EntityID:    id,
		Action:      models.AuditActionUpdate,
		Description: description,
		Before:      before,
		After:       after,
	})

	return c.JSON(after)
}
