package drivers

import (
	"strings"

	"alhidayah-backend/internal/apperr"
	"alhidayah-backend/internal/audit"
	"alhidayah-backend/internal/config"
	"alhidayah-backend/internal/listing"
	"alhidayah-backend/internal/logger"
	"alhidayah-backend/internal/models"
	"alhidayah-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type ListResponse struct {
	Items []models.Driver `json:"items"`
	Stats Stats           `json:"stats"`
}

type UpdateStatusRequest struct {
	Status models.DriverStatus `json:"status" validate:"required,oneof=AVAILABLE BUSY OFFLINE"`
}

type UpdateDriverRequest struct {
	Name          *string              `json:"name" validate:"omitempty,min=1"`
	Phone         *string              `json:"phone"`
	Email         *string              `json:"email" validate:"omitempty,email"`
	VehicleType   *string              `json:"vehicle_type"`
	VehicleNumber *string              `json:"vehicle_number"`
	Photo         *string              `json:"photo"`
	Status        *models.DriverStatus `json:"status" validate:"omitempty,oneof=AVAILABLE BUSY OFFLINE"`
}

func (r UpdateDriverRequest) values() map[string]interface{} {
	out := map[string]interface{}{}
	if r.Name != nil {
		out["name"] = strings.TrimSpace(*r.Name)
	}
	if r.Phone != nil {
		out["phone"] = strings.TrimSpace(*r.Phone)
	}
	if r.Email != nil {
		out["email"] = strings.TrimSpace(*r.Email)
	}
	if r.VehicleType != nil {
		out["vehicle_type"] = *r.VehicleType
	}
	if r.VehicleNumber != nil {
		out["vehicle_number"] = strings.TrimSpace(*r.VehicleNumber)
	}
	if r.Photo != nil {
		out["photo"] = *r.Photo
	}
	if r.Status != nil {
		out["status"] = *r.Status
	}
	return out
}

func parseStatus(v string) (models.DriverStatus, error) {
	if listing.IsAll(v) {
		return "", nil
	}
	s := models.DriverStatus(strings.ToUpper(v))
	if !s.Valid() {
		return "", fiber.NewError(fiber.StatusBadRequest, "Geçersiz sürücü durumu")
	}
	return s, nil
}

// GET /api/drivers?status=AVAILABLE&search=ahmad
func ListDriversHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, err := parseStatus(c.Query("status"))
		if err != nil {
			return err
		}

		drivers, err := List(c.UserContext(), cfg.OutletID, status)
		if err != nil {
			logger.GetAppLogger().WithError(err).Error("Sürücüler listelenemedi")
			return fiber.NewError(fiber.StatusInternalServerError, "Sürücüler listelenemedi")
		}

		items := Search(drivers, c.Query("search"))
		return c.JSON(ListResponse{Items: items, Stats: ComputeStats(items)})
	}
}

// GET /api/drivers/active-count
func ActiveCountHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(CountActive(c.UserContext(), cfg.OutletID))
	}
}

// GET /api/drivers/:id
func GetDriverHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := Get(c.UserContext(), cfg.OutletID, c.Params("id"))
		if err != nil {
			return apperr.NotFoundOr(err, "Sürücü bulunamadı", "Sürücü okunamadı")
		}
		return c.JSON(d)
	}
}

// GET /api/drivers/:id/stats
func DriverStatsHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		perf, err := GetPerformance(c.UserContext(), cfg.OutletID, c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sürücü bulunamadı")
		}
		return c.JSON(perf)
	}
}

// PATCH /api/drivers/:id/status
func UpdateDriverStatusHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateStatusRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}
		return applyUpdate(c, cfg, map[string]interface{}{"status": body.Status}, "Sürücü durumu güncellendi: "+string(body.Status))
	}
}

// PATCH /api/drivers/:id
func UpdateDriverHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateDriverRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}
		values := body.values()
		if len(values) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Güncellenecek alan yok")
		}
		return applyUpdate(c, cfg, values, "Sürücü bilgileri güncellendi")
	}
}

func applyUpdate(c *fiber.Ctx, cfg *config.Config, values map[string]interface{}, description string) error {
	ctx := c.UserContext()
	id := c.Params("id")

	before, err := Get(ctx, cfg.OutletID, id)
	if err != nil {
		return apperr.NotFoundOr(err, "Sürücü bulunamadı", "Sürücü okunamadı")
	}

	if err := Update(ctx, cfg.OutletID, id, values); err != nil {
		logger.GetAppLogger().WithError(err).WithField("driver_id", id).Error("Sürücü güncellenemedi")
		return apperr.NotFoundOr(err, "Sürücü bulunamadı", "Sürücü güncellenemedi")
	}

	after, err := Get(ctx, cfg.OutletID, id)
	if err != nil {
		return apperr.NotFoundOr(err, "Sürücü bulunamadı", "Sürücü okunamadı")
	}

	audit.Record(c, audit.LogOptions{
		OutletID:    cfg.OutletID,
		EntityType:  audit.EntityDriver,
		EntityID:    id,
		Action:      models.AuditActionUpdate,
		Description: description,
		Before:      before,
		After:       after,
	})

	return c.JSON(after)
}
