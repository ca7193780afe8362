package orders

import (
	"fmt"
	"strings"
	"time"

	"alhidayah-backend/internal/apperr"
	"alhidayah-backend/internal/audit"
	"alhidayah-backend/internal/config"
	"alhidayah-backend/internal/drivers"
	"alhidayah-backend/internal/listing"
	"alhidayah-backend/internal/logger"
	"alhidayah-backend/internal/models"
	"alhidayah-backend/internal/realtime"
	"alhidayah-backend/internal/settings"
	"alhidayah-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const dateLayout = "2006-01-02"

type ListResponse struct {
	Items []models.Order `json:"items"`
	Stats Stats          `json:"stats"`
}

type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required,oneof=NEW PROCESSING ACCEPTED ASSIGNED PICKED_UP ON_THE_WAY DELIVERED CANCELLED"`
}

type AssignDriverRequest struct {
	DriverID string `json:"driver_id" validate:"required"`
}

func ParseStatus(v string) (models.OrderStatus, error) {
	if listing.IsAll(v) {
		return "", nil
	}
	s := models.OrderStatus(strings.ToUpper(v))
	if !s.Valid() {
		return "", fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş durumu")
	}
	return s, nil
}

// parseFilter query parametrelerinden liste filtresini oluşturur.
// end_date gün sonunu kapsar.
// parseFilter tarih aralığını outlet'in saat diliminde yorumlar,
// raporlar ve dashboard ile aynı gün sınırları kullanılır.
func parseFilter(c *fiber.Ctx, cfg *config.Config) (ListFilter, error) {
	var f ListFilter

	status, err := ParseStatus(c.Query("status"))
	if err != nil {
		return f, err
	}
	f.Status = status
	f.CustomerID = c.Query("customer_id")
	f.DriverID = c.Query("driver_id")

	var loc *time.Location
	if c.Query("start_date") != "" || c.Query("end_date") != "" {
		loc = settings.Location(c.UserContext(), cfg.OutletID)
	}

	if v := c.Query("start_date"); v != "" {
		t, err := time.ParseInLocation(dateLayout, v, loc)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, "start_date formatı YYYY-MM-DD olmalı")
		}
		f.StartDate = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.ParseInLocation(dateLayout, v, loc)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, "end_date formatı YYYY-MM-DD olmalı")
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.EndDate = &end
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return f, fiber.NewError(fiber.StatusBadRequest, "end_date start_date'den önce olamaz")
	}
	return f, nil
}

func listFiltered(c *fiber.Ctx, cfg *config.Config) ([]models.Order, error) {
	f, err := parseFilter(c, cfg)
	if err != nil {
		return nil, err
	}
	list, err := List(c.UserContext(), cfg.OutletID, f)
	if err != nil {
		logger.GetAppLogger().WithError(err).Error("Siparişler listelenemedi")
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
	}
	return Search(list, c.Query("search")), nil
}

// GET /api/orders?status=NEW&search=...&start_date=2025-01-01&end_date=2025-01-31
func ListOrdersHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := listFiltered(c, cfg)
		if err != nil {
			return err
		}
		return c.JSON(ListResponse{Items: items, Stats: ComputeStats(items)})
	}
}

// GET /api/orders/export.csv
func ExportOrdersCSVHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := listFiltered(c, cfg)
		if err != nil {
			return err
		}

		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="orders-%s.csv"`, time.Now().Format(dateLayout)))

		if err := WriteCSV(c.Response().BodyWriter(), items); err != nil {
			logger.GetAppLogger().WithError(err).Error("CSV yazılamadı")
			return fiber.NewError(fiber.StatusInternalServerError, "CSV oluşturulamadı")
		}
		return nil
	}
}

// GET /api/orders/:id
func GetOrderHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		order, err := Get(c.UserContext(), cfg.OutletID, c.Params("id"))
		if err != nil {
			return apperr.NotFoundOr(err, "Sipariş bulunamadı", "Sipariş okunamadı")
		}
		return c.JSON(order)
	}
}

// PATCH /api/orders/:id/status
func UpdateOrderStatusHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateStatusRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}

		return mutate(c, cfg, "Sipariş durumu güncellendi: "+string(body.Status), func(id string) error {
			return UpdateStatus(c.UserContext(), cfg.OutletID, id, body.Status)
		})
	}
}

// PATCH /api/orders/:id/assign
// Sürücü adı istemciden alınmaz, kayıttan okunur.
func AssignDriverHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body AssignDriverRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}

		driver, err := drivers.Get(c.UserContext(), cfg.OutletID, body.DriverID)
		if err != nil {
			return apperr.NotFoundOr(err, "Sürücü bulunamadı", "Sürücü okunamadı")
		}

		return mutate(c, cfg, "Sürücü atandı: "+driver.Name, func(id string) error {
			return AssignDriver(c.UserContext(), cfg.OutletID, id, driver.ID, driver.Name)
		})
	}
}

// mutate önce mevcut kaydı okur, değişikliği yazar, kaydı tekrar okuyup döndürür.
func mutate(c *fiber.Ctx, cfg *config.Config, description string, write func(id string) error) error {
	ctx := c.UserContext()
	id := c.Params("id")

	before, err := Get(ctx, cfg.OutletID, id)
	if err != nil {
		return apperr.NotFoundOr(err, "Sipariş bulunamadı", "Sipariş okunamadı")
	}

	if err := write(id); err != nil {
		logger.GetAppLogger().WithError(err).WithField("order_id", id).Error("Sipariş güncellenemedi")
		return apperr.NotFoundOr(err, "Sipariş bulunamadı", "Sipariş güncellenemedi")
	}

	after, err := Get(ctx, cfg.OutletID, id)
	if err != nil {
		return apperr.NotFoundOr(err, "Sipariş bulunamadı", "Sipariş okunamadı")
	}

	audit.Record(c, audit.LogOptions{
		OutletID:    cfg.OutletID,
		EntityType:  audit.EntityOrder,
		EntityID:    id,
		Action:      models.AuditActionUpdate,
		Description: description,
		Before:      before,
		After:       after,
	})
	realtime.PublishOrderChanged(ctx, cfg.OutletID, id)

	return c.JSON(after)
}
