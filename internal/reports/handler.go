package reports

import (
	"bytes"
	"fmt"
	"time"

	"alhidayah-backend/internal/config"
	"alhidayah-backend/internal/drivers"
	"alhidayah-backend/internal/logger"
	"alhidayah-backend/internal/models"
	"alhidayah-backend/internal/orders"
	"alhidayah-backend/internal/settings"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// load dönem siparişlerini ve sürücü sayısını okuyup özeti hesaplar.
func load(c *fiber.Ctx, cfg *config.Config) (Summary, []models.Order, error) {
	period := c.Query("period", PeriodMonth)

	ctx := c.UserContext()
	now := time.Now().In(settings.Location(ctx, cfg.OutletID))
	start, err := PeriodStart(period, now)
	if err != nil {
		return Summary{}, nil, fiber.NewError(fiber.StatusBadRequest, "period today, week, month, year veya all olmalı")
	}

	list, err := orders.List(ctx, cfg.OutletID, orders.ListFilter{StartDate: start})
	if err != nil {
		logger.GetAppLogger().WithError(err).Error("Rapor siparişleri okunamadı")
		return Summary{}, nil, fiber.NewError(fiber.StatusInternalServerError, "Rapor oluşturulamadı")
	}
	ds, err := drivers.List(ctx, cfg.OutletID, "")
	if err != nil {
		logger.GetAppLogger().WithError(err).Error("Rapor sürücüleri okunamadı")
		return Summary{}, nil, fiber.NewError(fiber.StatusInternalServerError, "Rapor oluşturulamadı")
	}

	s := Summarize(list, len(ds))
	s.Period = period
	if start != nil {
		s.From = start.Format("2006-01-02")
	}
	return s, list, nil
}

// GET /api/reports/summary?period=month
func SummaryHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, _, err := load(c, cfg)
		if err != nil {
			return err
		}
		return c.JSON(s)
	}
}

// GET /api/reports/summary.csv?period=month
func SummaryCSVHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, _, err := load(c, cfg)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := WriteSummaryCSV(&buf, s); err != nil {
			logger.GetAppLogger().WithError(err).Error("Rapor CSV yazılamadı")
			return fiber.NewError(fiber.StatusInternalServerError, "CSV oluşturulamadı")
		}

		c.Attachment(fmt.Sprintf("report-%s-%s.csv", s.Period, time.Now().Format("2006-01-02")))
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		return c.Send(buf.Bytes())
	}
}

// GET /api/reports/summary.xlsx?period=month
func SummaryXLSXHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, list, err := load(c, cfg)
		if err != nil {
			return err
		}

		buf, err := BuildWorkbook(s, list)
		if err != nil {
			logger.GetAppLogger().WithError(err).Error("Rapor xlsx yazılamadı")
			return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası oluşturulamadı")
		}

		c.Attachment(fmt.Sprintf("report-%s-%s.xlsx", s.Period, time.Now().Format("2006-01-02")))
		c.Set(fiber.HeaderContentType, xlsxContentType)
		return c.Send(buf.Bytes())
	}
}
