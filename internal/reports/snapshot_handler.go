package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"alhidayah-backend/internal/apperr"
	"alhidayah-backend/internal/audit"
	"alhidayah-backend/internal/auth"
	"alhidayah-backend/internal/config"
	"alhidayah-backend/internal/database"
	"alhidayah-backend/internal/drivers"
	"alhidayah-backend/internal/logger"
	"alhidayah-backend/internal/models"
	"alhidayah-backend/internal/orders"
	"alhidayah-backend/internal/settings"
	"alhidayah-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	snapshotTimeLayout = "2006-01-02 15:04:05"
	errSnapshotExists  = "Bu ay için rapor zaten oluşturulmuş"
)

type CreateSnapshotRequest struct {
	Year  int `json:"year" validate:"required,gte=2000"`
	Month int `json:"month" validate:"required,min=1,max=12"`
}

type SnapshotResponse struct {
	ID              uint    `json:"id"`
	Year            int     `json:"year"`
	Month           int     `json:"month"`
	ReportDate      string  `json:"report_date"`
	TotalOrders     int     `json:"total_orders"`
	CompletedOrders int     `json:"completed_orders"`
	CancelledOrders int     `json:"cancelled_orders"`
	TotalRevenue    float64 `json:"total_revenue"`
	AvgOrderValue   float64 `json:"avg_order_value"`
	TotalDrivers    int     `json:"total_drivers"`
	CreatedBy       string  `json:"created_by"`
	CreatedAt       string  `json:"created_at"`
}

// SnapshotDetail rapor detayı, report_data çözülmüş haliyle
type SnapshotDetail struct {
	SnapshotResponse
	ReportData map[string]interface{} `json:"report_data"`
}

// snapshotData report_data kolonuna yazılan döküm
type snapshotData struct {
	From     string                     `json:"from"`
	To       string                     `json:"to"`
	ByStatus map[models.OrderStatus]int `json:"by_status"`
	Summary  Summary                    `json:"summary"`
}

func toResponse(r models.ReportSnapshot) SnapshotResponse {
	return SnapshotResponse{
		ID:              r.ID,
		Year:            r.Year,
		Month:           r.Month,
		ReportDate:      r.ReportDate.Format(snapshotTimeLayout),
		TotalOrders:     r.TotalOrders,
		CompletedOrders: r.CompletedOrders,
		CancelledOrders: r.CancelledOrders,
		TotalRevenue:    r.TotalRevenue,
		AvgOrderValue:   r.AvgOrderValue,
		TotalDrivers:    r.TotalDrivers,
		CreatedBy:       r.CreatedBy,
		CreatedAt:       r.CreatedAt.Format(snapshotTimeLayout),
	}
}

// POST /api/reports/snapshots
// Ay kapanışında o ayın rakamlarını saklar. Aynı ay için ikinci kayıt açılmaz.
func CreateSnapshotHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSnapshotRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}

		ctx := c.UserContext()
		db := database.DB.WithContext(ctx)

		var existing int64
		if err := db.Model(&models.ReportSnapshot{}).
			Where("outlet_id = ? AND year = ? AND month = ?", cfg.OutletID, body.Year, body.Month).
			Count(&existing).Error; err != nil {
			logger.GetAppLogger().WithError(err).Error("Rapor kontrolü yapılamadı")
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor kontrol edilemedi")
		}
		if existing > 0 {
			return fiber.NewError(fiber.StatusBadRequest, errSnapshotExists)
		}

		// Ayın ilk ve son günü (son gün dahil)
		loc := settings.Location(ctx, cfg.OutletID)
		firstDay := time.Date(body.Year, time.Month(body.Month), 1, 0, 0, 0, 0, loc)
		lastDay := firstDay.AddDate(0, 1, -1)
		end := firstDay.AddDate(0, 1, 0).Add(-time.Nanosecond)

		list, err := orders.List(ctx, cfg.OutletID, orders.ListFilter{StartDate: &firstDay, EndDate: &end})
		if err != nil {
			logger.GetAppLogger().WithError(err).Error("Rapor siparişleri okunamadı")
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor oluşturulamadı")
		}
		ds, err := drivers.List(ctx, cfg.OutletID, "")
		if err != nil {
			logger.GetAppLogger().WithError(err).Error("Rapor sürücüleri okunamadı")
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor oluşturulamadı")
		}

		s := Summarize(list, len(ds))
		s.Period = fmt.Sprintf("%04d-%02d", body.Year, body.Month)
		s.From = firstDay.Format("2006-01-02")

		raw, err := json.Marshal(snapshotData{
			From:     firstDay.Format("2006-01-02"),
			To:       lastDay.Format("2006-01-02"),
			ByStatus: CountByStatus(list),
			Summary:  s,
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor verisi hazırlanamadı")
		}

		report := models.ReportSnapshot{
			OutletID:        cfg.OutletID,
			Year:            body.Year,
			Month:           body.Month,
			ReportDate:      time.Now(),
			TotalOrders:     s.TotalOrders,
			CompletedOrders: s.CompletedOrders,
			CancelledOrders: s.CancelledOrders,
			TotalRevenue:    s.TotalRevenue,
			AvgOrderValue:   s.AvgOrderValue,
			TotalDrivers:    s.TotalDrivers,
			ReportData:      datatypes.JSON(raw),
		}
		if u, err := auth.CurrentUser(c); err == nil {
			report.CreatedBy = u.UID
		}

		if err := db.Create(&report).Error; err != nil {
			// eşzamanlı iki istekte sayım ikisini de geçirebilir, tekil indeks yakalar
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusBadRequest, errSnapshotExists)
			}
			logger.GetAppLogger().WithError(err).Error("Rapor kaydedilemedi")
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor kaydedilemedi")
		}

		audit.Record(c, audit.LogOptions{
			OutletID:    cfg.OutletID,
			EntityType:  audit.EntityReport,
			EntityID:    strconv.FormatUint(uint64(report.ID), 10),
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Aylık rapor oluşturuldu: %d/%d", body.Month, body.Year),
			After:       toResponse(report),
		})

		return c.Status(fiber.StatusCreated).JSON(toResponse(report))
	}
}

// GET /api/reports/snapshots
func ListSnapshotsHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var reports []models.ReportSnapshot
		if err := database.DB.WithContext(c.UserContext()).
			Where("outlet_id = ?", cfg.OutletID).
			Order("year DESC, month DESC").
			Find(&reports).Error; err != nil {
			logger.GetAppLogger().WithError(err).Error("Raporlar listelenemedi")
			return fiber.NewError(fiber.StatusInternalServerError, "Raporlar listelenemedi")
		}

		resp := make([]SnapshotResponse, 0, len(reports))
		for _, r := range reports {
			resp = append(resp, toResponse(r))
		}
		return c.JSON(resp)
	}
}

// GET /api/reports/snapshots/:id
func GetSnapshotHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz rapor ID")
		}

		var report models.ReportSnapshot
		if err := database.DB.WithContext(c.UserContext()).
			Where("id = ? AND outlet_id = ?", id, cfg.OutletID).
			First(&report).Error; err != nil {
			return apperr.NotFoundOr(err, "Rapor bulunamadı", "Rapor okunamadı")
		}

		// bozuk ya da boş veri boş map olarak döner
		data := map[string]interface{}{}
		if len(report.ReportData) > 0 {
			if err := json.Unmarshal(report.ReportData, &data); err != nil || data == nil {
				data = map[string]interface{}{}
			}
		}

		return c.JSON(SnapshotDetail{
			SnapshotResponse: toResponse(report),
			ReportData:       data,
		})
	}
}
