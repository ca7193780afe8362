package reports

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"alhidayah-backend/internal/auth"
	"alhidayah-backend/internal/models"
	"alhidayah-backend/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func withAdmin(c *fiber.Ctx) error {
	c.Locals(auth.CtxUserKey, &auth.SessionUser{UID: "admin-1", Name: "Admin", Role: models.RoleSuperAdmin})
	return c.Next()
}

var (
	orderColumns  = []string{"id", "customer_name", "customer_phone", "status", "total", "outlet_id", "created_at"}
	driverColumns = []string{"id", "name", "status", "outlet_id"}
	createdAt     = time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC)
)

func sampleOrders() []models.Order {
	return []models.Order{
		{ID: "o-1", Status: models.OrderStatusDelivered, Total: 40},
		{ID: "o-2", Status: models.OrderStatusDelivered, Total: 20.5},
		{ID: "o-3", Status: models.OrderStatusCancelled, Total: 15},
		{ID: "o-4", Status: models.OrderStatusNew, Total: 30},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleOrders(), 3)

	assert.Equal(t, 4, s.TotalOrders)
	assert.Equal(t, 2, s.CompletedOrders)
	assert.Equal(t, 1, s.CancelledOrders)
	// ciro sadece teslim edilenlerden
	assert.Equal(t, 60.5, s.TotalRevenue)
	assert.Equal(t, 30.25, s.AvgOrderValue)
	assert.Equal(t, 3, s.TotalDrivers)
	assert.Equal(t, 50.0, s.CompletionRate)
	assert.Equal(t, 25.0, s.CancellationRate)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, 0)
	assert.Equal(t, Summary{}, s)
}

func TestCountByStatus(t *testing.T) {
	got := CountByStatus(sampleOrders())
	assert.Len(t, got, len(models.OrderStatuses))
	assert.Equal(t, 2, got[models.OrderStatusDelivered])
	assert.Equal(t, 0, got[models.OrderStatusOnTheWay])
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 45, 0, 0, time.UTC) // cuma

	tests := []struct {
		period string
		want   string
	}{
		{PeriodToday, "2025-03-14"},
		{PeriodWeek, "2025-03-10"},
		{PeriodMonth, "2025-03-01"},
		{PeriodYear, "2025-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			got, err := PeriodStart(tt.period, now)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
			assert.Zero(t, got.Hour())
		})
	}

	all, err := PeriodStart(PeriodAll, now)
	require.NoError(t, err)
	assert.Nil(t, all)

	_, err = PeriodStart("decade", now)
	assert.Error(t, err)
}

func TestWriteSummaryCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, Summarize(sampleOrders(), 3)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, "Metric,Value", lines[0])
	assert.Equal(t, "Total Orders,4", lines[1])
	assert.Equal(t, "Total Revenue,60.50", lines[4])
	assert.Equal(t, "Average Order Value,30.25", lines[5])
}

func TestBuildWorkbook(t *testing.T) {
	list := sampleOrders()
	buf, err := BuildWorkbook(Summarize(list, 3), list)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, ordersSheet}, f.GetSheetList())

	v, err := f.GetCellValue(summarySheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "4", v)

	rows, err := f.GetRows(ordersSheet)
	require.NoError(t, err)
	assert.Len(t, rows, len(list)+1)
	assert.Equal(t, "Order ID", rows[0][0])
	assert.Equal(t, "o-3", rows[3][0])
}

func expectSummaryReads(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT \* FROM "outlet_settings"`).
		WillReturnRows(sqlmock.NewRows([]string{"outlet_id"}))
	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE outlet_id = \$1 AND created_at >= \$2 ORDER BY created_at DESC`).
		WithArgs(testutil.OutletID, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow("o-1", "Ahmad Ali", "+966500000001", "DELIVERED", 40.0, testutil.OutletID, createdAt).
			AddRow("o-2", "Sara", "+966500000002", "CANCELLED", 25.0, testutil.OutletID, createdAt))
	mock.ExpectQuery(`SELECT \* FROM "order_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "name"}))
	mock.ExpectQuery(`SELECT \* FROM "drivers" WHERE outlet_id = \$1 ORDER BY created_at DESC`).
		WithArgs(testutil.OutletID).
		WillReturnRows(sqlmock.NewRows(driverColumns).
			AddRow("d-1", "Yusuf", "AVAILABLE", testutil.OutletID))
}

func TestSummaryHandler(t *testing.T) {
	mock := testutil.MockDB(t)
	expectSummaryReads(mock)

	app := testutil.NewApp()
	app.Get("/summary", SummaryHandler(testutil.Config()))

	resp, raw := testutil.Do(t, app, "GET", "/summary?period=month", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))

	var out Summary
	testutil.DecodeJSON(t, raw, &out)
	assert.Equal(t, "month", out.Period)
	assert.Equal(t, 2, out.TotalOrders)
	assert.Equal(t, 1, out.CompletedOrders)
	assert.Equal(t, 40.0, out.TotalRevenue)
	assert.Equal(t, 1, out.TotalDrivers)
	assert.NotEmpty(t, out.From)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryHandlerRejectsUnknownPeriod(t *testing.T) {
	mock := testutil.MockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "outlet_settings"`).
		WillReturnRows(sqlmock.NewRows([]string{"outlet_id"}))

	app := testutil.NewApp()
	app.Get("/summary", SummaryHandler(testutil.Config()))

	resp, _ := testutil.Do(t, app, "GET", "/summary?period=decade", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSummaryExports(t *testing.T) {
	t.Run("csv", func(t *testing.T) {
		mock := testutil.MockDB(t)
		expectSummaryReads(mock)

		app := testutil.NewApp()
		app.Get("/summary.csv", SummaryCSVHandler(testutil.Config()))

		resp, raw := testutil.Do(t, app, "GET", "/summary.csv", nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "report-month-")
		assert.True(t, strings.HasPrefix(string(raw), "Metric,Value\n"))
	})

	t.Run("xlsx", func(t *testing.T) {
		mock := testutil.MockDB(t)
		expectSummaryReads(mock)

		app := testutil.NewApp()
		app.Get("/summary.xlsx", SummaryXLSXHandler(testutil.Config()))

		resp, raw := testutil.Do(t, app, "GET", "/summary.xlsx", nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, xlsxContentType, resp.Header.Get("Content-Type"))

		f, err := excelize.OpenReader(bytes.NewReader(raw))
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows(ordersSheet)
		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})
}

func snapshotApp() *fiber.App {
	app := testutil.NewApp()
	app.Use(withAdmin)
	app.Post("/snapshots", CreateSnapshotHandler(testutil.Config()))
	app.Get("/snapshots", ListSnapshotsHandler(testutil.Config()))
	app.Get("/snapshots/:id", GetSnapshotHandler(testutil.Config()))
	return app
}

func TestCreateSnapshotHandler(t *testing.T) {
	mock := testutil.MockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "report_snapshots" WHERE outlet_id = \$1 AND year = \$2 AND month = \$3`).
		WithArgs(testutil.OutletID, 2025, 3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "outlet_settings"`).
		WillReturnRows(sqlmock.NewRows([]string{"outlet_id"}))
	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE outlet_id = \$1 AND created_at >= \$2 AND created_at <= \$3 ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow("o-1", "Ahmad Ali", "+966500000001", "DELIVERED", 40.0, testutil.OutletID, createdAt))
	mock.ExpectQuery(`SELECT \* FROM "order_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "name"}))
	mock.ExpectQuery(`SELECT \* FROM "drivers"`).
		WillReturnRows(sqlmock.NewRows(driverColumns))
	mock.ExpectQuery(`INSERT INTO "report_snapshots"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	resp, raw := testutil.Do(t, snapshotApp(), "POST", "/snapshots", fiber.Map{"year": 2025, "month": 3})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))

	var out SnapshotResponse
	testutil.DecodeJSON(t, raw, &out)
	assert.Equal(t, uint(7), out.ID)
	assert.Equal(t, 1, out.TotalOrders)
	assert.Equal(t, 40.0, out.TotalRevenue)
	assert.Equal(t, "admin-1", out.CreatedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSnapshotRejectsDuplicateMonth(t *testing.T) {
	mock := testutil.MockDB(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "report_snapshots"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	resp, raw := testutil.Do(t, snapshotApp(), "POST", "/snapshots", fiber.Map{"year": 2025, "month": 3})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "zaten oluşturulmuş")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// pgError postgres sürücüsünün hata kodunu taşıyan sunucu hatası gibi davranır
type pgError struct {
	Code    string
	Message string
}

func (e *pgError) Error() string { return e.Message }

func TestCreateSnapshotConcurrentDuplicate(t *testing.T) {
	mock := testutil.MockDB(t)

	// sayım 0 döner ama araya giren istek satırı çoktan yazmıştır
	mock.ExpectQuery(`SELECT count\(\*\) FROM "report_snapshots"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "outlet_settings"`).
		WillReturnRows(sqlmock.NewRows([]string{"outlet_id"}))
	mock.ExpectQuery(`SELECT \* FROM "orders"`).
		WillReturnRows(sqlmock.NewRows(orderColumns))
	mock.ExpectQuery(`SELECT \* FROM "drivers"`).
		WillReturnRows(sqlmock.NewRows(driverColumns))
	mock.ExpectQuery(`INSERT INTO "report_snapshots"`).
		WillReturnError(&pgError{
			Code:    "23505",
			Message: `duplicate key value violates unique constraint "idx_snapshot_outlet_month"`,
		})

	resp, raw := testutil.Do(t, snapshotApp(), "POST", "/snapshots", fiber.Map{"year": 2025, "month": 3})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "zaten oluşturulmuş")
	assert.NotContains(t, string(raw), "idx_snapshot_outlet_month")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSnapshotValidation(t *testing.T) {
	for _, body := range []fiber.Map{
		{"year": 1999, "month": 3},
		{"year": 2025, "month": 13},
		{"year": 2025},
	} {
		resp, _ := testutil.Do(t, snapshotApp(), "POST", "/snapshots", body)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, body)
	}
}

func TestListAndGetSnapshots(t *testing.T) {
	mock := testutil.MockDB(t)
	cols := []string{"id", "outlet_id", "year", "month", "report_date", "total_orders", "report_data", "created_at"}

	mock.ExpectQuery(`SELECT \* FROM "report_snapshots" WHERE outlet_id = \$1 ORDER BY year DESC, month DESC`).
		WithArgs(testutil.OutletID).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(2, testutil.OutletID, 2025, 3, createdAt, 12, []byte(`{}`), createdAt).
			AddRow(1, testutil.OutletID, 2025, 2, createdAt, 9, []byte(`{}`), createdAt))
	mock.ExpectQuery(`SELECT \* FROM "report_snapshots" WHERE id = \$1 AND outlet_id = \$2`).
		WithArgs(2, testutil.OutletID, 1).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(2, testutil.OutletID, 2025, 3, createdAt, 12, []byte(`{"by_status":{"DELIVERED":10}}`), createdAt))
	mock.ExpectQuery(`SELECT \* FROM "report_snapshots" WHERE id = \$1 AND outlet_id = \$2`).
		WillReturnRows(sqlmock.NewRows(cols))

	app := snapshotApp()

	resp, raw := testutil.Do(t, app, "GET", "/snapshots", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
	var list []SnapshotResponse
	testutil.DecodeJSON(t, raw, &list)
	require.Len(t, list, 2)
	assert.Equal(t, 3, list[0].Month)

	resp, raw = testutil.Do(t, app, "GET", "/snapshots/2", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
	var detail SnapshotDetail
	testutil.DecodeJSON(t, raw, &detail)
	assert.Equal(t, 12, detail.TotalOrders)
	assert.Contains(t, detail.ReportData, "by_status")

	resp, _ = testutil.Do(t, app, "GET", "/snapshots/99", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = testutil.Do(t, app, "GET", "/snapshots/abc", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}
