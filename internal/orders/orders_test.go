package orders

import (
	"bufio"
	"bytes"
	"context"
	"database/sql/driver"
	"encoding/csv"
	"io"
	"strings"
	"testing"
	"time"

	"alhidayah-backend/internal/auth"
	"alhidayah-backend/internal/models"
	"alhidayah-backend/internal/realtime"
	"alhidayah-backend/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withAdmin(c *fiber.Ctx) error {
	c.Locals(auth.CtxUserKey, &auth.SessionUser{UID: "admin-1", Name: "Admin", Role: models.RoleSuperAdmin})
	return c.Next()
}

var (
	orderColumns = []string{"id", "user_id", "customer_name", "customer_phone", "status", "total", "outlet_id", "created_at"}
	itemColumns  = []string{"id", "order_id", "menu_id", "name", "price", "quantity", "subtotal"}
	createdAt    = time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC)
)

func sampleOrders() []models.Order {
	return []models.Order{
		{ID: "ORD-1", CustomerName: "Ahmad Ali", CustomerPhone: "+966500000001", Status: models.OrderStatusNew, Total: 45},
		{ID: "ORD-2", CustomerName: "Sara", CustomerPhone: "+966500000002", Status: models.OrderStatusProcessing, Total: 30},
		{ID: "ORD-3", CustomerName: "Omar, Jr.", CustomerPhone: "+966500000003", Status: models.OrderStatusDelivered, Total: 80.5},
		{ID: "ORD-4", CustomerName: "Layla Ahmad", CustomerPhone: "+966500000004", Status: models.OrderStatusCancelled, Total: 12},
	}
}

func TestSearch(t *testing.T) {
	orders := sampleOrders()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query keeps all", "", []string{"ORD-1", "ORD-2", "ORD-3", "ORD-4"}},
		{"name is case-insensitive", "ahmad", []string{"ORD-1", "ORD-4"}},
		{"by id", "ord-3", []string{"ORD-3"}},
		{"by phone", "0002", []string{"ORD-2"}},
		{"no match", "zzz", []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Search(orders, tc.query)
			ids := make([]string, 0, len(got))
			for _, o := range got {
				ids = append(ids, o.ID)
			}
			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestComputeStatsPartitionsByStatus(t *testing.T) {
	s := ComputeStats(sampleOrders())

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.New)
	assert.Equal(t, 1, s.Processing)
	assert.Equal(t, 1, s.Delivered)
	assert.Equal(t, 1, s.ByStatus[models.OrderStatusCancelled])
	assert.Equal(t, 0, s.ByStatus[models.OrderStatusAssigned])

	sum := 0
	for _, n := range s.ByStatus {
		sum += n
	}
	assert.Equal(t, s.Total, sum)
}

func TestWriteCSV(t *testing.T) {
	orders := sampleOrders()
	for i := range orders {
		orders[i].CreatedAt = createdAt
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, orders))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(orders)+1)
	assert.Equal(t, []string{"Order ID", "Customer", "Phone", "Status", "Total", "Date"}, records[0])
	assert.Equal(t, []string{"ORD-3", "Omar, Jr.", "+966500000003", "DELIVERED", "80.50", "2025-03-14 18:30"}, records[3])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "Order ID,Customer,Phone,Status,Total,Date\n", buf.String())
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("all")
	require.NoError(t, err)
	assert.Empty(t, s)

	s, err = ParseStatus("on_the_way")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusOnTheWay, s)

	_, err = ParseStatus("LOST")
	assert.Error(t, err)
}

func expectOrderList(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE outlet_id = \$1 ORDER BY created_at DESC`).
		WithArgs(testutil.OutletID).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow("ORD-1", "c-1", "Ahmad Ali", "+966500000001", "NEW", 45.0, testutil.OutletID, createdAt).
			AddRow("ORD-2", "c-2", "Sara", "+966500000002", "DELIVERED", 30.0, testutil.OutletID, createdAt))
	mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE "order_items"."order_id" IN \(\$1,\$2\)`).
		WillReturnRows(sqlmock.NewRows(itemColumns).
			AddRow(1, "ORD-1", "m-1", "Kabsa", 45.0, 1, 45.0))
}

func TestListOrdersHandler(t *testing.T) {
	mock := testutil.MockDB(t)
	expectOrderList(mock)

	app := testutil.NewApp()
	app.Get("/orders", ListOrdersHandler(testutil.Config()))

	resp, raw := testutil.Do(t, app, "GET", "/orders?search=AHMAD", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))

	var out ListResponse
	testutil.DecodeJSON(t, raw, &out)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "ORD-1", out.Items[0].ID)
	require.Len(t, out.Items[0].Items, 1)
	assert.Equal(t, "Kabsa", out.Items[0].Items[0].Name)
	assert.Equal(t, 1, out.Stats.Total)
	assert.Equal(t, 1, out.Stats.New)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// instant zaman değerini saat diliminden bağımsız karşılaştırır
type instant time.Time

func (a instant) Match(v driver.Value) bool {
	t, ok := v.(time.Time)
	return ok && t.Equal(time.Time(a))
}

func TestListOrdersFilters(t *testing.T) {
	mock := testutil.MockDB(t)
	riyadh, err := time.LoadLocation("Asia/Riyadh")
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "outlet_settings"`).
		WillReturnRows(sqlmock.NewRows([]string{"outlet_id", "timezone"}).AddRow(testutil.OutletID, "Asia/Riyadh"))
	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE outlet_id = \$1 AND status = \$2 AND created_at >= \$3 AND created_at <= \$4 AND assigned_driver_id = \$5 ORDER BY created_at DESC`).
		WithArgs(testutil.OutletID, "DELIVERED",
			instant(time.Date(2025, 1, 1, 0, 0, 0, 0, riyadh)),
			instant(time.Date(2025, 2, 1, 0, 0, 0, 0, riyadh).Add(-time.Nanosecond)),
			"d-1").
		WillReturnRows(sqlmock.NewRows(orderColumns))

	app := testutil.NewApp()
	app.Get("/orders", ListOrdersHandler(testutil.Config()))

	resp, raw := testutil.Do(t, app, "GET", "/orders?status=DELIVERED&start_date=2025-01-01&end_date=2025-01-31&driver_id=d-1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
	assert.JSONEq(t, `{"items":[],"stats":{"total":0,"new":0,"processing":0,"delivered":0,"by_status":{"NEW":0,"PROCESSING":0,"ACCEPTED":0,"ASSIGNED":0,"PICKED_UP":0,"ON_THE_WAY":0,"DELIVERED":0,"CANCELLED":0}}}`, string(raw))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOrdersRejectsBadDate(t *testing.T) {
	mock := testutil.MockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "outlet_settings"`).
		WillReturnRows(sqlmock.NewRows([]string{"outlet_id"}))

	app := testutil.NewApp()
	app.Get("/orders", ListOrdersHandler(testutil.Config()))

	resp, _ := testutil.Do(t, app, "GET", "/orders?start_date=14-03-2025", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestExportOrdersCSVHandler(t *testing.T) {
	mock := testutil.MockDB(t)
	expectOrderList(mock)

	app := testutil.NewApp()
	app.Get("/orders/export.csv", ExportOrdersCSVHandler(testutil.Config()))

	resp, raw := testutil.Do(t, app, "GET", "/orders/export.csv", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Len(t, lines, 3)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func expectGetOrder(mock sqlmock.Sqlmock, status string) {
	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 AND outlet_id = \$2`).
		WithArgs("ORD-1", testutil.OutletID, 1).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow("ORD-1", "c-1", "Ahmad Ali", "+966500000001", status, 45.0, testutil.OutletID, createdAt))
	mock.ExpectQuery(`SELECT \* FROM "order_items"`).
		WillReturnRows(sqlmock.NewRows(itemColumns))
}

func TestUpdateOrderStatusHandler(t *testing.T) {
	mock := testutil.MockDB(t)
	mr := testutil.MiniRedis(t)

	expectGetOrder(mock, "NEW")
	mock.ExpectExec(`UPDATE "orders" SET "status"=\$1,"updated_at"=\$2 WHERE id = \$3 AND outlet_id = \$4`).
		WithArgs("PROCESSING", sqlmock.AnyArg(), "ORD-1", testutil.OutletID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectGetOrder(mock, "PROCESSING")
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	sub := mr.NewSubscriber()
	sub.Subscribe("orders:changed:" + testutil.OutletID)

	app := testutil.NewApp()
	app.Patch("/orders/:id/status", withAdmin, UpdateOrderStatusHandler(testutil.Config()))

	resp, raw := testutil.Do(t, app, "PATCH", "/orders/ORD-1/status", map[string]string{"status": "PROCESSING"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))

	var got models.Order
	testutil.DecodeJSON(t, raw, &got)
	assert.Equal(t, models.OrderStatusProcessing, got.Status)
	assert.NoError(t, mock.ExpectationsWereMet())

	select {
	case msg := <-sub.Messages():
		assert.Equal(t, "ORD-1", msg.Message)
	case <-time.After(time.Second):
		t.Fatal("sipariş değişikliği yayınlanmadı")
	}
}

func TestUpdateOrderStatusUnknownOrder(t *testing.T) {
	mock := testutil.MockDB(t)
	testutil.NoRedis(t)

	mock.ExpectQuery(`SELECT \* FROM "orders"`).
		WillReturnRows(sqlmock.NewRows(orderColumns))

	app := testutil.NewApp()
	app.Patch("/orders/:id/status", withAdmin, UpdateOrderStatusHandler(testutil.Config()))

	resp, raw := testutil.Do(t, app, "PATCH", "/orders/ORD-404/status", map[string]string{"status": "DELIVERED"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Sipariş bulunamadı"}`, string(raw))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	app := testutil.NewApp()
	app.Patch("/orders/:id/status", withAdmin, UpdateOrderStatusHandler(testutil.Config()))

	resp, _ := testutil.Do(t, app, "PATCH", "/orders/ORD-1/status", map[string]string{"status": "LOST"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAssignDriverHandler(t *testing.T) {
	mock := testutil.MockDB(t)
	testutil.NoRedis(t)

	mock.ExpectQuery(`SELECT \* FROM "drivers" WHERE id = \$1 AND outlet_id = \$2`).
		WithArgs("d-1", testutil.OutletID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("d-1", "Yusuf"))
	expectGetOrder(mock, "ACCEPTED")
	mock.ExpectExec(`UPDATE "orders" SET "assigned_driver_id"=\$1,"assigned_driver_name"=\$2,"status"=\$3,"updated_at"=\$4`).
		WithArgs("d-1", "Yusuf", "ASSIGNED", sqlmock.AnyArg(), "ORD-1", testutil.OutletID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectGetOrder(mock, "ASSIGNED")
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	app := testutil.NewApp()
	app.Patch("/orders/:id/assign", withAdmin, AssignDriverHandler(testutil.Config()))

	resp, raw := testutil.Do(t, app, "PATCH", "/orders/ORD-1/assign", map[string]string{"driver_id": "d-1"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteSnapshot(t *testing.T) {
	mock := testutil.MockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE outlet_id = \$1 AND status = \$2 ORDER BY created_at DESC LIMIT \$3`).
		WithArgs(testutil.OutletID, "NEW", StreamLimit).
		WillReturnRows(sqlmock.NewRows(orderColumns))

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	require.NoError(t, WriteSnapshot(context.Background(), w, testutil.OutletID, models.OrderStatusNew))

	assert.Equal(t, "event: orders\ndata: []\n\n", buf.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteSnapshotReportsReadError(t *testing.T) {
	mock := testutil.MockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "orders"`).WillReturnError(assert.AnError)

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	require.NoError(t, WriteSnapshot(context.Background(), w, testutil.OutletID, ""))

	assert.True(t, strings.HasPrefix(buf.String(), "event: error\n"))
}

// readEvent bir SSE olayını boş satıra kadar okur.
func readEvent(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	var sb strings.Builder
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		if line == "\n" {
			return sb.String()
		}
		sb.WriteString(line)
	}
}

func TestStreamWriterPushesOnPublish(t *testing.T) {
	mock := testutil.MockDB(t)
	mr := testutil.MiniRedis(t)
	channel := "orders:changed:" + testutil.OutletID

	// açılış, yayın sonrası ve kapalı bağlantıya yazma denemesi
	for i := 0; i < 3; i++ {
		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE outlet_id = \$1 ORDER BY created_at DESC LIMIT \$2`).
			WithArgs(testutil.OutletID, StreamLimit).
			WillReturnRows(sqlmock.NewRows(orderColumns))
	}

	pr, pw := io.Pipe()
	write := newStreamWriter(testutil.OutletID, "", time.Hour)

	done := make(chan struct{})
	go func() {
		defer close(done)
		write(bufio.NewWriter(pw))
	}()

	r := bufio.NewReader(pr)
	assert.Equal(t, "event: orders\ndata: []\n", readEvent(t, r))

	require.Eventually(t, func() bool {
		return mr.PubSubNumSub(channel)[channel] == 1
	}, time.Second, 10*time.Millisecond)

	realtime.PublishOrderChanged(context.Background(), testutil.OutletID, "ORD-1")
	assert.Equal(t, "event: orders\ndata: []\n", readEvent(t, r))

	// istemci gider, sonraki yazma hata verir ve döngü biter
	require.NoError(t, pr.Close())
	realtime.PublishOrderChanged(context.Background(), testutil.OutletID, "ORD-2")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("akış kapanmadı")
	}
	assert.Eventually(t, func() bool {
		return mr.PubSubNumSub(channel)[channel] == 0
	}, time.Second, 10*time.Millisecond)
	assert.NoError(t, mock.ExpectationsWereMet())
}
