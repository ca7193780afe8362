package customers

import (
	"testing"
	"time"

	"alhidayah-backend/internal/models"
	"alhidayah-backend/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"uid", "email", "name", "phone", "role", "is_active", "created_at"}

func TestComputeStatsCountsMissingFlagAsActive(t *testing.T) {
	inactive := false
	active := true
	users := []models.User{
		{UID: "1"},
		{UID: "2", IsActive: &active},
		{UID: "3", IsActive: &inactive},
	}

	assert.Equal(t, Stats{Total: 3, Active: 2}, ComputeStats(users))
}

func TestSearch(t *testing.T) {
	users := []models.User{
		{Name: "Ahmad Ali", Email: "ahmad@example.com", Phone: "0501"},
		{Name: "Sara", Email: "sara@mail.sa", Phone: "0502"},
	}

	assert.Len(t, Search(users, "AHMAD"), 1)
	assert.Len(t, Search(users, "mail.sa"), 1)
	assert.Len(t, Search(users, "050"), 2)
	assert.Empty(t, Search(users, "nobody"))
}

func TestListCustomersHandler(t *testing.T) {
	mock := testutil.MockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE role = \$1 ORDER BY created_at DESC`).
		WithArgs("CUSTOMER").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("c-1", "ahmad@example.com", "Ahmad", "0501", "CUSTOMER", nil, time.Now()).
			AddRow("c-2", "sara@example.com", "Sara", "0502", "CUSTOMER", false, time.Now()))

	app := testutil.NewApp()
	app.Get("/customers", ListCustomersHandler())

	resp, raw := testutil.Do(t, app, "GET", "/customers", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out ListResponse
	testutil.DecodeJSON(t, raw, &out)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, Stats{Total: 2, Active: 1}, out.Stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCustomerHandler(t *testing.T) {
	mock := testutil.MockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE uid = \$1 AND role = \$2`).
		WithArgs("c-1", "CUSTOMER", 1).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("c-1", "ahmad@example.com", "Ahmad", "0501", "CUSTOMER", nil, time.Now()))
	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE user_id = \$1 ORDER BY created_at DESC LIMIT \$2`).
		WithArgs("c-1", recentOrdersLimit).
		WillReturnError(assert.AnError)

	app := testutil.NewApp()
	app.Get("/customers/:uid", GetCustomerHandler())

	resp, raw := testutil.Do(t, app, "GET", "/customers/c-1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out DetailResponse
	testutil.DecodeJSON(t, raw, &out)
	assert.Equal(t, "c-1", out.Customer.UID)
	assert.NotNil(t, out.Orders)
	assert.Empty(t, out.Orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCustomerNotFound(t *testing.T) {
	mock := testutil.MockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows(userColumns))

	app := testutil.NewApp()
	app.Get("/customers/:uid", GetCustomerHandler())

	resp, _ := testutil.Do(t, app, "GET", "/customers/driver-1", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
