// Package testutil handler testlerinde ortak kullanılan sahte veritabanı,
// redis ve konfigürasyon kurulumunu içerir.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"alhidayah-backend/internal/apperr"
	"alhidayah-backend/internal/cache"
	"alhidayah-backend/internal/config"
	"alhidayah-backend/internal/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const OutletID = "OUTLET_001"

func Config() *config.Config {
	return &config.Config{
		HTTPPort:           "0",
		JWTSecret:          "test-secret-test-secret-test-secret-123",
		OutletID:           OutletID,
		SessionTTL:         time.Hour,
		StreamPollInterval: time.Second,
		OverviewCacheTTL:   time.Minute,
		DashboardURL:       "http://dashboard.local",
		GateEmail:          "admin@alhidayahalfakhirah.com",
		GatePassword:       "gate-pass",
		DefaultLocale:      "en",
	}
}

// MockDB database.DB'yi sqlmock'a bağlı bir gorm örneğiyle değiştirir.
// Varsayılan transaction kapalıdır, tek yazma = tek Exec.
func MockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)

	prev := database.DB
	database.DB = gdb
	t.Cleanup(func() {
		database.DB = prev
		_ = sqlDB.Close()
	})
	return mock
}

// MiniRedis cache.Client'ı bellek içi bir redis'e yönlendirir.
func MiniRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.RunT(t)
	prev := cache.Client
	cache.Client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = cache.Client.Close()
		cache.Client = prev
	})
	return mr
}

// NoRedis testi redis olmadan çalıştırır.
func NoRedis(t *testing.T) {
	t.Helper()
	prev := cache.Client
	cache.Client = nil
	t.Cleanup(func() { cache.Client = prev })
}

func NewApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: apperr.Handler})
}

// Do isteği app.Test ile çalıştırır, gövde varsa JSON olarak gönderir.
func Do(t *testing.T, app *fiber.App, method, url string, body any) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, url, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

// DecodeJSON yanıt gövdesini v'ye çözer.
func DecodeJSON(t *testing.T, raw []byte, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v), string(raw))
}
