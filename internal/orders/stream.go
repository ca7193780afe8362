package orders

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"alhidayah-backend/internal/config"
	"alhidayah-backend/internal/logger"
	"alhidayah-backend/internal/models"
	"alhidayah-backend/internal/realtime"

	"github.com/gofiber/fiber/v2"
)

// GET /api/orders/stream?status=NEW
// Server-sent events: bağlanınca, dashboard'dan bir değişiklik yayınlandığında
// ve her poll aralığında en yeni siparişlerin tam listesi gönderilir.
func StreamOrdersHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, err := ParseStatus(c.Query("status"))
		if err != nil {
			return err
		}

		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")
		c.Set("X-Accel-Buffering", "no")

		c.Context().SetBodyStreamWriter(newStreamWriter(cfg.OutletID, status, cfg.StreamPollInterval))
		return nil
	}
}

// newStreamWriter outlet kanalına abone olur ve akış döngüsünü döndürür.
// Yazma hatasında döngü biter ve abonelik kapanır.
func newStreamWriter(outletID string, status models.OrderStatus, interval time.Duration) func(*bufio.Writer) {
	// Handler döndükten sonra fiber context'i geri dönüştürülür, akış kendi context'ini kullanır
	ctx, cancel := context.WithCancel(context.Background())
	signals, unsubscribe := realtime.SubscribeOrders(ctx, outletID)

	return func(w *bufio.Writer) {
		defer cancel()
		defer unsubscribe()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log := logger.GetAppLogger().WithField("outlet_id", outletID)
		log.Debug("Sipariş akışı açıldı")

		for {
			if err := WriteSnapshot(ctx, w, outletID, status); err != nil {
				log.WithError(err).Debug("Sipariş akışı kapandı")
				return
			}

			select {
			case <-signals:
			case <-ticker.C:
			}
		}
	}
}

// WriteSnapshot tek bir SSE olayı yazar ve flush eder. Dönen hata sadece
// bağlantı hatasıdır; okuma hatası istemciye "error" olayı olarak gider.
func WriteSnapshot(ctx context.Context, w *bufio.Writer, outletID string, status models.OrderStatus) error {
	list, err := List(ctx, outletID, ListFilter{Status: status, Limit: StreamLimit})
	if err != nil {
		logger.GetAppLogger().WithError(err).Error("Akış için siparişler okunamadı")
		if _, err := fmt.Fprint(w, "event: error\ndata: {\"error\":\"Siparişler okunamadı\"}\n\n"); err != nil {
			return err
		}
		return w.Flush()
	}

	if list == nil {
		list = []models.Order{}
	}
	payload, err := json.Marshal(list)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: orders\ndata: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}
