package realtime

import (
	"context"

	"alhidayah-backend/internal/cache"
	"alhidayah-backend/internal/logger"
)

func ordersChannel(outletID string) string {
	return "orders:changed:" + outletID
}

// PublishOrderChanged dashboard üzerinden yapılan sipariş değişikliklerini
// canlı akışı dinleyen bağlantılara duyurur. Redis yoksa hiçbir şey yapmaz.
func PublishOrderChanged(ctx context.Context, outletID, orderID string) {
	if cache.Client == nil {
		return
	}
	if err := cache.Client.Publish(ctx, ordersChannel(outletID), orderID).Err(); err != nil {
		logger.GetAppLogger().WithError(err).WithField("order_id", orderID).Warn("Sipariş değişikliği yayınlanamadı")
	}
}

// SubscribeOrders outlet kanalındaki her mesaj için bir sinyal üretir.
// Dönen fonksiyon aboneliği kapatır. Redis yoksa kanal hiç tetiklenmez.
func SubscribeOrders(ctx context.Context, outletID string) (<-chan struct{}, func()) {
	if cache.Client == nil {
		return nil, func() {}
	}

	pubsub := cache.Client.Subscribe(ctx, ordersChannel(outletID))
	signals := make(chan struct{}, 1)

	go func() {
		for range pubsub.Channel() {
			// Bekleyen bir sinyal varsa yenisine gerek yok, snapshot zaten tamamını içeriyor
			select {
			case signals <- struct{}{}:
			default:
			}
		}
	}()

	return signals, func() {
		_ = pubsub.Close()
	}
}
