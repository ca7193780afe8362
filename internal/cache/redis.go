package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"alhidayah-backend/internal/config"
	"alhidayah-backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

// Client nil ise redis kullanılmıyor demektir; bu paketteki tüm fonksiyonlar
// bu durumda sessizce hiçbir şey yapmaz.
var Client *redis.Client

func Init(cfg *config.Config) {
	if cfg.RedisAddr == "" {
		return
	}

	Client = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := Client.Ping(ctx).Err(); err != nil {
		logger.GetAppLogger().Fatalf("Redis'e bağlanılamadı: %v", err)
	}
	logger.GetAppLogger().Info("Redis bağlantısı başarılı")
}

// GetJSON key'i dest'e çözer. Kayıt yoksa false döner.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if Client == nil {
		return false, nil
	}
	raw, err := Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if Client == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return Client.Set(ctx, key, raw, ttl).Err()
}

func Delete(ctx context.Context, keys ...string) error {
	if Client == nil || len(keys) == 0 {
		return nil
	}
	return Client.Del(ctx, keys...).Err()
}
