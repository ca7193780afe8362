package config

import (
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	defaultDSN         = "host=localhost user=postgres password=postgres dbname=alhidayah port=5432 sslmode=disable"
	defaultCORSOrigins = "http://localhost:3001"
)

type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseDSN string `env:"DATABASE_DSN" envDefault:"host=localhost user=postgres password=postgres dbname=alhidayah port=5432 sslmode=disable"`
	JWTSecret   string `env:"JWT_SECRET"`
	CORSOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3001"`

	// Tüm sorgular bu şubeye (outlet) göre filtrelenir
	OutletID string `env:"OUTLET_ID" envDefault:"OUTLET_001"`

	RedisAddr     string `env:"REDIS_ADDR"` // boşsa oturumlar sadece JWT ile tutulur
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	SessionTTL         time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	StreamPollInterval time.Duration `env:"STREAM_POLL_INTERVAL" envDefault:"15s"`
	OverviewCacheTTL   time.Duration `env:"OVERVIEW_CACHE_TTL" envDefault:"15s"`

	FirebaseProjectID       string `env:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`  // text | json
	LogOutput string `env:"LOG_OUTPUT" envDefault:"stdout"` // stdout | file | both
	LogPath   string `env:"LOG_PATH" envDefault:"./logs"`

	// Landing site
	LandingPort   string `env:"LANDING_PORT" envDefault:"3000"`
	DashboardURL  string `env:"DASHBOARD_URL" envDefault:"http://localhost:3001"`
	GateEmail     string `env:"GATE_EMAIL" envDefault:"admin@alhidayahalfakhirah.com"`
	GatePassword  string `env:"GATE_PASSWORD"`
	DefaultLocale string `env:"DEFAULT_LOCALE" envDefault:"en"`
}

// Load .env dosyasını (varsa) okur ve ortam değişkenlerini Config'e çözer.
func Load() *Config {
	// .env opsiyonel, yoksa sadece ortam değişkenleri kullanılır
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("[FATAL] Konfigürasyon okunamadı: %v", err)
	}

	// Production güvenlik kontrolleri
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET environment değişkeni tanımlanmamış! Production için zorunludur.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET en az 32 karakter olmalıdır! Güvenlik riski.")
	}

	for _, w := range cfg.Warnings() {
		log.Println("[WARN]", w)
	}

	return cfg
}

// LoadLanding landing sunucusu için konfigürasyonu okur. JWT gerekmez.
func LoadLanding() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("[FATAL] Konfigürasyon okunamadı: %v", err)
	}
	if cfg.GatePassword == "" {
		log.Fatal("[FATAL] GATE_PASSWORD tanımlanmamış!")
	}
	return cfg
}

// Warnings varsayılan değerle çalışan kritik ayarları döndürür.
func (c *Config) Warnings() []string {
	var out []string
	if c.DatabaseDSN == defaultDSN {
		out = append(out, "DATABASE_DSN varsayılan değer kullanılıyor, production için mutlaka kendi Postgres bağlantı bilgisini tanımla.")
	}
	if c.CORSOrigins == defaultCORSOrigins {
		out = append(out, "CORS_ALLOWED_ORIGINS varsayılan değer kullanılıyor, production için mutlaka kendi domain'ini tanımla.")
	}
	if c.RedisAddr == "" {
		out = append(out, "REDIS_ADDR tanımlanmamış, oturum kapatma ve canlı sipariş bildirimi devre dışı.")
	}
	return out
}

// CORSOriginList virgülle ayrılmış origin listesini temizler.
func (c *Config) CORSOriginList() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FirebaseEnabled Firebase ile giriş yapılandırılmış mı?
func (c *Config) FirebaseEnabled() bool {
	return c.FirebaseCredentialsPath != ""
}
