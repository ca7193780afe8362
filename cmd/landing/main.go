package main

import (
	"log"

	"alhidayah-backend/internal/config"
	"alhidayah-backend/internal/landing"
	"alhidayah-backend/internal/logger"

	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg := config.LoadLanding()

	if err := logger.Init(&logger.LogConfig{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		Output:     cfg.LogOutput,
		LogPath:    cfg.LogPath,
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}); err != nil {
		log.Fatalf("[FATAL] Logger başlatılamadı: %v", err)
	}
	appLog := logger.GetLogger("landing")

	app, err := landing.NewApp(cfg,
		recover.New(),
		fiberlogger.New(fiberlogger.Config{
			Output: appLog.Writer(),
			Format: "${status} - ${latency} ${method} ${path}\n",
		}),
	)
	if err != nil {
		appLog.Fatalf("Landing uygulaması kurulamadı: %v", err)
	}

	appLog.Infof("Landing çalışıyor port: %s", cfg.LandingPort)
	if err := app.Listen(":" + cfg.LandingPort); err != nil {
		appLog.Fatal(err)
	}
}
