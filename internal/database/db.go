package database

import (
	"alhidayah-backend/internal/config"
	"alhidayah-backend/internal/logger"
	"alhidayah-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	log := logger.GetAppLogger()

	var err error
	// TranslateError: tekil indeks ihlali gorm.ErrDuplicatedKey olarak döner
	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.Driver{},
		&models.MenuItem{},
		&models.Review{},
		&models.Promo{},
		&models.AuditLog{},
		&models.OutletSettings{},
		&models.NotificationPreference{},
		&models.ReportSnapshot{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	log.Info("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}
