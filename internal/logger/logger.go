package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LogConfig struct {
	Level      string // debug | info | warn | error
	Format     string // text | json
	Output     string // stdout | file | both
	LogPath    string
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // gün
	Compress   bool
}

func DefaultConfig() *LogConfig {
	return &LogConfig{
		Level:      "info",
		Format:     "text",
		Output:     "stdout",
		LogPath:    "./logs",
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}
}

var (
	loggers   = make(map[string]*logrus.Logger)
	loggersMu sync.Mutex
	config    *LogConfig
)

// Init logger konfigürasyonunu ayarlar. Daha önce oluşturulmuş logger'lar sıfırlanır.
func Init(cfg *LogConfig) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if cfg.Output == "file" || cfg.Output == "both" {
		if err := os.MkdirAll(cfg.LogPath, 0o755); err != nil {
			return fmt.Errorf("log klasörü oluşturulamadı: %w", err)
		}
	}

	loggersMu.Lock()
	defer loggersMu.Unlock()
	config = cfg
	loggers = make(map[string]*logrus.Logger)
	return nil
}

// GetLogger isimle logger döndürür (app, audit, ...). Yoksa oluşturur.
func GetLogger(name string) *logrus.Logger {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if config == nil {
		config = DefaultConfig()
	}

	if l, ok := loggers[name]; ok {
		return l
	}

	l := createLogger(name)
	loggers[name] = l
	return l
}

func createLogger(name string) *logrus.Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if config.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
				logrus.FieldKeyFunc:  "function",
				logrus.FieldKeyFile:  "file",
			},
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
			CallerPrettyfier: func(f *runtime.Frame) (string, string) {
				s := strings.Split(f.Function, ".")
				return s[len(s)-1], fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
			},
		})
	}

	var writers []io.Writer
	if config.Output == "file" || config.Output == "both" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   filepath.Join(config.LogPath, name+".log"),
			MaxSize:    config.MaxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge,
			Compress:   config.Compress,
		})
	}
	if config.Output == "stdout" || config.Output == "both" || len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}
	l.SetOutput(io.MultiWriter(writers...))
	l.SetReportCaller(true)

	return l
}

// GetAppLogger uygulamanın ana logger'ı
func GetAppLogger() *logrus.Logger {
	return GetLogger("app")
}

// GetAuditLogger dashboard üzerinde yapılan değişiklikler için
func GetAuditLogger() *logrus.Logger {
	return GetLogger("audit")
}
