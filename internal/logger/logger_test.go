package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLoggerIsCached(t *testing.T) {
	require.NoError(t, Init(DefaultConfig()))
	assert.Same(t, GetAppLogger(), GetLogger("app"))
	assert.NotSame(t, GetAppLogger(), GetAuditLogger())
}

func TestInitAppliesLevelAndFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = "debug"
	cfg.Format = "json"
	require.NoError(t, Init(cfg))
	t.Cleanup(func() { _ = Init(DefaultConfig()) })

	l := GetAppLogger()
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)

	cfg.Level = "loud"
	require.NoError(t, Init(cfg))
	assert.Equal(t, logrus.InfoLevel, GetAppLogger().GetLevel())
}

func TestFileOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	cfg := DefaultConfig()
	cfg.Output = "file"
	cfg.LogPath = dir
	require.NoError(t, Init(cfg))
	t.Cleanup(func() { _ = Init(DefaultConfig()) })

	GetAuditLogger().Info("promo güncellendi")

	raw, err := os.ReadFile(filepath.Join(dir, "audit.log"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "promo güncellendi")
}
