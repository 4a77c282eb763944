package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func TestInitAppliesDefaults(t *testing.T) {
	dir := writeConfig(t, "app:\n  port: 9000\ndatabase:\n  driver: sqlite\n")

	require.NoError(t, Init(dir))
	cfg := GetConfig()

	assert.Equal(t, 9000, cfg.App.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "html", cfg.Static.OutputDir)
	assert.Equal(t, "templates", cfg.Static.TemplatesDir)
	assert.Equal(t, 20, cfg.Static.PageSize)
	assert.Equal(t, 10, cfg.Static.IndexLimit)
	assert.Equal(t, 30, cfg.Cron.LogRetentionDays)
	assert.Equal(t, 4, cfg.Event.Workers)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestInitRejectsShortRetention(t *testing.T) {
	dir := writeConfig(t, "cron:\n  log_retention_days: 3\n")

	err := Init(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_retention_days")
}

func TestInitEnvOverride(t *testing.T) {
	dir := writeConfig(t, "static:\n  output_dir: public\n")
	t.Setenv("STATIC_OUTPUT_DIR", "dist")

	require.NoError(t, Init(dir))
	assert.Equal(t, "dist", GetConfig().Static.OutputDir)
	assert.Equal(t, "dist", GetString("static.output_dir"))
}

func TestInitMissingFile(t *testing.T) {
	err := Init(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "读取配置文件失败")
}
