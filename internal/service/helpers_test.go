package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/nsxzhou1114/cms-api/internal/config"
	"github.com/nsxzhou1114/cms-api/internal/event"
	"github.com/nsxzhou1114/cms-api/internal/model"
	"github.com/nsxzhou1114/cms-api/pkg/cache"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var nopLog = zap.NewNop().Sugar()

var testThemeFiles = map[string]string{
	"layout.html":   `{{define "layout"}}<html><head><title>{{.title}}</title></head><body>{{template "content" .}}</body></html>{{end}}`,
	"index.html":    `{{define "content"}}{{range .articles}}<li class="article" data-id="{{.ID}}">{{.Title}}</li>{{end}}{{end}}{{template "layout" .}}`,
	"articles.html": `{{define "content"}}{{range .articles}}<li class="article" data-id="{{.ID}}">{{.Title}}</li>{{end}}{{end}}{{template "layout" .}}`,
	"article.html":  `{{define "content"}}<h1>{{.article.Title}}</h1>{{end}}{{template "layout" .}}`,
	"category.html": `{{define "content"}}<h1>{{.category.Name}}</h1>{{end}}{{template "layout" .}}`,
	"tag.html":      `{{define "content"}}<h1>{{.tag.Name}}</h1>{{end}}{{template "layout" .}}`,
	"page.html":     `{{define "content"}}<h1>{{.page.Title}}</h1>{{end}}{{template "layout" .}}`,
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, model.InitTables(db))
	require.NoError(t, model.SeedSettings(db))
	return db
}

func setSetting(t *testing.T, db *gorm.DB, key, value string) {
	t.Helper()
	require.NoError(t, db.Model(&model.Setting{}).Where("`key` = ?", key).Update("value", value).Error)
}

func writeTheme(t *testing.T, root, theme string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(root, theme)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
}

// testConfig 输出与模板目录都在临时目录下
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{}
	cfg.App.MachineID = 1
	cfg.App.SnowflakeEpoch = "2024-01-01"
	cfg.Static.OutputDir = filepath.Join(root, "html")
	cfg.Static.TemplatesDir = filepath.Join(root, "templates")
	cfg.Static.PageSize = 20
	cfg.Static.IndexLimit = 10
	cfg.Static.PublicPath = "/html"
	cfg.Event.Workers = 1
	cfg.Event.Buffer = 16
	cfg.Event.RetryAttempts = 1
	cfg.Metrics.Enabled = true
	writeTheme(t, cfg.Static.TemplatesDir, "default", testThemeFiles)
	return cfg
}

func newTestEngine(t *testing.T, db *gorm.DB) (*Engine, *config.Config) {
	t.Helper()
	cfg := testConfig(t)
	e, err := NewEngine(cfg, db, nopLog)
	require.NoError(t, err)
	t.Cleanup(e.Shutdown)
	return e, cfg
}

// memoryCache 进程内缓存
type memoryCache struct {
	mu      sync.Mutex
	data    map[string]string
	deletes int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string]string{}}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return v, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = fmt.Sprint(value)
	return nil
}

func (c *memoryCache) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.data[key]; ok {
		return false, nil
	}
	c.data[key] = fmt.Sprint(value)
	return true, nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	c.deletes++
	return nil
}

func (c *memoryCache) GetJSON(ctx context.Context, key string, dest any) error {
	v, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(v), dest)
}

func (c *memoryCache) SetJSON(ctx context.Context, key string, value any, exp time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, string(data), exp)
}

func (c *memoryCache) Close() error { return nil }

// recordingPublisher 记录发布的事件
type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

type published struct {
	Topic   event.Topic
	Payload any
}

func (p *recordingPublisher) Publish(topic event.Topic, payload any) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{Topic: topic, Payload: payload})
	return true
}

func (p *recordingPublisher) topics() []event.Topic {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]event.Topic, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Topic)
	}
	return out
}

func seedCategory(t *testing.T, db *gorm.DB, name string, status int) model.Category {
	t.Helper()
	c := model.Category{Name: name, Status: status}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func seedTag(t *testing.T, db *gorm.DB, name string) model.Tag {
	t.Helper()
	tag := model.Tag{Name: name, Status: model.StatusEnabled}
	require.NoError(t, db.Create(&tag).Error)
	return tag
}
