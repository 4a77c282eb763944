package staticgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/nsxzhou1114/cms-api/internal/model"
	"github.com/nsxzhou1114/cms-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var defaultThemeFiles = map[string]string{
	"layout.html":   `{{define "layout"}}<!DOCTYPE html><html><head><title>{{.title}}</title><meta name="description" content="{{.description}}"></head><body>{{template "header" .}}{{template "content" .}}</body></html>{{end}}`,
	"_header.html":  `{{define "header"}}<header class="site">{{.config.SiteName}}{{if .is_home}} home{{end}}</header>{{end}}`,
	"index.html":    `{{define "content"}}<ul>{{range .articles}}<li class="article" data-id="{{.ID}}">{{.Title}}</li>{{end}}</ul>{{end}}{{template "layout" .}}`,
	"articles.html": `{{define "content"}}<ul>{{range .articles}}<li class="article" data-id="{{.ID}}">{{.Title}}</li>{{end}}</ul><span class="page">{{.pagination.CurrentPage}}/{{.pagination.TotalPages}}</span>{{end}}{{template "layout" .}}`,
	"article.html":  `{{define "content"}}<h1>{{.article.Title}}</h1>{{with .prev}}<a class="prev" data-id="{{.ID}}" href="{{article_url .ID}}">{{.Title}}</a>{{end}}{{with .next}}<a class="next" data-id="{{.ID}}" href="{{article_url .ID}}">{{.Title}}</a>{{end}}{{end}}{{template "layout" .}}`,
	"category.html": `{{define "content"}}<h1>{{.category.Name}}</h1><ul>{{range .articles}}<li class="article" data-id="{{.ID}}">{{.Title}}</li>{{end}}</ul>{{end}}{{template "layout" .}}`,
	"tag.html":      `{{define "content"}}<h1>{{.tag.Name}}</h1><ul>{{range .articles}}<li class="article" data-id="{{.ID}}">{{.Title}}</li>{{end}}</ul>{{end}}{{template "layout" .}}`,
	"page.html":     `{{define "content"}}<h1>{{.page.Title}}</h1>{{end}}{{template "layout" .}}`,
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, model.InitTables(db))
	return db
}

func writeTheme(t *testing.T, root, theme string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(root, theme)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
}

// memorySink 内存构建日志
type memorySink struct {
	mu   sync.Mutex
	logs []model.BuildLog
}

func (s *memorySink) Record(_ context.Context, log *model.BuildLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, *log)
	return nil
}

func (s *memorySink) byScope(scope Scope) []model.BuildLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.BuildLog
	for _, l := range s.logs {
		if l.Scope == string(scope) {
			out = append(out, l)
		}
	}
	return out
}

// flakyWriter 对指定路径返回错误
type flakyWriter struct {
	Writer
	fail map[string]bool
}

func (w *flakyWriter) Write(ctx context.Context, rel string, content []byte) error {
	if w.fail[rel] {
		return fmt.Errorf("磁盘已满")
	}
	return w.Writer.Write(ctx, rel, content)
}

// panicRenderer 渲染时直接panic
type panicRenderer struct {
	Renderer
}

func (panicRenderer) Render(string, Context) (string, error) {
	panic("模板函数异常")
}

type fixture struct {
	db        *gorm.DB
	templates string
	output    string
	sink      *memorySink
	writer    *FileWriter
	renderer  *TemplateRenderer
	builder   *Builder
	site      SiteConfig
}

func newFixture(t *testing.T, opts ...BuilderOption) *fixture {
	t.Helper()
	f := &fixture{
		db:        newTestDB(t),
		templates: t.TempDir(),
		output:    t.TempDir(),
		sink:      &memorySink{},
		site:      SiteConfig{SiteName: "测试站点", Theme: "default"},
	}
	writeTheme(t, f.templates, "default", defaultThemeFiles)
	f.renderer = NewTemplateRenderer(f.templates)
	f.writer = NewFileWriter(f.output)
	f.builder = NewBuilder(repository.NewContentRepository(f.db), f.renderer, f.writer, f.sink, opts...)
	return f
}

func (f *fixture) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.output, rel))
	require.NoError(t, err)
	return string(data)
}

func (f *fixture) exists(rel string) bool {
	_, err := os.Stat(filepath.Join(f.output, rel))
	return err == nil
}

func (f *fixture) article(t *testing.T, a model.Article) model.Article {
	t.Helper()
	if a.Lifecycle == "" {
		a.Lifecycle = model.LifecycleActive
	}
	if a.Title == "" {
		a.Title = fmt.Sprintf("文章%d", a.ID)
	}
	require.NoError(t, f.db.Create(&a).Error)
	return a
}

func at(minutes int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute)
}

func (f *fixture) publishedArticles(t *testing.T, n int, categoryID uint) {
	t.Helper()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		created := base.Add(time.Duration(i) * time.Minute)
		f.article(t, model.Article{
			Base:        model.Base{CreatedAt: created},
			Title:       fmt.Sprintf("文章%d", i),
			Status:      model.ArticleStatusPublished,
			CategoryID:  categoryID,
			PublishTime: &created,
		})
	}
}
