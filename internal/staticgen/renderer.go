package staticgen

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/gin-contrib/multitemplate"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"go.uber.org/zap"
)

// Context 模板上下文
type Context map[string]any

// Renderer 模板渲染能力
type Renderer interface {
	ThemeLocator
	Render(key string, data Context) (string, error)
}

// RendererOption 渲染器选项
type RendererOption func(*TemplateRenderer)

// WithMinify 输出前压缩HTML
func WithMinify(enabled bool) RendererOption {
	return func(r *TemplateRenderer) {
		if !enabled {
			r.minifier = nil
			return
		}
		m := minify.New()
		m.AddFunc("text/html", html.Minify)
		m.AddFunc("text/css", css.Minify)
		m.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)
		r.minifier = m
	}
}

// WithRendererLogger 设置日志
func WithRendererLogger(logger *zap.SugaredLogger) RendererOption {
	return func(r *TemplateRenderer) { r.logger = logger }
}

// TemplateRenderer 基于 html/template 的主题渲染器
// 每个页面模板与主题的 layout.html、_*.html 片段组成一个独立模板集，以模板键缓存
type TemplateRenderer struct {
	root     string
	funcs    template.FuncMap
	minifier *minify.M
	logger   *zap.SugaredLogger

	mu  sync.RWMutex
	set multitemplate.Render
}

// NewTemplateRenderer 创建渲染器，root 为模板根目录
func NewTemplateRenderer(root string, opts ...RendererOption) *TemplateRenderer {
	r := &TemplateRenderer{
		root:   root,
		funcs:  templateFuncs(),
		logger: zap.NewNop().Sugar(),
		set:    multitemplate.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Root 模板根目录
func (r *TemplateRenderer) Root() string {
	return r.root
}

// ThemeExists 主题目录是否存在
func (r *TemplateRenderer) ThemeExists(theme string) bool {
	stat, err := os.Stat(filepath.Join(r.root, theme))
	return err == nil && stat.IsDir()
}

// Render 渲染模板
func (r *TemplateRenderer) Render(key string, data Context) (string, error) {
	tmpl, err := r.lookup(key)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: 渲染 %s 失败: %v", ErrTemplate, key, err)
	}
	if r.minifier == nil {
		return buf.String(), nil
	}
	out, err := r.minifier.String("text/html", buf.String())
	if err != nil {
		return "", fmt.Errorf("%w: 压缩 %s 失败: %v", ErrTemplate, key, err)
	}
	return out, nil
}

// lookup 读取缓存，未命中时解析模板文件
func (r *TemplateRenderer) lookup(key string) (*template.Template, error) {
	r.mu.RLock()
	tmpl, ok := r.set[key]
	r.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	tmpl, err := r.parse(key)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.set[key]; ok {
		return cached, nil
	}
	r.set.Add(key, tmpl)
	return tmpl, nil
}

func (r *TemplateRenderer) parse(key string) (*template.Template, error) {
	theme, name := SplitKey(key)
	if !validName(theme) || !validName(name) {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, key)
	}
	dir := filepath.Join(r.root, theme)
	page := filepath.Join(dir, name+".html")
	if _, err := os.Stat(page); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, key)
	}

	// 页面模板作为根模板，布局与片段通过 {{template}} 引用
	files := []string{page}
	if name != LayoutTemplate {
		layout := filepath.Join(dir, LayoutTemplate+".html")
		if _, err := os.Stat(layout); err == nil {
			files = append(files, layout)
		}
	}
	partials, err := filepath.Glob(filepath.Join(dir, "_*.html"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	files = append(files, partials...)

	tmpl, err := template.New(filepath.Base(page)).Funcs(r.funcs).ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("%w: 解析 %s 失败: %v", ErrTemplate, key, err)
	}
	return tmpl, nil
}

// Invalidate 清空模板缓存，主题切换或模板文件变更后调用
func (r *TemplateRenderer) Invalidate() {
	r.mu.Lock()
	r.set = multitemplate.New()
	r.mu.Unlock()
}

// Watch 监听模板目录变化并清空缓存，ctx 结束时停止
func (r *TemplateRenderer) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建模板监听失败: %w", err)
	}
	if err := watcher.Add(r.root); err != nil {
		watcher.Close()
		return fmt.Errorf("监听模板目录失败: %w", err)
	}
	entries, _ := os.ReadDir(r.root)
	for _, entry := range entries {
		if entry.IsDir() {
			if err := watcher.Add(filepath.Join(r.root, entry.Name())); err != nil {
				r.logger.Warnf("监听主题目录 %s 失败: %v", entry.Name(), err)
			}
		}
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Create) {
					if stat, err := os.Stat(event.Name); err == nil && stat.IsDir() {
						_ = watcher.Add(event.Name)
					}
				}
				r.logger.Debugf("模板文件变化: %s", event)
				r.Invalidate()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				r.logger.Warnf("模板监听错误: %v", err)
			}
		}
	}()
	return nil
}
