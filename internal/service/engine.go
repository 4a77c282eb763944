package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/nsxzhou1114/cms-api/internal/config"
	"github.com/nsxzhou1114/cms-api/internal/database"
	"github.com/nsxzhou1114/cms-api/internal/event"
	"github.com/nsxzhou1114/cms-api/internal/logger"
	"github.com/nsxzhou1114/cms-api/internal/metrics"
	"github.com/nsxzhou1114/cms-api/internal/repository"
	"github.com/nsxzhou1114/cms-api/internal/staticgen"
	"github.com/nsxzhou1114/cms-api/pkg/idgen"
	prom "github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Engine 静态化引擎的全部组件，进程内只有一份
type Engine struct {
	Content  repository.ContentRepository
	Logs     *repository.BuildLogRepository
	Renderer *staticgen.TemplateRenderer
	Writer   staticgen.Writer
	Builder  *staticgen.Builder
	Sitemap  *staticgen.SitemapGenerator
	Bus      *event.Bus
	Metrics  *metrics.PrometheusRecorder

	// PublicPath 未配置站点地址时拼接在访问域名后的静态目录
	PublicPath string

	retryAttempts uint
	logger        *zap.SugaredLogger
}

var (
	engine     *Engine
	engineOnce sync.Once
)

// GetEngine 获取全局引擎，首次调用时按全局配置组装
func GetEngine() *Engine {
	engineOnce.Do(func() {
		var err error
		engine, err = NewEngine(config.GlobalConfig, database.GetDB(), logger.GetSugaredLogger())
		if err != nil {
			panic(fmt.Sprintf("静态化引擎初始化失败: %v", err))
		}
	})
	return engine
}

// NewEngine 按配置组装渲染、写入、构建、站点地图与事件总线
func NewEngine(cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	writer, err := newWriter(cfg)
	if err != nil {
		return nil, err
	}

	node, err := idgen.NewNode(cfg.App.SnowflakeEpoch, cfg.App.MachineID)
	if err != nil {
		return nil, fmt.Errorf("初始化批次号生成器失败: %v", err)
	}

	var recorder *metrics.PrometheusRecorder
	if cfg.Metrics.Enabled {
		reg := prom.NewRegistry()
		metrics.RegisterRuntimeCollectors(reg)
		recorder = metrics.NewPrometheusRecorder(reg)
	}

	content := repository.NewContentRepository(db)
	logs := repository.NewBuildLogRepository(db)
	renderer := staticgen.NewTemplateRenderer(cfg.Static.TemplatesDir,
		staticgen.WithMinify(cfg.Static.Minify),
		staticgen.WithRendererLogger(log),
	)

	opts := []staticgen.BuilderOption{
		staticgen.WithPageSize(cfg.Static.PageSize),
		staticgen.WithIndexLimit(cfg.Static.IndexLimit),
		staticgen.WithIDGenerator(node),
		staticgen.WithLogger(log),
	}
	var sitemapRecorder staticgen.Recorder
	if recorder != nil {
		opts = append(opts, staticgen.WithRecorder(recorder))
		sitemapRecorder = recorder
	}
	builder := staticgen.NewBuilder(content, renderer, writer, logs, opts...)

	e := &Engine{
		Content:       content,
		Logs:          logs,
		Renderer:      renderer,
		Writer:        writer,
		Builder:       builder,
		Sitemap:       staticgen.NewSitemapGenerator(content, writer, builder.PageSize(), sitemapRecorder),
		Bus:           event.NewBus(cfg.Event.Workers, cfg.Event.Buffer, log),
		Metrics:       recorder,
		PublicPath:    cfg.Static.PublicPath,
		retryAttempts: uint(max(cfg.Event.RetryAttempts, 1)),
		logger:        log,
	}
	return e, nil
}

// newWriter 本地写入器，启用COS时包装为镜像写入
func newWriter(cfg *config.Config) (staticgen.Writer, error) {
	local := staticgen.NewFileWriter(cfg.Static.OutputDir)
	cos := cfg.Storage.COS
	if !cos.Enabled {
		return local, nil
	}
	putter, err := staticgen.NewCOSPutter(cos.BucketURL, cos.SecretID, cos.SecretKey)
	if err != nil {
		return nil, err
	}
	return staticgen.NewMirrorWriter(local, putter, cos.Prefix), nil
}

// WatchTemplates 监听模板目录，文件变化后清空模板缓存
func (e *Engine) WatchTemplates(ctx context.Context) error {
	return e.Renderer.Watch(ctx)
}

// Shutdown 等待事件总线中已入队的构建完成
func (e *Engine) Shutdown() {
	e.Bus.Shutdown()
}
