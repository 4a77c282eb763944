package staticgen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nsxzhou1114/cms-api/internal/model"
	"github.com/nsxzhou1114/cms-api/internal/repository"
	"go.uber.org/zap"
)

// 默认分页参数
const (
	DefaultPageSize   = 20
	DefaultIndexLimit = 10
)

// LogSink 构建日志记录
type LogSink interface {
	Record(ctx context.Context, log *model.BuildLog) error
}

// Recorder 构建指标
type Recorder interface {
	ObserveBuild(scope Scope, duration time.Duration, err error)
	ObserveBatch(scope Scope, failed int)
	ObserveSitemap(format string, urls int)
}

// IDGenerator 批次号生成
type IDGenerator interface {
	NextID() int64
}

type nopRecorder struct{}

func (nopRecorder) ObserveBuild(Scope, time.Duration, error) {}
func (nopRecorder) ObserveBatch(Scope, int)                  {}
func (nopRecorder) ObserveSitemap(string, int)               {}

// clockIDs 未配置雪花算法时用纳秒时间作为批次号
type clockIDs struct{}

func (clockIDs) NextID() int64 { return time.Now().UnixNano() }

// Request 一次构建请求
type Request struct {
	Scope     Scope
	TargetID  uint
	BuildType string
	Site      SiteConfig
}

// Outcome 单次构建结果
type Outcome struct {
	Files []string `json:"files"`
	Pages int      `json:"pages"`
}

// strategy 单个范围的 查询→渲染→写入 流程
type strategy func(ctx context.Context, site *SiteConfig, id uint) (*Outcome, error)

// Builder 静态化构建编排
type Builder struct {
	repo     repository.ContentRepository
	resolver *ThemeResolver
	renderer Renderer
	writer   Writer
	logs     LogSink
	recorder Recorder
	ids      IDGenerator
	logger   *zap.SugaredLogger
	now      func() time.Time

	pageSize   int
	indexLimit int

	strategies map[Scope]strategy
}

// BuilderOption 构建器选项
type BuilderOption func(*Builder)

// WithPageSize 文章列表每页数量
func WithPageSize(size int) BuilderOption {
	return func(b *Builder) {
		if size > 0 {
			b.pageSize = size
		}
	}
}

// WithIndexLimit 首页文章数量
func WithIndexLimit(limit int) BuilderOption {
	return func(b *Builder) {
		if limit > 0 {
			b.indexLimit = limit
		}
	}
}

// WithRecorder 设置指标记录
func WithRecorder(recorder Recorder) BuilderOption {
	return func(b *Builder) { b.recorder = recorder }
}

// WithIDGenerator 设置批次号生成器
func WithIDGenerator(ids IDGenerator) BuilderOption {
	return func(b *Builder) { b.ids = ids }
}

// WithLogger 设置日志
func WithLogger(logger *zap.SugaredLogger) BuilderOption {
	return func(b *Builder) { b.logger = logger }
}

// WithClock 设置时钟
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) { b.now = now }
}

// NewBuilder 创建构建器
func NewBuilder(repo repository.ContentRepository, renderer Renderer, writer Writer, logs LogSink, opts ...BuilderOption) *Builder {
	b := &Builder{
		repo:       repo,
		resolver:   NewThemeResolver(renderer),
		renderer:   renderer,
		writer:     writer,
		logs:       logs,
		recorder:   nopRecorder{},
		ids:        clockIDs{},
		logger:     zap.NewNop().Sugar(),
		now:        time.Now,
		pageSize:   DefaultPageSize,
		indexLimit: DefaultIndexLimit,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.strategies = map[Scope]strategy{
		ScopeIndex:       b.buildIndex,
		ScopeArticleList: b.buildArticleList,
		ScopeArticle:     b.buildArticle,
		ScopeCategory:    b.buildCategory,
		ScopeTag:         b.buildTag,
		ScopePage:        b.buildPage,
	}
	return b
}

// PageSize 文章列表每页数量
func (b *Builder) PageSize() int {
	return b.pageSize
}

// Build 执行一次单范围构建，无论成败都写入一条构建日志
func (b *Builder) Build(ctx context.Context, req Request) (*Outcome, error) {
	return b.run(ctx, req, 0)
}

func (b *Builder) run(ctx context.Context, req Request, batchID int64) (out *Outcome, err error) {
	build, ok := b.strategies[req.Scope]
	if !ok {
		return nil, &BuildError{Scope: req.Scope, TargetID: req.TargetID, Err: fmt.Errorf("%w: %s", ErrInvalidScope, req.Scope)}
	}
	if req.BuildType == "" {
		req.BuildType = model.BuildTypeManual
	}
	site := req.Site.Normalize()
	start := b.now()

	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("构建过程发生异常: %v", r)
		}
		if err != nil {
			err = &BuildError{Scope: req.Scope, TargetID: req.TargetID, Err: err}
		}
		b.record(ctx, req.Scope, req.TargetID, req.BuildType, batchID, b.now().Sub(start), err)
	}()

	return build(ctx, &site, req.TargetID)
}

// RecordFailure 构建未能开始时补写一条失败日志，如配置快照加载失败
func (b *Builder) RecordFailure(ctx context.Context, scope Scope, targetID uint, buildType string, cause error) error {
	if buildType == "" {
		buildType = model.BuildTypeManual
	}
	err := &BuildError{Scope: scope, TargetID: targetID, Err: cause}
	b.record(ctx, scope, targetID, buildType, 0, 0, err)
	if scope.Batch() {
		b.recorder.ObserveBatch(scope, 1)
	}
	return err
}

// record 写构建日志并上报指标，日志写入失败不影响构建结果
func (b *Builder) record(ctx context.Context, scope Scope, targetID uint, buildType string, batchID int64, duration time.Duration, buildErr error) {
	entry := &model.BuildLog{
		BuildType:  buildType,
		Scope:      string(scope),
		TargetID:   targetID,
		Status:     model.BuildStatusSuccess,
		BatchID:    batchID,
		DurationMs: duration.Milliseconds(),
		CreatedAt:  b.now(),
	}
	if buildErr != nil {
		entry.Status = model.BuildStatusFailed
		entry.ErrorMessage = buildErr.Error()
	}
	if err := b.logs.Record(ctx, entry); err != nil {
		b.logger.Errorw("写入构建日志失败", "scope", scope, "target_id", targetID, "error", err)
	}
	b.recorder.ObserveBuild(scope, duration, buildErr)

	fields := []any{"scope", scope, "target_id", targetID, "build_type", buildType, "batch_id", batchID, "duration", duration}
	if buildErr != nil {
		b.logger.Errorw("静态页生成失败", append(fields, "error", buildErr)...)
		return
	}
	b.logger.Infow("静态页生成成功", fields...)
}

// baseContext 所有页面共享的上下文
func baseContext(site *SiteConfig, isHome bool, title, keywords, description string) Context {
	return Context{
		"config":      site,
		"is_home":     isHome,
		"title":       title,
		"keywords":    keywords,
		"description": description,
	}
}

// emit 解析模板、渲染并写入
func (b *Builder) emit(ctx context.Context, site *SiteConfig, name, rel string, data Context) error {
	key, err := b.resolver.Resolve(name, site.Theme)
	if err != nil {
		return err
	}
	html, err := b.renderer.Render(key, data)
	if err != nil {
		if !errors.Is(err, ErrTemplate) {
			err = fmt.Errorf("%w: %v", ErrTemplate, err)
		}
		return err
	}
	if err := b.writer.Write(ctx, rel, []byte(html)); err != nil {
		if !errors.Is(err, ErrIO) {
			err = fmt.Errorf("%w: %v", ErrIO, err)
		}
		return err
	}
	return nil
}
