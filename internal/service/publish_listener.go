package service

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go"
	"github.com/nsxzhou1114/cms-api/internal/event"
	"github.com/nsxzhou1114/cms-api/internal/model"
	"github.com/nsxzhou1114/cms-api/internal/staticgen"
	"go.uber.org/zap"
)

// Publisher 事件发布
type Publisher interface {
	Publish(topic event.Topic, payload any) bool
}

type nopPublisher struct{}

func (nopPublisher) Publish(event.Topic, any) bool { return true }

// 事件触发的构建超时
const listenerTimeout = 5 * time.Minute

// PublishListener 内容变更后自动重新生成相关静态页，失败只记录日志
type PublishListener struct {
	builds   *BuildService
	attempts uint
	delay    time.Duration
	logger   *zap.SugaredLogger
}

// NewPublishListener 创建发布监听器
func NewPublishListener(builds *BuildService, attempts uint, log *zap.SugaredLogger) *PublishListener {
	if attempts == 0 {
		attempts = 3
	}
	return &PublishListener{builds: builds, attempts: attempts, delay: time.Second, logger: log}
}

// RegisterListeners 将全局构建服务挂到事件总线上
func RegisterListeners(e *Engine) {
	NewPublishListener(NewBuildService(), e.retryAttempts, e.logger).Register(e.Bus)
}

// Register 订阅文章发布与分类、标签、单页更新事件
func (l *PublishListener) Register(bus *event.Bus) {
	bus.Subscribe(event.ArticlePublished, l.handle("文章发布", func(ctx context.Context, id uint) error {
		return l.builds.RebuildAfterPublish(ctx, id)
	}))
	bus.Subscribe(event.CategoryUpdated, l.handle("分类更新", func(ctx context.Context, id uint) error {
		_, err := l.builds.BuildCategory(ctx, id, model.BuildTypeAuto)
		return err
	}))
	bus.Subscribe(event.TagUpdated, l.handle("标签更新", func(ctx context.Context, id uint) error {
		_, err := l.builds.BuildTag(ctx, id, model.BuildTypeAuto)
		return err
	}))
	bus.Subscribe(event.PageUpdated, l.handle("单页更新", func(ctx context.Context, id uint) error {
		_, err := l.builds.BuildPage(ctx, id, model.BuildTypeAuto)
		return err
	}))
}

func (l *PublishListener) handle(name string, build func(ctx context.Context, id uint) error) event.Handler {
	return func(payload any) {
		id, ok := payload.(uint)
		if !ok {
			l.logger.Warnw("事件负载类型错误", "event", name, "payload", payload)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), listenerTimeout)
		defer cancel()

		if err := l.retry(ctx, func() error { return build(ctx, id) }); err != nil {
			l.logger.Errorw("自动生成静态页失败", "event", name, "target_id", id, "error", err)
		}
	}
}

// retry 未发布或不存在的目标重试也不会成功，直接放弃
func (l *PublishListener) retry(ctx context.Context, fn func() error) error {
	return retry.Do(fn,
		retry.Context(ctx),
		retry.Attempts(l.attempts),
		retry.Delay(l.delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, staticgen.ErrNotFound) && !errors.Is(err, staticgen.ErrNotPublished)
		}),
		retry.OnRetry(func(n uint, err error) {
			l.logger.Warnf("第%d次自动生成失败: %v", n+1, err)
		}),
	)
}
