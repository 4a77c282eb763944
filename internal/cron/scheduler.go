package cron

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/nsxzhou1114/cms-api/internal/config"
	"github.com/nsxzhou1114/cms-api/internal/model"
	"github.com/nsxzhou1114/cms-api/internal/staticgen"
	"github.com/nsxzhou1114/cms-api/pkg/cache"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// 每天执行一次
//"0 0 3 * * *"      // 每天凌晨3点（03:00:00）
//"0 30 3 * * *"     // 每天凌晨3点半

// jobTimeout 单个任务的最长执行时间
const jobTimeout = 30 * time.Minute

// SiteBuilder 全站构建
type SiteBuilder interface {
	BuildAll(ctx context.Context, buildType string) (*staticgen.AllResult, error)
}

// SitemapBuilder 站点地图生成
type SitemapBuilder interface {
	Generate(ctx context.Context, format, domain string) ([]staticgen.SitemapResult, error)
}

// LogCleaner 构建日志清理
type LogCleaner interface {
	Clear(ctx context.Context, days int) (int64, error)
}

// Scheduler 定时维护任务
type Scheduler struct {
	cron     *cron.Cron
	cfg      config.CronConfig
	builds   SiteBuilder
	sitemaps SitemapBuilder
	logs     LogCleaner
	lock     cache.Cache // 为空时不加锁
	logger   *zap.SugaredLogger
}

// NewScheduler 创建调度器，时区无效时返回错误
func NewScheduler(cfg config.CronConfig, builds SiteBuilder, sitemaps SitemapBuilder, logs LogCleaner, lock cache.Cache, log *zap.SugaredLogger) (*Scheduler, error) {
	loc := time.Local
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("加载时区失败: %w", err)
		}
		loc = l
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		cfg:      cfg,
		builds:   builds,
		sitemaps: sitemaps,
		logs:     logs,
		lock:     lock,
		logger:   log,
	}, nil
}

// Register 注册全部任务，表达式非法时返回错误
func (s *Scheduler) Register() error {
	jobs := []struct {
		name string
		spec string
		run  func(ctx context.Context) error
	}{
		{"rebuild", s.cfg.RebuildSpec, s.rebuild},
		{"sitemap", s.cfg.SitemapSpec, s.sitemap},
		// 日志清理与全站构建同一时间触发
		{"log_retention", s.cfg.RebuildSpec, s.purgeLogs},
	}
	for _, job := range jobs {
		if job.spec == "" {
			continue
		}
		if _, err := s.cron.AddFunc(job.spec, s.wrap(job.name, job.run)); err != nil {
			return fmt.Errorf("注册定时任务 %s 失败: %w", job.name, err)
		}
	}
	return nil
}

// Start 启动调度
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Infow("定时任务已启动", "jobs", len(s.cron.Entries()))
}

// Stop 停止调度并等待运行中的任务结束
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		s.logger.Info("定时任务已停止")
	case <-ctx.Done():
		s.logger.Warn("等待定时任务结束超时")
	}
}

// wrap 加锁、超时与异常恢复
func (s *Scheduler) wrap(name string, run func(ctx context.Context) error) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Errorw("定时任务异常", "job", name, "panic", r, "stack", string(debug.Stack()))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if !s.acquire(ctx, name) {
			s.logger.Infow("定时任务已在其他实例运行，跳过", "job", name)
			return
		}

		start := time.Now()
		if err := run(ctx); err != nil {
			s.logger.Errorw("定时任务失败", "job", name, "error", err, "duration", time.Since(start))
			return
		}
		s.logger.Infow("定时任务完成", "job", name, "duration", time.Since(start))
	}
}

// acquire 多实例部署时通过 Redis 抢占执行权，锁到期自动释放
func (s *Scheduler) acquire(ctx context.Context, name string) bool {
	if s.lock == nil {
		return true
	}
	ok, err := s.lock.SetNX(ctx, fmt.Sprintf(cache.BuildLockKey, name), time.Now().Unix(), cache.BuildLockExpiration)
	if err != nil {
		s.logger.Warnw("获取任务锁失败，继续执行", "job", name, "error", err)
		return true
	}
	return ok
}

func (s *Scheduler) rebuild(ctx context.Context) error {
	res, err := s.builds.BuildAll(ctx, model.BuildTypeAuto)
	if err != nil {
		return err
	}
	if res.Failed > 0 {
		return fmt.Errorf("全站生成有%d项失败，批次 %d", res.Failed, res.BatchID)
	}
	return nil
}

func (s *Scheduler) sitemap(ctx context.Context) error {
	_, err := s.sitemaps.Generate(ctx, "all", "")
	return err
}

func (s *Scheduler) purgeLogs(ctx context.Context) error {
	n, err := s.logs.Clear(ctx, s.cfg.LogRetentionDays)
	if err != nil {
		return err
	}
	s.logger.Infow("过期构建日志已清理", "deleted", n, "days", s.cfg.LogRetentionDays)
	return nil
}
