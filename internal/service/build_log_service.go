package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nsxzhou1114/cms-api/internal/database"
	"github.com/nsxzhou1114/cms-api/internal/dto"
	"github.com/nsxzhou1114/cms-api/internal/logger"
	"github.com/nsxzhou1114/cms-api/internal/model"
	"github.com/nsxzhou1114/cms-api/internal/repository"
	"go.uber.org/zap"
)

// MinLogRetentionDays 构建日志最少保留天数
const MinLogRetentionDays = 7

// BuildLogStats 构建日志统计
type BuildLogStats struct {
	Total       int64                  `json:"total"`
	Failed      int64                  `json:"failed"`
	ByScope     []repository.ScopeStat `json:"by_scope"`
	LastFailure *model.BuildLog        `json:"last_failure"`
}

var (
	buildLogService     *BuildLogService
	buildLogServiceOnce sync.Once
)

// BuildLogService 构建日志服务
type BuildLogService struct {
	repo   *repository.BuildLogRepository
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewBuildLogService 创建构建日志服务实例
func NewBuildLogService() *BuildLogService {
	buildLogServiceOnce.Do(func() {
		buildLogService = newBuildLogService(repository.NewBuildLogRepository(database.GetDB()), logger.GetSugaredLogger())
	})
	return buildLogService
}

func newBuildLogService(repo *repository.BuildLogRepository, log *zap.SugaredLogger) *BuildLogService {
	return &BuildLogService{repo: repo, logger: log, now: time.Now}
}

// List 分页查询构建日志
func (s *BuildLogService) List(ctx context.Context, req *dto.BuildLogListRequest) ([]model.BuildLog, int64, error) {
	page, size := pageParams(req.Page, req.PageSize)
	logs, total, err := s.repo.List(ctx, repository.BuildLogFilter{
		Page:     page,
		PageSize: size,
		Scope:    req.Scope,
		Status:   req.Status,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("查询构建日志失败: %v", err)
	}
	return logs, total, nil
}

// BatchDelete 按id批量删除，返回删除条数
func (s *BuildLogService) BatchDelete(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: 请选择要删除的日志", ErrInvalidParam)
	}
	n, err := s.repo.DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("删除构建日志失败: %v", err)
	}
	return n, nil
}

// Clear 删除 days 天之前的日志
func (s *BuildLogService) Clear(ctx context.Context, days int) (int64, error) {
	if days < MinLogRetentionDays {
		return 0, fmt.Errorf("%w: 至少保留%d天的日志", ErrInvalidParam, MinLogRetentionDays)
	}
	before := s.now().AddDate(0, 0, -days)
	n, err := s.repo.DeleteBefore(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("清理构建日志失败: %v", err)
	}
	s.logger.Infow("清理构建日志", "days", days, "deleted", n)
	return n, nil
}

// Stats 按范围与状态统计，附带最近一次失败
func (s *BuildLogService) Stats(ctx context.Context) (*BuildLogStats, error) {
	byScope, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("统计构建日志失败: %v", err)
	}
	last, err := s.repo.LastFailure(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询最近失败记录失败: %v", err)
	}

	stats := &BuildLogStats{ByScope: byScope, LastFailure: last}
	if stats.ByScope == nil {
		stats.ByScope = []repository.ScopeStat{}
	}
	for _, st := range byScope {
		stats.Total += st.Count
		if st.Status == model.BuildStatusFailed {
			stats.Failed += st.Count
		}
	}
	return stats, nil
}
