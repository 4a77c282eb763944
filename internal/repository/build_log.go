package repository

import (
	"context"
	"time"

	"github.com/nsxzhou1114/cms-api/internal/model"
	"gorm.io/gorm"
)

// BuildLogFilter 构建日志查询条件
type BuildLogFilter struct {
	Page     int
	PageSize int
	Scope    string
	Status   string
}

// ScopeStat 按范围与状态聚合的数量
type ScopeStat struct {
	Scope  string `json:"scope"`
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// BuildLogRepository 构建日志仓库
type BuildLogRepository struct {
	db *gorm.DB
}

// NewBuildLogRepository 创建构建日志仓库
func NewBuildLogRepository(db *gorm.DB) *BuildLogRepository {
	return &BuildLogRepository{db: db}
}

// Record 追加一条构建日志
func (r *BuildLogRepository) Record(ctx context.Context, log *model.BuildLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// List 分页查询，按id倒序
func (r *BuildLogRepository) List(ctx context.Context, filter BuildLogFilter) ([]model.BuildLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.BuildLog{})
	if filter.Scope != "" {
		query = query.Where("scope = ?", filter.Scope)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []model.BuildLog
	err := query.Order("id DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&logs).Error
	return logs, total, err
}

// DeleteByIDs 按id批量删除
func (r *BuildLogRepository) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.BuildLog{})
	return result.RowsAffected, result.Error
}

// DeleteBefore 删除早于指定时间的日志
func (r *BuildLogRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", before).Delete(&model.BuildLog{})
	return result.RowsAffected, result.Error
}

// Stats 按范围与状态统计
func (r *BuildLogRepository) Stats(ctx context.Context) ([]ScopeStat, error) {
	var stats []ScopeStat
	err := r.db.WithContext(ctx).Model(&model.BuildLog{}).
		Select("scope, status, COUNT(*) AS count").
		Group("scope, status").
		Order("scope, status").
		Scan(&stats).Error
	return stats, err
}

// LastFailure 最近一次失败记录，没有时返回nil
func (r *BuildLogRepository) LastFailure(ctx context.Context) (*model.BuildLog, error) {
	var logs []model.BuildLog
	err := r.db.WithContext(ctx).
		Where("status = ?", model.BuildStatusFailed).
		Order("id DESC").
		Limit(1).
		Find(&logs).Error
	if err != nil || len(logs) == 0 {
		return nil, err
	}
	return &logs[0], nil
}
