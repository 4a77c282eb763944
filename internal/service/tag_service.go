package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/nsxzhou1114/cms-api/internal/database"
	"github.com/nsxzhou1114/cms-api/internal/dto"
	"github.com/nsxzhou1114/cms-api/internal/event"
	"github.com/nsxzhou1114/cms-api/internal/logger"
	"github.com/nsxzhou1114/cms-api/internal/model"
	"github.com/nsxzhou1114/cms-api/internal/staticgen"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	tagService     *TagService
	tagServiceOnce sync.Once
)

// TagService 标签服务
type TagService struct {
	db         *gorm.DB
	events     Publisher
	publicPath string
	logger     *zap.SugaredLogger
}

// NewTagService 创建标签服务实例
func NewTagService() *TagService {
	tagServiceOnce.Do(func() {
		e := GetEngine()
		tagService = newTagService(database.GetDB(), e.Bus, e.PublicPath, logger.GetSugaredLogger())
	})
	return tagService
}

func newTagService(db *gorm.DB, events Publisher, publicPath string, log *zap.SugaredLogger) *TagService {
	if events == nil {
		events = nopPublisher{}
	}
	return &TagService{db: db, events: events, publicPath: publicPath, logger: log}
}

// Create 创建标签
func (s *TagService) Create(ctx context.Context, req *dto.TagSaveRequest) (*model.Tag, error) {
	if err := s.checkName(ctx, req.Name, 0); err != nil {
		return nil, err
	}

	tag := &model.Tag{Name: req.Name, Status: model.StatusEnabled}
	if req.Status != nil {
		tag.Status = *req.Status
	}
	if err := s.db.WithContext(ctx).Create(tag).Error; err != nil {
		return nil, fmt.Errorf("创建标签失败: %v", err)
	}
	s.notify(tag)
	return tag, nil
}

// Update 更新标签
func (s *TagService) Update(ctx context.Context, id uint, req *dto.TagSaveRequest) (*model.Tag, error) {
	tag, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if tag.Name != req.Name {
		if err := s.checkName(ctx, req.Name, id); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{"name": req.Name}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if err := s.db.WithContext(ctx).Model(tag).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("更新标签失败: %v", err)
	}

	tag, err = s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notify(tag)
	return tag, nil
}

// Delete 删除标签及其文章关联
func (s *TagService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&model.ArticleTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Tag{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("删除标签失败: %v", err)
	}
	return nil
}

// GetByID 根据ID获取标签
func (s *TagService) GetByID(ctx context.Context, id uint) (*model.Tag, error) {
	var tag model.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, notFound("标签", err)
	}
	return &tag, nil
}

// Get 标签详情
func (s *TagService) Get(ctx context.Context, id uint) (*dto.TagResponse, error) {
	tag, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.articleCounts(ctx, []uint{id})
	if err != nil {
		return nil, err
	}
	return s.toResponse(tag, counts[id]), nil
}

// List 获取标签列表
func (s *TagService) List(ctx context.Context, req *dto.TagListRequest) (*dto.TagListResponse, error) {
	page, size := pageParams(req.Page, req.PageSize)

	query := s.db.WithContext(ctx).Model(&model.Tag{})
	if req.Keyword != "" {
		query = query.Where("name LIKE ?", "%"+req.Keyword+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("统计标签失败: %v", err)
	}

	var tags []model.Tag
	if err := query.Order("id ASC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("查询标签失败: %v", err)
	}

	ids := make([]uint, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	counts, err := s.articleCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	resp := &dto.TagListResponse{
		Total: total,
		List:  make([]dto.TagResponse, 0, len(tags)),
	}
	for i := range tags {
		resp.List = append(resp.List, *s.toResponse(&tags[i], counts[tags[i].ID]))
	}
	return resp, nil
}

// FindByIDs 按id查询标签，不存在的id会报错
func (s *TagService) FindByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]model.Tag, error) {
	if len(ids) == 0 {
		return []model.Tag{}, nil
	}
	var tags []model.Tag
	if err := tx.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("查询标签失败: %v", err)
	}
	if len(tags) != len(uniqueIDs(ids)) {
		return nil, fmt.Errorf("%w: 部分标签不存在", ErrInvalidParam)
	}
	return tags, nil
}

func (s *TagService) articleCounts(ctx context.Context, ids []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}
	var rows []struct {
		TagID uint
		Count int64
	}
	err := s.db.WithContext(ctx).Model(&model.ArticleTag{}).
		Select("tag_id, COUNT(*) AS count").
		Where("tag_id IN ?", ids).
		Group("tag_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("统计标签文章失败: %v", err)
	}
	for _, r := range rows {
		counts[r.TagID] = r.Count
	}
	return counts, nil
}

func (s *TagService) checkName(ctx context.Context, name string, exceptID uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Tag{}).
		Where("name = ? AND id <> ?", name, exceptID).Count(&count).Error; err != nil {
		return fmt.Errorf("检查标签名失败: %v", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: 标签名已存在", ErrConflict)
	}
	return nil
}

func (s *TagService) notify(tag *model.Tag) {
	if tag.Status == model.StatusEnabled {
		s.events.Publish(event.TagUpdated, tag.ID)
	}
}

func (s *TagService) toResponse(tag *model.Tag, articleCount int64) *dto.TagResponse {
	return &dto.TagResponse{
		ID:           tag.ID,
		Name:         tag.Name,
		Status:       tag.Status,
		ArticleCount: articleCount,
		StaticURL:    staticURL(s.publicPath, staticgen.TagPath(tag.ID)),
		CreatedAt:    tag.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// uniqueIDs 去重并保持顺序
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
