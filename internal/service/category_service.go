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
	categoryService     *CategoryService
	categoryServiceOnce sync.Once
)

// CategoryService 分类服务
type CategoryService struct {
	db         *gorm.DB
	events     Publisher
	publicPath string
	logger     *zap.SugaredLogger
}

// NewCategoryService 创建分类服务实例
func NewCategoryService() *CategoryService {
	categoryServiceOnce.Do(func() {
		e := GetEngine()
		categoryService = newCategoryService(database.GetDB(), e.Bus, e.PublicPath, logger.GetSugaredLogger())
	})
	return categoryService
}

func newCategoryService(db *gorm.DB, events Publisher, publicPath string, log *zap.SugaredLogger) *CategoryService {
	if events == nil {
		events = nopPublisher{}
	}
	return &CategoryService{db: db, events: events, publicPath: publicPath, logger: log}
}

// Create 创建分类
func (s *CategoryService) Create(ctx context.Context, req *dto.CategorySaveRequest) (*model.Category, error) {
	if err := s.checkName(ctx, req.Name, 0); err != nil {
		return nil, err
	}

	category := &model.Category{
		Name:        req.Name,
		Description: req.Description,
		Template:    req.Template,
		Sort:        req.Sort,
		Status:      model.StatusEnabled, // 默认启用
	}
	if req.Status != nil {
		category.Status = *req.Status
	}

	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, fmt.Errorf("创建分类失败: %v", err)
	}
	s.notify(category)
	return category, nil
}

// Update 更新分类
func (s *CategoryService) Update(ctx context.Context, id uint, req *dto.CategorySaveRequest) (*model.Category, error) {
	category, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 检查新分类名是否与其他分类冲突
	if category.Name != req.Name {
		if err := s.checkName(ctx, req.Name, id); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
		"template":    req.Template,
		"sort":        req.Sort,
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if err := s.db.WithContext(ctx).Model(category).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("更新分类失败: %v", err)
	}

	category, err = s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notify(category)
	return category, nil
}

// Delete 删除分类，仍有文章关联时拒绝
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.ArticleCategory{}).
		Where("category_id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("统计分类文章失败: %v", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: 该分类下还有关联的文章，无法删除", ErrConflict)
	}

	if err := s.db.WithContext(ctx).Delete(&model.Category{}, id).Error; err != nil {
		return fmt.Errorf("删除分类失败: %v", err)
	}
	return nil
}

// GetByID 根据ID获取分类
func (s *CategoryService) GetByID(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, notFound("分类", err)
	}
	return &category, nil
}

// Get 分类详情
func (s *CategoryService) Get(ctx context.Context, id uint) (*dto.CategoryResponse, error) {
	category, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.articleCounts(ctx, []uint{id})
	if err != nil {
		return nil, err
	}
	return s.toResponse(category, counts[id]), nil
}

// List 获取分类列表，按 sort、id 升序
func (s *CategoryService) List(ctx context.Context, req *dto.CategoryListRequest) (*dto.CategoryListResponse, error) {
	page, size := pageParams(req.Page, req.PageSize)

	query := s.db.WithContext(ctx).Model(&model.Category{})
	if req.Keyword != "" {
		query = query.Where("name LIKE ? OR description LIKE ?", "%"+req.Keyword+"%", "%"+req.Keyword+"%")
	}
	if req.Status != nil {
		query = query.Where("status = ?", *req.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("统计分类失败: %v", err)
	}

	var categories []model.Category
	if err := query.Order("sort ASC, id ASC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("查询分类失败: %v", err)
	}

	ids := make([]uint, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	counts, err := s.articleCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	resp := &dto.CategoryListResponse{
		Total: total,
		List:  make([]dto.CategoryResponse, 0, len(categories)),
	}
	for i := range categories {
		resp.List = append(resp.List, *s.toResponse(&categories[i], counts[categories[i].ID]))
	}
	return resp, nil
}

// articleCounts 各分类下关联的文章数量，包含副分类
func (s *CategoryService) articleCounts(ctx context.Context, ids []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}
	var rows []struct {
		CategoryID uint
		Count      int64
	}
	err := s.db.WithContext(ctx).Model(&model.ArticleCategory{}).
		Select("category_id, COUNT(*) AS count").
		Where("category_id IN ?", ids).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("统计分类文章失败: %v", err)
	}
	for _, r := range rows {
		counts[r.CategoryID] = r.Count
	}
	return counts, nil
}

func (s *CategoryService) checkName(ctx context.Context, name string, exceptID uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Category{}).
		Where("name = ? AND id <> ?", name, exceptID).Count(&count).Error; err != nil {
		return fmt.Errorf("检查分类名失败: %v", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: 分类名已存在", ErrConflict)
	}
	return nil
}

// notify 启用状态的分类变更后重新生成分类页
func (s *CategoryService) notify(category *model.Category) {
	if category.Status == model.StatusEnabled {
		s.events.Publish(event.CategoryUpdated, category.ID)
	}
}

func (s *CategoryService) toResponse(category *model.Category, articleCount int64) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:           category.ID,
		Name:         category.Name,
		Description:  category.Description,
		Template:     category.Template,
		Sort:         category.Sort,
		Status:       category.Status,
		ArticleCount: articleCount,
		StaticURL:    staticURL(s.publicPath, staticgen.CategoryPath(category.ID)),
		CreatedAt:    category.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:    category.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
