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
	"github.com/nsxzhou1114/cms-api/pkg/validate"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 自动生成标识时的最大重试次数
const maxSlugAttempts = 50

var (
	pageService     *PageService
	pageServiceOnce sync.Once
)

// PageService 单页服务
type PageService struct {
	db     *gorm.DB
	events Publisher
	logger *zap.SugaredLogger
}

// NewPageService 创建单页服务实例
func NewPageService() *PageService {
	pageServiceOnce.Do(func() {
		pageService = newPageService(database.GetDB(), GetEngine().Bus, logger.GetSugaredLogger())
	})
	return pageService
}

func newPageService(db *gorm.DB, events Publisher, log *zap.SugaredLogger) *PageService {
	if events == nil {
		events = nopPublisher{}
	}
	return &PageService{db: db, events: events, logger: log}
}

// Create 创建单页，未填写标识时由标题生成
func (s *PageService) Create(ctx context.Context, req *dto.PageSaveRequest) (*model.Page, error) {
	page := &model.Page{}
	fill(page, req)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slug, err := s.resolveSlug(tx, req.Slug, req.Title, 0)
		if err != nil {
			return err
		}
		page.Slug = slug
		if err := tx.Create(page).Error; err != nil {
			return err
		}
		if page.Slug == "" {
			page.Slug = page.FileSlug()
			return tx.Model(page).Update("slug", page.Slug).Error
		}
		return nil
	})
	if err != nil {
		return nil, wrapSave("创建单页失败", err)
	}
	s.notify(page)
	return page, nil
}

// Update 更新单页
func (s *PageService) Update(ctx context.Context, id uint, req *dto.PageSaveRequest) (*model.Page, error) {
	page, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slug := req.Slug
		if slug == "" {
			slug = page.Slug
		}
		slug, err := s.resolveSlug(tx, slug, req.Title, id)
		if err != nil {
			return err
		}
		if slug == "" {
			slug = page.FileSlug()
		}
		fill(page, req)
		page.Slug = slug
		return tx.Save(page).Error
	})
	if err != nil {
		return nil, wrapSave("更新单页失败", err)
	}
	s.notify(page)
	return page, nil
}

// Delete 删除单页
func (s *PageService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&model.Page{}, id).Error; err != nil {
		return fmt.Errorf("删除单页失败: %v", err)
	}
	return nil
}

// Get 根据ID获取单页
func (s *PageService) Get(ctx context.Context, id uint) (*model.Page, error) {
	var page model.Page
	if err := s.db.WithContext(ctx).First(&page, id).Error; err != nil {
		return nil, notFound("单页", err)
	}
	return &page, nil
}

// List 单页列表，按 sort、id 升序
func (s *PageService) List(ctx context.Context, req *dto.PageListRequest) ([]model.Page, int64, error) {
	page, size := pageParams(req.Page, req.PageSize)

	query := s.db.WithContext(ctx).Model(&model.Page{})
	if req.Keyword != "" {
		query = query.Where("title LIKE ?", "%"+req.Keyword+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计单页失败: %v", err)
	}
	var pages []model.Page
	if err := query.Omit("content").
		Order("sort ASC, id ASC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&pages).Error; err != nil {
		return nil, 0, fmt.Errorf("查询单页失败: %v", err)
	}
	return pages, total, nil
}

// resolveSlug 手动填写的标识必须唯一；由标题生成的标识冲突时追加序号，无法生成时返回空串
func (s *PageService) resolveSlug(tx *gorm.DB, slug, title string, exceptID uint) (string, error) {
	if slug != "" {
		if !validate.IsSlug(slug) {
			return "", fmt.Errorf("%w: 标识只能包含小写字母、数字和连字符", ErrInvalidParam)
		}
		if staticgen.IsReservedSlug(slug) {
			return "", fmt.Errorf("%w: 标识 %s 为系统保留", ErrInvalidParam, slug)
		}
		taken, err := slugTaken(tx, slug, exceptID)
		if err != nil {
			return "", err
		}
		if taken {
			return "", fmt.Errorf("%w: 标识 %s 已存在", ErrConflict, slug)
		}
		return slug, nil
	}

	base := validate.Slugify(title)
	if !validate.IsSlug(base) {
		return "", nil
	}
	if staticgen.IsReservedSlug(base) {
		base = "page-" + base
	}
	candidate := base
	for i := 2; i <= maxSlugAttempts; i++ {
		taken, err := slugTaken(tx, candidate, exceptID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", nil
}

func slugTaken(tx *gorm.DB, slug string, exceptID uint) (bool, error) {
	var count int64
	err := tx.Model(&model.Page{}).Where("slug = ? AND id <> ?", slug, exceptID).Count(&count).Error
	return count > 0, err
}

func (s *PageService) notify(page *model.Page) {
	if page.Status == model.StatusEnabled {
		s.events.Publish(event.PageUpdated, page.ID)
	}
}

func fill(page *model.Page, req *dto.PageSaveRequest) {
	page.Title = req.Title
	page.Content = req.Content
	page.Template = req.Template
	page.SeoKeywords = req.SeoKeywords
	page.SeoDescription = req.SeoDescription
	page.Sort = req.Sort
	page.Status = req.Status
}
