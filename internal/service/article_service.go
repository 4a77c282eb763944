package service

import (
	"context"
	"fmt"
	"sync"
	"time"

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
	articleService     *ArticleService
	articleServiceOnce sync.Once
)

// ArticleService 文章服务
type ArticleService struct {
	db         *gorm.DB
	settings   SiteSource
	tags       *TagService
	events     Publisher
	publicPath string
	log        *zap.SugaredLogger
	now        func() time.Time
}

// NewArticleService 创建文章服务实例
func NewArticleService() *ArticleService {
	articleServiceOnce.Do(func() {
		e := GetEngine()
		articleService = newArticleService(database.GetDB(), NewSettingService(), NewTagService(), e.Bus, e.PublicPath, logger.GetSugaredLogger())
	})
	return articleService
}

func newArticleService(db *gorm.DB, settings SiteSource, tags *TagService, events Publisher, publicPath string, log *zap.SugaredLogger) *ArticleService {
	if events == nil {
		events = nopPublisher{}
	}
	return &ArticleService{
		db:         db,
		settings:   settings,
		tags:       tags,
		events:     events,
		publicPath: publicPath,
		log:        log,
		now:        time.Now,
	}
}

// Create 创建文章
func (s *ArticleService) Create(ctx context.Context, req *dto.ArticleSaveRequest) (*model.Article, error) {
	return s.save(ctx, &model.Article{Lifecycle: model.LifecycleActive}, req)
}

// Update 更新文章，回收站中的文章不可编辑
func (s *ArticleService) Update(ctx context.Context, id uint, req *dto.ArticleSaveRequest) (*model.Article, error) {
	article, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if article.Lifecycle != model.LifecycleActive {
		return nil, fmt.Errorf("%w: 回收站中的文章不能编辑", ErrConflict)
	}
	return s.save(ctx, article, req)
}

// save 写入文章字段、主副分类与标签，已发布的文章保存后触发重新生成
func (s *ArticleService) save(ctx context.Context, article *model.Article, req *dto.ArticleSaveRequest) (*model.Article, error) {
	site, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	article.Title = req.Title
	article.Content = req.Content
	article.Summary = req.Summary
	article.SeoKeywords = req.SeoKeywords
	article.SeoDescription = req.SeoDescription
	article.CoverImage = req.CoverImage
	article.Author = req.Author
	article.CategoryID = req.CategoryID
	article.Status = req.Status
	article.IsTop = req.IsTop
	article.Sort = req.Sort
	fillSEO(article)
	if article.Status == model.ArticleStatusPublished && article.PublishTime == nil {
		now := s.now()
		article.PublishTime = &now
	}

	subIDs := []uint{}
	if site.SubCategoryEnabled {
		subIDs = req.SubCategoryIDs
	}

	err = s.executeTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.checkCategories(tx, req.CategoryID, subIDs); err != nil {
			return err
		}
		tags, err := s.tags.FindByIDs(ctx, tx, req.TagIDs)
		if err != nil {
			return err
		}
		if err := tx.Omit("Category", "Categories", "Tags").Save(article).Error; err != nil {
			return err
		}
		if err := tx.Model(article).Association("Tags").Replace(tags); err != nil {
			return err
		}
		article.Tags = tags
		return s.replaceCategories(tx, article.ID, req.CategoryID, subIDs)
	})
	if err != nil {
		return nil, wrapSave("保存文章失败", err)
	}

	if article.IsPublished() {
		s.events.Publish(event.ArticlePublished, article.ID)
	}
	return article, nil
}

// checkCategories 主分类与副分类必须存在
func (s *ArticleService) checkCategories(tx *gorm.DB, mainID uint, subIDs []uint) error {
	ids := uniqueIDs(append([]uint{mainID}, subIDs...))
	var count int64
	if err := tx.Model(&model.Category{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return fmt.Errorf("%w: 分类不存在", ErrInvalidParam)
	}
	return nil
}

// replaceCategories 重写文章分类关联，主分类只有一条且与 category_id 一致
func (s *ArticleService) replaceCategories(tx *gorm.DB, articleID, mainID uint, subIDs []uint) error {
	if err := tx.Where("article_id = ?", articleID).Delete(&model.ArticleCategory{}).Error; err != nil {
		return err
	}
	links := []model.ArticleCategory{{ArticleID: articleID, CategoryID: mainID, IsMain: 1}}
	for _, id := range uniqueIDs(subIDs) {
		if id != mainID {
			links = append(links, model.ArticleCategory{ArticleID: articleID, CategoryID: id})
		}
	}
	return tx.Create(&links).Error
}

// Get 文章详情，包含分类与标签
func (s *ArticleService) Get(ctx context.Context, id uint) (*model.Article, error) {
	var article model.Article
	err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Categories").
		Preload("Tags").
		First(&article, id).Error
	if err != nil {
		return nil, notFound("文章", err)
	}
	return &article, nil
}

// List 文章列表，置顶优先，其次按 sort 与创建时间倒序
func (s *ArticleService) List(ctx context.Context, req *dto.ArticleQueryRequest) (*dto.ArticleListResponse, error) {
	page, size := pageParams(req.Page, req.PageSize)

	lifecycle := model.LifecycleActive
	if req.Lifecycle != "" {
		lifecycle = model.Lifecycle(req.Lifecycle)
	}
	query := s.db.WithContext(ctx).Model(&model.Article{}).Where("lifecycle = ?", lifecycle)
	if req.Keyword != "" {
		query = query.Where("title LIKE ?", "%"+req.Keyword+"%")
	}
	if req.Status != nil {
		query = query.Where("status = ?", *req.Status)
	}
	if req.CategoryID > 0 {
		query = query.Where("id IN (?)", s.db.Model(&model.ArticleCategory{}).
			Select("article_id").Where("category_id = ?", req.CategoryID))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("统计文章失败: %v", err)
	}

	var articles []model.Article
	if err := query.Omit("content").
		Preload("Category").
		Order("is_top DESC, sort DESC, created_at DESC, id DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("查询文章失败: %v", err)
	}

	resp := &dto.ArticleListResponse{Total: total, List: make([]dto.ArticleListItem, 0, len(articles))}
	for _, a := range articles {
		item := dto.ArticleListItem{
			ID:           a.ID,
			Title:        a.Title,
			Summary:      a.Summary,
			CategoryID:   a.CategoryID,
			CategoryName: a.Category.Name,
			Author:       a.Author,
			CoverImage:   a.CoverImage,
			Status:       a.Status,
			Lifecycle:    string(a.Lifecycle),
			IsTop:        a.IsTop,
			CreatedAt:    a.CreatedAt,
			PublishTime:  a.PublishTime,
		}
		if a.IsPublished() {
			item.StaticURL = staticURL(s.publicPath, staticgen.ArticlePath(a.ID))
		}
		resp.List = append(resp.List, item)
	}
	return resp, nil
}

// Publish 发布文章，首次发布时记录发布时间
func (s *ArticleService) Publish(ctx context.Context, id uint) (*model.Article, error) {
	article, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if article.Lifecycle != model.LifecycleActive {
		return nil, fmt.Errorf("%w: 回收站中的文章不能发布", ErrConflict)
	}

	updates := map[string]interface{}{"status": model.ArticleStatusPublished}
	if article.PublishTime == nil {
		now := s.now()
		updates["publish_time"] = &now
		article.PublishTime = &now
	}
	if err := s.db.WithContext(ctx).Model(article).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("发布文章失败: %v", err)
	}
	article.Status = model.ArticleStatusPublished

	s.events.Publish(event.ArticlePublished, article.ID)
	return article, nil
}

// Offline 下线文章
func (s *ArticleService) Offline(ctx context.Context, id uint) (*model.Article, error) {
	article, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(article).Update("status", model.ArticleStatusOffline).Error; err != nil {
		return nil, fmt.Errorf("下线文章失败: %v", err)
	}
	article.Status = model.ArticleStatusOffline
	return article, nil
}

// Delete 删除文章；recycle 为空时按回收站开关决定放入回收站还是彻底删除，返回删除后的生命周期
func (s *ArticleService) Delete(ctx context.Context, id uint, recycle *bool) (model.Lifecycle, error) {
	article, err := s.find(ctx, id)
	if err != nil {
		return "", err
	}

	toRecycle := false
	if recycle != nil {
		toRecycle = *recycle
	} else {
		site, err := s.settings.Snapshot(ctx)
		if err != nil {
			return "", err
		}
		toRecycle = site.RecycleBinEnabled
	}

	if toRecycle && article.Lifecycle == model.LifecycleActive {
		if err := s.db.WithContext(ctx).Model(article).Update("lifecycle", model.LifecycleRecycled).Error; err != nil {
			return "", fmt.Errorf("移入回收站失败: %v", err)
		}
		return model.LifecycleRecycled, nil
	}

	err = s.executeTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", id).Delete(&model.ArticleTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", id).Delete(&model.ArticleCategory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Article{}, id).Error
	})
	if err != nil {
		return "", fmt.Errorf("删除文章失败: %v", err)
	}
	return model.LifecyclePurged, nil
}

// Restore 从回收站恢复文章
func (s *ArticleService) Restore(ctx context.Context, id uint) (*model.Article, error) {
	article, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if article.Lifecycle != model.LifecycleRecycled {
		return nil, fmt.Errorf("%w: 文章不在回收站中", ErrConflict)
	}
	if err := s.db.WithContext(ctx).Model(article).Update("lifecycle", model.LifecycleActive).Error; err != nil {
		return nil, fmt.Errorf("恢复文章失败: %v", err)
	}
	article.Lifecycle = model.LifecycleActive
	if article.IsPublished() {
		s.events.Publish(event.ArticlePublished, article.ID)
	}
	return article, nil
}

func (s *ArticleService) find(ctx context.Context, id uint) (*model.Article, error) {
	var article model.Article
	if err := s.db.WithContext(ctx).First(&article, id).Error; err != nil {
		return nil, notFound("文章", err)
	}
	return &article, nil
}

// executeTransaction 执行事务
func (s *ArticleService) executeTransaction(ctx context.Context, fn func(*gorm.DB) error) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}
