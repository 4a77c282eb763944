package repository

import (
	"context"
	"errors"

	"github.com/nsxzhou1114/cms-api/internal/model"
	"gorm.io/gorm"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("记录不存在")

// ArticleLink 上一篇/下一篇导航，只保留 id 与标题
type ArticleLink struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

// ContentRepository 静态化所需的只读内容查询
type ContentRepository interface {
	RecentArticles(ctx context.Context, limit int) ([]model.Article, error)
	CountPublishedArticles(ctx context.Context) (int64, error)
	ArticlePage(ctx context.Context, page, size int) ([]model.Article, error)
	PublishedArticles(ctx context.Context) ([]model.Article, error)
	FindArticle(ctx context.Context, id uint) (*model.Article, error)
	PrevArticle(ctx context.Context, id uint) (*ArticleLink, error)
	NextArticle(ctx context.Context, id uint) (*ArticleLink, error)

	FindCategory(ctx context.Context, id uint) (*model.Category, error)
	PublishedCategories(ctx context.Context) ([]model.Category, error)
	CategoryArticles(ctx context.Context, categoryID uint, limit int) ([]model.Article, error)
	CountCategoryArticles(ctx context.Context, categoryID uint) (int64, error)

	FindTag(ctx context.Context, id uint) (*model.Tag, error)
	EnabledTags(ctx context.Context) ([]model.Tag, error)
	TagArticles(ctx context.Context, tagID uint) ([]model.Article, error)

	FindPage(ctx context.Context, id uint) (*model.Page, error)
	PublishedPages(ctx context.Context) ([]model.Page, error)
}

// GormContentRepository 基于gorm的内容仓库
type GormContentRepository struct {
	db *gorm.DB
}

// NewContentRepository 创建内容仓库
func NewContentRepository(db *gorm.DB) *GormContentRepository {
	return &GormContentRepository{db: db}
}

// published 已发布且未进入回收站的文章
func (r *GormContentRepository) published(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Article{}).
		Where("articles.status = ? AND articles.lifecycle = ?", model.ArticleStatusPublished, model.LifecycleActive)
}

// RecentArticles 按创建时间倒序获取最新文章
func (r *GormContentRepository) RecentArticles(ctx context.Context, limit int) ([]model.Article, error) {
	var articles []model.Article
	err := r.published(ctx).
		Preload("Category").
		Order("articles.created_at DESC, articles.id DESC").
		Limit(limit).
		Find(&articles).Error
	return articles, err
}

// CountPublishedArticles 已发布文章总数
func (r *GormContentRepository) CountPublishedArticles(ctx context.Context) (int64, error) {
	var total int64
	err := r.published(ctx).Count(&total).Error
	return total, err
}

// ArticlePage 文章列表分页，置顶优先，再按发布时间倒序
func (r *GormContentRepository) ArticlePage(ctx context.Context, page, size int) ([]model.Article, error) {
	if page < 1 {
		page = 1
	}
	var articles []model.Article
	err := r.published(ctx).
		Preload("Category").
		Order("articles.is_top DESC, articles.publish_time DESC, articles.id DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&articles).Error
	return articles, err
}

// PublishedArticles 所有已发布文章的摘要信息，按id升序
func (r *GormContentRepository) PublishedArticles(ctx context.Context) ([]model.Article, error) {
	var articles []model.Article
	err := r.published(ctx).
		Select("id", "title", "category_id", "created_at", "updated_at", "publish_time").
		Order("articles.id ASC").
		Find(&articles).Error
	return articles, err
}

// FindArticle 获取文章详情，不过滤状态
func (r *GormContentRepository) FindArticle(ctx context.Context, id uint) (*model.Article, error) {
	var article model.Article
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Tags", "status = ?", model.StatusEnabled).
		First(&article, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &article, nil
}

// PrevArticle id 更小的最近一篇已发布文章
func (r *GormContentRepository) PrevArticle(ctx context.Context, id uint) (*ArticleLink, error) {
	return r.neighbour(ctx, "articles.id < ?", "articles.id DESC", id)
}

// NextArticle id 更大的最近一篇已发布文章
func (r *GormContentRepository) NextArticle(ctx context.Context, id uint) (*ArticleLink, error) {
	return r.neighbour(ctx, "articles.id > ?", "articles.id ASC", id)
}

func (r *GormContentRepository) neighbour(ctx context.Context, cond, order string, id uint) (*ArticleLink, error) {
	var links []ArticleLink
	err := r.published(ctx).
		Select("articles.id", "articles.title").
		Where(cond, id).
		Order(order).
		Limit(1).
		Scan(&links).Error
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, nil
	}
	return &links[0], nil
}

// FindCategory 获取分类
func (r *GormContentRepository) FindCategory(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

// PublishedCategories 已启用的分类，按排序值升序
func (r *GormContentRepository) PublishedCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).
		Where("status = ?", model.StatusEnabled).
		Order("sort ASC, id ASC").
		Find(&categories).Error
	return categories, err
}

// CategoryArticles 主分类为该分类的已发布文章，limit<=0 时不限制
func (r *GormContentRepository) CategoryArticles(ctx context.Context, categoryID uint, limit int) ([]model.Article, error) {
	query := r.published(ctx).
		Where("articles.category_id = ?", categoryID).
		Order("articles.created_at DESC, articles.id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var articles []model.Article
	err := query.Find(&articles).Error
	return articles, err
}

// CountCategoryArticles 分类下已发布文章数量
func (r *GormContentRepository) CountCategoryArticles(ctx context.Context, categoryID uint) (int64, error) {
	var total int64
	err := r.published(ctx).Where("articles.category_id = ?", categoryID).Count(&total).Error
	return total, err
}

// FindTag 获取标签
func (r *GormContentRepository) FindTag(ctx context.Context, id uint) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, translate(err)
	}
	return &tag, nil
}

// EnabledTags 已启用的标签
func (r *GormContentRepository) EnabledTags(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	err := r.db.WithContext(ctx).
		Where("status = ?", model.StatusEnabled).
		Order("id ASC").
		Find(&tags).Error
	return tags, err
}

// TagArticles 关联该标签的已发布文章
func (r *GormContentRepository) TagArticles(ctx context.Context, tagID uint) ([]model.Article, error) {
	var articles []model.Article
	err := r.published(ctx).
		Joins("JOIN article_tags ON article_tags.article_id = articles.id").
		Where("article_tags.tag_id = ?", tagID).
		Preload("Category").
		Order("articles.created_at DESC, articles.id DESC").
		Find(&articles).Error
	return articles, err
}

// FindPage 获取单页
func (r *GormContentRepository) FindPage(ctx context.Context, id uint) (*model.Page, error) {
	var page model.Page
	if err := r.db.WithContext(ctx).First(&page, id).Error; err != nil {
		return nil, translate(err)
	}
	return &page, nil
}

// PublishedPages 已发布的单页
func (r *GormContentRepository) PublishedPages(ctx context.Context) ([]model.Page, error) {
	var pages []model.Page
	err := r.db.WithContext(ctx).
		Where("status = ?", model.StatusEnabled).
		Order("sort ASC, id ASC").
		Find(&pages).Error
	return pages, err
}

// translate 将gorm的未找到错误转换为仓库错误
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
