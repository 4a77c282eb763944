package staticgen

import (
	"context"
	"errors"
	"fmt"

	"github.com/nsxzhou1114/cms-api/internal/model"
	"github.com/nsxzhou1114/cms-api/internal/repository"
)

// 文章列表页的固定SEO信息
const (
	articleListKeywords    = "文章列表,全部文章"
	articleListDescription = "浏览所有文章"
)

// Pagination 文章列表分页信息
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	Total       int64 `json:"total"`
	PageSize    int   `json:"page_size"`
}

// HasPrev 是否有上一页
func (p Pagination) HasPrev() bool { return p.CurrentPage > 1 }

// HasNext 是否有下一页
func (p Pagination) HasNext() bool { return p.CurrentPage < p.TotalPages }

// lookupErr 区分不存在与查询失败
func lookupErr(scope Scope, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(scope)
	}
	return fmt.Errorf("查询%s失败: %w", scope.Label(), err)
}

func (b *Builder) buildIndex(ctx context.Context, site *SiteConfig, _ uint) (*Outcome, error) {
	articles, err := b.repo.RecentArticles(ctx, b.indexLimit)
	if err != nil {
		return nil, fmt.Errorf("查询首页文章失败: %w", err)
	}

	data := baseContext(site, true, site.HomeTitle(), site.SeoKeywords, site.SeoDescription)
	data["articles"] = articles
	if err := b.emit(ctx, site, site.IndexTemplate, IndexPath(), data); err != nil {
		return nil, err
	}
	return &Outcome{Files: []string{IndexPath()}}, nil
}

// buildArticleList 每次都重建全部分页，置顶文章变化会影响之后的每一页
func (b *Builder) buildArticleList(ctx context.Context, site *SiteConfig, _ uint) (*Outcome, error) {
	total, err := b.repo.CountPublishedArticles(ctx)
	if err != nil {
		return nil, fmt.Errorf("统计文章数量失败: %w", err)
	}
	totalPages := TotalPages(total, b.pageSize)

	out := &Outcome{Files: make([]string, 0, totalPages)}
	for page := 1; page <= totalPages; page++ {
		articles, err := b.repo.ArticlePage(ctx, page, b.pageSize)
		if err != nil {
			return nil, fmt.Errorf("查询第%d页文章失败: %w", page, err)
		}

		title := "文章列表"
		if page > 1 {
			title = fmt.Sprintf("文章列表 - 第%d页", page)
		}
		data := baseContext(site, false, title, articleListKeywords, articleListDescription)
		data["articles"] = articles
		data["pagination"] = Pagination{
			CurrentPage: page,
			TotalPages:  totalPages,
			Total:       total,
			PageSize:    b.pageSize,
		}

		rel := ArticleListPath(page)
		if err := b.emit(ctx, site, "articles", rel, data); err != nil {
			return nil, err
		}
		out.Files = append(out.Files, rel)
		out.Pages++
	}
	return out, nil
}

func (b *Builder) buildArticle(ctx context.Context, site *SiteConfig, id uint) (*Outcome, error) {
	article, err := b.repo.FindArticle(ctx, id)
	if err != nil {
		return nil, lookupErr(ScopeArticle, err)
	}
	if !article.IsPublished() {
		return nil, notPublished(ScopeArticle)
	}

	prev, err := b.repo.PrevArticle(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("查询上一篇失败: %w", err)
	}
	next, err := b.repo.NextArticle(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("查询下一篇失败: %w", err)
	}

	description := article.SeoDescription
	if description == "" {
		description = article.Summary
	}
	data := baseContext(site, false, article.Title, article.SeoKeywords, description)
	data["article"] = article
	data["prev"] = prev
	data["next"] = next
	data["tags"] = article.Tags
	if article.Category.ID != 0 {
		data["category"] = &article.Category
	}

	rel := ArticlePath(id)
	if err := b.emit(ctx, site, "article", rel, data); err != nil {
		return nil, err
	}
	return &Outcome{Files: []string{rel}}, nil
}

func (b *Builder) buildCategory(ctx context.Context, site *SiteConfig, id uint) (*Outcome, error) {
	category, err := b.repo.FindCategory(ctx, id)
	if err != nil {
		return nil, lookupErr(ScopeCategory, err)
	}
	if category.Status != model.StatusEnabled {
		return nil, notPublished(ScopeCategory)
	}

	articles, err := b.repo.CategoryArticles(ctx, id, 0)
	if err != nil {
		return nil, fmt.Errorf("查询分类文章失败: %w", err)
	}

	description := category.Description
	if description == "" {
		description = category.Name
	}
	data := baseContext(site, false, category.Name, category.Name, description)
	data["category"] = category
	data["articles"] = articles

	tmpl := category.Template
	if tmpl == "" {
		tmpl = "category"
	}
	rel := CategoryPath(id)
	if err := b.emit(ctx, site, tmpl, rel, data); err != nil {
		return nil, err
	}
	return &Outcome{Files: []string{rel}}, nil
}

func (b *Builder) buildTag(ctx context.Context, site *SiteConfig, id uint) (*Outcome, error) {
	tag, err := b.repo.FindTag(ctx, id)
	if err != nil {
		return nil, lookupErr(ScopeTag, err)
	}
	if tag.Status != model.StatusEnabled {
		return nil, notPublished(ScopeTag)
	}

	articles, err := b.repo.TagArticles(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("查询标签文章失败: %w", err)
	}

	data := baseContext(site, false, tag.Name, tag.Name, tag.Name)
	data["tag"] = tag
	data["articles"] = articles

	rel := TagPath(id)
	if err := b.emit(ctx, site, "tag", rel, data); err != nil {
		return nil, err
	}
	return &Outcome{Files: []string{rel}}, nil
}

// buildPage 单页以slug命名，slug重复时后写入者覆盖
func (b *Builder) buildPage(ctx context.Context, site *SiteConfig, id uint) (*Outcome, error) {
	page, err := b.repo.FindPage(ctx, id)
	if err != nil {
		return nil, lookupErr(ScopePage, err)
	}
	if page.Status != model.StatusEnabled {
		return nil, notPublished(ScopePage)
	}

	slug := page.FileSlug()
	if IsReservedSlug(slug) {
		return nil, fmt.Errorf("%w: 单页标识 %s", ErrReservedPath, slug)
	}

	data := baseContext(site, false, page.Title, page.SeoKeywords, page.SeoDescription)
	data["page"] = page

	tmpl := page.Template
	if tmpl == "" {
		tmpl = "page"
	}
	rel := PagePath(slug)
	if err := b.emit(ctx, site, tmpl, rel, data); err != nil {
		return nil, err
	}
	return &Outcome{Files: []string{rel}}, nil
}
