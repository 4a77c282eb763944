package staticgen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nsxzhou1114/cms-api/internal/model"
)

// BatchResult 批量构建结果
type BatchResult struct {
	Built   int   `json:"built"`
	Failed  int   `json:"failed"`
	BatchID int64 `json:"batch_id,string"`
}

// AllResult 全站构建结果
type AllResult struct {
	Index            int   `json:"index"`
	ArticleListPages int   `json:"article_list_pages"`
	Articles         int   `json:"articles"`
	Categories       int   `json:"categories"`
	Tags             int   `json:"tags"`
	Pages            int   `json:"pages"`
	Failed           int   `json:"failed"`
	BatchID          int64 `json:"batch_id,string"`
}

// batchRun 一次批量构建，所有子构建共用同一个配置快照与批次号
type batchRun struct {
	b         *Builder
	scope     Scope
	site      SiteConfig
	buildType string
	batchID   int64
	start     time.Time
	failed    int
	problems  []string
}

func (b *Builder) newBatch(scope Scope, site SiteConfig, buildType string) *batchRun {
	if buildType == "" {
		buildType = model.BuildTypeManual
	}
	return &batchRun{
		b:         b,
		scope:     scope,
		site:      site.Normalize(),
		buildType: buildType,
		batchID:   b.ids.NextID(),
		start:     b.now(),
	}
}

// one 构建单个目标，失败只计数不中断
func (r *batchRun) one(ctx context.Context, scope Scope, id uint) (*Outcome, bool) {
	out, err := r.b.run(ctx, Request{Scope: scope, TargetID: id, BuildType: r.buildType, Site: r.site}, r.batchID)
	if err != nil {
		r.failed++
		return nil, false
	}
	return out, true
}

// each 依次构建一组目标，返回成功数量
func (r *batchRun) each(ctx context.Context, scope Scope, ids []uint) int {
	built := 0
	for _, id := range ids {
		if _, ok := r.one(ctx, scope, id); ok {
			built++
		}
	}
	return built
}

// listFailed 枚举目标失败按一次失败计入
func (r *batchRun) listFailed(scope Scope, err error) {
	r.failed++
	r.problems = append(r.problems, fmt.Sprintf("查询%s失败: %v", scope.Label(), err))
}

// finish 写入批量汇总日志
func (r *batchRun) finish(ctx context.Context) {
	var err error
	if r.failed > 0 {
		msg := fmt.Sprintf("共有 %d 个目标生成失败", r.failed)
		if len(r.problems) > 0 {
			msg += ": " + strings.Join(r.problems, "; ")
		}
		err = &BuildError{Scope: r.scope, Err: fmt.Errorf("%s", msg)}
	}
	r.b.record(ctx, r.scope, 0, r.buildType, r.batchID, r.b.now().Sub(r.start), err)
	r.b.recorder.ObserveBatch(r.scope, r.failed)
}

// BuildTags 构建所有启用的标签页
func (b *Builder) BuildTags(ctx context.Context, site SiteConfig, buildType string) *BatchResult {
	run := b.newBatch(ScopeTags, site, buildType)
	res := &BatchResult{BatchID: run.batchID}

	tags, err := b.repo.EnabledTags(ctx)
	if err != nil {
		run.listFailed(ScopeTag, err)
	} else {
		ids := make([]uint, 0, len(tags))
		for _, tag := range tags {
			ids = append(ids, tag.ID)
		}
		res.Built = run.each(ctx, ScopeTag, ids)
	}

	run.finish(ctx)
	res.Failed = run.failed
	return res
}

// BuildPages 构建所有已发布的单页
func (b *Builder) BuildPages(ctx context.Context, site SiteConfig, buildType string) *BatchResult {
	run := b.newBatch(ScopePages, site, buildType)
	res := &BatchResult{BatchID: run.batchID}

	pages, err := b.repo.PublishedPages(ctx)
	if err != nil {
		run.listFailed(ScopePage, err)
	} else {
		ids := make([]uint, 0, len(pages))
		for _, page := range pages {
			ids = append(ids, page.ID)
		}
		res.Built = run.each(ctx, ScopePage, ids)
	}

	run.finish(ctx)
	res.Failed = run.failed
	return res
}

// BuildAll 按固定顺序构建全站：首页、文章列表、文章、分类、标签、单页
func (b *Builder) BuildAll(ctx context.Context, site SiteConfig, buildType string) *AllResult {
	run := b.newBatch(ScopeAll, site, buildType)
	res := &AllResult{BatchID: run.batchID}

	if _, ok := run.one(ctx, ScopeIndex, 0); ok {
		res.Index = 1
	}
	if out, ok := run.one(ctx, ScopeArticleList, 0); ok {
		res.ArticleListPages = out.Pages
	}

	if articles, err := b.repo.PublishedArticles(ctx); err != nil {
		run.listFailed(ScopeArticle, err)
	} else {
		ids := make([]uint, 0, len(articles))
		for _, a := range articles {
			ids = append(ids, a.ID)
		}
		res.Articles = run.each(ctx, ScopeArticle, ids)
	}

	if categories, err := b.repo.PublishedCategories(ctx); err != nil {
		run.listFailed(ScopeCategory, err)
	} else {
		ids := make([]uint, 0, len(categories))
		for _, c := range categories {
			ids = append(ids, c.ID)
		}
		res.Categories = run.each(ctx, ScopeCategory, ids)
	}

	if tags, err := b.repo.EnabledTags(ctx); err != nil {
		run.listFailed(ScopeTag, err)
	} else {
		ids := make([]uint, 0, len(tags))
		for _, t := range tags {
			ids = append(ids, t.ID)
		}
		res.Tags = run.each(ctx, ScopeTag, ids)
	}

	if pages, err := b.repo.PublishedPages(ctx); err != nil {
		run.listFailed(ScopePage, err)
	} else {
		ids := make([]uint, 0, len(pages))
		for _, p := range pages {
			ids = append(ids, p.ID)
		}
		res.Pages = run.each(ctx, ScopePage, ids)
	}

	run.finish(ctx)
	res.Failed = run.failed
	return res
}
