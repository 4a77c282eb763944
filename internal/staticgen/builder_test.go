package staticgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/nsxzhou1114/cms-api/internal/model"
	"github.com/nsxzhou1114/cms-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func articleIDs(doc *goquery.Document) []string {
	var ids []string
	doc.Find("li.article").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("data-id")
		ids = append(ids, id)
	})
	return ids
}

func TestBuildIndex(t *testing.T) {
	f := newFixture(t, WithIndexLimit(3))
	f.publishedArticles(t, 5, 1)

	out, err := f.builder.Build(context.Background(), Request{Scope: ScopeIndex, Site: f.site})
	require.NoError(t, err)
	assert.Equal(t, []string{"index.html"}, out.Files)

	doc := parseHTML(t, f.read(t, "index.html"))
	assert.Equal(t, []string{"5", "4", "3"}, articleIDs(doc))
	assert.Equal(t, "测试站点 home", doc.Find("header.site").Text())
	assert.Equal(t, "测试站点", doc.Find("title").Text())
}

func TestBuildIndexUsesConfiguredTemplate(t *testing.T) {
	f := newFixture(t)
	writeTheme(t, f.templates, "default", map[string]string{
		"home.html": `<p class="custom">{{len .articles}}</p>`,
	})
	f.publishedArticles(t, 2, 1)
	f.site.IndexTemplate = "home"

	_, err := f.builder.Build(context.Background(), Request{Scope: ScopeIndex, Site: f.site})
	require.NoError(t, err)
	assert.Equal(t, `<p class="custom">2</p>`, f.read(t, "index.html"))
}

func TestBuildArticleIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.publishedArticles(t, 3, 1)
	ctx := context.Background()

	_, err := f.builder.Build(ctx, Request{Scope: ScopeArticle, TargetID: 2, Site: f.site})
	require.NoError(t, err)
	first := f.read(t, "article/2.html")

	_, err = f.builder.Build(ctx, Request{Scope: ScopeArticle, TargetID: 2, Site: f.site})
	require.NoError(t, err)
	assert.Equal(t, first, f.read(t, "article/2.html"))

	logs := f.sink.byScope(ScopeArticle)
	require.Len(t, logs, 2)
	for _, l := range logs {
		assert.Equal(t, model.BuildStatusSuccess, l.Status)
		assert.Equal(t, uint(2), l.TargetID)
		assert.Equal(t, model.BuildTypeManual, l.BuildType)
		assert.Zero(t, l.BatchID)
	}
}

func TestBuildArticleListPagination(t *testing.T) {
	f := newFixture(t)
	f.publishedArticles(t, 45, 1)

	out, err := f.builder.Build(context.Background(), Request{Scope: ScopeArticleList, Site: f.site})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Pages)
	assert.Equal(t, []string{"articles.html", "articles-2.html", "articles-3.html"}, out.Files)
	assert.False(t, f.exists("articles-1.html"))
	assert.False(t, f.exists("articles-4.html"))

	seen := map[string]bool{}
	for i, rel := range out.Files {
		doc := parseHTML(t, f.read(t, rel))
		assert.Equal(t, fmt.Sprintf("%d/3", i+1), doc.Find("span.page").Text())
		for _, id := range articleIDs(doc) {
			assert.False(t, seen[id], "文章 %s 出现在多个分页", id)
			seen[id] = true
		}
	}
	assert.Len(t, seen, 45)

	second := parseHTML(t, f.read(t, "articles-2.html"))
	assert.Equal(t, "文章列表 - 第2页", second.Find("title").Text())
	content, _ := second.Find(`meta[name="description"]`).Attr("content")
	assert.Equal(t, "浏览所有文章", content)
}

func TestBuildArticleListEmpty(t *testing.T) {
	f := newFixture(t)

	out, err := f.builder.Build(context.Background(), Request{Scope: ScopeArticleList, Site: f.site})
	require.NoError(t, err)
	assert.Zero(t, out.Pages)
	assert.False(t, f.exists("articles.html"))
}

func TestBuildArticleRejectsUnpublished(t *testing.T) {
	cases := []struct {
		name      string
		status    int
		lifecycle model.Lifecycle
	}{
		{"草稿", model.ArticleStatusDraft, model.LifecycleActive},
		{"待审核", model.ArticleStatusPending, model.LifecycleActive},
		{"已下线", model.ArticleStatusOffline, model.LifecycleActive},
		{"回收站", model.ArticleStatusPublished, model.LifecycleRecycled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			a := f.article(t, model.Article{Title: "未发布", Status: tc.status, Lifecycle: tc.lifecycle, CategoryID: 1})

			_, err := f.builder.Build(context.Background(), Request{Scope: ScopeArticle, TargetID: a.ID, Site: f.site})
			require.ErrorIs(t, err, ErrNotPublished)
			assert.Equal(t, KindNotPublished, KindOf(err))
			assert.False(t, f.exists(ArticlePath(a.ID)))

			logs := f.sink.byScope(ScopeArticle)
			require.Len(t, logs, 1)
			assert.Equal(t, model.BuildStatusFailed, logs[0].Status)
			assert.Contains(t, logs[0].ErrorMessage, "文章未发布")
		})
	}
}

func TestBuildArticleNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.builder.Build(context.Background(), Request{Scope: ScopeArticle, TargetID: 404, Site: f.site})
	require.ErrorIs(t, err, ErrNotFound)

	var buildErr *BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, ScopeArticle, buildErr.Scope)
	assert.Equal(t, uint(404), buildErr.TargetID)
	assert.Len(t, f.sink.byScope(ScopeArticle), 1)
}

func TestBuildArticlePrevNext(t *testing.T) {
	f := newFixture(t)
	for id := uint(1); id <= 8; id++ {
		status := model.ArticleStatusDraft
		if id%2 == 1 {
			status = model.ArticleStatusPublished
		}
		f.article(t, model.Article{Base: model.Base{ID: id}, Status: status, CategoryID: 1})
	}
	ctx := context.Background()

	for _, id := range []uint{1, 5, 7} {
		_, err := f.builder.Build(ctx, Request{Scope: ScopeArticle, TargetID: id, Site: f.site})
		require.NoError(t, err)
	}

	doc := parseHTML(t, f.read(t, "article/5.html"))
	prev, _ := doc.Find("a.prev").Attr("data-id")
	next, _ := doc.Find("a.next").Attr("data-id")
	assert.Equal(t, "3", prev)
	assert.Equal(t, "7", next)
	href, _ := doc.Find("a.next").Attr("href")
	assert.Equal(t, "/article/7.html", href)

	first := parseHTML(t, f.read(t, "article/1.html"))
	assert.Zero(t, first.Find("a.prev").Length())
	last := parseHTML(t, f.read(t, "article/7.html"))
	assert.Zero(t, last.Find("a.next").Length())
}

func TestBuildCategory(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Create(&model.Category{Base: model.Base{ID: 9}, Name: "Go", Status: model.StatusEnabled}).Error)
	for i := 1; i <= 3; i++ {
		f.article(t, model.Article{Base: model.Base{ID: uint(i), CreatedAt: at(i)}, Status: model.ArticleStatusPublished, CategoryID: 9})
	}
	f.article(t, model.Article{Base: model.Base{ID: 4, CreatedAt: at(4)}, Status: model.ArticleStatusDraft, CategoryID: 9})

	_, err := f.builder.Build(context.Background(), Request{Scope: ScopeCategory, TargetID: 9, Site: f.site})
	require.NoError(t, err)

	doc := parseHTML(t, f.read(t, "category/9.html"))
	assert.Equal(t, "Go", doc.Find("h1").Text())
	assert.Equal(t, []string{"3", "2", "1"}, articleIDs(doc))
	content, _ := doc.Find(`meta[name="description"]`).Attr("content")
	assert.Equal(t, "Go", content)
}

func TestBuildCategoryTemplateOverride(t *testing.T) {
	f := newFixture(t)
	writeTheme(t, f.templates, "default", map[string]string{
		"category-special.html": `<div class="special">{{.category.Name}}</div>`,
	})
	require.NoError(t, f.db.Create(&model.Category{Base: model.Base{ID: 2}, Name: "专题", Template: "category-special", Status: model.StatusEnabled}).Error)

	_, err := f.builder.Build(context.Background(), Request{Scope: ScopeCategory, TargetID: 2, Site: f.site})
	require.NoError(t, err)
	assert.Equal(t, `<div class="special">专题</div>`, f.read(t, "category/2.html"))
}

func TestBuildDisabledCategory(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Create(&model.Category{Base: model.Base{ID: 3}, Name: "禁用"}).Error)

	_, err := f.builder.Build(context.Background(), Request{Scope: ScopeCategory, TargetID: 3, Site: f.site})
	require.ErrorIs(t, err, ErrNotPublished)
	assert.False(t, f.exists("category/3.html"))
}

func TestBuildTag(t *testing.T) {
	f := newFixture(t)
	tag := model.Tag{Base: model.Base{ID: 1}, Name: "gin", Status: model.StatusEnabled}
	require.NoError(t, f.db.Create(&tag).Error)
	a := f.article(t, model.Article{Base: model.Base{ID: 1}, Status: model.ArticleStatusPublished, CategoryID: 1})
	f.article(t, model.Article{Base: model.Base{ID: 2}, Status: model.ArticleStatusPublished, CategoryID: 1})
	require.NoError(t, f.db.Create(&model.ArticleTag{ArticleID: a.ID, TagID: tag.ID}).Error)

	_, err := f.builder.Build(context.Background(), Request{Scope: ScopeTag, TargetID: 1, Site: f.site})
	require.NoError(t, err)
	doc := parseHTML(t, f.read(t, "tag/1.html"))
	assert.Equal(t, []string{"1"}, articleIDs(doc))
	content, _ := doc.Find(`meta[name="description"]`).Attr("content")
	assert.Equal(t, "gin", content)
}

func TestBuildPage(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Create(&model.Page{Base: model.Base{ID: 1}, Title: "关于", Slug: "about", Status: model.StatusEnabled}).Error)
	require.NoError(t, f.db.Create(&model.Page{Base: model.Base{ID: 2}, Title: "无名", Status: model.StatusEnabled}).Error)
	ctx := context.Background()

	out, err := f.builder.Build(ctx, Request{Scope: ScopePage, TargetID: 1, Site: f.site})
	require.NoError(t, err)
	assert.Equal(t, []string{"about.html"}, out.Files)
	assert.Contains(t, f.read(t, "about.html"), "<h1>关于</h1>")

	_, err = f.builder.Build(ctx, Request{Scope: ScopePage, TargetID: 2, Site: f.site})
	require.NoError(t, err)
	assert.True(t, f.exists("page-2.html"))
}

func TestBuildPageRejectsReservedSlug(t *testing.T) {
	f := newFixture(t)
	f.publishedArticles(t, 1, 1)
	ctx := context.Background()
	_, err := f.builder.Build(ctx, Request{Scope: ScopeIndex, Site: f.site})
	require.NoError(t, err)
	home := f.read(t, "index.html")

	for i, slug := range []string{"index", "articles", "articles-2", "sitemap"} {
		id := uint(i + 1)
		require.NoError(t, f.db.Create(&model.Page{Base: model.Base{ID: id}, Title: slug, Slug: slug, Status: model.StatusEnabled}).Error)
		_, err = f.builder.Build(ctx, Request{Scope: ScopePage, TargetID: id, Site: f.site})
		require.ErrorIs(t, err, ErrReservedPath, slug)
		assert.Equal(t, KindInvalid, KindOf(err))
	}
	assert.Equal(t, home, f.read(t, "index.html"))
	assert.False(t, f.exists("articles.html"))
	assert.False(t, f.exists("articles-2.html"))
	assert.False(t, f.exists("sitemap.html"))

	res := f.builder.BuildPages(ctx, f.site, "")
	assert.Zero(t, res.Built)
	assert.Equal(t, 4, res.Failed)
	assert.Equal(t, home, f.read(t, "index.html"))
}

func TestIsReservedSlug(t *testing.T) {
	for _, slug := range []string{"index", "articles", "articles-1", "articles-12", "sitemap"} {
		assert.True(t, IsReservedSlug(slug), slug)
	}
	for _, slug := range []string{"about", "articles-x", "my-articles", "sitemaps", "page-2"} {
		assert.False(t, IsReservedSlug(slug), slug)
	}
}

func TestRecordFailureWritesFailedLog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.builder.RecordFailure(ctx, ScopeTags, 0, "", errors.New("配置表不可用"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "配置表不可用")

	logs := f.sink.byScope(ScopeTags)
	require.Len(t, logs, 1)
	assert.Equal(t, model.BuildStatusFailed, logs[0].Status)
	assert.Equal(t, model.BuildTypeManual, logs[0].BuildType)
	assert.Contains(t, logs[0].ErrorMessage, "配置表不可用")

	require.Error(t, f.builder.RecordFailure(ctx, ScopeArticle, 3, model.BuildTypeAuto, errors.New("x")))
	single := f.sink.byScope(ScopeArticle)
	require.Len(t, single, 1)
	assert.Equal(t, uint(3), single[0].TargetID)
	assert.Equal(t, model.BuildTypeAuto, single[0].BuildType)
}

func TestBuildMissingThemeFailsWithoutFallback(t *testing.T) {
	f := newFixture(t)
	f.publishedArticles(t, 1, 1)
	f.site.Theme = "missing"

	_, err := f.builder.Build(context.Background(), Request{Scope: ScopeArticle, TargetID: 1, Site: f.site})
	require.ErrorIs(t, err, ErrThemeNotFound)
	assert.ErrorIs(t, err, ErrTemplate)
	assert.False(t, f.exists("article/1.html"))
}

func TestBuildMissingTemplate(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Create(&model.Page{Base: model.Base{ID: 1}, Title: "x", Slug: "x", Template: "nope", Status: model.StatusEnabled}).Error)

	_, err := f.builder.Build(context.Background(), Request{Scope: ScopePage, TargetID: 1, Site: f.site})
	require.ErrorIs(t, err, ErrTemplateNotFound)
	assert.Equal(t, KindTemplate, KindOf(err))
}

func TestBuildWriteFailureIsIO(t *testing.T) {
	f := newFixture(t)
	f.publishedArticles(t, 1, 1)
	writer := &flakyWriter{Writer: f.writer, fail: map[string]bool{"article/1.html": true}}
	builder := NewBuilder(repository.NewContentRepository(f.db), f.renderer, writer, f.sink)

	_, err := builder.Build(context.Background(), Request{Scope: ScopeArticle, TargetID: 1, Site: f.site})
	require.ErrorIs(t, err, ErrIO)
	assert.Equal(t, KindIO, KindOf(err))
}

func TestBuildRecoversPanic(t *testing.T) {
	f := newFixture(t)
	f.publishedArticles(t, 1, 1)
	builder := NewBuilder(repository.NewContentRepository(f.db), panicRenderer{Renderer: f.renderer}, f.writer, f.sink)

	_, err := builder.Build(context.Background(), Request{Scope: ScopeIndex, Site: f.site})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "模板函数异常")

	logs := f.sink.byScope(ScopeIndex)
	require.Len(t, logs, 1)
	assert.Equal(t, model.BuildStatusFailed, logs[0].Status)
}

func TestBuildInvalidScope(t *testing.T) {
	f := newFixture(t)

	_, err := f.builder.Build(context.Background(), Request{Scope: ScopeAll, Site: f.site})
	require.ErrorIs(t, err, ErrInvalidScope)
	assert.Empty(t, f.sink.logs)
}

func TestBuildTagsCountsFailures(t *testing.T) {
	f := newFixture(t)
	for i := 1; i <= 3; i++ {
		require.NoError(t, f.db.Create(&model.Tag{Base: model.Base{ID: uint(i)}, Name: fmt.Sprintf("tag%d", i), Status: model.StatusEnabled}).Error)
	}
	require.NoError(t, f.db.Create(&model.Tag{Base: model.Base{ID: 4}, Name: "disabled"}).Error)

	writer := &flakyWriter{Writer: f.writer, fail: map[string]bool{"tag/2.html": true}}
	builder := NewBuilder(repository.NewContentRepository(f.db), f.renderer, writer, f.sink)

	res := builder.BuildTags(context.Background(), f.site, model.BuildTypeAuto)
	assert.Equal(t, 2, res.Built)
	assert.Equal(t, 1, res.Failed)
	assert.NotZero(t, res.BatchID)
	assert.True(t, f.exists("tag/1.html"))
	assert.False(t, f.exists("tag/2.html"))
	assert.True(t, f.exists("tag/3.html"))
	assert.False(t, f.exists("tag/4.html"))

	single := f.sink.byScope(ScopeTag)
	require.Len(t, single, 3)
	for _, l := range single {
		assert.Equal(t, res.BatchID, l.BatchID)
		assert.Equal(t, model.BuildTypeAuto, l.BuildType)
	}

	aggregate := f.sink.byScope(ScopeTags)
	require.Len(t, aggregate, 1)
	assert.Equal(t, model.BuildStatusFailed, aggregate[0].Status)
	assert.Contains(t, aggregate[0].ErrorMessage, "共有 1 个目标生成失败")
}

func TestBuildPagesAllSucceed(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Create(&model.Page{Title: "a", Slug: "a", Status: model.StatusEnabled}).Error)
	require.NoError(t, f.db.Create(&model.Page{Title: "b", Slug: "b", Status: model.StatusEnabled}).Error)
	require.NoError(t, f.db.Create(&model.Page{Title: "c", Slug: "c"}).Error)

	res := f.builder.BuildPages(context.Background(), f.site, "")
	assert.Equal(t, 2, res.Built)
	assert.Zero(t, res.Failed)

	aggregate := f.sink.byScope(ScopePages)
	require.Len(t, aggregate, 1)
	assert.Equal(t, model.BuildStatusSuccess, aggregate[0].Status)
	assert.Equal(t, model.BuildTypeManual, aggregate[0].BuildType)
}

func TestBuildAll(t *testing.T) {
	f := newFixture(t, WithPageSize(2))
	require.NoError(t, f.db.Create(&model.Category{Base: model.Base{ID: 1}, Name: "默认", Status: model.StatusEnabled}).Error)
	require.NoError(t, f.db.Create(&model.Category{Base: model.Base{ID: 2}, Name: "隐藏"}).Error)
	require.NoError(t, f.db.Create(&model.Tag{Base: model.Base{ID: 1}, Name: "go", Status: model.StatusEnabled}).Error)
	require.NoError(t, f.db.Create(&model.Page{Title: "关于", Slug: "about", Status: model.StatusEnabled}).Error)
	f.publishedArticles(t, 3, 1)
	f.article(t, model.Article{Title: "草稿", CategoryID: 1})

	res := f.builder.BuildAll(context.Background(), f.site, "")
	assert.Equal(t, 1, res.Index)
	assert.Equal(t, 2, res.ArticleListPages)
	assert.Equal(t, 3, res.Articles)
	assert.Equal(t, 1, res.Categories)
	assert.Equal(t, 1, res.Tags)
	assert.Equal(t, 1, res.Pages)
	assert.Zero(t, res.Failed)

	for _, rel := range []string{"index.html", "articles.html", "articles-2.html", "article/1.html", "category/1.html", "tag/1.html", "about.html"} {
		assert.True(t, f.exists(rel), rel)
	}
	assert.False(t, f.exists("category/2.html"))
	assert.False(t, f.exists("article/4.html"))

	scopes := make([]string, 0, len(f.sink.logs))
	for _, l := range f.sink.logs {
		assert.Equal(t, res.BatchID, l.BatchID)
		scopes = append(scopes, l.Scope)
	}
	assert.Equal(t, []string{"index", "articles", "article", "article", "article", "category", "tag", "page", "all"}, scopes)
}

func TestBuildAllContinuesAfterFailure(t *testing.T) {
	f := newFixture(t)
	f.publishedArticles(t, 2, 1)
	writer := &flakyWriter{Writer: f.writer, fail: map[string]bool{"index.html": true}}
	builder := NewBuilder(repository.NewContentRepository(f.db), f.renderer, writer, f.sink)

	res := builder.BuildAll(context.Background(), f.site, "")
	assert.Zero(t, res.Index)
	assert.Equal(t, 2, res.Articles)
	assert.Equal(t, 1, res.Failed)

	aggregate := f.sink.byScope(ScopeAll)
	require.Len(t, aggregate, 1)
	assert.Equal(t, model.BuildStatusFailed, aggregate[0].Status)
}
