package staticgen

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/nsxzhou1114/cms-api/internal/repository"
)

// SitemapFormat 站点地图格式
type SitemapFormat string

const (
	SitemapTXT  SitemapFormat = "txt"
	SitemapXML  SitemapFormat = "xml"
	SitemapHTML SitemapFormat = "html"
)

// SitemapFormats 所有格式，按生成顺序
var SitemapFormats = []SitemapFormat{SitemapTXT, SitemapXML, SitemapHTML}

// ParseSitemapFormat 解析格式
func ParseSitemapFormat(s string) (SitemapFormat, error) {
	for _, f := range SitemapFormats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: 不支持的站点地图格式 %s", ErrInvalidScope, s)
}

// ChangeFrequency 更新频率
type ChangeFrequency string

const (
	ChangeFreqDaily   ChangeFrequency = "daily"
	ChangeFreqWeekly  ChangeFrequency = "weekly"
	ChangeFreqMonthly ChangeFrequency = "monthly"
)

// SitemapNamespace 站点地图协议命名空间
const SitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// URLSet 站点地图根元素
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// URL 站点地图URL条目
type URL struct {
	Location     string `xml:"loc"`
	LastModified string `xml:"lastmod,omitempty"`
	ChangeFreq   string `xml:"changefreq,omitempty"`
	Priority     string `xml:"priority,omitempty"`
}

// SitemapEntry 一条公开地址
type SitemapEntry struct {
	Scope      Scope
	Location   string
	Title      string
	LastMod    time.Time
	ChangeFreq ChangeFrequency
	Priority   float32
}

// ToURL 转换为XML条目
func (e SitemapEntry) ToURL() URL {
	return URL{
		Location:     e.Location,
		LastModified: e.LastMod.Format("2006-01-02"),
		ChangeFreq:   string(e.ChangeFreq),
		Priority:     fmt.Sprintf("%.1f", e.Priority),
	}
}

// SitemapResult 生成结果
type SitemapResult struct {
	Format SitemapFormat `json:"format"`
	File   string        `json:"file"`
	URL    string        `json:"url"`
	Count  int           `json:"count"`
}

// SitemapGenerator 站点地图生成，与构建器共用内容查询与路径规则
type SitemapGenerator struct {
	repo     repository.ContentRepository
	writer   Writer
	recorder Recorder
	pageSize int
	now      func() time.Time
}

// NewSitemapGenerator 创建站点地图生成器
func NewSitemapGenerator(repo repository.ContentRepository, writer Writer, pageSize int, recorder Recorder) *SitemapGenerator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &SitemapGenerator{repo: repo, writer: writer, recorder: recorder, pageSize: pageSize, now: time.Now}
}

// lastMod 实体更新时间，缺失时用当前日期
func (g *SitemapGenerator) lastMod(t time.Time) time.Time {
	if t.IsZero() {
		return g.now()
	}
	return t
}

// Entries 所有公开地址：首页、文章列表分页、分类、文章、单页
func (g *SitemapGenerator) Entries(ctx context.Context, baseURL string) ([]SitemapEntry, error) {
	today := g.now()
	entries := []SitemapEntry{{
		Scope: ScopeIndex, Location: AbsoluteURL(baseURL, IndexPath()), Title: "网站首页",
		LastMod: today, ChangeFreq: ChangeFreqDaily, Priority: 1.0,
	}}

	total, err := g.repo.CountPublishedArticles(ctx)
	if err != nil {
		return nil, fmt.Errorf("统计文章数量失败: %w", err)
	}
	for page := 1; page <= TotalPages(total, g.pageSize); page++ {
		entries = append(entries, SitemapEntry{
			Scope: ScopeArticleList, Location: AbsoluteURL(baseURL, ArticleListPath(page)),
			Title: fmt.Sprintf("第%d页", page), LastMod: today, ChangeFreq: ChangeFreqDaily, Priority: 0.8,
		})
	}

	categories, err := g.repo.PublishedCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询分类失败: %w", err)
	}
	for _, c := range categories {
		entries = append(entries, SitemapEntry{
			Scope: ScopeCategory, Location: AbsoluteURL(baseURL, CategoryPath(c.ID)), Title: c.Name,
			LastMod: g.lastMod(c.UpdatedAt), ChangeFreq: ChangeFreqWeekly, Priority: 0.7,
		})
	}

	articles, err := g.repo.PublishedArticles(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询文章失败: %w", err)
	}
	for _, a := range articles {
		entries = append(entries, SitemapEntry{
			Scope: ScopeArticle, Location: AbsoluteURL(baseURL, ArticlePath(a.ID)), Title: a.Title,
			LastMod: g.lastMod(a.UpdatedAt), ChangeFreq: ChangeFreqMonthly, Priority: 0.6,
		})
	}

	pages, err := g.repo.PublishedPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询单页失败: %w", err)
	}
	for _, p := range pages {
		entries = append(entries, SitemapEntry{
			Scope: ScopePage, Location: AbsoluteURL(baseURL, PagePath(p.FileSlug())), Title: p.Title,
			LastMod: g.lastMod(p.UpdatedAt), ChangeFreq: ChangeFreqMonthly, Priority: 0.5,
		})
	}
	return entries, nil
}

// Generate 生成单一格式
func (g *SitemapGenerator) Generate(ctx context.Context, site SiteConfig, baseURL string, format SitemapFormat) (*SitemapResult, error) {
	entries, err := g.Entries(ctx, baseURL)
	if err != nil {
		return nil, err
	}
	return g.write(ctx, site.Normalize(), baseURL, format, entries)
}

// GenerateAll 三种格式共用一次地址枚举
func (g *SitemapGenerator) GenerateAll(ctx context.Context, site SiteConfig, baseURL string) ([]SitemapResult, error) {
	entries, err := g.Entries(ctx, baseURL)
	if err != nil {
		return nil, err
	}
	site = site.Normalize()
	results := make([]SitemapResult, 0, len(SitemapFormats))
	for _, format := range SitemapFormats {
		res, err := g.write(ctx, site, baseURL, format, entries)
		if err != nil {
			return results, err
		}
		results = append(results, *res)
	}
	return results, nil
}

func (g *SitemapGenerator) write(ctx context.Context, site SiteConfig, baseURL string, format SitemapFormat, entries []SitemapEntry) (*SitemapResult, error) {
	var (
		content []byte
		err     error
	)
	switch format {
	case SitemapTXT:
		content = renderSitemapTXT(entries)
	case SitemapXML:
		content, err = renderSitemapXML(entries)
	case SitemapHTML:
		content, err = g.renderSitemapHTML(ctx, site, baseURL, entries)
	default:
		err = fmt.Errorf("%w: 不支持的站点地图格式 %s", ErrInvalidScope, format)
	}
	if err != nil {
		return nil, err
	}

	rel := SitemapPath(string(format))
	if err := g.writer.Write(ctx, rel, content); err != nil {
		return nil, err
	}
	g.recorder.ObserveSitemap(string(format), len(entries))
	return &SitemapResult{
		Format: format,
		File:   "/" + rel,
		URL:    AbsoluteURL(baseURL, rel),
		Count:  len(entries),
	}, nil
}

func renderSitemapTXT(entries []SitemapEntry) []byte {
	locs := make([]string, 0, len(entries))
	for _, e := range entries {
		locs = append(locs, e.Location)
	}
	return []byte(strings.Join(locs, "\n"))
}

func renderSitemapXML(entries []SitemapEntry) ([]byte, error) {
	set := URLSet{Xmlns: SitemapNamespace, URLs: make([]URL, 0, len(entries))}
	for _, e := range entries {
		set.URLs = append(set.URLs, e.ToURL())
	}
	data, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("生成XML失败: %w", err)
	}
	return append([]byte(xml.Header), data...), nil
}

// sitemapCategory HTML站点地图中的分类分组
type sitemapCategory struct {
	Name         string
	Location     string
	ArticleCount int64
	Articles     []SitemapEntry
}

// recentPerCategory 每个分类展示的最新文章数量
const recentPerCategory = 10

func (g *SitemapGenerator) renderSitemapHTML(ctx context.Context, site SiteConfig, baseURL string, entries []SitemapEntry) ([]byte, error) {
	categories, err := g.repo.PublishedCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询分类失败: %w", err)
	}
	groups := make([]sitemapCategory, 0, len(categories))
	for _, c := range categories {
		count, err := g.repo.CountCategoryArticles(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("统计分类文章失败: %w", err)
		}
		recent, err := g.repo.CategoryArticles(ctx, c.ID, recentPerCategory)
		if err != nil {
			return nil, fmt.Errorf("查询分类文章失败: %w", err)
		}
		group := sitemapCategory{Name: c.Name, Location: AbsoluteURL(baseURL, CategoryPath(c.ID)), ArticleCount: count}
		for _, a := range recent {
			group.Articles = append(group.Articles, SitemapEntry{Location: AbsoluteURL(baseURL, ArticlePath(a.ID)), Title: a.Title})
		}
		groups = append(groups, group)
	}

	var lists, pages []SitemapEntry
	for _, e := range entries {
		switch e.Scope {
		case ScopeArticleList:
			lists = append(lists, e)
		case ScopePage:
			pages = append(pages, e)
		}
	}

	var buf bytes.Buffer
	err = sitemapHTMLTemplate.Execute(&buf, map[string]any{
		"Site":        site,
		"Home":        AbsoluteURL(baseURL, IndexPath()),
		"Categories":  groups,
		"Lists":       lists,
		"Pages":       pages,
		"GeneratedAt": g.now().Format("2006-01-02 15:04:05"),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: 渲染站点地图失败: %v", ErrTemplate, err)
	}
	return buf.Bytes(), nil
}

var sitemapHTMLTemplate = template.Must(template.New("sitemap").Parse(`<!DOCTYPE html>
<html lang="zh-CN">
<head>
  <meta charset="UTF-8">
  <title>网站地图 - {{.Site.SiteName}}</title>
</head>
<body>
  <h1>网站地图</h1>
  <section>
    <h2>首页</h2>
    <ul><li><a href="{{.Home}}">网站首页</a></li></ul>
  </section>
  {{- if .Categories}}
  <section>
    <h2>文章分类</h2>
    {{- range .Categories}}
    <div class="category">
      <a href="{{.Location}}">{{.Name}}</a> ({{.ArticleCount}})
      {{- if .Articles}}
      <ul>
        {{- range .Articles}}
        <li class="article-item"><a href="{{.Location}}">{{.Title}}</a></li>
        {{- end}}
      </ul>
      {{- end}}
    </div>
    {{- end}}
  </section>
  {{- end}}
  {{- if .Lists}}
  <section>
    <h2>文章列表</h2>
    <ul>
      {{- range .Lists}}
      <li><a href="{{.Location}}">{{.Title}}</a></li>
      {{- end}}
    </ul>
  </section>
  {{- end}}
  {{- if .Pages}}
  <section>
    <h2>单页</h2>
    <ul>
      {{- range .Pages}}
      <li><a href="{{.Location}}">{{.Title}}</a></li>
      {{- end}}
    </ul>
  </section>
  {{- end}}
  <footer>生成时间：{{.GeneratedAt}}</footer>
</body>
</html>
`))
