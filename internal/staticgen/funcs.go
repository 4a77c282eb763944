package staticgen

import (
	"html/template"
	"time"

	"github.com/nsxzhou1114/cms-api/internal/model"
	"github.com/nsxzhou1114/cms-api/pkg/markup"
)

// templateFuncs 主题模板可用的函数
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"home_url":     func() string { return href(IndexPath()) },
		"list_url":     func(page int) string { return href(ArticleListPath(page)) },
		"article_url":  func(id uint) string { return href(ArticlePath(id)) },
		"category_url": func(id uint) string { return href(CategoryPath(id)) },
		"tag_url":      func(id uint) string { return href(TagPath(id)) },
		"page_url":     pageURL,
		"date":         formatDate,
		"markdown":     renderMarkdown,
		"safe_html":    func(s string) template.HTML { return template.HTML(markup.Sanitize(s)) },
		"raw":          func(s string) template.HTML { return template.HTML(s) },
		"plain":        markup.PlainText,
		"truncate":     func(s string, n int) string { return markup.Truncate(s, n, "...") },
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
		"seq":          seq,
	}
}

func pageURL(v any) string {
	switch p := v.(type) {
	case *model.Page:
		return href(PagePath(p.FileSlug()))
	case model.Page:
		return href(PagePath(p.FileSlug()))
	case string:
		return href(PagePath(p))
	}
	return href(IndexPath())
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	case *time.Time:
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	}
	return ""
}

func renderMarkdown(s string) template.HTML {
	html, err := markup.MarkdownToHTML(s)
	if err != nil {
		return ""
	}
	return template.HTML(html)
}

func seq(n int) []int {
	out := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, i)
	}
	return out
}
