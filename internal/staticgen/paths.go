package staticgen

import (
	"fmt"
	"regexp"
	"strings"
)

// 输出目录下的固定文件
const (
	IndexFile       = "index.html"
	ArticleListFile = "articles.html"
)

// IndexPath 首页
func IndexPath() string { return IndexFile }

// ArticleListPath 文章列表第 page 页，第一页不带页码
func ArticleListPath(page int) string {
	if page <= 1 {
		return ArticleListFile
	}
	return fmt.Sprintf("articles-%d.html", page)
}

// ArticlePath 文章详情
func ArticlePath(id uint) string { return fmt.Sprintf("article/%d.html", id) }

// CategoryPath 分类页
func CategoryPath(id uint) string { return fmt.Sprintf("category/%d.html", id) }

// TagPath 标签页
func TagPath(id uint) string { return fmt.Sprintf("tag/%d.html", id) }

// PagePath 单页按slug命名
func PagePath(slug string) string { return slug + ".html" }

// 首页、文章列表与站点地图占用的文件名，单页不可使用
var (
	reservedSlugs   = map[string]bool{"index": true, "articles": true, "sitemap": true}
	listPagePattern = regexp.MustCompile(`^articles-[0-9]+$`)
)

// IsReservedSlug 单页标识是否会覆盖固定页面
func IsReservedSlug(slug string) bool {
	return reservedSlugs[slug] || listPagePattern.MatchString(slug)
}

// SitemapPath 站点地图
func SitemapPath(format string) string { return "sitemap." + format }

// href 站内相对链接
func href(rel string) string { return "/" + rel }

// AbsoluteURL 拼接站点地址与相对路径
func AbsoluteURL(base, rel string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(rel, "/")
}

// TotalPages 向上取整的总页数
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
