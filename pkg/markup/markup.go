package markup

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday"
)

var (
	ErrEmptyContent = errors.New("内容不能为空")

	ugcPolicy = bluemonday.UGCPolicy()
)

// MarkdownToHTML 将 Markdown 内容转换为 HTML 并移除脚本标签
func MarkdownToHTML(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyContent
	}

	unsafe := blackfriday.MarkdownCommon([]byte(content))
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(unsafe)))
	if err != nil {
		return "", err
	}
	doc.Find("script").Remove()

	// 只取 body 内部，避免输出 html/head 包装
	return doc.Find("body").Html()
}

// Sanitize 按UGC策略清洗HTML
func Sanitize(html string) string {
	return ugcPolicy.Sanitize(html)
}

// PlainText 提取HTML中的纯文本并合并空白
func PlainText(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.Join(strings.Fields(html), " ")
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Truncate 按字符截断，超出时追加后缀
func Truncate(s string, n int, suffix string) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + suffix
}
