package service

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nsxzhou1114/cms-api/internal/model"
	"github.com/nsxzhou1114/cms-api/pkg/markup"
)

// 自动提取的SEO字段长度
const (
	summaryLength      = 200
	descriptionLength  = 150
	keywordSourceChars = 100
	maxKeywords        = 8
	minKeywordRunes    = 2
	maxKeywordRunes    = 10
)

// fillSEO 补全为空的摘要、SEO描述与关键词
func fillSEO(article *model.Article) {
	text := markup.PlainText(article.Content)

	if article.Summary == "" {
		article.Summary = markup.Truncate(text, summaryLength, "...")
	}
	if article.SeoDescription == "" {
		article.SeoDescription = markup.Truncate(text, descriptionLength, "")
	}
	if article.SeoKeywords == "" {
		article.SeoKeywords = strings.Join(extractKeywords(article.Title+" "+markup.Truncate(text, keywordSourceChars, "")), ",")
	}
}

// extractKeywords 按非字母数字切词，保留长度 2 到 10 的词，去重后最多 8 个
func extractKeywords(text string) []string {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool, len(words))
	keywords := make([]string, 0, maxKeywords)
	for _, w := range words {
		n := utf8.RuneCountInString(w)
		if n < minKeywordRunes || n > maxKeywordRunes || seen[w] {
			continue
		}
		seen[w] = true
		keywords = append(keywords, w)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}
