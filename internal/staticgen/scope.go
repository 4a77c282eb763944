package staticgen

import "fmt"

// Scope 构建范围
type Scope string

const (
	ScopeIndex       Scope = "index"
	ScopeArticleList Scope = "articles"
	ScopeArticle     Scope = "article"
	ScopeCategory    Scope = "category"
	ScopeTag         Scope = "tag"
	ScopePage        Scope = "page"

	// 批量范围只出现在汇总日志中
	ScopeTags  Scope = "tags"
	ScopePages Scope = "pages"
	ScopeAll   Scope = "all"
)

// Scopes 所有可写入日志的范围
var Scopes = []Scope{
	ScopeIndex, ScopeArticleList, ScopeArticle, ScopeCategory, ScopeTag, ScopePage,
	ScopeTags, ScopePages, ScopeAll,
}

// ParseScope 解析构建范围
func ParseScope(s string) (Scope, error) {
	for _, scope := range Scopes {
		if string(scope) == s {
			return scope, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidScope, s)
}

// Targeted 是否需要目标id
func (s Scope) Targeted() bool {
	switch s {
	case ScopeArticle, ScopeCategory, ScopeTag, ScopePage:
		return true
	}
	return false
}

// Batch 是否为批量范围
func (s Scope) Batch() bool {
	return s == ScopeTags || s == ScopePages || s == ScopeAll
}

// Label 中文名称，用于错误信息
func (s Scope) Label() string {
	switch s {
	case ScopeIndex:
		return "首页"
	case ScopeArticleList:
		return "文章列表"
	case ScopeArticle:
		return "文章"
	case ScopeCategory:
		return "分类"
	case ScopeTag:
		return "标签"
	case ScopePage:
		return "页面"
	case ScopeTags:
		return "标签页"
	case ScopePages:
		return "单页"
	case ScopeAll:
		return "全站"
	}
	return string(s)
}
