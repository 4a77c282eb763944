package staticgen

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LayoutTemplate 主题公共布局，不作为独立页面模板
const LayoutTemplate = "layout"

// ThemeLocator 判断主题目录是否存在
type ThemeLocator interface {
	ThemeExists(theme string) bool
}

// ThemeResolver 将模板名与当前主题映射为模板键
type ThemeResolver struct {
	locator ThemeLocator
}

// NewThemeResolver 创建主题解析器
func NewThemeResolver(locator ThemeLocator) *ThemeResolver {
	return &ThemeResolver{locator: locator}
}

// Resolve 返回 "{theme}/{name}"，主题不存在时直接报错而不回退到默认主题
func (r *ThemeResolver) Resolve(name, theme string) (string, error) {
	if !validName(theme) {
		return "", fmt.Errorf("%w: %q", ErrThemeNotFound, theme)
	}
	if !validName(name) {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	if !r.locator.ThemeExists(theme) {
		return "", fmt.Errorf("%w: %s", ErrThemeNotFound, theme)
	}
	return theme + "/" + name, nil
}

// SplitKey 拆分模板键
func SplitKey(key string) (theme, name string) {
	theme, name, _ = strings.Cut(key, "/")
	return theme, name
}

func validName(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

// ThemeInfo 主题信息
type ThemeInfo struct {
	Key         string   `json:"key" yaml:"-"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Author      string   `json:"author" yaml:"author"`
	Version     string   `json:"version" yaml:"version"`
	Preview     string   `json:"preview" yaml:"preview"`
	Templates   []string `json:"templates" yaml:"-"`
	IsCurrent   bool     `json:"is_current" yaml:"-"`
}

// 主题元数据文件，yaml 解析器同样能读取 json
var themeMetaFiles = []string{"theme.yaml", "theme.yml", "theme.json"}

// LoadTheme 读取单个主题的元数据与模板列表
func LoadTheme(root, key string) (*ThemeInfo, error) {
	dir := filepath.Join(root, key)
	stat, err := os.Stat(dir)
	if err != nil || !stat.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrThemeNotFound, key)
	}

	info := &ThemeInfo{}
	for _, file := range themeMetaFiles {
		data, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, info); err != nil {
			return nil, fmt.Errorf("解析主题 %s 的 %s 失败: %w", key, file, err)
		}
		break
	}
	info.Key = key
	if info.Name == "" {
		info.Name = key
	}

	info.Templates, err = ThemeTemplates(root, key)
	if err != nil {
		return nil, err
	}
	return info, nil
}

// ScanThemes 扫描模板根目录下的所有主题
func ScanThemes(root, current string) ([]ThemeInfo, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("读取模板目录失败: %w", err)
	}

	themes := make([]ThemeInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := LoadTheme(root, entry.Name())
		if err != nil {
			return nil, err
		}
		info.IsCurrent = info.Key == current
		themes = append(themes, *info)
	}
	return themes, nil
}

// ThemeTemplates 主题内可用的页面模板名，不含布局与以下划线开头的片段
func ThemeTemplates(root, key string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(root, key, "*.html"))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(matches))
	for _, match := range matches {
		name := strings.TrimSuffix(filepath.Base(match), ".html")
		if name == LayoutTemplate || strings.HasPrefix(name, "_") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
