package staticgen

import "strings"

// SiteConfig 构建时的站点配置快照，构建开始时确定，构建过程中不再变化
type SiteConfig struct {
	SiteName           string `json:"site_name"`
	SiteLogo           string `json:"site_logo"`
	SiteFavicon        string `json:"site_favicon"`
	SiteURL            string `json:"site_url"`
	Copyright          string `json:"site_copyright"`
	ICP                string `json:"site_icp"`
	PoliceRecord       string `json:"site_police"`
	SeoTitle           string `json:"seo_title"`
	SeoKeywords        string `json:"seo_keywords"`
	SeoDescription     string `json:"seo_description"`
	ThirdPartyCode     string `json:"thirdparty_code_pc"`
	IndexTemplate      string `json:"index_template"`
	Theme              string `json:"current_template_theme"`
	RecycleBinEnabled  bool   `json:"recycle_bin_enable"`
	SubCategoryEnabled bool   `json:"article_sub_category"`
}

// 默认值
const (
	DefaultSiteName      = "CMS系统"
	DefaultIndexTemplate = "index"
	DefaultTheme         = "default"
)

// Normalize 填充缺省值
func (c SiteConfig) Normalize() SiteConfig {
	if c.SiteName == "" {
		c.SiteName = DefaultSiteName
	}
	if c.IndexTemplate == "" {
		c.IndexTemplate = DefaultIndexTemplate
	}
	if c.Theme == "" {
		c.Theme = DefaultTheme
	}
	return c
}

// HomeTitle 首页标题
func (c SiteConfig) HomeTitle() string {
	if c.SeoTitle != "" {
		return c.SeoTitle
	}
	return c.SiteName
}

// BaseURL 站点公开地址，未配置时使用访问域名加静态目录
func (c SiteConfig) BaseURL(domain, publicPath string) string {
	if c.SiteURL != "" {
		return strings.TrimRight(c.SiteURL, "/")
	}
	base := strings.TrimRight(domain, "/")
	if p := strings.Trim(publicPath, "/"); p != "" {
		base += "/" + p
	}
	return base
}
