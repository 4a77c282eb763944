package model

import (
	"fmt"

	"gorm.io/gorm"
)

// 需要自动迁移的模型列表
var models = []interface{}{
	&Article{},
	&ArticleCategory{},
	&Category{},
	&Tag{},
	&ArticleTag{},
	&Page{},
	&Setting{},
	&BuildLog{},
}

// DefaultSettings 系统默认配置项
var DefaultSettings = []Setting{
	{Key: "site_name", Value: "CMS系统", Description: "站点名称"},
	{Key: "site_url", Value: "", Description: "站点地址"},
	{Key: "seo_title", Value: "", Description: "SEO标题"},
	{Key: "seo_keywords", Value: "", Description: "SEO关键词"},
	{Key: "seo_description", Value: "", Description: "SEO描述"},
	{Key: "index_template", Value: "index", Description: "首页模板"},
	{Key: "current_template_theme", Value: "default", Description: "当前模板套装"},
	{Key: "recycle_bin_enable", Value: SwitchOpen, Description: "是否启用回收站"},
	{Key: "article_sub_category", Value: SwitchClose, Description: "是否启用文章副分类"},
}

// InitTables 初始化数据库表
func InitTables(db *gorm.DB) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("自动迁移数据库表失败: %v", err)
	}
	return nil
}

// SeedSettings 写入缺失的默认配置项，已存在的不覆盖
func SeedSettings(db *gorm.DB) error {
	for _, def := range DefaultSettings {
		setting := Setting{Key: def.Key}
		if err := db.Where(Setting{Key: def.Key}).
			Attrs(Setting{Value: def.Value, Description: def.Description}).
			FirstOrCreate(&setting).Error; err != nil {
			return fmt.Errorf("写入默认配置 %s 失败: %v", def.Key, err)
		}
	}
	return nil
}
