package model

import "fmt"

// Page 单页模型
type Page struct {
	Base
	Title          string `gorm:"type:varchar(255);not null" json:"title"`
	Slug           string `gorm:"type:varchar(100);uniqueIndex" json:"slug"`
	Content        string `gorm:"type:longtext" json:"content"`
	Template       string `gorm:"type:varchar(100)" json:"template"` // 自定义模板，为空使用 page
	SeoKeywords    string `gorm:"type:varchar(255)" json:"seo_keywords"`
	SeoDescription string `gorm:"type:varchar(500)" json:"seo_description"`
	Sort           int    `gorm:"type:int(11);not null;default:0" json:"sort"`
	Status         int    `gorm:"type:tinyint(1);not null;default:0;index" json:"status"` // 0=未发布 1=已发布
}

// TableName 指定表名
func (Page) TableName() string {
	return "pages"
}

// FileSlug 静态文件名，slug为空时退化为 page-{id}
func (p *Page) FileSlug() string {
	if p.Slug != "" {
		return p.Slug
	}
	return fmt.Sprintf("page-%d", p.ID)
}
