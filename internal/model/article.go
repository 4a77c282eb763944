package model

import (
	"time"
)

// 文章状态
const (
	ArticleStatusDraft     = 0 // 草稿
	ArticleStatusPublished = 1 // 已发布
	ArticleStatusPending   = 2 // 待审核
	ArticleStatusOffline   = 3 // 已下线
)

// Lifecycle 文章生命周期
type Lifecycle string

const (
	LifecycleActive   Lifecycle = "active"   // 正常
	LifecycleRecycled Lifecycle = "recycled" // 回收站
	LifecyclePurged   Lifecycle = "purged"   // 彻底删除，仅作为删除结果返回
)

// Article 文章模型
type Article struct {
	Base
	Title          string     `gorm:"type:varchar(255);not null" json:"title"`
	Content        string     `gorm:"type:longtext" json:"content"`
	Summary        string     `gorm:"type:text" json:"summary"`
	SeoKeywords    string     `gorm:"type:varchar(255)" json:"seo_keywords"`
	SeoDescription string     `gorm:"type:varchar(500)" json:"seo_description"`
	CoverImage     string     `gorm:"type:varchar(255)" json:"cover_image"`
	Author         string     `gorm:"type:varchar(50)" json:"author"`
	CategoryID     uint       `gorm:"type:int(11);not null;index" json:"category_id"`
	Status         int        `gorm:"type:tinyint(2);not null;default:0;index" json:"status"`
	Lifecycle      Lifecycle  `gorm:"type:varchar(20);not null;default:'active';index" json:"lifecycle"`
	IsTop          int        `gorm:"type:tinyint(2);not null;default:0;index" json:"is_top"` // 0=否 1=是
	Sort           int        `gorm:"type:int(11);not null;default:0" json:"sort"`
	ViewCount      int        `gorm:"type:int(11);not null;default:0" json:"view_count"`
	PublishTime    *time.Time `gorm:"index" json:"publish_time"`

	// 关联
	Category   Category          `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Categories []ArticleCategory `gorm:"foreignKey:ArticleID" json:"categories,omitempty"`
	Tags       []Tag             `gorm:"many2many:article_tags;" json:"tags,omitempty"`
}

// TableName 指定表名
func (Article) TableName() string {
	return "articles"
}

// IsPublished 是否可以静态化
func (a *Article) IsPublished() bool {
	return a.Status == ArticleStatusPublished && a.Lifecycle == LifecycleActive
}

// ArticleCategory 文章-分类关联模型，每篇文章有且只有一条 is_main=1 的记录
type ArticleCategory struct {
	ArticleID  uint `gorm:"primaryKey;type:int(11);not null" json:"article_id"`
	CategoryID uint `gorm:"primaryKey;type:int(11);not null;index" json:"category_id"`
	IsMain     int  `gorm:"type:tinyint(1);not null;default:0" json:"is_main"`
}

// TableName 指定表名
func (ArticleCategory) TableName() string {
	return "article_categories"
}
