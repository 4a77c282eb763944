package dto

import "time"

// ArticleSaveRequest 创建、更新文章请求
type ArticleSaveRequest struct {
	Title          string `json:"title" binding:"required,max=255"`                // 文章标题
	Content        string `json:"content" binding:"required"`                      // 文章内容
	Summary        string `json:"summary" binding:"max=500"`                       // 文章摘要，为空时自动提取
	SeoKeywords    string `json:"seo_keywords" binding:"max=255"`                  // SEO关键词，为空时自动提取
	SeoDescription string `json:"seo_description" binding:"max=500"`               // SEO描述，为空时自动提取
	CoverImage     string `json:"cover_image" binding:"max=255"`                   // 封面图片
	Author         string `json:"author" binding:"max=50"`                         // 作者
	CategoryID     uint   `json:"category_id" binding:"required"`                  // 主分类ID
	SubCategoryIDs []uint `json:"sub_category_ids" binding:"omitempty,dive,min=1"` // 副分类ID，开启多分类时生效
	TagIDs         []uint `json:"tag_ids" binding:"omitempty,dive,min=1"`          // 标签ID列表
	Status         int    `json:"status" binding:"oneof=0 1 2 3"`                  // 0草稿 1发布 2待审核 3下线
	IsTop          int    `json:"is_top" binding:"oneof=0 1"`                      // 是否置顶
	Sort           int    `json:"sort"`                                            // 排序
}

// ArticleQueryRequest 文章查询请求
type ArticleQueryRequest struct {
	Keyword    string `form:"keyword" binding:"omitempty,max=50"`                  // 关键词
	Status     *int   `form:"status" binding:"omitempty,oneof=0 1 2 3"`            // 状态
	CategoryID uint   `form:"category_id"`                                         // 分类ID
	Lifecycle  string `form:"lifecycle" binding:"omitempty,oneof=active recycled"` // 生命周期，默认 active
	Page       int    `form:"page" binding:"omitempty,min=1"`                      // 页码
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`         // 每页条数
}

// ArticleListItem 文章列表项
type ArticleListItem struct {
	ID           uint       `json:"id"`                     // 文章ID
	Title        string     `json:"title"`                  // 文章标题
	Summary      string     `json:"summary"`                // 文章摘要
	CategoryID   uint       `json:"category_id"`            // 分类ID
	CategoryName string     `json:"category_name"`          // 分类名称
	Author       string     `json:"author"`                 // 作者
	CoverImage   string     `json:"cover_image"`            // 封面图片
	Status       int        `json:"status"`                 // 状态
	Lifecycle    string     `json:"lifecycle"`              // 生命周期
	IsTop        int        `json:"is_top"`                 // 是否置顶
	StaticURL    string     `json:"static_url"`             // 静态页地址
	CreatedAt    time.Time  `json:"created_at"`             // 创建时间
	PublishTime  *time.Time `json:"publish_time,omitempty"` // 发布时间
}

// ArticleListResponse 文章列表响应
type ArticleListResponse struct {
	Total int64             `json:"total"`
	List  []ArticleListItem `json:"list"`
}

// ArticleDeleteRequest 删除文章请求
type ArticleDeleteRequest struct {
	Recycle *bool `form:"recycle"` // 是否放入回收站，默认跟随系统设置
}
