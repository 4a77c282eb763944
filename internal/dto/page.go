package dto

// PageSaveRequest 创建、更新单页请求
type PageSaveRequest struct {
	Title          string `json:"title" binding:"required,max=255"`
	Slug           string `json:"slug" binding:"omitempty,max=100,slug"` // 为空时由标题生成
	Content        string `json:"content"`
	Template       string `json:"template" binding:"omitempty,max=100"`
	SeoKeywords    string `json:"seo_keywords" binding:"max=255"`
	SeoDescription string `json:"seo_description" binding:"max=500"`
	Sort           int    `json:"sort"`
	Status         int    `json:"status" binding:"oneof=0 1"`
}

// PageListRequest 单页列表请求
type PageListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Keyword  string `form:"keyword" binding:"omitempty,max=50"`
}
