package dto

// TagSaveRequest 创建、更新标签请求
type TagSaveRequest struct {
	Name   string `json:"name" binding:"required,max=50"`
	Status *int   `json:"status" binding:"omitempty,oneof=0 1"` // 默认启用
}

// TagResponse 标签响应
type TagResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Status       int    `json:"status"`
	ArticleCount int64  `json:"article_count"`
	StaticURL    string `json:"static_url"`
	CreatedAt    string `json:"created_at"`
}

// TagListRequest 标签列表请求
type TagListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Keyword  string `form:"keyword" binding:"omitempty,max=50"`
}

// TagListResponse 标签列表响应
type TagListResponse struct {
	Total int64         `json:"total"`
	List  []TagResponse `json:"list"`
}
