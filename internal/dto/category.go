package dto

// CategorySaveRequest 创建、更新分类请求
type CategorySaveRequest struct {
	Name        string `json:"name" binding:"required,max=50"`
	Description string `json:"description" binding:"max=500"`
	Template    string `json:"template" binding:"omitempty,max=100"`
	Sort        int    `json:"sort"`
	Status      *int   `json:"status" binding:"omitempty,oneof=0 1"` // 默认启用
}

// CategoryResponse 分类响应
type CategoryResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Template     string `json:"template"`
	Sort         int    `json:"sort"`
	Status       int    `json:"status"`
	ArticleCount int64  `json:"article_count"`
	StaticURL    string `json:"static_url"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// CategoryListRequest 分类列表请求
type CategoryListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Keyword  string `form:"keyword" binding:"omitempty,max=50"`
	Status   *int   `form:"status" binding:"omitempty,oneof=0 1"`
}

// CategoryListResponse 分类列表响应
type CategoryListResponse struct {
	Total int64              `json:"total"`
	List  []CategoryResponse `json:"list"`
}
