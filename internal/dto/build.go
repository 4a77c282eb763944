package dto

import "github.com/nsxzhou1114/cms-api/internal/staticgen"

// BuildResponse 单次构建结果
type BuildResponse struct {
	Scope    staticgen.Scope `json:"scope"`
	TargetID uint            `json:"target_id,omitempty"`
	Files    []string        `json:"files"`
	URLs     []string        `json:"urls"`
	Pages    int             `json:"pages,omitempty"`
}

// BuildQuery 构建接口的查询参数，build_type 缺省为 manual
type BuildQuery struct {
	BuildType string `form:"build_type" binding:"omitempty,oneof=manual auto"`
}

// BuildLogListRequest 构建日志列表请求
type BuildLogListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Scope    string `form:"scope" binding:"omitempty,oneof=index articles article category tag page tags pages all"`
	Status   string `form:"status" binding:"omitempty,oneof=success failed"`
}

// BuildLogDeleteRequest 批量删除构建日志
type BuildLogDeleteRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1,dive,min=1"`
}

// BuildLogClearRequest 清理构建日志
type BuildLogClearRequest struct {
	Days int `json:"days" binding:"required"`
}
