package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// 业务状态码
const (
	CodeSuccess        = 0
	CodePartialFailure = 20601 // 批量构建部分失败
	CodeInvalidParams  = 40001
	CodeNotFound       = 40401
	CodeNotPublished   = 40901
	CodeConflict       = 40902
	CodeTemplateError  = 50001
	CodeIOError        = 50002
	CodeInternalError  = 50000
)

// Response 统一响应结构
type Response struct {
	Code      int    `json:"code"`           // 状态码
	Message   string `json:"message"`        // 响应消息
	Data      any    `json:"data"`           // 响应数据
	Meta      any    `json:"meta,omitempty"` // 元数据，如分页信息
	Timestamp int64  `json:"timestamp"`      // 响应时间，秒
}

// PageMeta 分页元数据
type PageMeta struct {
	Page  int   `json:"page"`  // 当前页码
	Size  int   `json:"size"`  // 每页大小
	Total int64 `json:"total"` // 总记录数
}

// NewPageMeta 创建分页元数据
func NewPageMeta(page, size int, total int64) PageMeta {
	return PageMeta{
		Page:  page,
		Size:  size,
		Total: total,
	}
}

func write(c *gin.Context, status, code int, message string, data, meta any) {
	c.JSON(status, Response{
		Code:      code,
		Message:   message,
		Data:      data,
		Meta:      meta,
		Timestamp: time.Now().Unix(),
	})
}

// Success 返回成功响应
func Success(c *gin.Context, message string, data any) {
	write(c, http.StatusOK, CodeSuccess, message, data, nil)
}

// SuccessPage 返回分页成功响应
func SuccessPage(c *gin.Context, message string, data any, page, size int, total int64) {
	write(c, http.StatusOK, CodeSuccess, message, data, NewPageMeta(page, size, total))
}

// PartialFailure 批量操作部分失败，结果仍放在 data 中
func PartialFailure(c *gin.Context, message string, data any) {
	write(c, http.StatusOK, CodePartialFailure, message, data, nil)
}

// Error 错误响应
func Error(c *gin.Context, status, code int, message string, err error) {
	// 记录详细错误信息，但不向客户端暴露
	if err != nil {
		_ = c.Error(err)
	}
	write(c, status, code, message, nil, nil)
}

// BadRequest 400错误响应
func BadRequest(c *gin.Context, message string, err error) {
	Error(c, http.StatusBadRequest, CodeInvalidParams, message, err)
}

// NotFound 404错误响应
func NotFound(c *gin.Context, message string, err error) {
	Error(c, http.StatusNotFound, CodeNotFound, message, err)
}

// Conflict 409错误响应
func Conflict(c *gin.Context, message string, err error) {
	Error(c, http.StatusConflict, CodeConflict, message, err)
}

// InternalServerError 500错误响应
func InternalServerError(c *gin.Context, message string, err error) {
	Error(c, http.StatusInternalServerError, CodeInternalError, message, err)
}
