package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/cms-api/internal/service"
	"github.com/nsxzhou1114/cms-api/internal/staticgen"
	"github.com/nsxzhou1114/cms-api/pkg/response"
	"github.com/nsxzhou1114/cms-api/pkg/validate"
)

// parseID 解析路径中的 id 参数，失败时已写入响应
func parseID(c *gin.Context, what string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, "无效的"+what+"ID", err)
		return 0, false
	}
	return uint(id), true
}

// bindJSON 绑定请求体，失败时返回中文校验提示
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, validate.FormatError(err), err)
		return false
	}
	return true
}

// bindQuery 绑定查询参数
func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.BadRequest(c, validate.FormatError(err), err)
		return false
	}
	return true
}

// respondError 按服务层与构建错误类别写入响应
func respondError(c *gin.Context, fallback string, err error) {
	switch {
	case errors.Is(err, service.ErrRecordNotFound):
		response.NotFound(c, message(err, service.ErrRecordNotFound), err)
	case errors.Is(err, service.ErrInvalidParam):
		response.BadRequest(c, message(err, service.ErrInvalidParam), err)
	case errors.Is(err, service.ErrConflict):
		response.Conflict(c, message(err, service.ErrConflict), err)
	default:
		buildFailed(c, fallback, err)
	}
}

// buildFailed 按构建错误类别返回响应，fallback 为未识别错误时的提示
func buildFailed(c *gin.Context, fallback string, err error) {
	switch staticgen.KindOf(err) {
	case staticgen.KindInvalid:
		response.Error(c, http.StatusBadRequest, response.CodeInvalidParams, err.Error(), err)
	case staticgen.KindNotFound:
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error(), err)
	case staticgen.KindNotPublished:
		response.Error(c, http.StatusConflict, response.CodeNotPublished, err.Error(), err)
	case staticgen.KindTemplate:
		response.Error(c, http.StatusInternalServerError, response.CodeTemplateError, "模板错误: "+err.Error(), err)
	case staticgen.KindIO:
		response.Error(c, http.StatusInternalServerError, response.CodeIOError, "文件写入失败", err)
	default:
		response.InternalServerError(c, fallback, err)
	}
}

// message 去掉错误类别前缀，只保留给用户看的部分
func message(err, kind error) string {
	msg := strings.TrimPrefix(err.Error(), kind.Error()+": ")
	if msg == "" {
		return kind.Error()
	}
	return msg
}

// requestDomain 当前请求的协议与主机
func requestDomain(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}
