package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/cms-api/internal/dto"
	"github.com/nsxzhou1114/cms-api/internal/logger"
	"github.com/nsxzhou1114/cms-api/internal/service"
	"github.com/nsxzhou1114/cms-api/pkg/response"
	"go.uber.org/zap"
)

// BuildLogApi 构建日志控制器
type BuildLogApi struct {
	logger          *zap.SugaredLogger
	buildLogService *service.BuildLogService
}

// NewBuildLogApi 创建构建日志控制器
func NewBuildLogApi() *BuildLogApi {
	return &BuildLogApi{
		logger:          logger.GetSugaredLogger(),
		buildLogService: service.NewBuildLogService(),
	}
}

// List 构建日志列表
func (api *BuildLogApi) List(c *gin.Context) {
	var req dto.BuildLogListRequest
	if !bindQuery(c, &req) {
		return
	}
	logs, total, err := api.buildLogService.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "获取构建日志失败", err)
		return
	}
	page, size := req.Page, req.PageSize
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}
	response.SuccessPage(c, "获取成功", logs, page, size, total)
}

// Stats 构建日志统计
func (api *BuildLogApi) Stats(c *gin.Context) {
	stats, err := api.buildLogService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, "统计构建日志失败", err)
		return
	}
	response.Success(c, "获取成功", stats)
}

// Delete 批量删除构建日志
func (api *BuildLogApi) Delete(c *gin.Context) {
	var req dto.BuildLogDeleteRequest
	if !bindJSON(c, &req) {
		return
	}
	n, err := api.buildLogService.BatchDelete(c.Request.Context(), req.IDs)
	if err != nil {
		respondError(c, "删除构建日志失败", err)
		return
	}
	response.Success(c, "删除成功", gin.H{"deleted": n})
}

// Clear 清理指定天数之前的日志
func (api *BuildLogApi) Clear(c *gin.Context) {
	var req dto.BuildLogClearRequest
	if !bindJSON(c, &req) {
		return
	}
	n, err := api.buildLogService.Clear(c.Request.Context(), req.Days)
	if err != nil {
		respondError(c, "清理构建日志失败", err)
		return
	}
	response.Success(c, "清理成功", gin.H{"deleted": n})
}
