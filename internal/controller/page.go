package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/cms-api/internal/dto"
	"github.com/nsxzhou1114/cms-api/internal/logger"
	"github.com/nsxzhou1114/cms-api/internal/service"
	"github.com/nsxzhou1114/cms-api/pkg/response"
	"go.uber.org/zap"
)

// PageApi 单页控制器
type PageApi struct {
	logger      *zap.SugaredLogger
	pageService *service.PageService
}

// NewPageApi 创建单页控制器
func NewPageApi() *PageApi {
	return &PageApi{
		logger:      logger.GetSugaredLogger(),
		pageService: service.NewPageService(),
	}
}

// Create 创建单页
func (api *PageApi) Create(c *gin.Context) {
	var req dto.PageSaveRequest
	if !bindJSON(c, &req) {
		return
	}
	page, err := api.pageService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "创建单页失败", err)
		return
	}
	response.Success(c, "创建成功", page)
}

// Update 更新单页
func (api *PageApi) Update(c *gin.Context) {
	id, ok := parseID(c, "单页")
	if !ok {
		return
	}
	var req dto.PageSaveRequest
	if !bindJSON(c, &req) {
		return
	}
	page, err := api.pageService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, "更新单页失败", err)
		return
	}
	response.Success(c, "更新成功", page)
}

// Get 单页详情
func (api *PageApi) Get(c *gin.Context) {
	id, ok := parseID(c, "单页")
	if !ok {
		return
	}
	page, err := api.pageService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "获取单页失败", err)
		return
	}
	response.Success(c, "获取成功", page)
}

// List 单页列表
func (api *PageApi) List(c *gin.Context) {
	var req dto.PageListRequest
	if !bindQuery(c, &req) {
		return
	}
	pages, total, err := api.pageService.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "获取单页列表失败", err)
		return
	}
	page, size := req.Page, req.PageSize
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}
	response.SuccessPage(c, "获取成功", pages, page, size, total)
}

// Delete 删除单页
func (api *PageApi) Delete(c *gin.Context) {
	id, ok := parseID(c, "单页")
	if !ok {
		return
	}
	if err := api.pageService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "删除单页失败", err)
		return
	}
	response.Success(c, "删除成功", nil)
}
