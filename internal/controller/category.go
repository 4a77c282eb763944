package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/cms-api/internal/dto"
	"github.com/nsxzhou1114/cms-api/internal/logger"
	"github.com/nsxzhou1114/cms-api/internal/service"
	"github.com/nsxzhou1114/cms-api/pkg/response"
	"go.uber.org/zap"
)

// CategoryApi 分类API控制器
type CategoryApi struct {
	logger          *zap.SugaredLogger
	categoryService *service.CategoryService
}

// NewCategoryApi 创建分类API控制器
func NewCategoryApi() *CategoryApi {
	return &CategoryApi{
		logger:          logger.GetSugaredLogger(),
		categoryService: service.NewCategoryService(),
	}
}

// Create 创建分类
func (api *CategoryApi) Create(c *gin.Context) {
	var req dto.CategorySaveRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := api.categoryService.Create(c.Request.Context(), &req)
	if err != nil {
		api.logger.Errorf("创建分类失败: %v", err)
		respondError(c, "创建分类失败", err)
		return
	}
	response.Success(c, "创建成功", gin.H{"category": category})
}

// Update 更新分类
func (api *CategoryApi) Update(c *gin.Context) {
	id, ok := parseID(c, "分类")
	if !ok {
		return
	}
	var req dto.CategorySaveRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := api.categoryService.Update(c.Request.Context(), id, &req)
	if err != nil {
		api.logger.Errorf("更新分类失败: %v", err)
		respondError(c, "更新分类失败", err)
		return
	}
	response.Success(c, "更新成功", gin.H{"category": category})
}

// Delete 删除分类
func (api *CategoryApi) Delete(c *gin.Context) {
	id, ok := parseID(c, "分类")
	if !ok {
		return
	}
	if err := api.categoryService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "删除分类失败", err)
		return
	}
	response.Success(c, "删除成功", nil)
}

// Get 分类详情
func (api *CategoryApi) Get(c *gin.Context) {
	id, ok := parseID(c, "分类")
	if !ok {
		return
	}
	category, err := api.categoryService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "获取分类失败", err)
		return
	}
	response.Success(c, "获取成功", category)
}

// List 分类列表
func (api *CategoryApi) List(c *gin.Context) {
	var req dto.CategoryListRequest
	if !bindQuery(c, &req) {
		return
	}
	resp, err := api.categoryService.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "获取分类列表失败", err)
		return
	}
	response.Success(c, "获取成功", resp)
}
