package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/cms-api/internal/dto"
	"github.com/nsxzhou1114/cms-api/internal/logger"
	"github.com/nsxzhou1114/cms-api/internal/service"
	"github.com/nsxzhou1114/cms-api/pkg/response"
	"go.uber.org/zap"
)

// TagApi 标签API控制器
type TagApi struct {
	logger     *zap.SugaredLogger
	tagService *service.TagService
}

// NewTagApi 创建标签API控制器
func NewTagApi() *TagApi {
	return &TagApi{
		logger:          logger.GetSugaredLogger(),
		tagService: service.NewTagService(),
	}
}

// Create 创建标签
func (api *TagApi) Create(c *gin.Context) {
	var req dto.TagSaveRequest
	if !bindJSON(c, &req) {
		return
	}
	tag, err := api.tagService.Create(c.Request.Context(), &req)
	if err != nil {
		api.logger.Errorf("创建标签失败: %v", err)
		respondError(c, "创建标签失败", err)
		return
	}
	response.Success(c, "创建成功", gin.H{"tag": tag})
}

// Update 更新标签
func (api *TagApi) Update(c *gin.Context) {
	id, ok := parseID(c, "标签")
	if !ok {
		return
	}
	var req dto.TagSaveRequest
	if !bindJSON(c, &req) {
		return
	}
	tag, err := api.tagService.Update(c.Request.Context(), id, &req)
	if err != nil {
		api.logger.Errorf("更新标签失败: %v", err)
		respondError(c, "更新标签失败", err)
		return
	}
	response.Success(c, "更新成功", gin.H{"tag": tag})
}

// Delete 删除标签
func (api *TagApi) Delete(c *gin.Context) {
	id, ok := parseID(c, "标签")
	if !ok {
		return
	}
	if err := api.tagService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "删除标签失败", err)
		return
	}
	response.Success(c, "删除成功", nil)
}

// Get 标签详情
func (api *TagApi) Get(c *gin.Context) {
	id, ok := parseID(c, "标签")
	if !ok {
		return
	}
	tag, err := api.tagService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "获取标签失败", err)
		return
	}
	response.Success(c, "获取成功", tag)
}

// List 标签列表
func (api *TagApi) List(c *gin.Context) {
	var req dto.TagListRequest
	if !bindQuery(c, &req) {
		return
	}
	resp, err := api.tagService.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "获取标签列表失败", err)
		return
	}
	response.Success(c, "获取成功", resp)
}
