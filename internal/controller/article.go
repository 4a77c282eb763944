package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/cms-api/internal/dto"
	"github.com/nsxzhou1114/cms-api/internal/logger"
	"github.com/nsxzhou1114/cms-api/internal/service"
	"github.com/nsxzhou1114/cms-api/pkg/response"
	"go.uber.org/zap"
)

// ArticleApi 文章控制器
type ArticleApi struct {
	logger         *zap.SugaredLogger
	articleService *service.ArticleService
}

// NewArticleApi 创建文章控制器
func NewArticleApi() *ArticleApi {
	return &ArticleApi{
		logger:         logger.GetSugaredLogger(),
		articleService: service.NewArticleService(),
	}
}

// Create 创建文章
func (api *ArticleApi) Create(c *gin.Context) {
	var req dto.ArticleSaveRequest
	if !bindJSON(c, &req) {
		return
	}
	article, err := api.articleService.Create(c.Request.Context(), &req)
	if err != nil {
		api.logger.Errorf("创建文章失败: %v", err)
		respondError(c, "创建文章失败", err)
		return
	}
	response.Success(c, "创建成功", article)
}

// Update 更新文章
func (api *ArticleApi) Update(c *gin.Context) {
	id, ok := parseID(c, "文章")
	if !ok {
		return
	}
	var req dto.ArticleSaveRequest
	if !bindJSON(c, &req) {
		return
	}
	article, err := api.articleService.Update(c.Request.Context(), id, &req)
	if err != nil {
		api.logger.Errorf("更新文章失败: %v", err)
		respondError(c, "更新文章失败", err)
		return
	}
	response.Success(c, "更新成功", article)
}

// Get 文章详情
func (api *ArticleApi) Get(c *gin.Context) {
	id, ok := parseID(c, "文章")
	if !ok {
		return
	}
	article, err := api.articleService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "获取文章失败", err)
		return
	}
	response.Success(c, "获取成功", article)
}

// List 文章列表
func (api *ArticleApi) List(c *gin.Context) {
	var req dto.ArticleQueryRequest
	if !bindQuery(c, &req) {
		return
	}
	resp, err := api.articleService.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "获取文章列表失败", err)
		return
	}
	response.Success(c, "获取成功", resp)
}

// Delete 删除文章，recycle 参数为空时按回收站开关处理
func (api *ArticleApi) Delete(c *gin.Context) {
	id, ok := parseID(c, "文章")
	if !ok {
		return
	}
	var req dto.ArticleDeleteRequest
	if !bindQuery(c, &req) {
		return
	}
	lifecycle, err := api.articleService.Delete(c.Request.Context(), id, req.Recycle)
	if err != nil {
		api.logger.Errorf("删除文章失败: %v", err)
		respondError(c, "删除文章失败", err)
		return
	}
	response.Success(c, "删除成功", gin.H{"lifecycle": lifecycle})
}

// Publish 发布文章，静态页由后台异步生成
func (api *ArticleApi) Publish(c *gin.Context) {
	id, ok := parseID(c, "文章")
	if !ok {
		return
	}
	article, err := api.articleService.Publish(c.Request.Context(), id)
	if err != nil {
		respondError(c, "发布文章失败", err)
		return
	}
	response.Success(c, "发布成功", article)
}

// Offline 下线文章
func (api *ArticleApi) Offline(c *gin.Context) {
	id, ok := parseID(c, "文章")
	if !ok {
		return
	}
	article, err := api.articleService.Offline(c.Request.Context(), id)
	if err != nil {
		respondError(c, "下线文章失败", err)
		return
	}
	response.Success(c, "下线成功", article)
}

// Restore 从回收站恢复
func (api *ArticleApi) Restore(c *gin.Context) {
	id, ok := parseID(c, "文章")
	if !ok {
		return
	}
	article, err := api.articleService.Restore(c.Request.Context(), id)
	if err != nil {
		respondError(c, "恢复文章失败", err)
		return
	}
	response.Success(c, "恢复成功", article)
}
