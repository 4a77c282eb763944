package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/cms-api/internal/dto"
	"github.com/nsxzhou1114/cms-api/internal/logger"
	"github.com/nsxzhou1114/cms-api/internal/model"
	"github.com/nsxzhou1114/cms-api/internal/service"
	"github.com/nsxzhou1114/cms-api/internal/staticgen"
	"github.com/nsxzhou1114/cms-api/pkg/response"
	"go.uber.org/zap"
)

// BuildApi 静态化构建控制器
type BuildApi struct {
	logger       *zap.SugaredLogger
	buildService *service.BuildService
}

// NewBuildApi 创建构建控制器
func NewBuildApi() *BuildApi {
	return &BuildApi{
		logger:       logger.GetSugaredLogger(),
		buildService: service.NewBuildService(),
	}
}

// Index 生成首页
func (api *BuildApi) Index(c *gin.Context) {
	buildType, ok := buildTypeOf(c)
	if !ok {
		return
	}
	resp, err := api.buildService.BuildIndex(c.Request.Context(), buildType)
	api.single(c, resp, err)
}

// Articles 生成文章列表
func (api *BuildApi) Articles(c *gin.Context) {
	buildType, ok := buildTypeOf(c)
	if !ok {
		return
	}
	resp, err := api.buildService.BuildArticleList(c.Request.Context(), buildType)
	api.single(c, resp, err)
}

// Article 生成文章详情页
func (api *BuildApi) Article(c *gin.Context) {
	api.target(c, staticgen.ScopeArticle)
}

// Category 生成分类页
func (api *BuildApi) Category(c *gin.Context) {
	api.target(c, staticgen.ScopeCategory)
}

// Tag 生成标签页
func (api *BuildApi) Tag(c *gin.Context) {
	api.target(c, staticgen.ScopeTag)
}

// Page 生成单页
func (api *BuildApi) Page(c *gin.Context) {
	api.target(c, staticgen.ScopePage)
}

// Tags 生成全部标签页
func (api *BuildApi) Tags(c *gin.Context) {
	buildType, ok := buildTypeOf(c)
	if !ok {
		return
	}
	res, err := api.buildService.BuildTags(c.Request.Context(), buildType)
	if err != nil {
		respondError(c, "生成标签页失败", err)
		return
	}
	batch(c, res.Failed, res)
}

// Pages 生成全部单页
func (api *BuildApi) Pages(c *gin.Context) {
	buildType, ok := buildTypeOf(c)
	if !ok {
		return
	}
	res, err := api.buildService.BuildPages(c.Request.Context(), buildType)
	if err != nil {
		respondError(c, "生成单页失败", err)
		return
	}
	batch(c, res.Failed, res)
}

// All 生成全站
func (api *BuildApi) All(c *gin.Context) {
	buildType, ok := buildTypeOf(c)
	if !ok {
		return
	}
	res, err := api.buildService.BuildAll(c.Request.Context(), buildType)
	if err != nil {
		respondError(c, "生成全站失败", err)
		return
	}
	batch(c, res.Failed, res)
}

func (api *BuildApi) target(c *gin.Context, scope staticgen.Scope) {
	id, ok := parseID(c, scope.Label())
	if !ok {
		return
	}
	buildType, ok := buildTypeOf(c)
	if !ok {
		return
	}
	resp, err := api.buildService.Build(c.Request.Context(), scope, id, buildType)
	api.single(c, resp, err)
}

// buildTypeOf 读取可选的 build_type 参数，缺省为手动构建
func buildTypeOf(c *gin.Context) (string, bool) {
	var q dto.BuildQuery
	if !bindQuery(c, &q) {
		return "", false
	}
	if q.BuildType == "" {
		return model.BuildTypeManual, true
	}
	return q.BuildType, true
}

func (api *BuildApi) single(c *gin.Context, resp *dto.BuildResponse, err error) {
	if err != nil {
		api.logger.Warnf("生成静态页失败: %v", err)
		respondError(c, "生成失败", err)
		return
	}
	response.Success(c, "生成成功", resp)
}

// batch 有失败目标时返回部分失败码，结果照常放在 data 中
func batch(c *gin.Context, failed int, data any) {
	if failed > 0 {
		response.PartialFailure(c, "部分目标生成失败", data)
		return
	}
	response.Success(c, "生成成功", data)
}
