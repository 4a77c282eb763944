package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/cms-api/internal/logger"
	"github.com/nsxzhou1114/cms-api/internal/service"
	"github.com/nsxzhou1114/cms-api/pkg/response"
	"go.uber.org/zap"
)

// SitemapApi 站点地图控制器
type SitemapApi struct {
	logger         *zap.SugaredLogger
	sitemapService *service.SitemapService
}

// NewSitemapApi 创建站点地图控制器
func NewSitemapApi() *SitemapApi {
	return &SitemapApi{
		logger:         logger.GetSugaredLogger(),
		sitemapService: service.NewSitemapService(),
	}
}

// Generate 生成站点地图，格式为 txt、xml、html 或 all
func (api *SitemapApi) Generate(c *gin.Context) {
	results, err := api.sitemapService.Generate(c.Request.Context(), c.Param("format"), requestDomain(c))
	if err != nil {
		api.logger.Warnf("生成站点地图失败: %v", err)
		respondError(c, "生成站点地图失败", err)
		return
	}
	response.Success(c, "生成成功", results)
}
