package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/cms-api/internal/dto"
	"github.com/nsxzhou1114/cms-api/internal/logger"
	"github.com/nsxzhou1114/cms-api/internal/service"
	"github.com/nsxzhou1114/cms-api/pkg/response"
	"go.uber.org/zap"
)

// ThemeApi 模板套装控制器
type ThemeApi struct {
	logger       *zap.SugaredLogger
	themeService *service.ThemeService
}

// NewThemeApi 创建模板套装控制器
func NewThemeApi() *ThemeApi {
	return &ThemeApi{
		logger:       logger.GetSugaredLogger(),
		themeService: service.NewThemeService(),
	}
}

// List 所有模板套装
func (api *ThemeApi) List(c *gin.Context) {
	themes, err := api.themeService.Scan(c.Request.Context())
	if err != nil {
		respondError(c, "扫描模板套装失败", err)
		return
	}
	response.Success(c, "获取成功", themes)
}

// Current 当前模板套装
func (api *ThemeApi) Current(c *gin.Context) {
	theme, err := api.themeService.Current(c.Request.Context())
	if err != nil {
		respondError(c, "获取当前模板套装失败", err)
		return
	}
	response.Success(c, "获取成功", theme)
}

// Switch 切换模板套装
func (api *ThemeApi) Switch(c *gin.Context) {
	var req dto.ThemeSwitchRequest
	if !bindJSON(c, &req) {
		return
	}
	theme, err := api.themeService.Switch(c.Request.Context(), req.Theme)
	if err != nil {
		api.logger.Errorf("切换模板套装失败: %v", err)
		respondError(c, "切换模板套装失败", err)
		return
	}
	response.Success(c, "切换成功", theme)
}
