package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/cms-api/internal/dto"
	"github.com/nsxzhou1114/cms-api/internal/logger"
	"github.com/nsxzhou1114/cms-api/internal/service"
	"github.com/nsxzhou1114/cms-api/pkg/response"
	"go.uber.org/zap"
)

// SettingApi 系统配置控制器
type SettingApi struct {
	logger         *zap.SugaredLogger
	settingService *service.SettingService
}

// NewSettingApi 创建系统配置控制器
func NewSettingApi() *SettingApi {
	return &SettingApi{
		logger:         logger.GetSugaredLogger(),
		settingService: service.NewSettingService(),
	}
}

// List 配置列表
func (api *SettingApi) List(c *gin.Context) {
	settings, err := api.settingService.List(c.Request.Context())
	if err != nil {
		respondError(c, "获取配置失败", err)
		return
	}
	response.Success(c, "获取成功", settings)
}

// Update 批量更新配置
func (api *SettingApi) Update(c *gin.Context) {
	var req dto.SettingUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := api.settingService.Update(c.Request.Context(), req.Settings); err != nil {
		api.logger.Errorf("更新配置失败: %v", err)
		respondError(c, "更新配置失败", err)
		return
	}
	response.Success(c, "更新成功", nil)
}
