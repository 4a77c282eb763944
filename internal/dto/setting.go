package dto

// SettingUpdateRequest 批量更新配置，键为配置名
type SettingUpdateRequest struct {
	Settings map[string]string `json:"settings" binding:"required,min=1"`
}

// ThemeSwitchRequest 切换模板套装
type ThemeSwitchRequest struct {
	Theme string `json:"theme" binding:"required,max=100"`
}
