package model

// 开关类配置的取值
const (
	SwitchOpen  = "open"
	SwitchClose = "close"
)

// Setting 站点配置项，键值对存储，构建时整体读取为快照
type Setting struct {
	Base
	Key         string `gorm:"type:varchar(50);not null;uniqueIndex" json:"key"`
	Value       string `gorm:"type:text" json:"value"`
	Description string `gorm:"type:varchar(255)" json:"description"`
}

// TableName 指定表名
func (Setting) TableName() string {
	return "settings"
}

// IsOpen 开关类配置是否开启
func (s Setting) IsOpen() bool {
	return s.Value == SwitchOpen
}
