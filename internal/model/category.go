package model

// 分类、标签、单页通用的启用状态
const (
	StatusDisabled = 0
	StatusEnabled  = 1
)

// Category 分类模型
type Category struct {
	Base
	Name        string `gorm:"type:varchar(50);not null;uniqueIndex" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Template    string `gorm:"type:varchar(100)" json:"template"` // 自定义模板，为空使用 category
	Sort        int    `gorm:"type:int(11);not null;default:0" json:"sort"`
	Status      int    `gorm:"type:tinyint(1);not null;default:0;index" json:"status"` // 0=禁用 1=启用
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}
