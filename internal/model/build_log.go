package model

import "time"

// 构建类型
const (
	BuildTypeManual = "manual"
	BuildTypeAuto   = "auto"
)

// 构建结果
const (
	BuildStatusSuccess = "success"
	BuildStatusFailed  = "failed"
)

// BuildLog 静态化构建日志，只追加不修改
type BuildLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	BuildType    string    `gorm:"type:varchar(20);not null;index" json:"build_type"`
	Scope        string    `gorm:"type:varchar(20);not null;index" json:"scope"`
	TargetID     uint      `gorm:"type:int(11);not null;default:0" json:"target_id"`
	Status       string    `gorm:"type:varchar(20);not null;index" json:"status"`
	ErrorMessage string    `gorm:"type:text" json:"error_message"`
	BatchID      int64     `gorm:"index" json:"batch_id,string"`
	DurationMs   int64     `gorm:"not null;default:0" json:"duration_ms"`
	CreatedAt    time.Time `gorm:"index" json:"create_time"`
}

// TableName 指定表名
func (BuildLog) TableName() string {
	return "static_build_logs"
}
