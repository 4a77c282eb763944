package model

import (
	"time"
)

// Base 基础模型，列表按创建时间倒序，created_at 建索引
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
