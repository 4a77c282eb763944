package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss 缓存未命中
var ErrMiss = errors.New("缓存未命中")

// Cache 缓存接口
type Cache interface {
	// Get 获取缓存
	Get(ctx context.Context, key string) (string, error)

	// Set 设置缓存
	Set(ctx context.Context, key string, value any, expiration time.Duration) error

	// SetNX 设置缓存（不存在时才设置）
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) (bool, error)

	// Delete 删除缓存
	Delete(ctx context.Context, keys ...string) error

	// GetJSON 获取JSON格式的缓存并反序列化
	GetJSON(ctx context.Context, key string, dest any) error

	// SetJSON 序列化为JSON并设置缓存
	SetJSON(ctx context.Context, key string, value any, expiration time.Duration) error

	// Close 关闭连接
	Close() error
}

// 缓存键名
const (
	SettingsSnapshotKey = "cms:settings:snapshot" // 站点配置快照
	BuildLockKey        = "cms:build:lock:%s"     // 定时构建互斥锁
)

// 缓存过期时间
const (
	SettingsExpiration  = 10 * time.Minute
	BuildLockExpiration = 30 * time.Minute
)
