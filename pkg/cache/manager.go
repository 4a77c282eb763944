package cache

import (
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Manager 缓存管理器
type Manager struct {
	cache       Cache
	mutex       sync.RWMutex
	initialized bool
}

var (
	instance *Manager
	once     sync.Once
)

// GetManager 获取缓存管理器单例
func GetManager() *Manager {
	once.Do(func() {
		instance = &Manager{}
	})
	return instance
}

// Initialize 初始化缓存管理器，redisClient 为空时不启用缓存
func (m *Manager) Initialize(redisClient *redis.Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.initialized || redisClient == nil {
		return
	}
	m.cache = NewRedisCache(redisClient)
	m.initialized = true
}

// GetCache 获取缓存，未启用时返回 nil
func (m *Manager) GetCache() Cache {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.cache
}

// IsInitialized 检查是否已初始化
func (m *Manager) IsInitialized() bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.initialized
}

// Close 关闭缓存连接
func (m *Manager) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if !m.initialized {
		return nil
	}
	if err := m.cache.Close(); err != nil {
		return fmt.Errorf("关闭缓存失败: %w", err)
	}
	m.cache = nil
	m.initialized = false
	return nil
}
