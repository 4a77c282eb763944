package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/nsxzhou1114/cms-api/internal/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InitSQLite 初始化SQLite数据库，适合单机部署与测试
func InitSQLite(path string) (*gorm.DB, error) {
	if path == "" {
		path = "cms.db"
	}
	conn, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("打开SQLite数据库失败: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("获取数据库连接池失败: %v", err)
	}
	// sqlite 只允许单写连接
	sqlDB.SetMaxOpenConns(1)

	logger.Info("SQLite数据库打开成功", zap.String("path", path))
	return conn, nil
}
