package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	Static   StaticConfig   `mapstructure:"static"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Cron     CronConfig     `mapstructure:"cron"`
	Event    EventConfig    `mapstructure:"event"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name string `mapstructure:"name"`
	Mode string `mapstructure:"mode"`
	Port int    `mapstructure:"port"`

	// 雪花算法：机器号 0-1023，起始日期 2006-01-02 格式
	MachineID      int64  `mapstructure:"machine_id"`
	SnowflakeEpoch string `mapstructure:"snowflake_epoch"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // mysql | sqlite
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	Charset      string `mapstructure:"charset"`
	Path         string `mapstructure:"path"` // sqlite 文件路径
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	LogLevel     string `mapstructure:"log_level"`
}

// DSN 获取数据库连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database, c.Charset)
}

// RedisConfig Redis配置
type RedisConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

// Addr 获取Redis地址
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
	Stdout     bool   `mapstructure:"stdout"`
}

// StaticConfig 静态化配置
type StaticConfig struct {
	OutputDir      string `mapstructure:"output_dir"`
	TemplatesDir   string `mapstructure:"templates_dir"`
	PageSize       int    `mapstructure:"page_size"`
	IndexLimit     int    `mapstructure:"index_limit"`
	Minify         bool   `mapstructure:"minify"`
	WatchTemplates bool   `mapstructure:"watch_templates"`
	PublicPath     string `mapstructure:"public_path"` // 未配置站点地址时拼接在域名后的路径
}

// StorageConfig 存储配置
type StorageConfig struct {
	COS COSStorage `mapstructure:"cos"`
}

// COSStorage 腾讯云COS镜像配置
type COSStorage struct {
	Enabled   bool   `mapstructure:"enabled"`
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	BucketURL string `mapstructure:"bucket_url"`
	Prefix    string `mapstructure:"prefix"`
}

// CronConfig 定时任务配置
type CronConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	Timezone         string `mapstructure:"timezone"`
	RebuildSpec      string `mapstructure:"rebuild_spec"`
	SitemapSpec      string `mapstructure:"sitemap_spec"`
	LogRetentionDays int    `mapstructure:"log_retention_days"`
}

// EventConfig 事件总线配置
type EventConfig struct {
	Workers       int `mapstructure:"workers"`
	Buffer        int `mapstructure:"buffer"`
	RetryAttempts int `mapstructure:"retry_attempts"`
}

// MetricsConfig 监控指标配置
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

var (
	// GlobalConfig 全局配置实例
	GlobalConfig *Config
	// 配置Viper实例
	viperInstance *viper.Viper
)

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "cms-api")
	v.SetDefault("app.mode", "release")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.machine_id", 1)
	v.SetDefault("app.snowflake_epoch", "2024-01-01")

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.path", "cms.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.stdout", true)

	v.SetDefault("static.output_dir", "html")
	v.SetDefault("static.templates_dir", "templates")
	v.SetDefault("static.page_size", 20)
	v.SetDefault("static.index_limit", 10)
	v.SetDefault("static.public_path", "/html")

	v.SetDefault("cron.timezone", "Asia/Shanghai")
	v.SetDefault("cron.rebuild_spec", "0 0 3 * * *")
	v.SetDefault("cron.sitemap_spec", "0 30 3 * * *")
	v.SetDefault("cron.log_retention_days", 30)

	v.SetDefault("event.workers", 4)
	v.SetDefault("event.buffer", 1024)
	v.SetDefault("event.retry_attempts", 3)

	v.SetDefault("metrics.path", "/metrics")
}

// Init 初始化配置
func Init(configPath string) error {
	v := viper.New()
	setDefaults(v)
	v.AddConfigPath(configPath)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("读取配置文件失败: %v", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return fmt.Errorf("解析配置文件失败: %v", err)
	}
	if config.Cron.LogRetentionDays < 7 {
		return fmt.Errorf("cron.log_retention_days 不能小于7，当前为 %d", config.Cron.LogRetentionDays)
	}

	GlobalConfig = &config
	viperInstance = v
	return nil
}

// GetString 获取字符串配置
func GetString(key string) string {
	return viperInstance.GetString(key)
}

// GetInt 获取整数配置
func GetInt(key string) int {
	return viperInstance.GetInt(key)
}

// GetBool 获取布尔值配置
func GetBool(key string) bool {
	return viperInstance.GetBool(key)
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	return GlobalConfig
}
