package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/cms-api/internal/config"
	"github.com/nsxzhou1114/cms-api/internal/cron"
	"github.com/nsxzhou1114/cms-api/internal/database"
	"github.com/nsxzhou1114/cms-api/internal/logger"
	"github.com/nsxzhou1114/cms-api/internal/middleware"
	"github.com/nsxzhou1114/cms-api/internal/model"
	"github.com/nsxzhou1114/cms-api/internal/router"
	"github.com/nsxzhou1114/cms-api/internal/service"
	"github.com/nsxzhou1114/cms-api/pkg/cache"
	"github.com/nsxzhou1114/cms-api/pkg/validate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "cms-api",
	Short: "CMS静态化服务",
	Long:  `内容管理与静态站点生成服务，支持模板套装、全站静态化、构建日志与站点地图`,
}

// serveCmd 启动服务命令
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动HTTP服务",
	Long:  `启动CMS的HTTP服务器，并按配置开启定时任务与模板热更新`,
	Run: func(cmd *cobra.Command, args []string) {
		startServer()
	},
}

func init() {
	// 添加全局标志
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./config", "配置文件路径")

	// 添加子命令
	rootCmd.AddCommand(serveCmd)
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// initializeSystem 初始化系统
func initializeSystem() error {
	// 初始化配置
	if err := config.Init(configPath); err != nil {
		return fmt.Errorf("配置初始化失败: %v", err)
	}

	// 初始化日志
	if err := logger.Init(); err != nil {
		return fmt.Errorf("日志初始化失败: %v", err)
	}

	// 初始化数据库
	db := database.GetDB()
	if db == nil {
		return fmt.Errorf("数据库连接失败")
	}

	// 初始化数据库表与默认配置
	if err := model.InitTables(db); err != nil {
		return fmt.Errorf("初始化数据库表失败: %v", err)
	}
	if err := model.SeedSettings(db); err != nil {
		return fmt.Errorf("初始化默认配置失败: %v", err)
	}

	// 初始化缓存，未启用Redis时配置直接读库
	cache.GetManager().Initialize(database.GetRedis())

	validate.Register()
	return nil
}

// mustInitialize 命令行子命令共用的初始化
func mustInitialize() {
	if err := initializeSystem(); err != nil {
		fmt.Printf("系统初始化失败: %v\n", err)
		os.Exit(1)
	}
}

// startServer 启动HTTP服务
func startServer() {
	mustInitialize()
	defer logger.Sync()
	defer cache.GetManager().Close()

	cfg := config.GetConfig()

	// 组装静态化引擎并订阅发布事件
	engine := service.GetEngine()
	service.RegisterListeners(engine)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if cfg.Static.WatchTemplates {
		if err := engine.WatchTemplates(ctx); err != nil {
			logger.Error("模板目录监听失败", zap.Error(err))
		}
	}

	scheduler := startScheduler(cfg)

	// 设置Gin模式
	gin.SetMode(cfg.App.Mode)

	// 初始化路由
	r := initRouter(engine)

	// 启动HTTP服务
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: r,
	}

	// 优雅关闭
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP服务启动失败", zap.Error(err))
		}
	}()

	logger.Info("服务已启动", zap.String("addr", srv.Addr))

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("关闭服务...")

	// 设置关闭超时
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("服务关闭异常", zap.Error(err))
	}

	stop()
	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}
	// 等待已入队的发布构建完成
	engine.Shutdown()

	logger.Info("服务已关闭")
}

// startScheduler 按配置启动定时任务，未启用时返回nil
func startScheduler(cfg *config.Config) *cron.Scheduler {
	if !cfg.Cron.Enabled {
		return nil
	}
	scheduler, err := cron.NewScheduler(cfg.Cron,
		service.NewBuildService(),
		service.NewSitemapService(),
		service.NewBuildLogService(),
		cache.GetManager().GetCache(),
		logger.Named("cron"),
	)
	if err != nil {
		logger.Fatal("定时任务初始化失败", zap.Error(err))
	}
	if err := scheduler.Register(); err != nil {
		logger.Fatal("定时任务注册失败", zap.Error(err))
	}
	scheduler.Start()
	return scheduler
}

// 初始化路由
func initRouter(engine *service.Engine) *gin.Engine {
	r := gin.New()

	// 使用中间件
	r.Use(middleware.Recovery())
	r.Use(logger.GinLogger())
	r.Use(middleware.ErrorLogger())

	// 初始化API路由
	router.Setup(r, engine)

	return r
}
