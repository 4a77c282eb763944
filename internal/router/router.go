package router

import (
	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/cms-api/internal/config"
	"github.com/nsxzhou1114/cms-api/internal/controller"
	"github.com/nsxzhou1114/cms-api/internal/metrics"
	"github.com/nsxzhou1114/cms-api/internal/service"
)

// Setup 设置API路由
func Setup(r *gin.Engine, engine *service.Engine) {
	cfg := config.GetConfig()

	// 静态页直接由输出目录提供
	if cfg.Static.PublicPath != "" {
		r.Static(cfg.Static.PublicPath, cfg.Static.OutputDir)
	}

	if engine.Metrics != nil {
		r.GET(cfg.Metrics.Path, gin.WrapH(metrics.HTTPHandler(engine.Metrics.Registry())))
	}

	api := r.Group("/api")

	setupBuildRoutes(api)
	setupSitemapRoutes(api)
	setupThemeRoutes(api)
	setupArticleRoutes(api)
	setupPageRoutes(api)
	setupCategoryRoutes(api)
	setupTagRoutes(api)
	setupSettingRoutes(api)
}

// setupBuildRoutes 静态化构建与构建日志
func setupBuildRoutes(api *gin.RouterGroup) {
	buildApi := controller.NewBuildApi()
	buildLogApi := controller.NewBuildLogApi()

	buildRoutes := api.Group("/build")
	{
		buildRoutes.POST("/index", buildApi.Index)
		buildRoutes.POST("/articles", buildApi.Articles)
		buildRoutes.POST("/article/:id", buildApi.Article)
		buildRoutes.POST("/category/:id", buildApi.Category)
		buildRoutes.POST("/tag/:id", buildApi.Tag)
		buildRoutes.POST("/tags", buildApi.Tags)
		buildRoutes.POST("/page/:id", buildApi.Page)
		buildRoutes.POST("/pages", buildApi.Pages)
		buildRoutes.POST("/all", buildApi.All)

		// 构建日志
		buildRoutes.GET("/logs", buildLogApi.List)
		buildRoutes.GET("/logs/stats", buildLogApi.Stats)
		buildRoutes.DELETE("/logs", buildLogApi.Delete)
		buildRoutes.POST("/logs/clear", buildLogApi.Clear)
	}
}

// setupSitemapRoutes 站点地图
func setupSitemapRoutes(api *gin.RouterGroup) {
	sitemapApi := controller.NewSitemapApi()
	api.POST("/sitemap/:format", sitemapApi.Generate)
}

// setupThemeRoutes 模板套装
func setupThemeRoutes(api *gin.RouterGroup) {
	themeApi := controller.NewThemeApi()

	themeRoutes := api.Group("/themes")
	{
		themeRoutes.GET("", themeApi.List)
		themeRoutes.GET("/current", themeApi.Current)
		themeRoutes.POST("/switch", themeApi.Switch)
	}
}

// setupArticleRoutes 文章
func setupArticleRoutes(api *gin.RouterGroup) {
	articleApi := controller.NewArticleApi()

	articleRoutes := api.Group("/articles")
	{
		articleRoutes.GET("", articleApi.List)
		articleRoutes.POST("", articleApi.Create)
		articleRoutes.GET("/:id", articleApi.Get)
		articleRoutes.PUT("/:id", articleApi.Update)
		articleRoutes.DELETE("/:id", articleApi.Delete)
		articleRoutes.POST("/:id/publish", articleApi.Publish)
		articleRoutes.POST("/:id/offline", articleApi.Offline)
		articleRoutes.POST("/:id/restore", articleApi.Restore)
	}
}

// setupPageRoutes 单页
func setupPageRoutes(api *gin.RouterGroup) {
	pageApi := controller.NewPageApi()

	pageRoutes := api.Group("/pages")
	{
		pageRoutes.GET("", pageApi.List)
		pageRoutes.POST("", pageApi.Create)
		pageRoutes.GET("/:id", pageApi.Get)
		pageRoutes.PUT("/:id", pageApi.Update)
		pageRoutes.DELETE("/:id", pageApi.Delete)
	}
}

// setupCategoryRoutes 分类
func setupCategoryRoutes(api *gin.RouterGroup) {
	categoryApi := controller.NewCategoryApi()

	categoryRoutes := api.Group("/categories")
	{
		categoryRoutes.GET("", categoryApi.List)
		categoryRoutes.POST("", categoryApi.Create)
		categoryRoutes.GET("/:id", categoryApi.Get)
		categoryRoutes.PUT("/:id", categoryApi.Update)
		categoryRoutes.DELETE("/:id", categoryApi.Delete)
	}
}

// setupTagRoutes 标签
func setupTagRoutes(api *gin.RouterGroup) {
	tagApi := controller.NewTagApi()

	tagRoutes := api.Group("/tags")
	{
		tagRoutes.GET("", tagApi.List)
		tagRoutes.POST("", tagApi.Create)
		tagRoutes.GET("/:id", tagApi.Get)
		tagRoutes.PUT("/:id", tagApi.Update)
		tagRoutes.DELETE("/:id", tagApi.Delete)
	}
}

// setupSettingRoutes 系统配置
func setupSettingRoutes(api *gin.RouterGroup) {
	settingApi := controller.NewSettingApi()

	api.GET("/settings", settingApi.List)
	api.PUT("/settings", settingApi.Update)
}
