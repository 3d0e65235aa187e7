package app

import (
	"ilt_reports_backend/docs"

	"ilt_reports_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		// 数据集管理
		datasets := api.Group("/datasets")
		{
			datasets.POST("", c.dataset.Upload)
			datasets.GET("", c.dataset.List)
			datasets.GET("/:id/preview", c.dataset.Preview)
			datasets.DELETE("/:id", c.dataset.Delete)
		}

		// 分析报告
		reports := api.Group("/reports")
		{
			reports.POST("", c.report.Generate)
			reports.GET("", c.report.List)
			reports.GET("/:id", c.report.Get)
			reports.DELETE("/:id", c.report.Delete)
			reports.GET("/:id/learners/:userId/modules", c.report.LearnerModules)
			reports.GET("/:id/modules", c.report.GroupModules)
		}

		// 课程模块
		modules := api.Group("/modules")
		{
			modules.GET("", c.module.List)
			modules.POST("/sync", c.module.Sync)
		}
	}
}
