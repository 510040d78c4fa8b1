package app

import (
	"nihongolab_backend/docs"
	"nihongolab_backend/internal/config"
	"nihongolab_backend/internal/middleware"
	"nihongolab_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 需要授权的路由，令牌由外部认证服务签发，首次访问时建档
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.Auth.Secret, cfg.Auth.Issuer))
	authGroup.Use(middleware.ProvisionUser(a.Services.User))
	{
		a.registerUserRoutes(authGroup, c)
		a.registerVocabularyRoutes(authGroup, c)
		a.registerLearningRoutes(authGroup, c)
		a.registerReviewRoutes(authGroup, c)
		a.registerDashboardRoutes(authGroup, c)
	}
}

func (a *App) registerUserRoutes(rg *gin.RouterGroup, c *controllers) {
	users := rg.Group("/users")
	{
		users.GET("/me", c.user.GetMe)
		users.PATCH("/me", c.user.UpdateMe)
	}
}

func (a *App) registerVocabularyRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/vocabulary", c.vocab.List)
}

func (a *App) registerLearningRoutes(rg *gin.RouterGroup, c *controllers) {
	learn := rg.Group("/learn")
	{
		learn.POST("/submit", c.learning.SubmitAnswer)
		learn.POST("/lessons/complete", c.learning.CompleteLesson)
	}
}

func (a *App) registerReviewRoutes(rg *gin.RouterGroup, c *controllers) {
	review := rg.Group("/review")
	{
		review.GET("/due", c.review.GetDueQuestions)
		review.POST("/answer", c.review.SubmitReviewAnswer)
	}
}

func (a *App) registerDashboardRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/dashboard", c.dashboard.GetDashboard)
	rg.GET("/dashboard/review", c.dashboard.GetReviewSummary)
}
