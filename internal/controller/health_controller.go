package controller

import (
	"context"
	"nihongolab_backend/internal/util"
	"nihongolab_backend/pkg/cache"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB    *gorm.DB
	Cache *cache.Cache
}

func NewHealthController(db *gorm.DB, c *cache.Cache) *HealthController {
	return &HealthController{DB: db, Cache: c}
}

// @Summary 健康检查
// @Description 检查数据库与缓存连接状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	// 检查数据库连接
	sqlDB, err := c.DB.DB()
	if err != nil {
		util.InternalServerError(ctx)
		return
	}
	if err := sqlDB.PingContext(reqCtx); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	cacheStatus := "disabled"
	if c.Cache != nil && c.Cache.Redis != nil {
		cacheStatus = "up"
		if err := c.Cache.Ping(reqCtx); err != nil {
			util.Error(ctx, http.StatusServiceUnavailable, "Cache unavailable")
			return
		}
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"database": "up",
			"cache":    cacheStatus,
		},
	})
}
