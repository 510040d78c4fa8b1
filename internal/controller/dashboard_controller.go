package controller

import (
	"nihongolab_backend/internal/service"
	"nihongolab_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// @Summary 获取仪表盘数据
// @Description 获取用户等级、作答统计、各等级进度与最近 7 天的作答情况
// @Tags 仪表盘
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.Dashboard}
// @Failure 404 {object} util.Response
// @Router /api/dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	dashboard, err := c.DashboardService.GetDashboard(ctx.Request.Context(), user.UserID())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, dashboard)
}

// @Summary 获取复习概览
// @Description 获取当前待复习的题目数量
// @Tags 仪表盘
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.ReviewSummary}
// @Router /api/dashboard/review [get]
func (c *DashboardController) GetReviewSummary(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	summary, err := c.DashboardService.ReviewSummary(ctx.Request.Context(), user.UserID())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, summary)
}
