package controller

import (
	"nihongolab_backend/internal/service"
	"nihongolab_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// UserController 当前用户资料
type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// UpdateProfileRequest 省略的字段保持不变，image 为空字符串时清除头像
// swagger:model UpdateProfileRequest
type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Image *string `json:"image"`
}

// @Summary 获取个人资料
// @Description 返回用户名称、头像、经验以及当前等级名称与门槛
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.Profile}
// @Failure 401 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/users/me [get]
func (c *UserController) GetMe(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.UserService.GetProfile(ctx.Request.Context(), user.UserID())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, profile)
}

// @Summary 修改个人资料
// @Description 修改名称（2 到 100 个字符）或头像地址
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "要修改的字段"
// @Success 200 {object} util.Response{data=service.Profile}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/users/me [patch]
func (c *UserController) UpdateMe(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request: "+err.Error())
		return
	}

	profile, err := c.UserService.UpdateProfile(ctx.Request.Context(), user.UserID(), service.ProfileUpdate{
		Name:  req.Name,
		Image: req.Image,
	})
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, profile)
}
