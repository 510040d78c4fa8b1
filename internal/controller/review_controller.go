package controller

import (
	"nihongolab_backend/internal/service"
	"nihongolab_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	ReviewService *service.ReviewService
}

func NewReviewController(reviewService *service.ReviewService) *ReviewController {
	return &ReviewController{ReviewService: reviewService}
}

type ReviewAnswerRequest struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	Answer     string `json:"answer"`
}

// @Summary 获取待复习题目
// @Description 返回当前需要复习的题目，不包含正确答案
// @Tags 复习
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.DueQuestion}
// @Router /api/review/due [get]
func (c *ReviewController) GetDueQuestions(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	questions, err := c.ReviewService.DueQuestions(ctx.Request.Context(), user.UserID())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, questions)
}

// @Summary 提交复习答案
// @Description 判定复习作答并调整该题的复习间隔
// @Tags 复习
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ReviewAnswerRequest true "作答内容"
// @Success 200 {object} util.Response{data=service.ReviewResult}
// @Failure 404 {object} util.Response
// @Router /api/review/answer [post]
func (c *ReviewController) SubmitReviewAnswer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ReviewAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request: "+err.Error())
		return
	}

	result, err := c.ReviewService.RecordReviewAnswer(ctx.Request.Context(), user.UserID(), req.QuestionID, req.Answer)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, result)
}
