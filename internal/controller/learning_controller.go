package controller

import (
	"nihongolab_backend/internal/service"
	"nihongolab_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LearningController struct {
	LearningService *service.LearningService
}

func NewLearningController(learningService *service.LearningService) *LearningController {
	return &LearningController{LearningService: learningService}
}

type SubmitAnswerRequest struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	Answer     string `json:"answer"`
}

type CompleteLessonRequest struct {
	QuestionIDs []uint `json:"questionIds" binding:"required"`
}

// @Summary 提交答案
// @Description 判定答案正误并记录作答，题目首次答对时奖励经验
// @Tags 学习模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SubmitAnswerRequest true "作答内容"
// @Success 200 {object} util.Response{data=service.SubmissionResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/learn/submit [post]
func (c *LearningController) SubmitAnswer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request: "+err.Error())
		return
	}

	result, err := c.LearningService.SubmitAnswer(ctx.Request.Context(), user.UserID(), req.QuestionID, req.Answer)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 完成课程
// @Description 按最近一次作答统计正确率，奖励经验并更新连续学习天数
// @Tags 学习模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CompleteLessonRequest true "课程题目，至少 5 道"
// @Success 200 {object} util.Response{data=service.LessonResult}
// @Failure 400 {object} util.Response
// @Router /api/learn/lessons/complete [post]
func (c *LearningController) CompleteLesson(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CompleteLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request: "+err.Error())
		return
	}

	result, err := c.LearningService.CompleteLesson(ctx.Request.Context(), user.UserID(), req.QuestionIDs)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, result)
}
