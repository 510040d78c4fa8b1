package controller

import (
	"nihongolab_backend/internal/service"
	"nihongolab_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type VocabularyController struct {
	VocabularyService *service.VocabularyService
}

func NewVocabularyController(vocabularyService *service.VocabularyService) *VocabularyController {
	return &VocabularyController{VocabularyService: vocabularyService}
}

type VocabularyQueryParams struct {
	Level        string `form:"level"`
	Category     string `form:"category"`
	PartOfSpeech string `form:"partOfSpeech" binding:"omitempty,oneof=noun verb adj-i adj-na expression"`
	Search       string `form:"search"`
	Cursor       uint   `form:"cursor"`
	Limit        int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset       int    `form:"offset" binding:"omitempty,min=0"`
}

// @Summary 浏览词汇表
// @Description 按等级、分类、词性过滤并搜索词汇，结果按分类分组；支持 limit/offset 与 cursor 分页
// @Tags 词汇
// @Produce json
// @Security BearerAuth
// @Param level query string false "等级名称，如 N5"
// @Param category query string false "分类"
// @Param partOfSpeech query string false "词性" Enums(noun, verb, adj-i, adj-na, expression)
// @Param search query string false "匹配单词、读音或释义"
// @Param cursor query int false "上一页返回的 nextCursor"
// @Param limit query int false "每页条数" default(50)
// @Param offset query int false "跳过条数" default(0)
// @Success 200 {object} util.Response{data=service.VocabularyPage}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/vocabulary [get]
func (c *VocabularyController) List(ctx *gin.Context) {
	var params VocabularyQueryParams
	if err := ctx.ShouldBindQuery(&params); err != nil {
		util.BadRequest(ctx, "Invalid query: "+err.Error())
		return
	}

	page, err := c.VocabularyService.List(ctx.Request.Context(), service.VocabularyQuery{
		Level:        params.Level,
		Category:     params.Category,
		PartOfSpeech: params.PartOfSpeech,
		Search:       params.Search,
		Cursor:       params.Cursor,
		Limit:        params.Limit,
		Offset:       params.Offset,
	})
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, page)
}
