package controller

import (
	"mcq_quiz_backend/internal/service"
	"mcq_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuizService *service.QuizService
}

func NewQuestionController(quizService *service.QuizService) *QuestionController {
	return &QuestionController{QuizService: quizService}
}

type CreateBankRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateBank godoc
// @Summary 创建题库
// @Tags 题库
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CreateBankRequest true "题库信息"
// @Success 201 {object} util.Response{data=model.QuestionBank} "创建成功"
// @Router /api/teacher/banks [post]
func (c *QuestionController) CreateBank(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateBankRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	bank, err := c.QuizService.CreateQuestionBank(claims.UserID, req.Name, req.Description)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, bank)
}

// ListBanks godoc
// @Summary 查看自己的题库
// @Tags 题库
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.QuestionBank} "成功"
// @Router /api/teacher/banks [get]
func (c *QuestionController) ListBanks(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	banks, err := c.QuizService.ListQuestionBanks(claims.UserID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, banks)
}

// AddQuestion godoc
// @Summary 向题库添加题目
// @Tags 题库
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题库ID"
// @Param   body body service.QuestionInput true "题目"
// @Success 201 {object} util.Response{data=model.Question} "创建成功"
// @Failure 404 {object} util.Response "题库不存在"
// @Router /api/teacher/banks/{id}/questions [post]
func (c *QuestionController) AddQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	bankID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req service.QuestionInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuizService.AddQuestionToBank(claims.UserID, bankID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// ListQuestions godoc
// @Summary 查看题库题目
// @Tags 题库
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题库ID"
// @Success 200 {object} util.Response{data=[]model.Question} "成功"
// @Failure 404 {object} util.Response "题库不存在"
// @Router /api/teacher/banks/{id}/questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	bankID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	questions, err := c.QuizService.ListBankQuestions(claims.UserID, bankID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}
