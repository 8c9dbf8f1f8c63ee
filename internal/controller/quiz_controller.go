package controller

import (
	"mcq_quiz_backend/internal/service"
	"mcq_quiz_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		util.BadRequest(ctx, "无效的"+name)
		return 0, false
	}
	return uint(id), true
}

// CreateQuiz godoc
// @Summary 创建测验
// @Description 创建测验及内嵌题目，返回8位加入码
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.CreateQuizRequest true "测验信息"
// @Success 201 {object} util.Response{data=model.Quiz} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/teacher/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.CreateQuiz(claims.UserID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// ListQuizzes godoc
// @Summary 查看自己创建的测验
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Quiz} "成功"
// @Router /api/teacher/quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	quizzes, err := c.QuizService.GetTeacherQuizzes(claims.UserID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

type ToggleActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// ToggleActive godoc
// @Summary 切换测验开放状态
// @Description 关闭后学生不能再加入，进行中的作答不受影响
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Param   body body ToggleActiveRequest true "开放状态"
// @Success 200 {object} util.Response{data=model.Quiz} "成功"
// @Failure 403 {object} util.Response "非测验所有者"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/teacher/quizzes/{id}/active [put]
func (c *QuizController) ToggleActive(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	quizID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req ToggleActiveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.ToggleActive(claims.UserID, quizID, *req.Active)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// GetQuizQuestions godoc
// @Summary 查看测验题目（含答案）
// @Description 仅测验所有者可见，包含正确选项
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=[]model.Question} "成功"
// @Failure 403 {object} util.Response "非测验所有者"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/teacher/quizzes/{id}/questions [get]
func (c *QuizController) GetQuizQuestions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	quizID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	questions, err := c.QuizService.GetQuizQuestions(claims.UserID, quizID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

type LinkQuestionRequest struct {
	QuestionID uint `json:"questionId" binding:"required"`
}

// LinkQuestion godoc
// @Summary 从题库向测验添加题目
// @Description 重复添加不报错，保持幂等
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Param   body body LinkQuestionRequest true "题目"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "测验或题目不存在"
// @Router /api/teacher/quizzes/{id}/questions [post]
func (c *QuizController) LinkQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	quizID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req LinkQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.QuizService.LinkQuestionToQuiz(claims.UserID, quizID, req.QuestionID); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type GenerateQuestionsRequest struct {
	Topic string `json:"topic" binding:"required,min=2"`
}

// GenerateQuestions godoc
// @Summary AI生成候选题目
// @Description 按主题生成选择题草稿，教师编辑确认后再入卷
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body GenerateQuestionsRequest true "出题主题"
// @Success 200 {object} util.Response{data=[]service.GeneratedQuestion} "成功"
// @Failure 502 {object} util.Response "生成失败"
// @Router /api/teacher/quizzes/generate [post]
func (c *QuizController) GenerateQuestions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req GenerateQuestionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	questions, err := c.QuizService.GenerateQuestions(req.Topic)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}
