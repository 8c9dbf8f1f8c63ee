package controller

import (
	"mcq_quiz_backend/internal/model"
	"mcq_quiz_backend/internal/service"
	"mcq_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ParticipationController struct {
	ParticipationService *service.ParticipationService
}

func NewParticipationController(participationService *service.ParticipationService) *ParticipationController {
	return &ParticipationController{ParticipationService: participationService}
}

func currentStudentID(ctx *gin.Context) uint {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		return 0
	}
	return claims.UserID
}

// ResolveQuiz godoc
// @Summary 加入码换测验
// @Description 按8位加入码返回测验与题目，不含正确答案。
// @Description 码不存在或测验未开放时一律404，不泄露测验是否存在。
// @Tags 作答
// @Produce  json
// @Param   code path string true "加入码"
// @Success 200 {object} util.Response{data=service.QuizView} "成功"
// @Failure 404 {object} util.Response "测验不可加入"
// @Router /api/join/{code} [get]
func (c *ParticipationController) ResolveQuiz(ctx *gin.Context) {
	view, err := c.ParticipationService.ResolveByCode(ctx.Param("code"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

type StartAttemptRequest struct {
	Nickname string `json:"nickname" binding:"required,min=1,max=64"`
}

// StartAttempt godoc
// @Summary 开始作答
// @Description 创建进行中的作答记录并返回打乱顺序后的题目。
// @Description 同一测验同一学生（或同一昵称的游客）只允许一次作答。
// @Tags 作答
// @Accept  json
// @Produce  json
// @Param   code path string true "加入码"
// @Param   body body StartAttemptRequest true "昵称"
// @Success 201 {object} util.Response{data=object} "开始成功"
// @Failure 404 {object} util.Response "测验不可加入"
// @Failure 409 {object} util.Response "已有作答记录"
// @Router /api/join/{code}/attempts [post]
func (c *ParticipationController) StartAttempt(ctx *gin.Context) {
	var req StartAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.ParticipationService.ResolveByCode(ctx.Param("code"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	attempt, questions, err := c.ParticipationService.StartAttempt(
		view.ID, currentStudentID(ctx), req.Nickname, ctx.ClientIP())
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	// attemptToken 是游客后续请求的持有凭证，登录学生可忽略
	util.Created(ctx, gin.H{
		"attemptId":    attempt.ID,
		"attemptToken": attempt.AccessToken,
		"endTime":      attempt.EndTime,
		"questions":    questions,
	})
}

type RecordResponseRequest struct {
	QuestionID     uint   `json:"questionId" binding:"required"`
	SelectedOption string `json:"selectedOption" binding:"required,oneof=a b c d"`
	AttemptToken   string `json:"attemptToken"`
}

// RecordResponse godoc
// @Summary 逐题作答
// @Description 记录单题选择，重复作答同一题以最后一次为准。
// @Description 游客作答需携带开始作答时返回的 attemptToken。
// @Tags 作答
// @Accept  json
// @Produce  json
// @Param   id path int true "作答ID"
// @Param   body body RecordResponseRequest true "作答"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "无权操作该作答"
// @Failure 404 {object} util.Response "作答或题目不存在"
// @Failure 409 {object} util.Response "作答已结束或超时"
// @Router /api/attempts/{id}/responses [put]
func (c *ParticipationController) RecordResponse(ctx *gin.Context) {
	attemptID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req RecordResponseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.ParticipationService.RecordResponse(
		attemptID, currentStudentID(ctx), req.QuestionID, req.AttemptToken, model.Option(req.SelectedOption))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type FinishAttemptRequest struct {
	Timeout      bool   `json:"timeout"`
	AttemptToken string `json:"attemptToken"`
}

// FinishAttempt godoc
// @Summary 交卷
// @Description 对已记录的作答判分并进入终态。终态只发生一次，
// @Description 重复交卷返回409且分数不变。timeout标记超时强制收卷。
// @Tags 作答
// @Accept  json
// @Produce  json
// @Param   id path int true "作答ID"
// @Param   body body FinishAttemptRequest false "交卷选项"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 403 {object} util.Response "无权操作该作答"
// @Failure 404 {object} util.Response "作答不存在"
// @Failure 409 {object} util.Response "作答已结束"
// @Router /api/attempts/{id}/finish [post]
func (c *ParticipationController) FinishAttempt(ctx *gin.Context) {
	attemptID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req FinishAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.ParticipationService.FinishAttempt(
		attemptID, currentStudentID(ctx), req.AttemptToken, req.Timeout)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"attemptId": attempt.ID,
		"score":     attempt.Score,
		"status":    attempt.Status,
	})
}

type SubmitQuizRequest struct {
	Nickname  string                      `json:"nickname" binding:"required,min=1,max=64"`
	Responses []service.BulkResponseInput `json:"responses" binding:"required"`
}

// SubmitQuiz godoc
// @Summary 一次性提交整卷
// @Description 游客流程：建档、判分、收尾在一次请求中完成。
// @Description 同一昵称重复提交返回409。
// @Tags 作答
// @Accept  json
// @Produce  json
// @Param   code path string true "加入码"
// @Param   body body SubmitQuizRequest true "整卷作答"
// @Success 201 {object} util.Response{data=object} "提交成功"
// @Failure 404 {object} util.Response "测验不可加入"
// @Failure 409 {object} util.Response "已有作答记录"
// @Router /api/join/{code}/submit [post]
func (c *ParticipationController) SubmitQuiz(ctx *gin.Context) {
	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.ParticipationService.ResolveByCode(ctx.Param("code"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	attempt, err := c.ParticipationService.SubmitBulk(
		view.ID, currentStudentID(ctx), req.Nickname, ctx.ClientIP(), req.Responses)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{
		"attemptId": attempt.ID,
		"score":     attempt.Score,
	})
}

// AttemptHistory godoc
// @Summary 查看自己的作答历史
// @Tags 作答
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.QuizAttempt} "成功"
// @Router /api/attempts [get]
func (c *ParticipationController) AttemptHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attempts, err := c.ParticipationService.GetAttemptHistory(claims.UserID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}
