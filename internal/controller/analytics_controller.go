package controller

import (
	"mcq_quiz_backend/internal/service"
	"mcq_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// QuizAnalytics godoc
// @Summary 测验作答报表
// @Description 分数统计、用时分布与作答明细，只计已完成作答
// @Tags 报表
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=service.QuizAnalytics} "成功"
// @Failure 403 {object} util.Response "非测验所有者"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/teacher/quizzes/{id}/analytics [get]
func (c *AnalyticsController) QuizAnalytics(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	quizID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	analytics, err := c.AnalyticsService.GetQuizAnalytics(quizID, claims.UserID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, analytics)
}
