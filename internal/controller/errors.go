package controller

import (
	"errors"
	"mcq_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// handleServiceError 将服务层哨兵错误映射为HTTP响应，
// 未识别的错误记日志后统一返回500。
func handleServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrEmailRegistered):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Unauthorized(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrQuizNotFound),
		errors.Is(err, util.ErrClassNotFound),
		errors.Is(err, util.ErrBankNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrStudentNotFound),
		errors.Is(err, util.ErrAttemptNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrAttemptExists),
		errors.Is(err, util.ErrAlreadyEnrolled):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrAttemptCompleted),
		errors.Is(err, util.ErrAttemptExpired):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrGenerationFailed):
		util.Error(ctx, 502, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
