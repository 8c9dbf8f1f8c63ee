package controller

import (
	"mcq_quiz_backend/internal/service"
	"mcq_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ClassController struct {
	ClassService *service.ClassService
}

func NewClassController(classService *service.ClassService) *ClassController {
	return &ClassController{ClassService: classService}
}

// CreateClass godoc
// @Summary 创建班级
// @Description 创建班级并可同时加入初始学生名单，全部成功或全部失败
// @Tags 班级
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.CreateClassRequest true "班级信息"
// @Success 201 {object} util.Response{data=model.Class} "创建成功"
// @Failure 404 {object} util.Response "学生不存在"
// @Router /api/teacher/classes [post]
func (c *ClassController) CreateClass(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	class, err := c.ClassService.CreateClass(claims.UserID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, class)
}

// ListClasses godoc
// @Summary 查看自己的班级
// @Tags 班级
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Class} "成功"
// @Router /api/teacher/classes [get]
func (c *ClassController) ListClasses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	classes, err := c.ClassService.ListTeacherClasses(claims.UserID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, classes)
}

type EnrollStudentRequest struct {
	StudentID uint `json:"studentId" binding:"required"`
}

// EnrollStudent godoc
// @Summary 向班级加入学生
// @Tags 班级
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "班级ID"
// @Param   body body EnrollStudentRequest true "学生"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "班级或学生不存在"
// @Failure 409 {object} util.Response "学生已在班级中"
// @Router /api/teacher/classes/{id}/students [post]
func (c *ClassController) EnrollStudent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	classID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req EnrollStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ClassService.EnrollStudent(claims.UserID, classID, req.StudentID); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ListClassStudents godoc
// @Summary 查看班级学生名单
// @Tags 班级
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "班级ID"
// @Success 200 {object} util.Response{data=[]model.User} "成功"
// @Failure 404 {object} util.Response "班级不存在"
// @Router /api/teacher/classes/{id}/students [get]
func (c *ClassController) ListClassStudents(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	classID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	students, err := c.ClassService.ListClassStudents(claims.UserID, classID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, students)
}

type AssignQuizRequest struct {
	QuizID uint `json:"quizId" binding:"required"`
}

// AssignQuiz godoc
// @Summary 向班级布置测验
// @Description 需同时拥有测验和班级，重复布置保持幂等
// @Tags 班级
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "班级ID"
// @Param   body body AssignQuizRequest true "测验"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "非所有者"
// @Failure 404 {object} util.Response "测验或班级不存在"
// @Router /api/teacher/classes/{id}/quizzes [post]
func (c *ClassController) AssignQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	classID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req AssignQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ClassService.AssignQuizToClass(claims.UserID, req.QuizID, classID); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ListAssignedQuizzes godoc
// @Summary 查看班级已布置的测验
// @Tags 班级
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "班级ID"
// @Success 200 {object} util.Response{data=[]model.Quiz} "成功"
// @Failure 404 {object} util.Response "班级不存在"
// @Router /api/teacher/classes/{id}/quizzes [get]
func (c *ClassController) ListAssignedQuizzes(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	classID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	quizzes, err := c.ClassService.ListAssignedQuizzes(claims.UserID, classID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}
