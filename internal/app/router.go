package app

import (
	"mcq_quiz_backend/docs"
	"mcq_quiz_backend/internal/config"
	"mcq_quiz_backend/internal/middleware"
	"mcq_quiz_backend/internal/model"
	"mcq_quiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 作答路由：游客可用，登录用户作答会归档到账号下
	a.registerParticipationRoutes(router, c, cfg)

	// 3. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerParticipationRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	join := router.Group("/api")
	join.Use(middleware.TryAuthMiddleware(cfg))
	{
		join.GET("/join/:code", c.participation.ResolveQuiz)
		join.POST("/join/:code/attempts", c.participation.StartAttempt)
		join.POST("/join/:code/submit", c.participation.SubmitQuiz)
		join.PUT("/attempts/:id/responses", c.participation.RecordResponse)
		join.POST("/attempts/:id/finish", c.participation.FinishAttempt)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/profile", c.user.UpdateProfile)
	rg.POST("/profile/avatar", c.user.UploadAvatar)
	rg.GET("/attempts", c.participation.AttemptHistory)
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.GET("/students", c.user.ListStudents)

		teacher.POST("/quizzes", c.quiz.CreateQuiz)
		teacher.GET("/quizzes", c.quiz.ListQuizzes)
		teacher.PUT("/quizzes/:id/active", c.quiz.ToggleActive)
		teacher.GET("/quizzes/:id/questions", c.quiz.GetQuizQuestions)
		teacher.POST("/quizzes/:id/questions", c.quiz.LinkQuestion)
		teacher.POST("/quizzes/generate", c.quiz.GenerateQuestions)
		teacher.GET("/quizzes/:id/analytics", c.analytics.QuizAnalytics)

		teacher.POST("/banks", c.question.CreateBank)
		teacher.GET("/banks", c.question.ListBanks)
		teacher.POST("/banks/:id/questions", c.question.AddQuestion)
		teacher.GET("/banks/:id/questions", c.question.ListQuestions)

		teacher.POST("/classes", c.class.CreateClass)
		teacher.GET("/classes", c.class.ListClasses)
		teacher.POST("/classes/:id/students", c.class.EnrollStudent)
		teacher.GET("/classes/:id/students", c.class.ListClassStudents)
		teacher.POST("/classes/:id/quizzes", c.class.AssignQuiz)
		teacher.GET("/classes/:id/quizzes", c.class.ListAssignedQuizzes)
	}
}
