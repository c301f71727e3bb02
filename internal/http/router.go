package http

import (
	"github.com/gin-gonic/gin"

	"github.com/T332932/for-dachaung/internal/http/handlers"
	"github.com/T332932/for-dachaung/internal/http/middleware"
	"github.com/T332932/for-dachaung/internal/types"
)

type RouterConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Captcha  *handlers.CaptchaHandler
	Question *handlers.QuestionHandler
	Paper    *handlers.PaperHandler
	Export   *handlers.ExportHandler
	Task     *handlers.TaskHandler
	Template *handlers.TemplateHandler
	Student  *handlers.StudentHandler
	Review   *handlers.ReviewHandler

	AuthMiddleware *middleware.AuthMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORS())

	r.GET("/healthz", cfg.Health.Check)

	api := r.Group("/api")
	{
		api.GET("/captcha", cfg.Captcha.Generate)
		api.POST("/auth/register", cfg.Auth.Register)
		api.POST("/auth/login", cfg.Auth.Login)
	}

	protected := api.Group("")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		protected.POST("/ask", cfg.Student.Ask)
		protected.GET("/tasks/:id", cfg.Task.Get)
		protected.GET("/templates", cfg.Template.List)
		protected.GET("/templates/:id", cfg.Template.Get)
	}

	teacher := protected.Group("")
	teacher.Use(cfg.AuthMiddleware.RequireRole(types.RoleTeacher, types.RoleAdmin))
	{
		teacher.POST("/questions/analyze", cfg.Question.Analyze)
		teacher.POST("/questions/analyze-async", cfg.Question.AnalyzeAsync)
		teacher.POST("/questions/search", cfg.Question.Search)
		teacher.POST("/questions/preview", cfg.Export.PreviewQuestion)
		teacher.GET("/questions", cfg.Question.List)
		teacher.GET("/questions/:id", cfg.Question.Get)
		teacher.DELETE("/questions/:id", cfg.Question.Delete)

		teacher.POST("/reviews", cfg.Review.Create)
		teacher.GET("/reviews", cfg.Review.ListByQuestion)

		teacher.POST("/papers", cfg.Paper.Create)
		teacher.GET("/papers", cfg.Paper.List)
		teacher.GET("/papers/:id", cfg.Paper.Get)
		teacher.PUT("/papers/:id/questions", cfg.Paper.AssignQuestions)
		teacher.DELETE("/papers/:id", cfg.Paper.Delete)

		teacher.GET("/papers/:id/export/latex", cfg.Export.PaperLaTeX)
		teacher.GET("/papers/:id/export/pdf", cfg.Export.PaperPDF)
		teacher.GET("/papers/:id/export/answers", cfg.Export.AnswerSheetPDF)
		teacher.GET("/papers/:id/export/docx", cfg.Export.PaperDOCX)
	}

	return r
}
