package main

import (
	stdlog "log"
	"time"

	"github.com/T332932/for-dachaung/internal/clients/llm"
	"github.com/T332932/for-dachaung/internal/db"
	apphttp "github.com/T332932/for-dachaung/internal/http"
	"github.com/T332932/for-dachaung/internal/http/handlers"
	"github.com/T332932/for-dachaung/internal/http/middleware"
	"github.com/T332932/for-dachaung/internal/platform/envutil"
	"github.com/T332932/for-dachaung/internal/platform/logger"
	"github.com/T332932/for-dachaung/internal/repos"
	"github.com/T332932/for-dachaung/internal/services"
	"github.com/T332932/for-dachaung/internal/store"
)

func main() {
	log, err := logger.New(envutil.String("APP_ENV", "dev"))
	if err != nil {
		stdlog.Fatalf("init logger: %v", err)
	}
	defer log.Sync()

	dbService, err := db.NewService(log)
	if err != nil {
		log.Fatal("Database init failed", "error", err)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Fatal("Auto migration failed", "error", err)
	}
	gdb := dbService.DB()

	var st store.Store
	if envutil.String("REDIS_ADDR", "") != "" {
		st, err = store.NewRedis(log)
		if err != nil {
			log.Fatal("Redis init failed", "error", err)
		}
	} else {
		log.Warn("REDIS_ADDR not set, using in-memory store")
		st = store.NewMemory()
	}

	llmClient, err := llm.NewFromEnv(log)
	if err != nil {
		log.Fatal("LLM client init failed", "error", err)
	}

	userRepo := repos.NewUserRepo(gdb, log)
	questionRepo := repos.NewQuestionRepo(gdb, log)
	paperRepo := repos.NewPaperRepo(gdb, log)
	embeddingRepo := repos.NewEmbeddingRepo(gdb, log)
	reviewRepo := repos.NewReviewRepo(gdb, log)

	captchaService, err := services.NewCaptchaService(st, log)
	if err != nil {
		log.Fatal("Captcha service init failed", "error", err)
	}
	taskService := services.NewTaskService(st, log)

	jwtSecret := envutil.String("JWT_SECRET", "")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	authService := services.NewAuthService(
		gdb, log, userRepo, captchaService,
		jwtSecret,
		envutil.Duration("AUTH_ACCESS_TTL", 24*time.Hour),
	)

	similarityService := services.NewSimilarityService(gdb, log, llmClient, embeddingRepo)
	analysisService := services.NewAnalysisService(gdb, log, llmClient, questionRepo, taskService, similarityService)
	paperService := services.NewPaperService(gdb, log, paperRepo)
	exportService := services.NewExportService(gdb, log, paperRepo, questionRepo)
	askService := services.NewAskService(gdb, log, llmClient, similarityService, questionRepo)

	server := apphttp.NewServer(apphttp.RouterConfig{
		Health:   handlers.NewHealthHandler(),
		Auth:     handlers.NewAuthHandler(authService),
		Captcha:  handlers.NewCaptchaHandler(captchaService),
		Question: handlers.NewQuestionHandler(analysisService, similarityService, questionRepo),
		Paper:    handlers.NewPaperHandler(paperService),
		Export:   handlers.NewExportHandler(exportService, paperService),
		Task:     handlers.NewTaskHandler(taskService),
		Template: handlers.NewTemplateHandler(),
		Student:  handlers.NewStudentHandler(askService),
		Review:   handlers.NewReviewHandler(reviewRepo, questionRepo),

		AuthMiddleware: middleware.NewAuthMiddleware(log, authService),
	})

	address := ":" + envutil.String("PORT", "8080")
	log.Info("Server listening", "address", address)
	if err := server.Run(address); err != nil {
		log.Fatal("Server stopped", "error", err)
	}
}
