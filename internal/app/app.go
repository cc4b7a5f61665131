package app

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"leadhub/internal/config"
	"leadhub/internal/handlers"
	"leadhub/internal/pdf"
	"leadhub/internal/repositories"
	"leadhub/internal/routes"
	"leadhub/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	"github.com/swaggo/gin-swagger"
	_ "leadhub/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Ошибка подключения к БД: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка закрытия БД: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	stageRepo := repositories.NewStageRepository(db)
	leadRepo := repositories.NewLeadRepository(db)
	remarkRepo := repositories.NewRemarkRepository(db)
	demoRepo := repositories.NewDemoSessionRepository(db)
	proposalRepo := repositories.NewProposalRepository(db)
	actionRepo := repositories.NewStageActionRepository(db)
	assignmentRepo := repositories.NewAssignmentRepository(db)

	// === Реестр этапов ===
	// Грузим один раз на старте; если таблица пуста или БД недоступна,
	// сервер всё равно поднимется, а хендлеры перечитают реестр лениво.
	registry := services.NewStageRegistry(stageRepo, services.MappingFromConfig(cfg.Pipeline))
	if err := registry.Load(); err != nil {
		log.Printf("[registry][load] этапы не загружены на старте: %v", err)
	}

	// === Services ===
	authService := services.NewAuthService()
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	telegramService := services.NewTelegramService(cfg.Telegram.BotToken, cfg.Telegram.DryRun)
	notificationService := services.NewNotificationService(emailService, telegramService, userRepo, cfg.Server.BaseURL)

	userService := services.NewUserService(userRepo, emailService, authService)
	leadService := services.NewLeadService(leadRepo, assignmentRepo)

	demoService := services.NewDemoSessionService(demoRepo)
	proposalService := services.NewProposalService(proposalRepo)
	actionService := services.NewStageActionService(actionRepo)
	remarkService := services.NewRemarkService(remarkRepo)

	progressionService := services.NewProgressionService(
		registry,
		leadRepo,
		demoService,
		proposalService,
		actionService,
		remarkService,
		assignmentRepo,
		notificationService,
		cfg.Pipeline.WonStage,
		time.Duration(cfg.Pipeline.CelebrateSeconds)*time.Second,
	)

	// PDF генератор (укажи реальный путь к TTF с кириллицей)
	pdfGen := pdf.NewReportGenerator("assets/fonts/DejaVuSans.ttf")
	reportService := services.NewReportService(leadRepo, remarkService, registry, pdfGen)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userService, authService)
	userHandler := handlers.NewUserHandler(userService, authService)
	stageHandler := handlers.NewStageHandler(registry)
	leadHandler := handlers.NewLeadHandler(leadService, progressionService, demoService, proposalService, actionService)
	transitionHandler := handlers.NewTransitionHandler(progressionService, leadService)
	remarkHandler := handlers.NewRemarkHandler(remarkService)
	reportHandler := handlers.NewReportHandler(reportService, leadService)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Роуты (JWT/RBAC — внутри SetupRoutes)
	routes.SetupRoutes(
		router,
		authHandler,
		userHandler,
		stageHandler,
		leadHandler,
		transitionHandler,
		remarkHandler,
		reportHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Ошибка запуска сервера: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
