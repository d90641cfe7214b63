// @title Onyx Tutor API
// @version 1.0
// @description Backend for the Onyx AI tutor: accounts, lesson and quiz storage, and the tutor endpoints.
// @host localhost:8090
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_ID_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "onyx-tutor/cmd/api/docs"
	"onyx-tutor/internal/adapter"
	"onyx-tutor/internal/adapter/llm"
	"onyx-tutor/internal/cache"
	"onyx-tutor/internal/config"
	"onyx-tutor/internal/database"
	"onyx-tutor/internal/handler"
	"onyx-tutor/internal/logger"
	"onyx-tutor/internal/middleware"
	"onyx-tutor/internal/repository"
	"onyx-tutor/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Chat model behind /ask-ai and /generate-quiz
	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	chatModel, err := llm.NewChatModel(initCtx, cfg.LLM)
	cancelInit()
	if err != nil {
		appLogger.Fatal("Failed to create chat model", zap.Error(err))
	}
	appLogger.Info("Chat model initialized",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", chatModel.ModelID()))

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	userRepository := repository.NewSQLXUserRepository(db)
	lessonRepository := repository.NewSQLXLessonRepository(db)
	quizResultRepository := repository.NewSQLXQuizResultRepository(db)
	txManager := repository.NewTxManager(db)

	// Initialize Redis Client
	redisClient, err := cache.Open(context.Background(), cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Successfully connected to Redis")
	authCache := adapter.NewRedisCache(redisClient)

	// Initialize services
	authService, err := service.NewAuthService(userRepository, authCache, txManager, cfg)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	userService := service.NewUserService(userRepository, quizResultRepository)
	lessonService := service.NewLessonService(lessonRepository)
	tutorService := service.NewTutorService(chatModel)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := authCache.Ping(c.UserContext()); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "redis unavailable")
		}
		if err := db.PingContext(c.UserContext()); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "database unavailable")
		}
		return c.SendString("ok")
	})

	handler.RegisterRoutes(app, handler.Handlers{
		Auth:  handler.NewAuthHandler(authService, cfg),
		User:  handler.NewUserHandler(userService, lessonService),
		Tutor: handler.NewTutorHandler(tutorService, lessonService),
	}, authService)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
