package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/yourusername/eduquiz-api/internal/config"
	"github.com/yourusername/eduquiz-api/internal/domain/repository"
	"github.com/yourusername/eduquiz-api/internal/handler"
	"github.com/yourusername/eduquiz-api/internal/middleware"
	pgRepo "github.com/yourusername/eduquiz-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/eduquiz-api/internal/repository/redis"
	"github.com/yourusername/eduquiz-api/internal/service"
	"github.com/yourusername/eduquiz-api/pkg/auth"
	"github.com/yourusername/eduquiz-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis.
	// Redis необязателен: без него сервис работает без кеша дневных квизов
	// и без rate limiting на аутентификации.
	var redisClient redis.UniversalClient
	var cacheRepo repository.CacheRepository
	if cfg.Redis.Addr != "" {
		redisClient, err = database.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Printf("Redis недоступен (%v), продолжаем без кеша", err)
		} else {
			log.Println("Successfully connected to Redis")
			repo, errCache := redisRepo.NewCacheRepo(redisClient)
			if errCache != nil {
				log.Printf("Failed to initialize CacheRepo: %v", errCache)
				os.Exit(1)
			}
			cacheRepo = repo
		}
	} else {
		log.Println("Redis не сконфигурирован, кеш и rate limiting отключены")
	}

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	quizRepo := pgRepo.NewQuizRepo(db)
	attemptRepo := pgRepo.NewAttemptRepo(db)

	// Инициализируем JWT сервис
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationDays)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Инициализируем сервисы
	authService, err := service.NewAuthService(userRepo, jwtService)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	quizService := service.NewQuizService(quizRepo, userRepo)
	gradingService := service.NewGradingService(quizRepo, attemptRepo, userRepo)
	leaderboardService := service.NewLeaderboardService(userRepo, attemptRepo)
	adminService := service.NewAdminService(userRepo, attemptRepo)

	generator, err := service.NewOpenRouterGenerator(cfg.AI)
	if err != nil {
		log.Printf("Failed to initialize question generator: %v", err)
		os.Exit(1)
	}
	dailyQuizService, err := service.NewDailyQuizService(quizRepo, cacheRepo, generator)
	if err != nil {
		log.Printf("Failed to initialize DailyQuizService: %v", err)
		os.Exit(1)
	}

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	referralHandler := handler.NewReferralHandler(authService)
	quizHandler := handler.NewQuizHandler(quizService)
	attemptHandler := handler.NewAttemptHandler(gradingService, leaderboardService, authService)
	dailyQuizHandler := handler.NewDailyQuizHandler(dailyQuizService, gradingService)
	adminHandler := handler.NewAdminHandler(adminService)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	// Rate limiting для аутентификации работает только при наличии Redis
	noLimit := func(c *gin.Context) { c.Next() }
	authRateLimit := gin.HandlerFunc(noLimit)
	if redisClient != nil {
		rateLimiter := middleware.NewRateLimiter(redisClient)
		authRateLimit = rateLimiter.Limit(middleware.StrictAuthRateLimitConfig())
	}

	// Инициализируем роутер Gin
	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		// Production: не доверять прокси-заголовкам
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		// Development: доверяем localhost
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authRateLimit, authHandler.Register)
			authGroup.POST("/login", authRateLimit, authHandler.Login)
			authGroup.GET("/me", authMiddleware.RequireAuth(), authHandler.Me)
		}

		// Реферальная привязка
		referral := api.Group("/referral")
		{
			referral.POST("/register-student", authRateLimit, referralHandler.RegisterStudent)
			referral.POST("/generate-code",
				authMiddleware.RequireAuth(),
				authMiddleware.RequireRole("teacher"),
				referralHandler.GenerateCode,
			)
		}

		// Квизы и попытки
		quiz := api.Group("/quiz")
		quiz.Use(authMiddleware.RequireAuth())
		{
			quiz.POST("", authMiddleware.RequireRole("teacher"), quizHandler.CreateQuiz)
			quiz.GET("/teacher-quizzes", authMiddleware.RequireRole("teacher"), quizHandler.TeacherQuizzes)
			quiz.GET("/student-quizzes", authMiddleware.RequireRole("student"), quizHandler.StudentQuizzes)

			quiz.POST("/attempt/submit", attemptHandler.SubmitAttempt)
			quiz.GET("/leaderboard", attemptHandler.Leaderboard)
			quiz.GET("/attempts", attemptHandler.MyAttempts)

			attemptWithID := quiz.Group("/attempts/:id")
			attemptWithID.Use(middleware.ExtractUintParam("id", "attemptID"))
			{
				attemptWithID.GET("", attemptHandler.GetAttempt)
				attemptWithID.GET("/certificate", attemptHandler.Certificate)
			}

			// Администрирование
			admin := quiz.Group("/admin")
			admin.Use(authMiddleware.AdminOnly())
			{
				admin.GET("/users", adminHandler.ListUsers)
				admin.DELETE("/users/:id", middleware.ExtractUintParam("id", "targetUserID"), adminHandler.DeleteUser)
				admin.GET("/attempts", adminHandler.ListAttempts)
				admin.GET("/attempts/export", adminHandler.ExportAttempts)
				admin.DELETE("/attempts/:id", middleware.ExtractUintParam("id", "attemptID"), adminHandler.DeleteAttempt)
			}

			quizWithID := quiz.Group("/:id")
			quizWithID.Use(middleware.ExtractUintParam("id", "quizID"))
			{
				quizWithID.GET("", quizHandler.GetQuiz)
				quizWithID.PUT("", authMiddleware.RequireRole("teacher"), quizHandler.UpdateQuiz)
				quizWithID.DELETE("", authMiddleware.RequireRole("teacher"), quizHandler.DeleteQuiz)
			}
		}

		// Дневные квизы
		daily := api.Group("/dailyQuiz")
		daily.Use(authMiddleware.RequireAuth())
		{
			daily.POST("", dailyQuizHandler.GetDailyQuiz)
			daily.GET("/subjects", dailyQuizHandler.Subjects)
			daily.POST("/submit", dailyQuizHandler.SubmitDailyQuiz)
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
		}
	}

	// Graceful shutdown сервера с таймаутом
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
