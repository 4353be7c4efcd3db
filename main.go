package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/TMS-2025/proposal-service/internal/auth"
	"github.com/TMS-2025/proposal-service/internal/config"
	"github.com/TMS-2025/proposal-service/internal/events"
	"github.com/TMS-2025/proposal-service/internal/handlers"
	"github.com/TMS-2025/proposal-service/internal/mailer"
	"github.com/TMS-2025/proposal-service/internal/ratelimit"
	"github.com/TMS-2025/proposal-service/internal/repositories/postgres"
	"github.com/TMS-2025/proposal-service/internal/services"
	"github.com/TMS-2025/proposal-service/internal/utils"
	"github.com/TMS-2025/proposal-service/internal/validator"
	"github.com/TMS-2025/proposal-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to initialize Redis: %v", err)
		}
	}

	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
	})
	if err := repoManager.Initialize(); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	signer, err := auth.NewTokenSigner(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Fatalf("Failed to initialize token signer: %v", err)
	}

	var sender mailer.Sender
	if cfg.Mailjet.APIKeyPublic != "" {
		sender, err = mailer.NewMailjetSender(cfg.Mailjet)
		if err != nil {
			log.Fatalf("Failed to initialize mailer: %v", err)
		}
	} else {
		logger.Warn("Mailjet keys not configured, password reset emails will be dropped")
		sender = mailer.NoopSender{}
	}

	var publisher events.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = events.NewKafkaEventPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, slogLogger)
		if err != nil {
			log.Fatalf("Failed to initialize event publisher: %v", err)
		}
	}

	serviceManager := services.NewServiceManager(
		repoManager.GetRepository(),
		slogLogger,
		validator.New(),
		services.ServiceManagerConfig{
			Signer:    signer,
			Sender:    sender,
			Publisher: publisher,
			AppURL:    cfg.AppURL,
		},
	)
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	var limiterStore ratelimit.Store
	if cfg.RateLimitUseRedis && redisClient != nil {
		limiterStore = ratelimit.NewRedisStore(redisClient)
	} else {
		limiterStore = ratelimit.NewMemoryStore()
	}

	handlerManager := handlers.NewHandlerManager(serviceManager, signer, limiterStore, cfg, logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := serviceManager.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown services: %v", err)
	}

	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server stopped")
}
