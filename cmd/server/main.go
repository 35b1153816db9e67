package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/eskildht/inginious/internal/auth"
	"github.com/eskildht/inginious/internal/cache"
	"github.com/eskildht/inginious/internal/config"
	"github.com/eskildht/inginious/internal/events"
	"github.com/eskildht/inginious/internal/handlers"
	"github.com/eskildht/inginious/internal/repositories/postgres"
	"github.com/eskildht/inginious/internal/services"
	"github.com/eskildht/inginious/internal/utils"
	"github.com/eskildht/inginious/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
		gin.SetMode(gin.ReleaseMode)
	} else {
		logger = utils.NewDevelopmentLogger()
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Error("Failed to initialize Redis", "error", err)
		return
	}
	defer redisClient.Close()

	cacheService := cache.NewRedisCache(redisClient, logger.Slog())
	repo := postgres.NewRepository(db)

	publisher, err := events.NewKafkaJobPublisher(events.PublisherConfig{
		KafkaBrokers: cfg.GetKafkaBrokers(),
		Topic:        cfg.GradingJobTopic,
		Logger:       logger.Slog(),
	})
	if err != nil {
		logger.Error("Failed to create grading job publisher", "error", err)
		return
	}
	defer publisher.Close()

	limits := services.SubmissionLimits{
		DefaultAllowedExtensions: cfg.GetAllowedExtensions(),
		DefaultMaxFileSize:       cfg.DefaultMaxFileSize,
	}
	serviceManager := services.NewServiceManager(repo, cacheService, publisher, limits, logger.Slog())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer, err := events.NewGradingVerdictConsumer(events.ConsumerConfig{
		KafkaBrokers:  cfg.GetKafkaBrokers(),
		Topic:         cfg.VerdictTopic,
		ConsumerGroup: cfg.VerdictGroup,
		Logger:        logger.Slog(),
		Handler:       serviceManager.Submission().HandleGradingVerdict,
	})
	if err != nil {
		logger.Error("Failed to create grading verdict consumer", "error", err)
		return
	}
	defer consumer.Close()

	go func() {
		if err := consumer.Run(ctx); err != nil {
			logger.Error("Grading verdict consumer stopped", "error", err)
			stop()
		}
	}()

	authenticator := auth.NewAuthenticator(auth.CasdoorConfig{
		Endpoint:     cfg.CasdoorEndpoint,
		ClientID:     cfg.CasdoorClientID,
		ClientSecret: cfg.CasdoorClientSecret,
		Certificate:  cfg.CasdoorCertificate,
		Organization: cfg.CasdoorOrganization,
		Application:  cfg.CasdoorApplication,
	}, logger)

	validator := utils.NewValidator()
	handlerManager := handlers.NewHandlerManager(serviceManager, validator, logger)

	router := gin.Default()
	handlerManager.SetupRoutes(router, authenticator.Middleware())

	logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Error("Server stopped", "error", err)
	}
}
