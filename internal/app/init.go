package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	server "github.com/kimblewick/MiraAI/internal/adapters/primary/http"
	chatController "github.com/kimblewick/MiraAI/internal/adapters/primary/http/controllers/chat"
	conversationsController "github.com/kimblewick/MiraAI/internal/adapters/primary/http/controllers/conversations"
	healthcheckController "github.com/kimblewick/MiraAI/internal/adapters/primary/http/controllers/healthcheck"
	profileController "github.com/kimblewick/MiraAI/internal/adapters/primary/http/controllers/profile"
	"github.com/kimblewick/MiraAI/internal/adapters/primary/http/middlewares"
	astroApiAdapter "github.com/kimblewick/MiraAI/internal/adapters/secondary/astroApi"
	kafkaAdapter "github.com/kimblewick/MiraAI/internal/adapters/secondary/kafka"
	llmAdapter "github.com/kimblewick/MiraAI/internal/adapters/secondary/llm"
	"github.com/kimblewick/MiraAI/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/kimblewick/MiraAI/internal/adapters/secondary/storage/redis"
	s3Adapter "github.com/kimblewick/MiraAI/internal/adapters/secondary/storage/s3"
	"github.com/kimblewick/MiraAI/internal/ports/cache"
	"github.com/kimblewick/MiraAI/internal/ports/events"
	conversationRepo "github.com/kimblewick/MiraAI/internal/repository/conversation"
	profileRepo "github.com/kimblewick/MiraAI/internal/repository/profile"
	astroService "github.com/kimblewick/MiraAI/internal/services/astroApi"
	"github.com/kimblewick/MiraAI/internal/services/jobs"
	llmService "github.com/kimblewick/MiraAI/internal/services/llm"
	chatUsecase "github.com/kimblewick/MiraAI/internal/usecases/chat"
	profileUsecase "github.com/kimblewick/MiraAI/internal/usecases/profile"
)

// Dependencies собранные зависимости приложения
type Dependencies struct {
	DB         *sqlx.DB
	HTTPServer *http.Server
	Cache      cache.Cache
	Producer   *kafkaAdapter.Producer
	Scheduler  *jobs.Scheduler
}

// initDependencies инициализирует все зависимости приложения
func (a *App) initDependencies(_ context.Context) (*Dependencies, error) {
	// Postgres + миграции
	sqlDB, err := a.initPostgres()
	if err != nil {
		return nil, err
	}
	db := pg.NewDB(sqlDB)

	// Репозитории
	profiles := profileRepo.New(db, a.Log)
	conversations := conversationRepo.New(db, a.Log)

	// Redis - кэш натальных карт
	redisConn, err := a.Cfg.Redis.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	cacheClient := redisAdapter.NewClient(redisConn)
	a.Log.Info("redis connected successfully")

	// S3 - артефакты карт (SVG)
	minioClient, err := a.Cfg.S3.NewClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}
	s3Client := s3Adapter.NewClient(minioClient, a.Cfg.S3.Bucket, a.Log)
	a.Log.Info("s3 client created", "bucket", a.Cfg.S3.Bucket)

	// Внешние сервисы: астро-API и генеративная модель
	astro := astroService.New(astroApiAdapter.NewClient(a.Cfg.AstroAPI, a.Log), a.Log)
	llm := llmService.New(llmAdapter.NewClient(a.Cfg.LLM, a.Log), a.Log)

	// Kafka producer (опционально: без брокеров события не публикуются)
	var producer *kafkaAdapter.Producer
	var eventProducer events.IEventProducer
	if a.Cfg.Kafka != nil && a.Cfg.Kafka.Brokers != "" {
		producer, err = kafkaAdapter.NewProducer(a.Cfg.Kafka, a.Log)
		if err != nil {
			return nil, fmt.Errorf("failed to create kafka producer: %w", err)
		}
		eventProducer = producer
	} else {
		a.Log.Warn("kafka brokers not configured, turn events disabled")
	}

	// Usecases
	chatService := chatUsecase.New(
		profiles,
		conversations,
		cacheClient,
		astro,
		llm,
		s3Client,
		eventProducer,
		a.Cfg.Chat,
		a.Log,
	)
	profileService := profileUsecase.New(profiles, a.Log)

	// HTTP
	auth := middlewares.Auth(a.Cfg.Auth, a.Log)

	globalMiddlewares := []gin.HandlerFunc{
		middlewares.RecoveryLogger(a.Log),
	}
	if a.Cfg.Server.EnableLoggingMiddleware {
		globalMiddlewares = append(globalMiddlewares, middlewares.RequestLogger(a.Log))
	}

	httpServer := server.NewHTTPServer(
		a.Cfg.Server,
		a.Log,
		globalMiddlewares,
		chatController.New(chatService, auth, a.Log),
		conversationsController.New(chatService, auth, a.Log),
		profileController.New(profileService, auth, a.Log),
		healthcheckController.New(sqlDB, a.Log),
	)

	// Фоновые джобы
	scheduler := jobs.NewScheduler(a.Log)
	scheduler.Register(jobs.NewRetentionReaper(conversations, a.Log))

	return &Dependencies{
		DB:         sqlDB,
		HTTPServer: httpServer,
		Cache:      cacheClient,
		Producer:   producer,
		Scheduler:  scheduler,
	}, nil
}
