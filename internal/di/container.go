package di

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/config"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/events"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/handler"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/notifier"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/render"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/repository"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/service"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/storage"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/tracking"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/internal/worker"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/pkg/logger"
	"github.com/automan-solutions-poc/challan-maker-enterprise-backend/pkg/middleware"
)

// Container holds all dependencies for the challan service
type Container struct {
	// Infrastructure
	Pool   *pgxpool.Pool
	Redis  *redis.Client
	Events *events.Publisher
	Store  storage.Store

	// Repositories
	ChallanRepo  repository.ChallanRepository
	SettingsRepo repository.SettingsRepository
	OutboxRepo   repository.OutboxRepository

	// Services
	ChallanService  *service.ChallanService
	OTPService      *service.OTPService
	SettingsService *service.SettingsService

	// Dispatch
	Dispatcher     *notifier.Dispatcher
	DispatchWorker *worker.DispatchWorker

	// Handlers
	ChallanHandler  *handler.ChallanHandler
	SettingsHandler *handler.SettingsHandler
	HealthHandler   *handler.HealthHandler

	// Auth
	Blacklist middleware.TokenBlacklist
}

// NewContainer wires the full dependency graph from configuration
func NewContainer(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	publisher, err := events.NewPublisher(cfg.Kafka.Brokers, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect kafka: %w", err)
	}

	c := &Container{
		Pool:   pool,
		Redis:  redisClient,
		Events: publisher,
		Store:  storage.NewLocalStore(cfg.Artifacts.BaseDir),
	}

	c.ChallanRepo = repository.NewPostgresChallanRepository(pool)
	c.SettingsRepo = repository.NewPostgresSettingsRepository(pool)
	c.OutboxRepo = repository.NewPostgresOutboxRepository(pool)

	limiter := service.NewRedisAttemptLimiter(redisClient, cfg.OTP.MaxAttempts, cfg.OTP.Lockout)
	c.OTPService = service.NewOTPService(c.ChallanRepo, limiter, cfg.OTP.DefaultTTL, log)

	trackingBuilder := tracking.NewBuilder(c.Store)
	renderer := render.NewRenderer(c.Store, log)

	c.ChallanService = service.NewChallanService(
		c.ChallanRepo, c.SettingsRepo, c.OutboxRepo,
		c.OTPService, trackingBuilder, renderer,
		c.Store, publisher, log,
	)
	c.SettingsService = service.NewSettingsService(c.SettingsRepo, log)

	resolver := notifier.NewResolver(c.SettingsRepo, cfg.Mail.ToDomain(), log)
	c.Dispatcher = notifier.NewDispatcher(
		resolver, notifier.NewSMTPTransport(), c.Store,
		cfg.Dispatch.MaxAttempts, cfg.Dispatch.RetryDelay, log,
	)
	c.DispatchWorker = worker.NewDispatchWorker(c.OutboxRepo, c.Dispatcher, c.ChallanService, worker.Config{
		Workers:           cfg.Dispatch.Workers,
		PollInterval:      cfg.Dispatch.PollInterval,
		BatchSize:         cfg.Dispatch.BatchSize,
		VisibilityTimeout: cfg.Dispatch.VisibilityTimeout,
	}, log)

	c.ChallanHandler = handler.NewChallanHandler(c.ChallanService)
	c.SettingsHandler = handler.NewSettingsHandler(c.SettingsService)
	c.HealthHandler = handler.NewHealthHandler(pool, redisClient)

	c.Blacklist = middleware.NewRedisTokenBlacklist(redisClient)

	return c, nil
}

// Close releases every held connection
func (c *Container) Close() {
	if c.DispatchWorker != nil {
		c.DispatchWorker.Stop()
	}
	c.Events.Close()
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
}
