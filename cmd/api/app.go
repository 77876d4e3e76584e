package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/habittrack/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/habittrack/internal/adapters/handler/http"
	"github.com/comitanigiacomo/habittrack/internal/adapters/repository"
	"github.com/comitanigiacomo/habittrack/internal/config"
	"github.com/comitanigiacomo/habittrack/internal/core/domain"
	"github.com/comitanigiacomo/habittrack/internal/core/services"
	"github.com/comitanigiacomo/habittrack/internal/core/workers"
)

// app holds every wired component. Nil fields mean the backing service is
// not configured.
type app struct {
	cfg    *config.Config
	logger *zap.Logger

	db    *sqlx.DB
	redis *redis.Client

	feed   domain.ChangeFeed
	worker *workers.AnalyticsWorker

	auth      *services.AuthService
	tokens    *services.TokenService
	habits    *services.HabitService
	logs      *services.LogService
	profiles  *services.ProfileService
	analytics *services.AnalyticsService
}

func buildApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	var (
		habitRepo   domain.HabitRepository
		logRepo     domain.HabitLogRepository
		profileRepo domain.ProfileRepository
		userRepo    domain.UserRepository
	)

	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		logs := repository.NewInMemoryHabitLogRepository()
		habitRepo = repository.NewInMemoryHabitRepository(logs)
		logRepo = logs
		profileRepo = repository.NewInMemoryProfileRepository()
		userRepo = repository.NewInMemoryUserRepository()

	default:
		logger.Info("connecting to database", zap.String("host", cfg.DBHost), zap.String("name", cfg.DBName))
		db, err := repository.Connect(ctx, cfg.DatabaseDSN())
		if err != nil {
			return nil, err
		}
		a.db = db
		habitRepo = repository.NewPostgresHabitRepository(db)
		logRepo = repository.NewPostgresHabitLogRepository(db)
		profileRepo = repository.NewPostgresProfileRepository(db)
		userRepo = repository.NewPostgresUserRepository(db)
	}

	var summaries domain.SummaryCache
	if cfg.RedisEnabled() {
		rdb, err := cache.NewRedisClient(ctx, cache.Options{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redis = rdb
		habitRepo = repository.NewCachedHabitRepository(habitRepo, rdb, logger)
		summaries = cache.NewRedisSummaryCache(rdb, cfg.SummaryTTL)
		a.feed = cache.NewRedisChangeFeed(rdb, logger)
	}

	// The analytics service only reads profiles, so it gets a reader that
	// never enqueues; this breaks the worker -> analytics -> profiles cycle.
	profileReader := services.NewProfileService(profileRepo, cfg.DefaultTimezone, nil)
	a.analytics = services.NewAnalyticsService(habitRepo, logRepo, profileReader, summaries, logger)

	var queue services.RefreshQueue
	if summaries != nil {
		a.worker = workers.NewAnalyticsWorker(a.analytics, summaries, a.feed, logger)
		queue = a.worker
	}

	a.auth = services.NewAuthService(userRepo)
	a.tokens = services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL, userRepo)
	a.habits = services.NewHabitService(habitRepo, queue)
	a.logs = services.NewLogService(logRepo, habitRepo, queue)
	a.profiles = services.NewProfileService(profileRepo, cfg.DefaultTimezone, queue)

	return a, nil
}

func (a *app) router(startTime time.Time) *gin.Engine {
	deps := adapterHTTP.RouterDependencies{
		AuthHandler:      adapterHTTP.NewAuthHandler(a.auth, a.tokens),
		HabitHandler:     adapterHTTP.NewHabitHandler(a.habits),
		LogHandler:       adapterHTTP.NewLogHandler(a.logs),
		AnalyticsHandler: adapterHTTP.NewAnalyticsHandler(a.analytics),
		ProfileHandler:   adapterHTTP.NewProfileHandler(a.profiles),
		Tokens:           a.tokens,
		Redis:            a.redis,
		Logger:           a.logger,
		StartTime:        startTime,
		AllowedOrigins:   a.cfg.AllowedOrigins,
		RateLimit:        a.cfg.RateLimit,
		RateWindow:       a.cfg.RateWindow,
	}
	if a.db != nil {
		deps.DB = a.db
	}
	if a.feed != nil {
		deps.EventsHandler = adapterHTTP.NewEventsHandler(a.feed, a.logger)
	}
	return adapterHTTP.NewRouter(deps)
}

func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("closing redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("closing database", zap.Error(err))
		}
	}
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.IsDevelopment() {
		zcfg = zap.NewDevelopmentConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
		}
		zcfg.Level = level
	}

	return zcfg.Build()
}
