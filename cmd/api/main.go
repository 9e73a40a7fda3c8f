package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	httptransport "github.com/clubhouse/club-cms/internal/api/http"
	"github.com/clubhouse/club-cms/internal/api/http/handlers"
	"github.com/clubhouse/club-cms/internal/auth"
	"github.com/clubhouse/club-cms/internal/config"
	"github.com/clubhouse/club-cms/internal/events"
	"github.com/clubhouse/club-cms/internal/media"
	"github.com/clubhouse/club-cms/internal/observability"
	"github.com/clubhouse/club-cms/internal/persistence"
	"github.com/clubhouse/club-cms/internal/repository"
	"github.com/clubhouse/club-cms/internal/service"
	"github.com/clubhouse/club-cms/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	mongoStore, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Fatal("failed to connect mongo", zap.Error(err))
	}
	defer mongoStore.Close(context.Background())
	mongoStore.EnsureIndexes(ctx, logger)

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var userRepo repository.AdminUserRepository
	if pg.Enabled() {
		userRepo = repository.NewPostgresAdminUserRepository(pg.PoolHandle())
	} else {
		userRepo = repository.NewMongoAdminUserRepository(mongoStore.DB)
	}

	uploader := media.Disabled()
	if cfg.Media.Enabled() {
		store, err := media.NewObjectStore(ctx, cfg.Media)
		if err != nil {
			logger.Fatal("failed to init object store", zap.Error(err))
		}
		uploader = store
	} else {
		logger.Warn("media storage not configured; image uploads are disabled")
	}
	uploader = media.WithMetrics(uploader, metrics)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartActivityWorker(service.NewActivityService(dispatcher, uploader, metrics, logger))

	content := service.ContentDependencies{
		Uploader:   uploader,
		Folders:    media.FoldersFor(cfg.Media.FolderPrefix),
		Dispatcher: dispatcher,
		Logger:     logger,
	}
	newsService := service.NewNewsService(repository.NewNewsRepository(mongoStore.DB), content)
	matchService := service.NewMatchService(repository.NewMatchRepository(mongoStore.DB), content)
	playerService := service.NewPlayerService(repository.NewPlayerRepository(mongoStore.DB), content)
	tableService := service.NewTableService(repository.NewTableRepository(mongoStore.DB), content)

	var limiter service.LoginLimiter
	if redis.Enabled() {
		limiter = service.NewRedisLoginLimiter(redis.Client, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginLockout())
	}
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Limiter:    limiter,
		Metrics:    metrics,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	authMiddleware := auth.NewMiddleware(authService.TokenManager(), cfg.Auth.CookieName)

	readiness := map[string]handlers.Pinger{"mongo": mongoStore}
	if pg.Enabled() {
		readiness["postgres"] = pg
	}
	if redis.Enabled() {
		readiness["redis"] = redis
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.App.BodyLimitBytes,
		ErrorHandler: httptransport.ErrorHandler(logger),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, readiness),
		News:    handlers.NewNewsHandler(newsService),
		Matches: handlers.NewMatchesHandler(matchService),
		Players: handlers.NewPlayersHandler(playerService),
		Table:   handlers.NewTableHandler(tableService),
		Users: handlers.NewUsersHandler(authService, handlers.CookieConfig{
			Name:       cfg.Auth.CookieName,
			Production: cfg.App.IsProduction(),
		}),
		AuthMiddleware: authMiddleware,
		Gatherer:       registry,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
