package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/bsm-service/internal/api/http"
	"github.com/spec-kit/bsm-service/internal/api/http/handlers"
	"github.com/spec-kit/bsm-service/internal/auth"
	"github.com/spec-kit/bsm-service/internal/config"
	"github.com/spec-kit/bsm-service/internal/events"
	"github.com/spec-kit/bsm-service/internal/observability"
	"github.com/spec-kit/bsm-service/internal/persistence"
	"github.com/spec-kit/bsm-service/internal/realtime"
	"github.com/spec-kit/bsm-service/internal/repository"
	"github.com/spec-kit/bsm-service/internal/service"
	"github.com/spec-kit/bsm-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)
	accountRepo := repository.NewAccountRepository(pool)
	assetRepo := repository.NewAssetRepository(pool)
	workflowRepo := repository.NewWorkflowRepository(pool)
	targetRepo := repository.NewTargetRepository(pool)
	articleRepo := repository.NewArticleRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewAuthMiddleware(tokens, userRepo, staffRepo)

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:  userRepo,
		StaffRepo: staffRepo,
		Tokens:    tokens,
		Auth:      cfg.Auth,
		Logger:    logger,
	})
	staffService := service.NewStaffService(staffRepo, cfg.Auth, logger)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		AttachmentRepo: attachmentRepo,
		AccountRepo:    accountRepo,
		StaffRepo:      staffRepo,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	accountService := service.NewAccountService(service.AccountDependencies{
		AccountRepo: accountRepo,
		TicketRepo:  ticketRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	assetService := service.NewAssetService(service.AssetDependencies{
		AssetRepo:  assetRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	workflowService := service.NewWorkflowService(service.WorkflowDependencies{
		WorkflowRepo: workflowRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	metricsService := service.NewMetricsService(service.MetricsDependencies{
		TicketRepo: ticketRepo,
		TargetRepo: targetRepo,
		Cache:      redis.Client,
		Stats:      cfg.Stats,
		Logger:     logger,
	})
	articleService := service.NewArticleService(service.ArticleDependencies{
		ArticleRepo: articleRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notify)
	worker.StartNotificationWorker(notificationService)

	var realtimeServer *http.Server
	if cfg.Realtime.Enabled {
		hub := realtime.NewHub(logger)
		realtime.BindDispatcher(hub, dispatcher)
		mux := http.NewServeMux()
		mux.Handle("/ws", hub)
		realtimeServer = &http.Server{Addr: cfg.Realtime.Addr(), Handler: mux}
		go func() {
			logger.Info("realtime listener starting", zap.String("addr", cfg.Realtime.Addr()))
			if err := realtimeServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("realtime listen", zap.Error(err))
			}
		}()
	}

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Staff:          handlers.NewStaffHandler(authService, staffService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Accounts:       handlers.NewAccountsHandler(accountService),
		Assets:         handlers.NewAssetsHandler(assetService),
		Workflows:      handlers.NewWorkflowsHandler(workflowService),
		Metrics:        handlers.NewMetricsHandler(metricsService),
		Articles:       handlers.NewArticlesHandler(articleService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if realtimeServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = realtimeServer.Shutdown(shutdownCtx)
		shutdownCancel()
	}
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
