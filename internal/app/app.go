package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/NasaVasa/railtrack/internal/config"
	"github.com/NasaVasa/railtrack/internal/delivery/httpapi"
	"github.com/NasaVasa/railtrack/internal/delivery/telegram"
	"github.com/NasaVasa/railtrack/internal/infra/db"
	"github.com/NasaVasa/railtrack/internal/infra/log"
	"github.com/NasaVasa/railtrack/internal/infra/metrics"
	"github.com/NasaVasa/railtrack/internal/infra/rwby"
	"github.com/NasaVasa/railtrack/internal/stations"
	"github.com/NasaVasa/railtrack/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 10 * time.Second
	// fetchTimeoutMargin covers the request still in flight when the client's retry budget runs out.
	fetchTimeoutMargin = 5 * time.Second
)

type App struct {
	bot       *telegram.Bot
	scheduler *usecase.Scheduler
	cleanup   *usecase.CleanupUsecase
	cron      *cron.Cron
	server    *http.Server
	logger    *zap.Logger
	cleanupFn func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := log.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	loc := cfg.Location()

	dbConn, err := db.Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	closeDB := func() error {
		sqlDB, err := dbConn.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	userRepo := db.NewUserRepository(dbConn)
	routeRepo := db.NewRouteRepository(dbConn)
	trackingRepo := db.NewTrackingRepository(dbConn, logger)
	sessionRepo := db.NewSessionRepository(dbConn)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New("railtrack", registry)

	rwClient := rwby.NewClient(rwby.ClientConfig{
		BaseURL: cfg.RWBYBaseURL,
		Timeout: cfg.RWBYTimeout,
		Retries: cfg.RWBYRetries,
	}, m, logger)

	userUC := usecase.NewUserUsecase(userRepo, sessionRepo, trackingRepo, logger)
	trackingUC := usecase.NewTrackingUsecase(userRepo, routeRepo, trackingRepo, rwClient, cfg.TrackingLimit, m, logger)
	searchUC := usecase.NewSearchUsecase(sessionRepo, routeRepo, rwClient, trackingUC, stations.Default(), loc, logger)
	cleanupUC := usecase.NewCleanupUsecase(routeRepo, loc, logger)

	api, err := telegram.NewAPI(cfg.TelegramBotToken)
	if err != nil {
		_ = closeDB()
		return nil, fmt.Errorf("telegram api: %w", err)
	}

	notifier := telegram.NewNotifier(api, logger)
	scheduler := usecase.NewScheduler(usecase.SchedulerConfig{
		IdleInterval: cfg.SchedulerIdleInterval,
		BatchSize:    cfg.SchedulerBatchSize,
		Workers:      cfg.SchedulerWorkers,
		ErrorBackoff: cfg.SchedulerErrorBackoff,
		FetchTimeout: fetchTimeout(cfg),
		Location:     loc,
	}, trackingRepo, rwClient, notifier, m, logger)

	handlers := telegram.NewHandlers(userUC, searchUC, trackingUC, cleanupUC, cfg.AdminChatID, logger)
	bot := telegram.NewBot(api, handlers, cfg.TelegramPollTimeout, cfg.TelegramWebhookURL, logger)

	routerCfg := httpapi.RouterConfig{Metrics: registry}
	if bot.WebhookEnabled() {
		routerCfg.Token = cfg.TelegramBotToken
		routerCfg.Webhook = http.HandlerFunc(bot.ServeWebhook)
	}
	server := httpapi.NewServer(cfg.HTTPAddr, httpapi.NewRouter(routerCfg, logger))

	sweeps := cron.New(cron.WithLocation(loc), cron.WithLogger(cronLogger{logger: logger.Named("cron")}))
	if _, err := sweeps.AddFunc(cfg.CleanupSchedule, func() {
		if _, err := cleanupUC.Sweep(ctx); err != nil {
			logger.Warn("scheduled cleanup failed", zap.Error(err))
		}
	}); err != nil {
		_ = closeDB()
		return nil, fmt.Errorf("cleanup schedule %q: %w", cfg.CleanupSchedule, err)
	}

	return &App{
		bot:       bot,
		scheduler: scheduler,
		cleanup:   cleanupUC,
		cron:      sweeps,
		server:    server,
		logger:    logger,
		cleanupFn: closeDB,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("railtrack service starting")
	if _, err := a.cleanup.Sweep(ctx); err != nil {
		a.logger.Warn("startup cleanup failed", zap.Error(err))
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("http server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		a.cron.Start()
		<-ctx.Done()
		<-a.cron.Stop().Done()
		return nil
	})
	g.Go(func() error {
		return a.scheduler.Run(ctx)
	})
	g.Go(func() error {
		return a.bot.Start(ctx)
	})

	a.logger.Info("railtrack service started")
	return g.Wait()
}

func (a *App) Shutdown() {
	a.logger.Info("railtrack service shutting down")
	if a.cleanupFn != nil {
		if err := a.cleanupFn(); err != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}

// fetchTimeout bounds one scheduler fetch. The client already caps its retries at RWBYTimeout.
func fetchTimeout(cfg config.Config) time.Duration {
	return cfg.RWBYTimeout + fetchTimeoutMargin
}
