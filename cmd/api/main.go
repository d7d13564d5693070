package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go-chi-calculator/internal/calcapi"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/display"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/server"
	"go-chi-calculator/internal/session"
	"go-chi-calculator/internal/web"

	"go.uber.org/zap"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := loadDotEnv(".env.local", ".env"); err != nil {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Logger
	if err := observability.InitLogger(); err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	shutdown, err := initTelemetry(ctx, cfg)
	if err != nil {
		observability.Logger.Fatal("initializing telemetry", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			observability.Logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	presenter, err := display.New(cfg.Locale)
	if err != nil {
		observability.Logger.Fatal("invalid locale", zap.Error(err))
	}

	site, err := web.Open(cfg.StaticDir)
	if err != nil {
		observability.Logger.Fatal("opening static site", zap.Error(err))
	}

	store := session.NewStore(
		session.WithHistoryCapacity(cfg.HistoryCapacity),
		session.WithMaxIdle(cfg.SessionMaxIdle),
	)
	if err := observability.RegisterCollectors(store.Collector()); err != nil {
		observability.Logger.Fatal("registering collectors", zap.Error(err))
	}
	go store.Run(ctx, cfg.SessionSweepEvery, func(removed int) {
		if removed == 0 {
			return
		}
		calcapi.RecordExpired(ctx, removed)
		observability.Logger.Info("expired idle sessions", zap.Int("removed", removed))
	})

	// Router
	router := server.NewRouter(calcapi.NewHandler(store, presenter), site)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		observability.Logger.Info("server started",
			zap.String("addr", cfg.Addr),
			zap.String("locale", presenter.Locale()),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Logger.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	waitForShutdown(ctx, srv, cfg.ShutdownGracePeriod)
}

func waitForShutdown(ctx context.Context, srv *http.Server, grace time.Duration) {

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		observability.Logger.Warn("server shutdown", zap.Error(err))
	}
	observability.Logger.Info("server stopped")
}
