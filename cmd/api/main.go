package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"calculator-widget/internal/calculator"
	"calculator-widget/internal/config"
	"calculator-widget/internal/observability"
	"calculator-widget/internal/server"
	"calculator-widget/internal/session"
)

func main() {

	ctx := context.Background()

	if err := loadDotEnv(); err != nil {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Logger
	err = observability.InitLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Tracing
	traceShutdown, err := observability.InitTracing(ctx)
	if err != nil {
		panic(err)
	}
	defer traceShutdown(ctx)

	// OTLP log export
	logShutdown, err := observability.InitLogging(ctx)
	if err != nil {
		panic(err)
	}
	defer logShutdown(ctx)

	// Metrics
	metricShutdown, err := initMetrics(ctx)
	if err != nil {
		panic(err)
	}
	defer metricShutdown(ctx)

	// Sessions
	store, err := openStore(ctx, cfg)
	if err != nil {
		observability.Logger.Fatal("opening session store", zap.Error(err))
	}
	defer store.Close()

	reapCtx, stopReaper := context.WithCancel(ctx)
	defer stopReaper()
	go session.Reap(reapCtx, store, cfg.SessionTTL, sessionReapInterval)

	if err := observability.RegisterCollectors(session.NewSizeCollector(store)); err != nil {
		observability.Logger.Fatal("registering collectors", zap.Error(err))
	}

	// Router
	handler := calculator.NewHandler(
		store,
		session.NewTokens(cfg.SessionSecret, cfg.SessionTTL),
		calculator.NewFormatter(cfg.Locale),
	)
	router := server.NewRouter(handler)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		observability.Logger.Info("server started",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("session_store", cfg.SessionStore),
			zap.String("locale", cfg.Locale.String()),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(err)
		}
	}()

	waitForShutdown(srv)
}

const sessionReapInterval = time.Minute

func openStore(ctx context.Context, cfg config.Config) (session.Store[calculator.State], error) {
	if cfg.SessionStore == config.StoreSQLite {
		return session.OpenSQLite[calculator.State](ctx, cfg.SessionDBPath)
	}
	return session.NewMemoryStore[calculator.State](), nil
}

func waitForShutdown(srv *http.Server) {

	stop := make(chan os.Signal, 1)

	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		observability.Logger.Error("server shutdown", zap.Error(err))
		return
	}
	observability.Logger.Info("server stopped")
}
