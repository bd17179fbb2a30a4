package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fadilmartias/grant-portal/internal/auth"
	"github.com/fadilmartias/grant-portal/internal/bootstrap"
	"github.com/fadilmartias/grant-portal/internal/config"
	"github.com/fadilmartias/grant-portal/internal/domain/fiber/router"
	"github.com/fadilmartias/grant-portal/internal/logger"
	"github.com/fadilmartias/grant-portal/internal/metrics"
	"github.com/fadilmartias/grant-portal/internal/usecase"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()
	zl, err := logger.New(appConfig)
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()

	if _, err := maxprocs.Set(maxprocs.Logger(zl.Sugar().Infof)); err != nil {
		zl.Fatal("failed to set GOMAXPROCS", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	backend, err := bootstrap.Open(bootstrap.LoadConfigs(), zl, m)
	if err != nil {
		zl.Fatal("failed to open backend", zap.Error(err))
	}
	defer backend.Close()

	tokens := auth.NewTokenManager(config.LoadJWTConfig())
	scores, err := usecase.NewScoreUsecase(backend.Portal, nil, m, zl)
	if err != nil {
		zl.Fatal("invalid scoring criteria", zap.Error(err))
	}
	app := router.New(router.Deps{
		AppConfig:    appConfig,
		Tokens:       tokens,
		Metrics:      m,
		Gatherer:     reg,
		Logger:       zl,
		Auth:         usecase.NewAuthUsecase(backend.Portal, tokens, zl),
		Applications: usecase.NewApplicationUsecase(backend.Portal, m, zl),
		Scores:       scores,
		Admin:        usecase.NewAdminUsecase(backend.Portal, zl),
	})

	// Monitor goroutine count
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			zl.Debug("runtime stats", zap.Int("goroutines", runtime.NumGoroutine()))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		zl.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zl.Error("shutdown failed", zap.Error(err))
		}
	}()

	zl.Info("server running",
		zap.String("port", appConfig.Port),
		zap.String("backend", backend.Name),
	)
	if err := app.Listen(appConfig.Port); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
