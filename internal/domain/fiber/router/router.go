// Package router assembles the portal's Fiber application.
package router

import (
	"time"

	"github.com/fadilmartias/grant-portal/internal/auth"
	"github.com/fadilmartias/grant-portal/internal/config"
	"github.com/fadilmartias/grant-portal/internal/domain/fiber/handler"
	"github.com/fadilmartias/grant-portal/internal/metrics"
	"github.com/fadilmartias/grant-portal/internal/middleware"
	"github.com/fadilmartias/grant-portal/internal/usecase"
	"github.com/fadilmartias/grant-portal/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Deps struct {
	AppConfig *config.AppConfig
	Tokens    *auth.TokenManager
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	Logger    *zap.Logger

	Auth         *usecase.AuthUsecase
	Applications *usecase.ApplicationUsecase
	Scores       *usecase.ScoreUsecase
	Admin        *usecase.AdminUsecase

	// RateLimit is the global per-client request budget per minute. Zero
	// uses the default and a negative value disables the limiter.
	RateLimit int
}

func New(d Deps) *fiber.App {
	production := d.AppConfig.IsProduction()

	app := fiber.New(fiber.Config{
		AppName: d.AppConfig.Name,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := util.StatusFromError(err)
			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}
			return util.ErrorResponse(ctx, util.ErrorResponseFormat{Code: code, Message: message}, err)
		},
	})

	app.Use(fiberlogger.New(fiberlogger.Config{
		Output: zap.NewStdLog(d.Logger.Named("http")).Writer(),
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !production,
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return production
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	if d.RateLimit >= 0 {
		app.Use(middleware.RateLimiter(d.RateLimit, 1*time.Minute))
	}
	if d.Metrics != nil {
		app.Use(middleware.Metrics(d.Metrics))
	}

	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	authHandler := handler.NewAuthHandler(d.Auth, production)
	applicationHandler := handler.NewApplicationHandler(d.Applications)
	scoreHandler := handler.NewScoreHandler(d.Scores)
	userHandler := handler.NewUserHandler(d.Admin)

	api := app.Group("/api")
	authHandler.RegisterRoutes(api)
	scoreHandler.RegisterPublicRoutes(api)
	userHandler.RegisterPublicRoutes(api)

	// Registered after the public routes: every later /api route needs a
	// session.
	protected := api.Group("", middleware.Authenticate(d.Tokens))
	applicationHandler.RegisterRoutes(protected)
	scoreHandler.RegisterRoutes(protected)
	userHandler.RegisterRoutes(protected)

	return app
}
