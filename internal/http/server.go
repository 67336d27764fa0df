package http

import (
	"context"
	"net/http"
	"time"

	"github.com/jmehdipour/pisa-dashboard/internal/config"
	"github.com/jmehdipour/pisa-dashboard/internal/http/middleware"
	"github.com/jmehdipour/pisa-dashboard/internal/logger"
	"github.com/jmehdipour/pisa-dashboard/internal/lookup"
	"github.com/jmehdipour/pisa-dashboard/internal/metrics"
	"github.com/jmehdipour/pisa-dashboard/internal/model"
	"github.com/jmehdipour/pisa-dashboard/internal/service/dashboard"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Catalog answers the two dashboard queries.
type Catalog interface {
	Material(ctx context.Context, name string) (model.Material, error)
	Customer(ctx context.Context, rawID string) (model.Customer, error)
	Stats() lookup.Stats
}

var _ Catalog = (*lookup.Service)(nil)

type Server struct{ e *echo.Echo }

func NewServer(cfg config.Config, catalog Catalog, views *dashboard.Builder, rds *redis.Client) *Server {
	// echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(echoLogLevel(cfg.Log.Level))
	e.Server.ReadTimeout = cfg.HTTP.ReadTimeout
	e.Server.WriteTimeout = cfg.HTTP.WriteTimeout
	e.Renderer = newTemplateRenderer()
	e.Use(echoMid.Recover(), middleware.RequestID(), middleware.RequestLogger(logger.Log))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics.MustRegister(reg)

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// health
	e.GET("/healthz", healthHandler(catalog))

	// page
	e.GET("/", pageHandler(catalog, views))

	// middlewares
	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:          rds,
		RPS:            cfg.RateLimit.RPS,
		KeyPrefix:      "rl:ip:",
		Window:         time.Second,
		RetryAfterHint: true,
	})

	// routes
	v1 := e.Group("/api/v1", rlMW)
	v1.GET("/materials/:name", materialHandler(catalog, views))
	v1.GET("/customers/:id", customerHandler(catalog, views))

	charts := e.Group("/charts", rlMW)
	charts.GET("/materials/:name/transition.svg", transitionSVGHandler(catalog))
	charts.GET("/materials/:name/stationary.svg", stationarySVGHandler(catalog))

	return &Server{e: e}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.e }

func (s *Server) Start(addr string) error {
	logger.Log.Info("http: listening", zap.String("addr", addr))
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }

// echoLogLevel keeps echo's own logger in step with the zap level.
func echoLogLevel(level string) log.Lvl {
	switch logger.ParseLevel(level) {
	case zapcore.DebugLevel:
		return log.DEBUG
	case zapcore.WarnLevel:
		return log.WARN
	case zapcore.ErrorLevel:
		return log.ERROR
	default:
		return log.INFO
	}
}
