package app

import (
	"github.com/dmehra2102/todo-api/internal/infrastructure/config"
	"github.com/dmehra2102/todo-api/internal/middleware"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.uber.org/zap"
)

const (
	ServiceName    = "todo-api"
	ServiceVersion = "1.0.0"

	maxBodySize = "1M"
)

// NewEcho builds the HTTP router with the full middleware chain. metrics may
// be nil when metrics are disabled.
func NewEcho(cfg config.ServerConfig, h *TodoHandler, logger *zap.Logger, metrics *middleware.Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = HTTPErrorHandler(logger)

	e.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
		otelecho.Middleware(ServiceName, otelecho.WithSkipper(func(c echo.Context) bool {
			return c.Path() == "/healthz"
		})),
		middleware.Logging(logger),
	)

	if metrics != nil {
		e.Use(metrics.Middleware())
	}

	e.Use(
		echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins: cfg.CORSAllowedOrigins,
		}),
		echomw.BodyLimit(maxBodySize),
	)

	if cfg.RequestTimeout > 0 {
		e.Use(echomw.ContextTimeoutWithConfig(echomw.ContextTimeoutConfig{
			Timeout: cfg.RequestTimeout,
		}))
	}

	h.Register(e)
	return e
}
