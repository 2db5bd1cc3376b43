package bootstrap

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/time/rate"

	"catalog-search/config"
	"catalog-search/logger"
	"catalog-search/middleware"
	"catalog-search/rest"
	appOtel "catalog-search/utils/otel"
)

// newHTTPServer creates the echo server for the catalog API. The rate
// limiter's cleanup loop stops with ctx.
func newHTTPServer(ctx context.Context, cfg *config.Config, handler *rest.Handler, otelCfg appOtel.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadHeaderTimeout = cfg.HTTP.ReadHeaderTimeout
	e.Validator = rest.NewRequestValidator()
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler(logger.Logger)

	if otelCfg.Enabled {
		e.Use(otelecho.Middleware(otelCfg.ServiceName))
		e.Use(middleware.OTelStatusMiddleware())
	}

	e.Use(middleware.RequestIDMiddleware())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			ctx := c.Request().Context()
			if v.Error == nil {
				logger.GlobalContext.WithContext(ctx).LogAttrs(ctx, slog.LevelInfo, "request completed",
					slog.String("method", v.Method),
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.Int64("latency_ms", v.Latency.Milliseconds()))
			} else {
				logger.GlobalContext.WithContext(ctx).LogAttrs(ctx, slog.LevelError, "request failed",
					slog.String("method", v.Method),
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.Int64("latency_ms", v.Latency.Milliseconds()),
					slog.String("error", v.Error.Error()))
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(middleware.PrometheusMiddleware())
	e.Use(echomw.BodyLimit(cfg.HTTP.BodyLimit))
	e.Use(echomw.ContextTimeout(cfg.Engine.Timeout))
	e.Use(middleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst).Middleware())

	rest.RegisterRoutes(e, handler)
	return e
}
