package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"catalog-search/config"
	"catalog-search/consumer"
	"catalog-search/logger"
	"catalog-search/metrics"
	"catalog-search/rest"
	"catalog-search/usecase"
	appOtel "catalog-search/utils/otel"
)

// App holds all components of the catalog-search service.
type App struct {
	httpServer      *echo.Echo
	redisConsumer   *consumer.Consumer
	otelShutdown    appOtel.ShutdownFunc
	shutdownTimeout time.Duration
}

// initTelemetry starts the OTel providers and the logger. A provider
// failure disables OTel instead of aborting startup.
func initTelemetry(ctx context.Context) (appOtel.Config, appOtel.ShutdownFunc) {
	otelCfg := appOtel.ConfigFromEnv()
	otelShutdown, err := appOtel.InitProvider(ctx, otelCfg)
	if err != nil {
		fmt.Printf("Failed to initialize OpenTelemetry: %v\n", err)
		otelCfg.Enabled = false
		otelShutdown = func(context.Context) error { return nil }
	}

	logger.InitWithOTel(otelCfg.Enabled)
	return otelCfg, otelShutdown
}

func shutdownTelemetry(otelShutdown appOtel.ShutdownFunc) {
	otelCtx, otelCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer otelCancel()
	if err := otelShutdown(otelCtx); err != nil {
		fmt.Printf("Failed to shutdown OpenTelemetry: %v\n", err)
	}
}

// Run initializes all components and starts the service.
// It blocks until ctx is cancelled, then performs graceful shutdown.
func Run(ctx context.Context) error {
	// ── OpenTelemetry + logger ──
	otelCfg, otelShutdown := initTelemetry(ctx)
	logger.Logger.Info("Starting catalog-search",
		"service", otelCfg.ServiceName,
		"otel_enabled", otelCfg.Enabled,
	)

	// ── Load config ──
	appCfg, err := config.Load()
	if err != nil {
		logger.Logger.Error("Failed to load config", "err", err)
		shutdownTelemetry(otelShutdown)
		return err
	}

	// ── Search engine (driver + gateway) ──
	searchEngine, err := newSearchEngine(appCfg)
	if err != nil {
		logger.Logger.Error("Failed to initialize search engine", "err", err)
		shutdownTelemetry(otelShutdown)
		return err
	}
	if err := waitForEngine(ctx, searchEngine, appCfg.Engine, newConnectBackoff()); err != nil {
		logger.Logger.Error("Failed to connect to search engine", "err", err)
		metrics.SetEngineUp(false)
		shutdownTelemetry(otelShutdown)
		return err
	}
	metrics.SetEngineUp(true)

	if err := ensureIndex(ctx, searchEngine, appCfg); err != nil {
		logger.Logger.Error("Failed to ensure search index", "err", err)
		shutdownTelemetry(otelShutdown)
		return err
	}

	// ── Use cases (application layer) ──
	addProduct := usecase.NewAddProductUsecase(searchEngine)
	searchProducts := usecase.NewSearchProductsUsecase(searchEngine, appCfg.Search.ResultLimit)
	deleteProduct := usecase.NewDeleteProductUsecase(searchEngine)
	checkHealth := usecase.NewCheckHealthUsecase(searchEngine, appCfg.Engine.HealthTimeout)

	// ── Redis Streams Consumer ──
	var redisConsumer *consumer.Consumer
	consumerCfg := consumer.ConfigFromEnv()
	if consumerCfg.Enabled {
		eventHandler := consumer.NewProductEventHandler(addProduct, deleteProduct, logger.Logger)
		redisConsumer, err = consumer.NewConsumer(consumerCfg, eventHandler, logger.Logger)
		if err != nil {
			logger.Logger.Error("Failed to create Redis Streams consumer", "err", err)
		} else if err := redisConsumer.Start(ctx); err != nil {
			logger.Logger.Error("Failed to start Redis Streams consumer", "err", err)
		} else {
			logger.Logger.Info("Redis Streams consumer started",
				"stream", consumerCfg.StreamKey,
				"group", consumerCfg.GroupName,
			)
		}
	} else {
		logger.Logger.Info("Redis Streams consumer disabled")
	}

	// ── HTTP server ──
	handler := rest.NewHandler(addProduct, searchProducts, deleteProduct, checkHealth)
	app := &App{
		httpServer:      newHTTPServer(ctx, appCfg, handler, otelCfg),
		redisConsumer:   redisConsumer,
		otelShutdown:    otelShutdown,
		shutdownTimeout: appCfg.HTTP.ShutdownTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Logger.Info("http listen", "addr", appCfg.HTTP.Addr)
		if err := app.httpServer.Start(appCfg.HTTP.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// ── Wait for shutdown signal ──
	select {
	case <-ctx.Done():
		app.shutdown()
		return nil
	case err := <-serverErr:
		logger.Logger.Error("http", "err", err)
		app.shutdown()
		return err
	}
}

// shutdown performs graceful shutdown of all components.
func (a *App) shutdown() {
	logger.Logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("http shutdown error", "err", err)
	}
	if a.redisConsumer != nil {
		a.redisConsumer.Stop()
	}

	shutdownTelemetry(a.otelShutdown)
	logger.Logger.Info("server exited properly")
}

// EnsureIndex connects to the engine and creates the catalog index if it is
// missing, then returns.
func EnsureIndex(ctx context.Context) error {
	_, otelShutdown := initTelemetry(ctx)
	defer shutdownTelemetry(otelShutdown)

	appCfg, err := config.Load()
	if err != nil {
		return err
	}

	searchEngine, err := newSearchEngine(appCfg)
	if err != nil {
		return err
	}
	if err := waitForEngine(ctx, searchEngine, appCfg.Engine, newConnectBackoff()); err != nil {
		return err
	}
	return ensureIndex(ctx, searchEngine, appCfg)
}

// Healthcheck queries the /health endpoint of a locally running server.
func Healthcheck(ctx context.Context, addr string, timeout time.Duration) error {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL(addr), nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
	}
	return nil
}

// healthURL turns a listen address such as ":3000" into a loopback URL.
func healthURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr + "/health"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port) + "/health"
}
