package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"dealflow.app/hub/common/id"
	"dealflow.app/hub/common/logger"
	"dealflow.app/hub/common/otel"
	"dealflow.app/hub/core/config"
	"dealflow.app/hub/internal/http/middleware"
	httprouter "dealflow.app/hub/internal/http/router"
	"dealflow.app/hub/internal/hub"
	"dealflow.app/hub/internal/service"
	"dealflow.app/hub/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		// Can't use slog yet, OTel failed before logger setup
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "hub starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	redisClient, err := store.NewClient(ctx, cfg.Redis.URL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "redis connected")

	stores := store.NewStores(redisClient)
	defer stores.Close()

	services := service.NewServices(stores, cfg)

	registry := hub.NewRegistry()
	notifier := hub.NewNotifier(registry, stores.Notifications())
	collab := hub.New(registry, notifier, services.Workspaces(), services.Deals(), services.Voting())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services, collab, stores)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// No ReadTimeout/WriteTimeout: WebSocket sessions outlive any
		// sane request deadline. The hub enforces its own idle timeout.
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services, collab *hub.Hub, stores *store.Stores) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services, collab, stores, httprouter.RouterConfig{
		IdleTimeout:  cfg.Hub.IdleTimeout,
		PingInterval: cfg.Hub.PingInterval,
	})

	return router
}

const banner = `
██████╗ ███████╗ █████╗ ██╗     ███████╗██╗      ██████╗ ██╗    ██╗    ██╗  ██╗██╗   ██╗██████╗
██╔══██╗██╔════╝██╔══██╗██║     ██╔════╝██║     ██╔═══██╗██║    ██║    ██║  ██║██║   ██║██╔══██╗
██║  ██║█████╗  ███████║██║     █████╗  ██║     ██║   ██║██║ █╗ ██║    ███████║██║   ██║██████╔╝
██║  ██║██╔══╝  ██╔══██║██║     ██╔══╝  ██║     ██║   ██║██║███╗██║    ██╔══██║██║   ██║██╔══██╗
██████╔╝███████╗██║  ██║███████╗██║     ███████╗╚██████╔╝╚███╔███╔╝    ██║  ██║╚██████╔╝██████╔╝
╚═════╝ ╚══════╝╚═╝  ╚═╝╚══════╝╚═╝     ╚══════╝ ╚═════╝  ╚══╝╚══╝     ╚═╝  ╚═╝ ╚═════╝ ╚═════╝
`
