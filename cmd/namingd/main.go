// Package main runs the product naming service: an HTTP front for a local
// language model that invents product names per category.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	appnaming "github.com/ch4444rlie/SyntheticAmazonOrder/internal/application/naming"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/infrastructure/config"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/infrastructure/llm"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/infrastructure/logger"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/infrastructure/metrics"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/infrastructure/telemetry"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/interfaces/http/handler"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/interfaces/http/middleware"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Version information (populated at build time)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

const serviceName = "namingd"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(serviceName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to the TOML configuration file")
	port := fs.String("port", "", "Listen port (default 8000)")
	showVersion := fs.Bool("version", false, "Show version information")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *showVersion {
		fmt.Fprintf(stdout, "%s version %s\n  Build time: %s\n  Git commit: %s\n", serviceName, version, buildTime, gitCommit)
		return 0
	}

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading configuration: %v\n", err)
		return 1
	}
	if *port != "" {
		cfg.HTTP.Port = *port
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: cfg.Log.TimeFormat,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error initializing logger: %v\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if err := serve(ctx, cfg, log); err != nil {
		log.Error("naming service stopped", zap.Error(err))
		return 1
	}
	return 0
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	log.Info("Starting naming service",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.HTTP.Port),
		zap.String("model", cfg.LLM.Model),
		zap.String("llm_host", cfg.LLM.Host),
	)

	tracerCfg := cfg.Telemetry.TracerConfig(version)
	tracerCfg.ServiceName = serviceName
	tp, err := telemetry.NewTracerProvider(ctx, tracerCfg, log)
	if err != nil {
		return err
	}
	defer func() {
		_ = tp.Shutdown(context.Background())
	}()

	completer, err := llm.NewOllamaClient(cfg.LLM.OllamaConfig(), log)
	if err != nil {
		return err
	}
	service := appnaming.NewService(completer, cfg.LLM.Timeout, log)

	engine := newEngine(cfg, log, service, tp.IsEnabled())

	ln, err := net.Listen("tcp", ":"+cfg.HTTP.Port)
	if err != nil {
		return fmt.Errorf("listen on port %s: %w", cfg.HTTP.Port, err)
	}
	return runServer(ctx, cfg.HTTP, engine, ln, log)
}

// newEngine wires handlers and middleware. Metrics are served on the same
// port when enabled.
func newEngine(cfg *config.Config, log *zap.Logger, generator handler.ProductGenerator, tracing bool) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engineCfg := router.EngineConfig{
		Logger:      log,
		Tracing:     middleware.TracingConfig{ServiceName: serviceName, Enabled: tracing},
		MaxBodySize: cfg.HTTP.MaxBodySize,
	}
	if cfg.Metrics.Enabled {
		exporter := metrics.NewExporter(cfg.Metrics.Path, true)
		engineCfg.Metrics = metrics.NewHTTPMetrics(exporter.Registry()).Middleware()
		engineCfg.MetricsHandler = exporter.Handler()
		engineCfg.MetricsPath = exporter.Path()
	}

	engine := router.NewEngine(engineCfg)
	router.NewRouter(engine).
		Register(handler.NewNamingHandler(generator)).
		Register(handler.NewHealthHandler(version, cfg.LLM.Model)).
		Setup()
	return engine
}

// runServer serves on ln until ctx is cancelled, then drains in-flight
// requests for at most cfg.ShutdownTimeout.
func runServer(ctx context.Context, cfg config.HTTPConfig, h http.Handler, ln net.Listener, log *zap.Logger) error {
	srv := &http.Server{
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("Server exited gracefully")
	return nil
}
