// Command locatordemo serves tenant-scoped services resolved through a
// locator. Switching the tenant session deactivates the previous tenant's
// services and reactivates or builds the new tenant's.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/locator/config"
	"github.com/kbukum/locator/logger"
	"github.com/kbukum/locator/observability"
)

const serviceName = "locatordemo"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(serviceName)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Logging)
	logger.RegisterDefaults()
	log := logger.GetGlobalLogger().WithComponent("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := initTelemetry(ctx, cfg)
	if err != nil {
		return err
	}
	defer shutdownTelemetry()

	a, err := newApp(cfg, logger.GetGlobalLogger())
	if err != nil {
		return err
	}
	defer a.Close()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              cfg.Demo.Addr,
		Handler:           a.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", logger.Fields("addr", cfg.Demo.Addr, "locking", cfg.Locator.Locking))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// initTelemetry installs the OTLP meter and tracer providers when enabled.
// The returned function flushes and stops them.
func initTelemetry(ctx context.Context, cfg *config.Config) (func(), error) {
	if !cfg.Observability.Enabled {
		return func() {}, nil
	}
	oc := cfg.Observability

	mc := observability.DefaultMeterConfig(cfg.Name)
	mc.ServiceVersion, mc.Environment = cfg.Version, cfg.Environment
	mc.Endpoint, mc.Insecure, mc.Interval = oc.Endpoint, oc.Insecure, oc.ExportInterval
	mp, err := observability.InitMeter(ctx, mc)
	if err != nil {
		return nil, fmt.Errorf("init meter: %w", err)
	}

	tc := observability.DefaultTracerConfig(cfg.Name)
	tc.ServiceVersion, tc.Environment = cfg.Version, cfg.Environment
	tc.Endpoint, tc.Insecure, tc.SampleRate = oc.Endpoint, oc.Insecure, oc.SampleRate
	tp, err := observability.InitTracer(ctx, tc)
	if err != nil {
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
	}, nil
}
