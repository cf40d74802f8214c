package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dwikikusuma/honey-storefront/internal/mockapi"
	"github.com/dwikikusuma/honey-storefront/pkg/config"
	"github.com/dwikikusuma/honey-storefront/pkg/logger"
	"github.com/dwikikusuma/honey-storefront/pkg/shutdown"
	"github.com/dwikikusuma/honey-storefront/pkg/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	log := logger.New(logger.Options{
		Service:   "mockapi",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	stopTracing, err := telemetry.Setup(telemetry.Options{Enabled: cfg.OTelEnabled, Service: "mockapi"})
	if err != nil {
		log.Error("telemetry setup failed", slog.Any("err", err))
		os.Exit(1)
	}

	root := context.Background()
	ctx, cancel := shutdown.WithSignals(root)
	defer cancel()

	api := mockapi.New(mockapi.WithLogger(log))
	api.Seed()

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           otelhttp.NewHandler(api.Handler(), "mockapi"),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("mock storefront api starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	if err := shutdown.Graceful(10*time.Second, server.Shutdown); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}
	wg.Wait()

	if err := shutdown.Graceful(5*time.Second, stopTracing); err != nil {
		log.Error("telemetry shutdown error", slog.Any("err", err))
	}
	log.Info("bye")
}
