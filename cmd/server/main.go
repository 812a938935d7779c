package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bankid/internal/claims/client"
	claimshandler "bankid/internal/claims/handler"
	claimsmetrics "bankid/internal/claims/metrics"
	"bankid/internal/claims/service"
	"bankid/internal/platform/config"
	"bankid/internal/platform/httpserver"
	"bankid/internal/platform/logger"
	"bankid/internal/platform/metrics"
	"bankid/pkg/platform/httputil"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/claims.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		logger.New("error").Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	fetcher := client.NewHTTPFetcher(&http.Client{Timeout: cfg.Provider.FetchTimeout})
	provider := client.New(cfg.Provider.BaseURL, fetcher)
	claims := service.New(provider,
		service.WithLogger(log),
		service.WithMetrics(claimsmetrics.New(reg)),
		service.WithFetchTimeout(cfg.Provider.FetchTimeout),
	)

	// Bundles fetch two documents concurrently, so one fetch timeout plus slack covers a request.
	requestTimeout := cfg.Provider.FetchTimeout + 5*time.Second

	router := chi.NewRouter()
	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		_ = httputil.WriteJSON(w, http.StatusOK, map[string]string{
			"status":   "ok",
			"provider": string(claims.ProviderState()),
		})
	})
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	claimshandler.New(claims, log, metrics.New(reg), requestTimeout).Register(router)

	srv := httpserver.New(cfg.Addr, router, requestTimeout+5*time.Second)

	log.Info("starting claims gateway",
		"addr", cfg.Addr,
		"provider", cfg.Provider.BaseURL,
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("claims gateway stopped")
}
