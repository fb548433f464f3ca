package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"photo-manager/internal/database"
	"photo-manager/internal/handlers"
	"photo-manager/internal/logging"
	"photo-manager/internal/media"
	"photo-manager/internal/metrics"
	"photo-manager/internal/middleware"
	"photo-manager/internal/startup"
	"photo-manager/internal/sweeper"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	metrics.InitializeMetrics()
	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)

	// Initialize database
	dbStart := time.Now()
	db, err := database.New(context.Background(), config.DatabasePath)
	if err != nil {
		startup.LogFatal("Failed to initialize database: %v", err)
	}
	defer db.Close()
	startup.LogDatabaseInit(time.Since(dbStart))

	// Initialize image pipeline
	if err := media.InitVips(); err != nil {
		logging.Warn("libvips unavailable, falling back to pure-Go decoding: %v", err)
	}
	defer media.ShutdownVips()

	var thumbs *media.Generator
	if config.ThumbnailsEnabled {
		thumbs, err = media.NewGenerator(config.ThumbnailDir)
		if err != nil {
			logging.Warn("Thumbnail generator disabled: %v", err)
			config.ThumbnailsEnabled = false
		}
	}
	startup.LogThumbnailInit(config.ThumbnailsEnabled)

	// Initialize sweeper
	startup.LogSweeperInit(config.SweepInterval)
	sw := sweeper.New(db, config.SweepInterval)
	sw.Start()
	startup.LogSweeperStarted()

	// Periodic stats collection for the metrics endpoint
	collector := metrics.NewCollector(db, time.Minute)
	if config.MetricsEnabled {
		collector.Start()
	}

	// Initialize handlers and router
	h := handlers.New(db, thumbs, config)
	router := handlers.NewRouter(h)

	// Log routes dynamically
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	// Apply middleware: metrics innermost, then logging, then compression
	metricsConfig := middleware.DefaultMetricsConfig()
	handler := middleware.Metrics(metricsConfig)(router)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler = middleware.Logger(loggingConfig)(handler)

	compressionConfig := middleware.DefaultCompressionConfig()
	handler = middleware.Compression(compressionConfig)(handler)

	// Create server
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Separate metrics server so /metrics is never exposed on the app port
	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:        ":" + config.MetricsPort,
			Handler:     metricsMux,
			ReadTimeout: 15 * time.Second,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != http.ErrServerClosed {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, metricsSrv, sw, collector)

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func handleShutdown(srv, metricsSrv *http.Server, sw *sweeper.Sweeper, collector *metrics.Collector) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Stopping sweeper")
	sw.Stop()
	startup.LogShutdownStepComplete("Sweeper stopped")

	startup.LogShutdownStep("Stopping metrics collector")
	collector.Stop()
	startup.LogShutdownStepComplete("Metrics collector stopped")

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
