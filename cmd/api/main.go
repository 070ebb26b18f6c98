package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"notegraph/internal/config"
	"notegraph/internal/handlers"
	"notegraph/internal/http"
	"notegraph/internal/indexer"
	"notegraph/internal/objectstore"
	"notegraph/internal/search"
	"notegraph/internal/service"
	"notegraph/internal/storage"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	noteRepo := storage.NewNoteRepo(db)
	edgeRepo := storage.NewEdgeRepo(db)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var (
		serviceOpts  []service.Option
		syncMonitor  handlers.SyncMonitor
		synchronizer *indexer.Synchronizer
	)

	if cfg.SearchEnabled {
		index, err := search.NewQdrantIndex(cfg.QdrantURL, cfg.QdrantAPIKey, cfg.QdrantCollection)
		if err != nil {
			log.Fatalf("Failed to create Qdrant client: %v", err)
		}
		defer func() {
			_ = index.Close()
		}()

		synchronizer = indexer.NewSynchronizer(index, indexer.Options{
			Workers:     cfg.SearchWorkers,
			QueueSize:   cfg.SearchQueueSize,
			Timeout:     cfg.SearchTimeout,
			MaxAttempts: cfg.SearchMaxAttempts,
			Registerer:  registry,
		})

		// The graph stays fully usable without search, so a failed bootstrap
		// is logged and the synchronizer runs degraded.
		bootCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := synchronizer.Bootstrap(bootCtx); err != nil {
			slog.Warn("Search index bootstrap failed, continuing without it", "error", err)
		} else {
			slog.Info("Search collection ready", "collection", cfg.QdrantCollection)
		}
		cancel()

		// Workers outlive the signal context so Stop can drain the queue.
		synchronizer.Start(context.Background())
		syncMonitor = synchronizer
		serviceOpts = append(serviceOpts,
			service.WithSyncer(synchronizer),
			service.WithSearcher(index),
		)

		if cfg.SearchReindexOnStart {
			go func() {
				n, err := synchronizer.Rebuild(ctx, noteRepo)
				if err != nil {
					slog.Error("Startup reindex failed", "queued", n, "error", err)
					return
				}
				slog.Info("Startup reindex queued", "notes", n)
			}()
		}
	} else {
		slog.Info("Search disabled")
	}

	if cfg.UploadsEnabled() {
		uploader, err := objectstore.NewS3Store(ctx, objectstore.Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Folder:        cfg.UploadFolder,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			log.Fatalf("Failed to create S3 client: %v", err)
		}
		serviceOpts = append(serviceOpts, service.WithUploader(uploader))
		slog.Info("Uploads enabled", "bucket", cfg.S3Bucket, "folder", cfg.UploadFolder)
	}

	graph := service.NewGraphService(noteRepo, edgeRepo, serviceOpts...)

	router := http.NewRouter(&http.Deps{
		Graph:          graph,
		DB:             db,
		Sync:           syncMonitor,
		Metrics:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		MaxUploadBytes: cfg.UploadMaxBytes,
	})

	srv := &nethttp.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("Starting API server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatalf("API server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
	if synchronizer != nil {
		if err := synchronizer.Stop(shutdownCtx); err != nil {
			slog.Warn("Search synchronizer did not drain", "error", err, "stats", synchronizer.Stats())
		}
	}

	slog.Info("Server stopped")
}
