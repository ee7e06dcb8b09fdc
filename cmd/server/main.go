package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/dgallion1/wikitree/internal/api"
	"github.com/dgallion1/wikitree/internal/config"
	"github.com/dgallion1/wikitree/internal/convert"
	"github.com/dgallion1/wikitree/internal/pipeline"
	"github.com/dgallion1/wikitree/internal/store"
)

func main() {
	cfg, err := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)}))
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		log.Debug("maxprocs", "msg", format, "args", args)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	var st *store.Client
	if cfg.StoreURL != "" {
		st = store.NewClient(cfg.StoreURL, cfg.StoreAPIKey)
	}
	conv := convert.New(
		convert.WithLogger(log.With("component", "convert")),
		convert.WithMaxDepth(cfg.MaxDepth),
		convert.WithRefTag(cfg.RefTag),
	)

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, conv, st, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.ConvertTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if st != nil {
			st.Close()
		}
	}()

	log.Info("starting wikitree",
		"port", cfg.Port,
		"workers", cfg.WorkerCount,
		"store", st.Enabled(),
		"ref_tag", cfg.RefTag,
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
