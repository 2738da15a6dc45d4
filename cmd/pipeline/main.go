package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/nguyentantai21042004/meeting-minutes/internal/config"
	"github.com/nguyentantai21042004/meeting-minutes/internal/httpapi"
	"github.com/nguyentantai21042004/meeting-minutes/internal/intake"
	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
	"github.com/nguyentantai21042004/meeting-minutes/internal/orchestrator"
	"github.com/nguyentantai21042004/meeting-minutes/internal/processor"
	"github.com/nguyentantai21042004/meeting-minutes/internal/report"
	"github.com/nguyentantai21042004/meeting-minutes/internal/retrieval"
	"github.com/nguyentantai21042004/meeting-minutes/internal/summarizer"
	"github.com/nguyentantai21042004/meeting-minutes/internal/watcher"
	"github.com/nguyentantai21042004/meeting-minutes/pkg/executor"
)

func main() {
	ctx := context.Background()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Meeting Minutes Pipeline")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "CPU Cores: %d", runtime.NumCPU())
	log.Info(ctx, "Max Concurrent Transcriptions: %d", cfg.Performance.MaxConcurrent)
	log.Info(ctx, "Configuration loaded from %s", configPath)

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "Pipeline stopped with error: %v", err)
		os.Exit(1)
	}
	log.Info(ctx, "Meeting Minutes Pipeline stopped")
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	policy, err := processor.ParsePolicy(cfg.Merge.Policy)
	if err != nil {
		return err
	}

	// Initialize dependencies
	exec := executor.New()
	engine := processor.NewWhisperEngine(cfg, exec, log)
	merger := processor.NewMerger(processor.NewTranscriber(engine, cfg.Paths.Temp, log), cfg.Performance.MaxConcurrent, log)

	sources, err := intake.New(cfg.Paths.Sessions, log)
	if err != nil {
		return fmt.Errorf("open session storage: %w", err)
	}

	llm, err := summarizer.New(cfg.Summarizer, log)
	if err != nil {
		return fmt.Errorf("create summarizer: %w", err)
	}

	backend, err := retrieval.NewBackend(ctx, cfg.Retrieval, log)
	if err != nil {
		return fmt.Errorf("create retrieval backend: %w", err)
	}
	defer backend.Close()
	augmentor := retrieval.NewAugmentor(backend, cfg.Retrieval.Namespaces, cfg.Retrieval.Timeout, log)

	reports, err := report.NewStore(ctx, cfg.Store.Path, log)
	if err != nil {
		return fmt.Errorf("open report store: %w", err)
	}
	defer reports.Close()

	orch := orchestrator.New(orchestrator.Deps{
		Sources:    sources,
		Merger:     merger,
		Summarizer: llm,
		Augmentor:  augmentor,
		Reports:    reports,
		Exporter:   report.NewExporter(cfg.Paths.Output, log),
	}, orchestrator.Options{Policy: policy}, log)

	server := httpapi.New(httpapi.Deps{
		Sources:      sources,
		Reports:      reports,
		Orchestrator: orch,
	}, httpapi.Options{
		Addr:           cfg.Server.Addr,
		TLSCertFile:    cfg.Server.TLSCertFile,
		TLSKeyFile:     cfg.Server.TLSKeyFile,
		MaxUploadBytes: cfg.Server.MaxUploadMB << 20,
	}, log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 2)
	go func() {
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("http server: %w", err)
		}
	}()

	if cfg.Paths.Dropbox != "" {
		w, err := watcher.New(cfg.Paths.Dropbox, func(ctx context.Context, path string) error {
			d, err := sources.IngestFile(ctx, path)
			if err != nil {
				return err
			}
			log.Info(ctx, "Queued %s for session %s", d.Filename, d.SessionID)
			return nil
		}, log, watcher.Options{MaxConcurrent: cfg.Performance.MaxConcurrent})
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer w.Stop()

		go func() {
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errChan <- fmt.Errorf("watcher: %w", err)
			}
		}()
	}

	log.Info(ctx, "========================================")
	log.Info(ctx, "Meeting Minutes Pipeline is ready!")
	log.Info(ctx, "Listening: %s", cfg.Server.Addr)
	log.Info(ctx, "Sessions: %s", cfg.Paths.Sessions)
	if cfg.Paths.Dropbox != "" {
		log.Info(ctx, "Drop folder: %s", cfg.Paths.Dropbox)
	}
	log.Info(ctx, "")
	log.Info(ctx, "Stages:")
	log.Info(ctx, "  - Whisper: %d threads, language %s, merge %s", cfg.Whisper.Threads, cfg.Whisper.Language, policy)
	log.Info(ctx, "  - Summarizer: %s backend, %v timeout", cfg.Summarizer.Backend, cfg.Summarizer.Timeout)
	log.Info(ctx, "  - Retrieval: %s backend, %d namespaces", cfg.Retrieval.Backend, len(cfg.Retrieval.Namespaces))
	log.Info(ctx, "  - Reports: %s", cfg.Store.Path)
	log.Info(ctx, "")
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	var runErr error
	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case runErr = <-errChan:
	}

	// Graceful shutdown
	log.Info(ctx, "Shutting down gracefully...")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 30*time.Second)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn(shutdownCtx, "HTTP shutdown: %v", err)
	}
	return runErr
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Sessions,
		cfg.Paths.Output,
		cfg.Paths.Temp,
	}
	if cfg.Paths.Dropbox != "" {
		dirs = append(dirs, cfg.Paths.Dropbox)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
