package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nguyentantai21042004/meeting-minutes/internal/config"
	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
	"github.com/nguyentantai21042004/meeting-minutes/internal/retrieval"
)

// indexer loads record files into the configured retrieval backend:
//
//	indexer papers.yaml news.yaml
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <records.yaml>...\n", os.Args[0])
		os.Exit(2)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Retrieval.Backend == config.BackendNone {
		log.Error(ctx, "retrieval.backend is %q; nothing to index into", cfg.Retrieval.Backend)
		os.Exit(1)
	}

	backend, err := retrieval.NewBackend(ctx, cfg.Retrieval, log)
	if err != nil {
		log.Error(ctx, "Failed to create retrieval backend: %v", err)
		os.Exit(1)
	}
	defer backend.Close()

	known := make(map[string]bool, len(cfg.Retrieval.Namespaces))
	for _, ns := range cfg.Retrieval.Namespaces {
		known[ns.Name] = true
	}

	failed := false
	for _, path := range os.Args[1:] {
		rf, err := retrieval.LoadRecords(path)
		if err != nil {
			log.Error(ctx, "Skipping %s: %v", path, err)
			failed = true
			continue
		}
		if !known[rf.Namespace] {
			log.Warn(ctx, "Namespace %s is not configured; its records will not be searched", rf.Namespace)
		}

		n, err := retrieval.Index(ctx, backend, rf.Namespace, rf.Records, 100)
		if err != nil {
			log.Error(ctx, "Indexing %s stopped after %d records: %v", path, n, err)
			failed = true
			continue
		}
		log.Info(ctx, "Indexed %d records from %s into %s", n, path, rf.Namespace)
	}

	if failed {
		backend.Close()
		os.Exit(1)
	}
}
