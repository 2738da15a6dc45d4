package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
	"github.com/nguyentantai21042004/meeting-minutes/internal/processor"
)

type implWatcher struct {
	dropDir   string
	handler   EventHandler
	logger    logger.Logger
	watcher   *fsnotify.Watcher
	opts      Options
	semaphore chan struct{}
	wg        sync.WaitGroup
}

// Start hands every source already sitting in the drop folder to the handler,
// then monitors it for new ones until ctx is done.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Drop folder watcher started (max concurrent: %d). Monitoring: %s", w.opts.MaxConcurrent, w.dropDir)
	w.logger.Info(ctx, "Supported formats: %s", strings.Join(processor.SupportedExtensions, ", "))

	if err := w.sweep(ctx); err != nil {
		w.logger.Warn(ctx, "Initial sweep of %s failed: %v", w.dropDir, err)
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for ongoing ingests to complete...")
			w.wg.Wait()
			w.logger.Info(ctx, "Drop folder watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			// Only CREATE events; a rename into the folder shows up as CREATE too
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !w.isSourceFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-source file: %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New recording dropped: %s", filepath.Base(event.Name))
			if err := w.dispatch(ctx, event.Name, w.opts.Settle); err != nil {
				return err
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) sweep(ctx context.Context) error {
	entries, err := os.ReadDir(w.dropDir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		path := filepath.Join(w.dropDir, e.Name())
		if !e.Type().IsRegular() || !w.isSourceFile(path) {
			continue
		}
		if err := w.dispatch(ctx, path, 0); err != nil {
			return err
		}
	}
	return nil
}

// dispatch runs the handler in its own goroutine once a slot is free.
func (w *implWatcher) dispatch(ctx context.Context, path string, settle time.Duration) error {
	select {
	case w.semaphore <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() { <-w.semaphore }()

		if settle > 0 {
			select {
			case <-time.After(settle):
			case <-ctx.Done():
				return
			}
		}

		if err := w.handler(ctx, path); err != nil {
			w.logger.Error(ctx, "Failed to ingest %s: %v", path, err)
		}
	}()
	return nil
}

// isSourceFile skips hidden and partial files as well as unsupported formats.
func (w *implWatcher) isSourceFile(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	return processor.IsSupported(name)
}
