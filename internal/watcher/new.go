package watcher

import (
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
)

// Options tunes how the watcher hands files to its handler.
type Options struct {
	// MaxConcurrent bounds handler calls in flight. Default 2.
	MaxConcurrent int
	// Settle is how long to wait after CREATE before the file is considered
	// fully written. Default 500ms.
	Settle time.Duration
}

// New creates a new Watcher for dropDir, creating the directory if needed
func New(dropDir string, handler EventHandler, log logger.Logger, opts Options) (Watcher, error) {
	if err := os.MkdirAll(dropDir, 0o755); err != nil {
		return nil, fmt.Errorf("create drop folder: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(dropDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 2
	}
	if opts.Settle <= 0 {
		opts.Settle = 500 * time.Millisecond
	}

	return &implWatcher{
		dropDir:   dropDir,
		handler:   handler,
		logger:    log,
		watcher:   watcher,
		opts:      opts,
		semaphore: make(chan struct{}, opts.MaxConcurrent),
	}, nil
}
