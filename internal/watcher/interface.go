package watcher

import "context"

// Watcher monitors the drop folder for recordings copied in outside the HTTP intake.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler is called once per source file that appears in the drop folder
type EventHandler func(ctx context.Context, filePath string) error
