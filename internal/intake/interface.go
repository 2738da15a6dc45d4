package intake

import (
	"context"
	"io"

	"github.com/nguyentantai21042004/meeting-minutes/internal/processor"
)

// Store keeps uploaded sources grouped by session until a run releases them.
type Store interface {
	// Save writes content under the descriptor's session, replacing any
	// earlier upload with the same filename.
	Save(ctx context.Context, d Descriptor, content io.Reader) error
	// Sources lists a session's stored sources in filename order.
	Sources(ctx context.Context, sessionID string) ([]processor.Source, error)
	// Release deletes the named sources of a session, then the session
	// itself once nothing else is stored under it.
	Release(ctx context.Context, sessionID string, names []string) error
	Sessions(ctx context.Context) ([]SessionInfo, error)
	// IngestFile moves a file found on disk into session storage.
	IngestFile(ctx context.Context, path string) (Descriptor, error)
}
