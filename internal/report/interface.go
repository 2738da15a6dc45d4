package report

import "context"

// Store persists composed reports.
type Store interface {
	// Insert assigns an ID, defaults UploadedAt to now and returns the stored report.
	Insert(ctx context.Context, r Report) (*Report, error)
	Get(ctx context.Context, id string) (*Report, error)
	// FindByParticipant returns the reports a participant took part in, newest first.
	FindByParticipant(ctx context.Context, participant string) ([]Report, error)
	List(ctx context.Context) ([]Report, error)
	// Update applies the non-nil fields of p.
	Update(ctx context.Context, id string, p Patch) (*Report, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// Exporter writes a session's transcript and summary to a document on disk.
type Exporter interface {
	Export(ctx context.Context, doc Document) (string, error)
}
