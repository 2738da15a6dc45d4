package orchestrator

import (
	"context"

	"github.com/nguyentantai21042004/meeting-minutes/internal/processor"
	"github.com/nguyentantai21042004/meeting-minutes/internal/report"
)

// Orchestrator drives one session from its stored sources to a persisted report.
type Orchestrator interface {
	// Run never returns an error: every failure ends in a Result with
	// State FAILED.
	Run(ctx context.Context, sessionID string) *Result
}

// SourceStore is the part of session storage a run needs.
type SourceStore interface {
	Sources(ctx context.Context, sessionID string) ([]processor.Source, error)
	Release(ctx context.Context, sessionID string, names []string) error
}

// ReportWriter persists the composed report.
type ReportWriter interface {
	Insert(ctx context.Context, r report.Report) (*report.Report, error)
}
