package processor

import (
	"context"

	"github.com/nguyentantai21042004/meeting-minutes/internal/transcript"
)

// Engine is the speech-to-text boundary: a file path in, timestamped text out.
type Engine interface {
	Transcribe(ctx context.Context, path string, wantTimestamps bool) (*EngineResult, error)
}

// Transcriber turns one source into speaker-tagged segments.
type Transcriber interface {
	Transcribe(ctx context.Context, src Source) ([]transcript.Segment, error)
}

// Merger transcribes a batch of sources and interleaves them by start time.
type Merger interface {
	Merge(ctx context.Context, sources []Source, policy Policy) (*MergeResult, error)
}
