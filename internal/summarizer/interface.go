package summarizer

import "context"

// Summarizer is the LLM service boundary: one call summarises the rendered
// transcript, a second composes the final report body.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (*Summary, error)
	Compose(ctx context.Context, req ComposeRequest) (*Composed, error)
}
