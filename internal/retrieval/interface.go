package retrieval

import "context"

// Backend is a ranked-search store partitioned by namespace.
type Backend interface {
	// Search returns up to topK matches in backend relevance order.
	Search(ctx context.Context, namespace, query string, topK int) ([]Match, error)
	// Upsert embeds and stores records, replacing any with the same ID.
	Upsert(ctx context.Context, namespace string, records []Record) error
	Close() error
}

// Embedder turns text into vectors for the backends.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Augmentor runs the per-namespace lookups of one session run.
type Augmentor interface {
	// Search queries a single configured namespace.
	Search(ctx context.Context, query string, topK int, namespace string) ([]Hit, error)
	// Augment queries every configured namespace concurrently. A failing
	// namespace degrades to an empty list and never fails the call.
	Augment(ctx context.Context, query string) *Augmentation
}
