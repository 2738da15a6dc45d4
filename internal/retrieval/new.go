package retrieval

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nguyentantai21042004/meeting-minutes/internal/config"
	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
)

type implAugmentor struct {
	backend    Backend
	namespaces []config.NamespaceConfig
	timeout    time.Duration
	logger     logger.Logger
}

// NewAugmentor creates an Augmentor over backend. timeout bounds each
// namespace lookup separately.
func NewAugmentor(backend Backend, namespaces []config.NamespaceConfig, timeout time.Duration, log logger.Logger) Augmentor {
	return &implAugmentor{
		backend:    backend,
		namespaces: namespaces,
		timeout:    timeout,
		logger:     log,
	}
}

type implOpenAIEmbedder struct {
	client *openai.Client
	model  string
}

// NewOpenAIEmbedder creates an Embedder backed by the embeddings endpoint.
func NewOpenAIEmbedder(cfg config.OpenAIConfig) Embedder {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return &implOpenAIEmbedder{
		client: openai.NewClientWithConfig(oc),
		model:  cfg.EmbeddingModel,
	}
}

// NewBackend connects the backend named by cfg.Backend. The caller owns the
// returned Backend and must Close it.
func NewBackend(ctx context.Context, cfg config.RetrievalConfig, log logger.Logger) (Backend, error) {
	switch cfg.Backend {
	case config.BackendNone, "":
		return noopBackend{}, nil
	case config.BackendPgvector:
		return NewPgvector(ctx, cfg.DatabaseURL, cfg.Dim, NewOpenAIEmbedder(cfg.Embedding), log)
	case config.BackendMilvus:
		return NewMilvus(ctx, cfg.Milvus, cfg.Dim, NewOpenAIEmbedder(cfg.Embedding), log)
	default:
		return nil, fmt.Errorf("unsupported retrieval backend %q", cfg.Backend)
	}
}

// noopBackend finds nothing; used when retrieval is switched off.
type noopBackend struct{}

func (noopBackend) Search(ctx context.Context, namespace, query string, topK int) ([]Match, error) {
	return nil, nil
}

func (noopBackend) Upsert(ctx context.Context, namespace string, records []Record) error {
	return fmt.Errorf("retrieval backend is disabled")
}

func (noopBackend) Close() error { return nil }
