package intake

import (
	"fmt"
	"os"

	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
)

type implStore struct {
	root   string
	logger logger.Logger
}

// New creates a directory-backed Store rooted at root, one subdirectory per session.
func New(root string, log logger.Logger) (Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create session storage: %w", err)
	}
	return &implStore{
		root:   root,
		logger: log,
	}, nil
}
