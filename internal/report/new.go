package report

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"

	_ "modernc.org/sqlite"
)

type implStore struct {
	db     *sql.DB
	now    func() time.Time
	logger logger.Logger
}

// NewStore opens (creating if needed) the SQLite report database at path.
func NewStore(ctx context.Context, path string, log logger.Logger) (Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One connection keeps the pragmas below in effect and serialises writers.
	db.SetMaxOpenConns(1)

	s := &implStore{db: db, now: time.Now, logger: log}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	log.Info(ctx, "Report store ready at %s", path)
	return s, nil
}

type implExporter struct {
	outputDir string
	logger    logger.Logger
}

// NewExporter creates an Exporter writing .docx files into outputDir.
func NewExporter(outputDir string, log logger.Logger) Exporter {
	return &implExporter{
		outputDir: outputDir,
		logger:    log,
	}
}
