package intake

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nguyentantai21042004/meeting-minutes/internal/apperr"
	"github.com/nguyentantai21042004/meeting-minutes/internal/processor"
)

const partialPrefix = ".upload-"

func (s *implStore) sessionDir(sessionID string) string {
	return filepath.Join(s.root, sessionID)
}

// Save writes to a temp file in the session directory and renames it into
// place, so readers never observe a half-written source.
func (s *implStore) Save(ctx context.Context, d Descriptor, content io.Reader) error {
	dir := s.sessionDir(d.SessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, partialPrefix+"*")
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	n, err := io.Copy(tmp, content)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close upload: %w", err)
	}

	dst := filepath.Join(dir, d.Filename)
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("store upload: %w", err)
	}

	s.logger.Info(ctx, "Stored %s for session %s (%d bytes, speaker %s)", d.Filename, d.SessionID, n, d.Speaker)
	return nil
}

func (s *implStore) Sources(ctx context.Context, sessionID string) ([]processor.Source, error) {
	if err := ValidateSessionID(sessionID); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.sessionDir(sessionID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("session %s: %w", sessionID, apperr.ErrSessionNotFound)
		}
		return nil, fmt.Errorf("list session %s: %w", sessionID, err)
	}

	var sources []processor.Source
	for _, e := range entries {
		if !isStoredSource(e) {
			continue
		}
		sources = append(sources, processor.FileSource(filepath.Join(s.sessionDir(sessionID), e.Name())))
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("session %s: %w", sessionID, apperr.ErrNoSources)
	}

	s.logger.Debug(ctx, "Session %s has %d sources", sessionID, len(sources))
	return sources, nil
}

func (s *implStore) Release(ctx context.Context, sessionID string, names []string) error {
	if err := ValidateSessionID(sessionID); err != nil {
		return err
	}
	dir := s.sessionDir(sessionID)

	for _, name := range names {
		if name == "" || filepath.Base(name) != name || strings.HasPrefix(name, ".") {
			return &apperr.ValidationError{Field: "filename", Value: name, Reason: "not a stored source"}
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("release %s/%s: %w", sessionID, name, err)
		}
	}

	// sources uploaded while the run was in flight keep the session alive
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("release session %s: %w", sessionID, err)
	}
	if len(entries) > 0 {
		s.logger.Info(ctx, "Released %d sources of session %s, %d entries remain", len(names), sessionID, len(entries))
		return nil
	}
	if err := os.Remove(dir); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("release session %s: %w", sessionID, err)
	}

	s.logger.Info(ctx, "Released storage for session %s", sessionID)
	return nil
}

func (s *implStore) Sessions(ctx context.Context) ([]SessionInfo, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sessions := make([]SessionInfo, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}

		files, err := os.ReadDir(s.sessionDir(e.Name()))
		if err != nil {
			s.logger.Warn(ctx, "Skipping unreadable session %s: %v", e.Name(), err)
			continue
		}

		info := SessionInfo{ID: e.Name(), Sources: []string{}}
		for _, f := range files {
			if !isStoredSource(f) {
				continue
			}
			info.Sources = append(info.Sources, f.Name())
			if fi, err := f.Info(); err == nil && fi.ModTime().After(info.UpdatedAt) {
				info.UpdatedAt = fi.ModTime()
			}
		}
		sessions = append(sessions, info)
	}

	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ID < sessions[j].ID })
	return sessions, nil
}

// IngestFile parses path's basename, copies it into storage and removes the original.
func (s *implStore) IngestFile(ctx context.Context, path string) (Descriptor, error) {
	d, err := ParseDescriptor(filepath.Base(path))
	if err != nil {
		return Descriptor{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("open %s: %w", path, err)
	}
	saveErr := s.Save(ctx, d, f)
	f.Close()
	if saveErr != nil {
		return Descriptor{}, saveErr
	}

	if err := os.Remove(path); err != nil {
		s.logger.Warn(ctx, "Failed to remove ingested file %s: %v", path, err)
	}
	return d, nil
}

func isStoredSource(e fs.DirEntry) bool {
	return e.Type().IsRegular() &&
		!strings.HasPrefix(e.Name(), partialPrefix) &&
		processor.IsSupported(e.Name())
}
