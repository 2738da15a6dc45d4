package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/meeting-minutes/internal/apperr"
	"github.com/nguyentantai21042004/meeting-minutes/internal/transcript"
)

// Transcribe stages src on disk, runs the engine once with timestamps and
// returns the non-empty segments tagged with the filename's speaker.
// Every failure comes back as an *apperr.TranscriptionError naming src.
func (t *implTranscriber) Transcribe(ctx context.Context, src Source) ([]transcript.Segment, error) {
	segments, err := t.transcribe(ctx, src)
	if err != nil {
		return nil, &apperr.TranscriptionError{Source: src.Name, Err: err}
	}
	return segments, nil
}

func (t *implTranscriber) transcribe(ctx context.Context, src Source) ([]transcript.Segment, error) {
	if !IsSupported(src.Name) {
		return nil, &apperr.ValidationError{
			Field:  "extension",
			Value:  filepath.Ext(src.Name),
			Reason: "only " + strings.Join(SupportedExtensions, ", ") + " are supported",
		}
	}

	speaker := transcript.SpeakerFromFilename(src.Name)

	tmpPath, err := t.stage(src)
	if err != nil {
		return nil, err
	}
	defer t.cleanupTempFile(ctx, tmpPath)

	result, err := t.engine.Transcribe(ctx, tmpPath, true)
	if err != nil {
		return nil, err
	}

	segments := make([]transcript.Segment, 0, len(result.Segments))
	for _, s := range result.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		segments = append(segments, transcript.Segment{
			Speaker:    speaker,
			Text:       text,
			StartTime:  s.Start,
			EndTime:    s.End,
			SourceName: src.Name,
		})
	}

	t.logger.Info(ctx, "Transcribed %s: %d segments for %s", src.Name, len(segments), speaker)
	return segments, nil
}

// stage copies the source content into a private temp file keeping its
// extension, since the engine needs a path.
func (t *implTranscriber) stage(src Source) (string, error) {
	if src.Open == nil {
		return "", fmt.Errorf("source %s has no content", src.Name)
	}

	in, err := src.Open()
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(t.tempDir, "source-*"+strings.ToLower(filepath.Ext(src.Name)))
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}

	return tmp.Name(), nil
}
