package processor

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/meeting-minutes/internal/transcript"
)

// SupportedExtensions lists the containers the engine accepts.
var SupportedExtensions = []string{".mp4", ".webm", ".wav", ".mp3"}

// IsSupported reports whether filename carries a supported extension.
func IsSupported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// Source is one uploaded recording.
type Source struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// BytesSource wraps in-memory content.
func BytesSource(name string, data []byte) Source {
	return Source{
		Name: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// FileSource reads content from path on demand.
func FileSource(path string) Source {
	return Source{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// EngineSegment is one timestamped span returned by the engine.
type EngineSegment struct {
	Text  string
	Start float64
	End   float64
}

// EngineResult is the raw engine output for one file.
type EngineResult struct {
	Text     string
	Segments []EngineSegment
}

// Policy selects how a batch reacts to a failing source.
type Policy string

const (
	// PolicyFailFast aborts the batch on the first failing source. Default.
	PolicyFailFast Policy = "fail_fast"
	// PolicyBestEffort keeps the sources that succeeded and reports the rest.
	PolicyBestEffort Policy = "best_effort"
)

// ParsePolicy maps a config value to a Policy; empty means fail-fast.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyFailFast:
		return PolicyFailFast, nil
	case PolicyBestEffort:
		return PolicyBestEffort, nil
	default:
		return "", fmt.Errorf("unknown merge policy %q", s)
	}
}

// SourceFailure records one source dropped by a best-effort merge.
type SourceFailure struct {
	Source string
	Err    error
}

// MergeResult is the merged script of a batch.
type MergeResult struct {
	Segments     []transcript.Segment
	Participants []string
	Failures     []SourceFailure
}
