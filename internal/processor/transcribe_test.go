package processor

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/nguyentantai21042004/meeting-minutes/internal/apperr"
	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
)

type fakeEngine struct {
	result *EngineResult
	err    error

	calls      int
	seenPath   string
	seenExists bool
	seenData   string
	seenTS     bool
}

func (f *fakeEngine) Transcribe(ctx context.Context, path string, wantTimestamps bool) (*EngineResult, error) {
	f.calls++
	f.seenPath = path
	f.seenTS = wantTimestamps
	if data, err := os.ReadFile(path); err == nil {
		f.seenExists = true
		f.seenData = string(data)
	}
	return f.result, f.err
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temp dir not cleaned up: %d entries left", len(entries))
	}
}

func TestTranscribeTagsAndFilters(t *testing.T) {
	dir := t.TempDir()
	engine := &fakeEngine{result: &EngineResult{
		Text: "hi there",
		Segments: []EngineSegment{
			{Text: " hi ", Start: 0.0, End: 1.0},
			{Text: "   ", Start: 1.0, End: 1.5},
			{Text: "there", Start: 1.5, End: 2.0},
		},
	}}
	tr := NewTranscriber(engine, dir, logger.New("error", "text"))

	segments, err := tr.Transcribe(context.Background(), BytesSource("Alice_ProjectX.mp4", []byte("video-bytes")))
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}

	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2 (whitespace-only dropped)", len(segments))
	}
	if segments[0].Text != "hi" || segments[1].Text != "there" {
		t.Errorf("texts = %q, %q", segments[0].Text, segments[1].Text)
	}
	for _, s := range segments {
		if s.Speaker != "Alice" {
			t.Errorf("Speaker = %q, want Alice", s.Speaker)
		}
		if s.SourceName != "Alice_ProjectX.mp4" {
			t.Errorf("SourceName = %q", s.SourceName)
		}
	}

	if engine.calls != 1 {
		t.Errorf("engine called %d times, want 1", engine.calls)
	}
	if !engine.seenTS {
		t.Error("engine not asked for timestamps")
	}
	if !engine.seenExists || engine.seenData != "video-bytes" {
		t.Error("engine did not see the staged source content")
	}
	assertDirEmpty(t, dir)
}

func TestTranscribeNoSegments(t *testing.T) {
	dir := t.TempDir()
	engine := &fakeEngine{result: &EngineResult{}}
	tr := NewTranscriber(engine, dir, logger.New("error", "text"))

	segments, err := tr.Transcribe(context.Background(), BytesSource("standalone.wav", []byte("x")))
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if len(segments) != 0 {
		t.Errorf("got %d segments, want 0", len(segments))
	}
	assertDirEmpty(t, dir)
}

func TestTranscribeEngineError(t *testing.T) {
	dir := t.TempDir()
	engine := &fakeEngine{err: errors.New("model crashed")}
	tr := NewTranscriber(engine, dir, logger.New("error", "text"))

	segments, err := tr.Transcribe(context.Background(), BytesSource("Bob_Standup.webm", []byte("x")))
	if err == nil {
		t.Fatal("Transcribe() should fail")
	}
	if segments != nil {
		t.Errorf("segments = %v, want nil", segments)
	}

	var te *apperr.TranscriptionError
	if !errors.As(err, &te) || te.Source != "Bob_Standup.webm" {
		t.Errorf("error %v does not name the source", err)
	}
	if apperr.KindOf(err) != apperr.KindTranscribe {
		t.Errorf("KindOf() = %q", apperr.KindOf(err))
	}
	assertDirEmpty(t, dir)
}

func TestTranscribeUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	engine := &fakeEngine{result: &EngineResult{}}
	tr := NewTranscriber(engine, dir, logger.New("error", "text"))

	_, err := tr.Transcribe(context.Background(), BytesSource("Bob_Standup.txt", []byte("x")))
	if err == nil {
		t.Fatal("Transcribe() should reject .txt")
	}
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("KindOf() = %q, want validation", apperr.KindOf(err))
	}
	if engine.calls != 0 {
		t.Error("engine should not run for an unsupported source")
	}
	assertDirEmpty(t, dir)
}

func TestIsSupported(t *testing.T) {
	tests := map[string]bool{
		"a_b.mp4":  true,
		"a_b.WEBM": true,
		"a_b.wav":  true,
		"a_b.mp3":  true,
		"a_b.mov":  false,
		"a_b":      false,
	}
	for name, want := range tests {
		if got := IsSupported(name); got != want {
			t.Errorf("IsSupported(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestParsePolicy(t *testing.T) {
	if p, err := ParsePolicy(""); err != nil || p != PolicyFailFast {
		t.Errorf("ParsePolicy(\"\") = %q, %v", p, err)
	}
	if p, err := ParsePolicy("best_effort"); err != nil || p != PolicyBestEffort {
		t.Errorf("ParsePolicy(best_effort) = %q, %v", p, err)
	}
	if _, err := ParsePolicy("whatever"); err == nil {
		t.Error("ParsePolicy(whatever) should fail")
	}
}
