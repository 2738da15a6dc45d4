package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
	seen  chan string
}

func newRecorder() *recorder {
	return &recorder{seen: make(chan string, 16)}
}

func (r *recorder) handle(ctx context.Context, path string) error {
	r.mu.Lock()
	r.paths = append(r.paths, filepath.Base(path))
	r.mu.Unlock()
	r.seen <- filepath.Base(path)
	return nil
}

func waitFor(t *testing.T, r *recorder, want string) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case got := <-r.seen:
			if got == want {
				return
			}
		case <-timeout:
			t.Fatalf("handler never saw %s", want)
		}
	}
}

func TestWatcherSweepsAndWatches(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Bob_Standup.wav"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := newRecorder()
	w, err := New(dir, rec.handle, logger.New("error", "text"), Options{Settle: 10 * time.Millisecond})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	waitFor(t, rec, "Bob_Standup.wav")

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Amy_Standup.mp4"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, rec, "Amy_Standup.mp4")

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after cancel")
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	for _, p := range rec.paths {
		if p == "notes.txt" {
			t.Error("handler called for a non-source file")
		}
	}
}

func TestIsSourceFile(t *testing.T) {
	w := &implWatcher{}
	tests := map[string]bool{
		"/drop/Bob_Standup.wav":  true,
		"/drop/Bob_Standup.MP3":  true,
		"/drop/.upload-123":      false,
		"/drop/.Bob_Standup.wav": false,
		"/drop/Bob_Standup.mkv":  false,
		"/drop/Bob_Standup.webm": true,
	}
	for path, want := range tests {
		if got := w.isSourceFile(path); got != want {
			t.Errorf("isSourceFile(%q) = %v, want %v", path, got, want)
		}
	}
}
