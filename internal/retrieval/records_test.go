package retrieval

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arxiv.yaml")
	content := `
namespace: arXiv
records:
  - link: https://arxiv.org/abs/1
    title: Async standups
    text: We study short meetings.
  - link: https://arxiv.org/abs/2
    title: Meeting fatigue
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rf, err := LoadRecords(path)
	if err != nil {
		t.Fatalf("LoadRecords() error = %v", err)
	}
	if rf.Namespace != "arXiv" || len(rf.Records) != 2 {
		t.Fatalf("got %+v", rf)
	}
	if rf.Records[1].Title != "Meeting fatigue" || rf.Records[1].Text != "" {
		t.Errorf("second record = %+v", rf.Records[1])
	}
}

func TestLoadRecordsInvalid(t *testing.T) {
	tests := map[string]string{
		"no namespace":  "records:\n  - title: x\n",
		"empty record":  "namespace: news\nrecords:\n  - {}\n",
		"unknown field": "namespace: news\nrecords:\n  - headline: x\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadRecords(path); err == nil {
				t.Error("LoadRecords() should fail")
			}
		})
	}
}

type recordingBackend struct {
	noopBackend
	batches [][]Record
	failAt  int
}

func (b *recordingBackend) Upsert(ctx context.Context, namespace string, records []Record) error {
	if b.failAt > 0 && len(b.batches)+1 == b.failAt {
		return errors.New("backend unavailable")
	}
	b.batches = append(b.batches, records)
	return nil
}

func TestIndexBatches(t *testing.T) {
	records := make([]Record, 5)
	for i := range records {
		records[i] = Record{Title: "r"}
	}

	b := &recordingBackend{}
	n, err := Index(context.Background(), b, "news", records, 2)
	if err != nil || n != 5 {
		t.Fatalf("Index() = %d, %v", n, err)
	}
	if len(b.batches) != 3 || len(b.batches[2]) != 1 {
		t.Errorf("batches = %d", len(b.batches))
	}

	b = &recordingBackend{failAt: 2}
	n, err = Index(context.Background(), b, "news", records, 2)
	if err == nil || n != 2 {
		t.Errorf("Index() = %d, %v; want 2 written and an error", n, err)
	}
}

func TestRecordID(t *testing.T) {
	r := Record{Link: "https://arxiv.org/abs/1"}
	if recordID("arXiv", r) != recordID("arXiv", r) {
		t.Error("same link should map to the same id")
	}
	if recordID("arXiv", r) == recordID("news", r) {
		t.Error("namespaces should not share ids")
	}
	if got := recordID("arXiv", Record{ID: "fixed"}); got != "fixed" {
		t.Errorf("explicit id = %q", got)
	}
	if recordID("wiki", Record{Text: "a"}) == recordID("wiki", Record{Text: "a"}) {
		t.Error("records without link should get fresh ids")
	}
}
