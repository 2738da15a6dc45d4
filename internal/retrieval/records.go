package retrieval

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// RecordFile is the on-disk form of a batch to index:
//
//	namespace: arXiv
//	records:
//	  - link: https://arxiv.org/abs/2401.00001
//	    title: ...
//	    text: ...
type RecordFile struct {
	Namespace string   `yaml:"namespace"`
	Records   []Record `yaml:"records"`
}

// LoadRecords reads and checks a RecordFile.
func LoadRecords(path string) (*RecordFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open records: %w", err)
	}
	defer f.Close()

	var rf RecordFile
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&rf); err != nil {
		return nil, fmt.Errorf("parse records %s: %w", path, err)
	}
	if rf.Namespace == "" {
		return nil, fmt.Errorf("%s: namespace is required", path)
	}
	for i, r := range rf.Records {
		if r.Link == "" && r.Title == "" && r.Text == "" {
			return nil, fmt.Errorf("%s: record %d has no content", path, i)
		}
	}
	return &rf, nil
}

// Index upserts records into namespace in batches of batchSize and returns
// how many were written.
func Index(ctx context.Context, b Backend, namespace string, records []Record, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}
	done := 0
	for start := 0; start < len(records); start += batchSize {
		end := min(start+batchSize, len(records))
		if err := b.Upsert(ctx, namespace, records[start:end]); err != nil {
			return done, fmt.Errorf("index %s records %d-%d: %w", namespace, start, end-1, err)
		}
		done = end
	}
	return done, nil
}

// recordID keeps re-indexing idempotent: a record without an explicit ID is
// keyed by its namespace and link, falling back to a random ID.
func recordID(namespace string, r Record) string {
	switch {
	case r.ID != "":
		return r.ID
	case r.Link != "":
		return uuid.NewSHA1(uuid.NameSpaceURL, []byte(namespace+"|"+r.Link)).String()
	default:
		return uuid.NewString()
	}
}
