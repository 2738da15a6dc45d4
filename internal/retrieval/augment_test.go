package retrieval

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/nguyentantai21042004/meeting-minutes/internal/apperr"
	"github.com/nguyentantai21042004/meeting-minutes/internal/config"
	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
)

type fakeBackend struct {
	matches map[string][]Match
	errs    map[string]error
	block   map[string]bool
	topKs   map[string]int
	panics  map[string]bool
}

func (f *fakeBackend) Search(ctx context.Context, namespace, query string, topK int) ([]Match, error) {
	if f.topKs != nil {
		f.topKs[namespace] = topK
	}
	if f.panics[namespace] {
		panic(namespace + " backend exploded")
	}
	if f.block[namespace] {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err := f.errs[namespace]; err != nil {
		return nil, err
	}
	return f.matches[namespace], nil
}

func (f *fakeBackend) Upsert(ctx context.Context, namespace string, records []Record) error {
	return nil
}

func (f *fakeBackend) Close() error { return nil }

func match(kv ...string) Match {
	m := Match{Fields: map[string]string{}}
	for i := 0; i+1 < len(kv); i += 2 {
		m.Fields[kv[i]] = kv[i+1]
	}
	return m
}

func paperMatches(n int) []Match {
	out := make([]Match, n)
	for i := range out {
		out[i] = match(FieldLink, "https://arxiv.org/abs/"+string(rune('a'+i)), FieldTitle, "Paper "+string(rune('A'+i)), FieldText, "abstract")
	}
	return out
}

func TestAugmentDegradesFailingNamespace(t *testing.T) {
	backend := &fakeBackend{
		matches: map[string][]Match{
			"arXiv": paperMatches(3),
			"wiki":  {match(FieldText, "Standup meetings are short")},
		},
		errs: map[string]error{"news": errors.New("index offline")},
	}
	a := NewAugmentor(backend, config.DefaultNamespaces(), time.Second, logger.New("error", "text"))

	aug := a.Augment(context.Background(), "standup")

	if len(aug.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(aug.Results))
	}
	papers := aug.ByRole(config.RolePapers)
	if len(papers) != 3 || papers[0].Title != "Paper A" || papers[2].Title != "Paper C" {
		t.Errorf("papers = %+v", papers)
	}
	if news := aug.ByRole(config.RoleNews); len(news) != 0 {
		t.Errorf("news = %+v, want empty", news)
	}
	if !reflect.DeepEqual(aug.Degraded(), []string{"news"}) {
		t.Errorf("Degraded() = %v", aug.Degraded())
	}
	if apperr.KindOf(aug.Results[1].Err) != apperr.KindRetrieval {
		t.Errorf("news error kind = %q", apperr.KindOf(aug.Results[1].Err))
	}
	if wiki := aug.ByRole(config.RoleWiki); len(wiki) != 1 || wiki[0].Text == "" {
		t.Errorf("wiki = %+v", wiki)
	}
}

func TestAugmentPassesTopKPerNamespace(t *testing.T) {
	backend := &fakeBackend{topKs: map[string]int{}}
	// one namespace at a time so the map write is not concurrent
	for _, ns := range config.DefaultNamespaces() {
		a := NewAugmentor(backend, []config.NamespaceConfig{ns}, time.Second, logger.New("error", "text"))
		a.Augment(context.Background(), "q")
	}

	want := map[string]int{"arXiv": 3, "news": 5, "wiki": 1}
	if !reflect.DeepEqual(backend.topKs, want) {
		t.Errorf("top_k per namespace = %v, want %v", backend.topKs, want)
	}
}

func TestSearchMissingFieldFailsLookup(t *testing.T) {
	backend := &fakeBackend{matches: map[string][]Match{
		"news": {
			match(FieldLink, "https://news/1", FieldTitle, "One"),
			match(FieldLink, "https://news/2"),
		},
	}}
	a := NewAugmentor(backend, config.DefaultNamespaces(), time.Second, logger.New("error", "text"))

	hits, err := a.Search(context.Background(), "q", 5, "news")
	if err == nil {
		t.Fatalf("Search() = %+v, want missing field error", hits)
	}
	if hits != nil {
		t.Errorf("hits = %+v, want none", hits)
	}
}

func TestSearchKeepsOnlyConfiguredFields(t *testing.T) {
	backend := &fakeBackend{matches: map[string][]Match{
		"news": {match(FieldLink, "https://news/1", FieldTitle, "One", FieldText, "body")},
	}}
	a := NewAugmentor(backend, config.DefaultNamespaces(), time.Second, logger.New("error", "text"))

	hits, err := a.Search(context.Background(), "q", 5, "news")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	want := []Hit{{Namespace: "news", Link: "https://news/1", Title: "One"}}
	if !reflect.DeepEqual(hits, want) {
		t.Errorf("hits = %+v, want %+v", hits, want)
	}
}

func TestSearchCapsAtTopK(t *testing.T) {
	backend := &fakeBackend{matches: map[string][]Match{"arXiv": paperMatches(6)}}
	a := NewAugmentor(backend, config.DefaultNamespaces(), time.Second, logger.New("error", "text"))

	hits, err := a.Search(context.Background(), "q", 2, "arXiv")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 2 || hits[0].Title != "Paper A" || hits[1].Title != "Paper B" {
		t.Errorf("hits = %+v, want first two in backend order", hits)
	}
}

func TestSearchUnknownNamespace(t *testing.T) {
	a := NewAugmentor(&fakeBackend{}, config.DefaultNamespaces(), time.Second, logger.New("error", "text"))
	if _, err := a.Search(context.Background(), "q", 1, "blogs"); apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("Search(blogs) error = %v, want validation", err)
	}
}

func TestSearchRejectsNonPositiveTopK(t *testing.T) {
	backend := &fakeBackend{topKs: map[string]int{}}
	a := NewAugmentor(backend, config.DefaultNamespaces(), time.Second, logger.New("error", "text"))

	for _, topK := range []int{0, -1} {
		if _, err := a.Search(context.Background(), "q", topK, "news"); apperr.KindOf(err) != apperr.KindValidation {
			t.Errorf("Search(topK=%d) error = %v, want validation", topK, err)
		}
	}
	if len(backend.topKs) != 0 {
		t.Error("backend should not be called for an invalid topK")
	}
}

func TestAugmentRecoversPanickingNamespace(t *testing.T) {
	backend := &fakeBackend{
		matches: map[string][]Match{"arXiv": paperMatches(2)},
		panics:  map[string]bool{"news": true},
	}
	a := NewAugmentor(backend, config.DefaultNamespaces(), time.Second, logger.New("error", "text"))

	aug := a.Augment(context.Background(), "q")
	if len(aug.ByRole(config.RolePapers)) != 2 {
		t.Error("papers should survive a panicking news backend")
	}
	if !reflect.DeepEqual(aug.Degraded(), []string{"news"}) {
		t.Errorf("Degraded() = %v, want [news]", aug.Degraded())
	}
	if apperr.KindOf(aug.Results[1].Err) != apperr.KindRetrieval {
		t.Errorf("news error = %v, want retrieval kind", aug.Results[1].Err)
	}

	if _, err := a.Search(context.Background(), "q", 5, "news"); apperr.KindOf(err) != apperr.KindRetrieval {
		t.Errorf("Search(news) error = %v, want retrieval kind", err)
	}
}

func TestAugmentTimeout(t *testing.T) {
	backend := &fakeBackend{
		matches: map[string][]Match{"arXiv": paperMatches(1)},
		block:   map[string]bool{"news": true},
	}
	a := NewAugmentor(backend, config.DefaultNamespaces(), 20*time.Millisecond, logger.New("error", "text"))

	aug := a.Augment(context.Background(), "q")
	if len(aug.ByRole(config.RolePapers)) != 1 {
		t.Error("papers should survive a slow news namespace")
	}
	if !errors.Is(aug.Results[1].Err, context.DeadlineExceeded) {
		t.Errorf("news error = %v, want deadline exceeded", aug.Results[1].Err)
	}
}

func TestNoopBackend(t *testing.T) {
	b, err := NewBackend(context.Background(), config.RetrievalConfig{Backend: config.BackendNone}, logger.New("error", "text"))
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	a := NewAugmentor(b, config.DefaultNamespaces(), time.Second, logger.New("error", "text"))
	aug := a.Augment(context.Background(), "q")
	if len(aug.Degraded()) != 0 {
		t.Errorf("Degraded() = %v, want none", aug.Degraded())
	}
}
