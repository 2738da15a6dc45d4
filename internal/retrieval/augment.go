package retrieval

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/nguyentantai21042004/meeting-minutes/internal/apperr"
	"github.com/nguyentantai21042004/meeting-minutes/internal/config"
)

func (a *implAugmentor) Search(ctx context.Context, query string, topK int, namespace string) ([]Hit, error) {
	ns, ok := a.namespace(namespace)
	if !ok {
		return nil, &apperr.ValidationError{Field: "namespace", Value: namespace, Reason: "not configured"}
	}
	if topK <= 0 {
		return nil, &apperr.ValidationError{Field: "top_k", Value: strconv.Itoa(topK), Reason: "must be positive"}
	}
	return a.search(ctx, query, topK, ns)
}

func (a *implAugmentor) Augment(ctx context.Context, query string) *Augmentation {
	out := &Augmentation{Results: make([]NamespaceResult, len(a.namespaces))}

	var wg sync.WaitGroup
	for i, ns := range a.namespaces {
		wg.Add(1)
		go func() {
			defer wg.Done()

			hits, err := a.search(ctx, query, ns.TopK, ns)
			if err != nil {
				a.logger.Warn(ctx, "Retrieval degraded for namespace %s: %v", ns.Name, err)
				hits = nil
			}
			out.Results[i] = NamespaceResult{
				Namespace: ns.Name,
				Role:      ns.Role,
				Hits:      hits,
				Err:       err,
			}
		}()
	}
	wg.Wait()

	return out
}

// search runs one lookup under the per-namespace timeout. Every failure,
// a panicking backend included, is returned as an *apperr.RetrievalError.
func (a *implAugmentor) search(ctx context.Context, query string, topK int, ns config.NamespaceConfig) (hits []Hit, err error) {
	defer func() {
		if r := recover(); r != nil {
			hits, err = nil, &apperr.RetrievalError{Namespace: ns.Name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	matches, err := a.backend.Search(ctx, ns.Name, query, topK)
	if err != nil {
		return nil, &apperr.RetrievalError{Namespace: ns.Name, Err: err}
	}
	if len(matches) > topK {
		matches = matches[:topK]
	}

	hits = make([]Hit, 0, len(matches))
	for rank, m := range matches {
		hit, err := extract(ns.Name, ns.Fields, m)
		if err != nil {
			return nil, &apperr.RetrievalError{Namespace: ns.Name, Err: fmt.Errorf("hit %d: %w", rank+1, err)}
		}
		hits = append(hits, hit)
	}

	a.logger.Debug(ctx, "Namespace %s returned %d hits", ns.Name, len(hits))
	return hits, nil
}

func (a *implAugmentor) namespace(name string) (config.NamespaceConfig, bool) {
	for _, ns := range a.namespaces {
		if ns.Name == name {
			return ns, true
		}
	}
	return config.NamespaceConfig{}, false
}

// extract copies only the requested fields; a missing one is an error.
func extract(namespace string, fields []string, m Match) (Hit, error) {
	hit := Hit{Namespace: namespace}
	for _, f := range fields {
		v, ok := m.Fields[f]
		if !ok {
			return Hit{}, fmt.Errorf("missing field %q", f)
		}
		switch f {
		case FieldLink:
			hit.Link = v
		case FieldTitle:
			hit.Title = v
		case FieldText:
			hit.Text = v
		default:
			return Hit{}, fmt.Errorf("unknown field %q", f)
		}
	}
	return hit, nil
}
