package processor

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nguyentantai21042004/meeting-minutes/internal/apperr"
	"github.com/nguyentantai21042004/meeting-minutes/internal/transcript"
)

// Merge transcribes every source concurrently and returns one script sorted
// by start time. Under PolicyFailFast the first failing source aborts the
// batch and no segments are returned.
func (m *implMerger) Merge(ctx context.Context, sources []Source, policy Policy) (*MergeResult, error) {
	m.logger.Info(ctx, "Merging %d sources (%s)", len(sources), policy)

	switch policy {
	case PolicyBestEffort:
		return m.mergeBestEffort(ctx, sources)
	case PolicyFailFast, "":
		return m.mergeFailFast(ctx, sources)
	default:
		return nil, fmt.Errorf("unknown merge policy %q", policy)
	}
}

func (m *implMerger) mergeFailFast(ctx context.Context, sources []Source) (*MergeResult, error) {
	results := make([][]transcript.Segment, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			segments, err := m.transcribeOne(gctx, src)
			if err != nil {
				return err
			}
			results[i] = segments
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		m.logger.Error(ctx, "Merge aborted: %v", err)
		return nil, err
	}

	return assemble(sources, results, nil), nil
}

func (m *implMerger) mergeBestEffort(ctx context.Context, sources []Source) (*MergeResult, error) {
	results := make([][]transcript.Segment, len(sources))
	errs := make([]error, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = m.transcribeOne(ctx, src)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			m.logger.Warn(ctx, "Skipping %s: %v", sources[i].Name, err)
		}
	}

	return assemble(sources, results, errs), nil
}

// transcribeOne waits for a shared transcription slot before running.
// A panicking transcriber is reported as a failure of src.
func (m *implMerger) transcribeOne(ctx context.Context, src Source) (segments []transcript.Segment, err error) {
	defer func() {
		if r := recover(); r != nil {
			segments, err = nil, &apperr.TranscriptionError{Source: src.Name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	m.logger.Debug(ctx, "Queueing %s (%d free transcription slots)", src.Name, m.sem.available())
	if err := m.sem.acquire(ctx); err != nil {
		return nil, fmt.Errorf("wait for transcription slot: %w", err)
	}
	defer m.sem.release()

	return m.transcriber.Transcribe(ctx, src)
}

// assemble concatenates per-source results in input order, then stable-sorts,
// so equal start times keep their cross-source input order.
func assemble(sources []Source, results [][]transcript.Segment, errs []error) *MergeResult {
	out := &MergeResult{}
	seen := make(map[string]bool)

	for i, src := range sources {
		if errs != nil && errs[i] != nil {
			out.Failures = append(out.Failures, SourceFailure{Source: src.Name, Err: errs[i]})
			continue
		}
		out.Segments = append(out.Segments, results[i]...)

		speaker := transcript.SpeakerFromFilename(src.Name)
		if !seen[speaker] {
			seen[speaker] = true
			out.Participants = append(out.Participants, speaker)
		}
	}

	transcript.SortByStart(out.Segments)
	return out
}
