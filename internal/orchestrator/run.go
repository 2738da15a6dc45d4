package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/nguyentantai21042004/meeting-minutes/internal/apperr"
	"github.com/nguyentantai21042004/meeting-minutes/internal/config"
	"github.com/nguyentantai21042004/meeting-minutes/internal/processor"
	"github.com/nguyentantai21042004/meeting-minutes/internal/report"
	"github.com/nguyentantai21042004/meeting-minutes/internal/retrieval"
	"github.com/nguyentantai21042004/meeting-minutes/internal/summarizer"
	"github.com/nguyentantai21042004/meeting-minutes/internal/transcript"
)

func (o *implOrchestrator) Run(ctx context.Context, sessionID string) (res *Result) {
	res = &Result{SessionID: sessionID}
	o.enter(ctx, res, StateCollecting)

	if !o.locks.tryLock(sessionID) {
		return o.fail(ctx, res, fmt.Errorf("session %s: %w", sessionID, apperr.ErrSessionBusy))
	}
	defer o.locks.unlock(sessionID)

	defer func() {
		if r := recover(); r != nil {
			o.fail(ctx, res, fmt.Errorf("panic: %v", r))
			res.Trace = string(debug.Stack())
		}
	}()

	if err := o.run(ctx, res); err != nil {
		return o.fail(ctx, res, err)
	}
	return res
}

func (o *implOrchestrator) run(ctx context.Context, res *Result) error {
	sessionID := res.SessionID

	sources, err := o.deps.Sources.Sources(ctx, sessionID)
	if err != nil {
		return err
	}
	o.logger.Info(ctx, "Session %s: %d sources collected", sessionID, len(sources))

	// Sources stay in storage on any failure from here on, so a retry can
	// start over from COLLECTING.
	o.enter(ctx, res, StateTranscribing)
	merged, err := o.deps.Merger.Merge(ctx, sources, o.policy)
	if err != nil {
		return err
	}
	for _, f := range merged.Failures {
		res.Skipped = append(res.Skipped, f.Source)
	}
	if len(merged.Failures) > 0 && len(merged.Failures) == len(sources) {
		return merged.Failures[0].Err
	}
	res.Participants = merged.Participants
	res.Transcript = transcript.Render(merged.Segments)

	o.enter(ctx, res, StateSummarizing)
	summary, err := o.deps.Summarizer.Summarize(ctx, res.Transcript)
	if err != nil {
		return err
	}

	o.enter(ctx, res, StateAugmenting)
	aug := o.deps.Augmentor.Augment(ctx, summary.Topic())
	res.Degraded = aug.Degraded()
	if len(res.Degraded) > 0 {
		o.logger.Warn(ctx, "Session %s: continuing without %s", sessionID, strings.Join(res.Degraded, ", "))
	}

	o.enter(ctx, res, StateComposing)
	composed, err := o.deps.Summarizer.Compose(ctx, composeRequest(res.Transcript, summary, aug))
	if err != nil {
		return err
	}
	if composed.Status != "" && !strings.EqualFold(composed.Status, "success") {
		return fmt.Errorf("compose returned status %q", composed.Status)
	}

	o.enter(ctx, res, StatePersisting)
	now := o.now()
	stored, err := o.deps.Reports.Insert(ctx, report.Report{
		Title:        report.Title(sessionID, now),
		Content:      composed.Report,
		UploadedAt:   now,
		Participants: res.Participants,
	})
	if err != nil {
		return err
	}
	res.Report = stored

	if o.deps.Exporter != nil {
		path, err := o.deps.Exporter.Export(ctx, report.Document{
			Title:        stored.Title,
			Participants: stored.Participants,
			Summary:      summary.Final,
			Transcript:   res.Transcript,
		})
		if err != nil {
			o.logger.Warn(ctx, "Session %s: docx export failed: %v", sessionID, err)
		}
		res.DocxPath = path
	}

	if err := o.deps.Sources.Release(ctx, sessionID, sourceNames(sources)); err != nil {
		o.logger.Warn(ctx, "Session %s: report stored but sources not released: %v", sessionID, err)
	}

	o.enter(ctx, res, StateDone)
	o.logger.Info(ctx, "Session %s done: report %s", sessionID, stored.ID)
	return nil
}

func sourceNames(sources []processor.Source) []string {
	names := make([]string, len(sources))
	for i, src := range sources {
		names[i] = src.Name
	}
	return names
}

// composeRequest maps retrieval roles onto the compose payload slots.
func composeRequest(text string, s *summarizer.Summary, aug *retrieval.Augmentation) summarizer.ComposeRequest {
	req := summarizer.ComposeRequest{
		Text:         text,
		Summary:      s.Final,
		ActionsTable: s.ActionsTable,
		Top3:         s.Top3,
	}
	for _, h := range aug.ByRole(config.RolePapers) {
		req.PdfLink = append(req.PdfLink, h.Link)
		req.PdfTitle = append(req.PdfTitle, h.Title)
	}
	for _, h := range aug.ByRole(config.RoleNews) {
		req.NewsLink = append(req.NewsLink, h.Link)
		req.NewsTitle = append(req.NewsTitle, h.Title)
	}
	for _, h := range aug.ByRole(config.RoleWiki) {
		req.Wiki = append(req.Wiki, h.Text)
	}
	return req
}

func (o *implOrchestrator) enter(ctx context.Context, res *Result, s State) {
	res.State = s
	res.Stages = append(res.Stages, s)
	o.logger.Debug(ctx, "Session %s -> %s", res.SessionID, s)
}

// fail moves res to FAILED. This is the only place a run's errors are
// translated for callers.
func (o *implOrchestrator) fail(ctx context.Context, res *Result, err error) *Result {
	res.FailedStage = res.State
	res.Kind = apperr.KindOf(err)
	res.Message = err.Error()
	res.Trace = errorTrace(err)
	o.enter(ctx, res, StateFailed)

	o.logger.Error(ctx, "Session %s failed at %s (%s): %v", res.SessionID, res.FailedStage, res.Kind, err)
	return res
}

// errorTrace lists the wrapped error chain, outermost first.
func errorTrace(err error) string {
	var b strings.Builder
	for depth := 0; err != nil; depth++ {
		fmt.Fprintf(&b, "%s%T: %v\n", strings.Repeat("  ", depth), err, err)
		err = errors.Unwrap(err)
	}
	return b.String()
}
