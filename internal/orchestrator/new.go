package orchestrator

import (
	"time"

	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
	"github.com/nguyentantai21042004/meeting-minutes/internal/processor"
	"github.com/nguyentantai21042004/meeting-minutes/internal/report"
	"github.com/nguyentantai21042004/meeting-minutes/internal/retrieval"
	"github.com/nguyentantai21042004/meeting-minutes/internal/summarizer"
)

// Deps are the clients a run talks to. Exporter may be nil.
type Deps struct {
	Sources    SourceStore
	Merger     processor.Merger
	Summarizer summarizer.Summarizer
	Augmentor  retrieval.Augmentor
	Reports    ReportWriter
	Exporter   report.Exporter
}

type Options struct {
	// Policy is the merge policy; empty means fail-fast.
	Policy processor.Policy
	Now    func() time.Time
}

type implOrchestrator struct {
	deps   Deps
	policy processor.Policy
	now    func() time.Time
	locks  *sessionLocks
	logger logger.Logger
}

// New creates an Orchestrator over deps.
func New(deps Deps, opts Options, log logger.Logger) Orchestrator {
	if opts.Policy == "" {
		opts.Policy = processor.PolicyFailFast
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &implOrchestrator{
		deps:   deps,
		policy: opts.Policy,
		now:    opts.Now,
		locks:  newSessionLocks(),
		logger: log,
	}
}
