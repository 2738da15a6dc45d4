package orchestrator

import (
	"github.com/nguyentantai21042004/meeting-minutes/internal/apperr"
	"github.com/nguyentantai21042004/meeting-minutes/internal/report"
)

// State is a step of a session run.
type State string

const (
	StateCollecting   State = "COLLECTING"
	StateTranscribing State = "TRANSCRIBING"
	StateSummarizing  State = "SUMMARIZING"
	StateAugmenting   State = "AUGMENTING"
	StateComposing    State = "COMPOSING"
	StatePersisting   State = "PERSISTING"
	StateDone         State = "DONE"
	StateFailed       State = "FAILED"
)

// Result is the outcome of one run.
type Result struct {
	SessionID string `json:"session_id"`
	State     State  `json:"state"`
	// Stages lists every state entered, in order.
	Stages []State `json:"stages"`

	FailedStage State       `json:"failed_stage,omitempty"`
	Kind        apperr.Kind `json:"kind,omitempty"`
	Message     string      `json:"message,omitempty"`
	Trace       string      `json:"trace,omitempty"`

	Participants []string       `json:"participants,omitempty"`
	Transcript   string         `json:"transcript,omitempty"`
	Report       *report.Report `json:"report,omitempty"`
	DocxPath     string         `json:"docx_path,omitempty"`
	// Degraded names the retrieval namespaces that fell back to no hits.
	Degraded []string `json:"degraded_namespaces,omitempty"`
	// Skipped names sources dropped by a best-effort merge.
	Skipped []string `json:"skipped_sources,omitempty"`
}

// Reached reports whether the run entered s.
func (r *Result) Reached(s State) bool {
	for _, st := range r.Stages {
		if st == s {
			return true
		}
	}
	return false
}
