// Package transcript holds speaker-tagged segments and renders the merged
// meeting script in SRT-style blocks.
package transcript

import (
	"path/filepath"
	"sort"
	"strings"
)

// Segment is one transcribed utterance attributed to a speaker.
type Segment struct {
	Speaker    string  `json:"speaker"`
	Text       string  `json:"text"`
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
	SourceName string  `json:"source_name"`
}

// SpeakerDelimiter separates the speaker label from the rest of a filename.
const SpeakerDelimiter = "_"

// SpeakerFromFilename returns the label before the first delimiter, or the
// filename stem when there is none.
func SpeakerFromFilename(filename string) string {
	base := filepath.Base(filename)
	if i := strings.Index(base, SpeakerDelimiter); i >= 0 {
		return base[:i]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SortByStart orders segments by start time in place. Equal start times keep
// their input order.
func SortByStart(segments []Segment) {
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].StartTime < segments[j].StartTime
	})
}

// Participants returns the distinct speakers in first-seen order.
func Participants(segments []Segment) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range segments {
		if seen[s.Speaker] {
			continue
		}
		seen[s.Speaker] = true
		out = append(out, s.Speaker)
	}
	return out
}
