package report

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("report not found")

// Report is the persisted outcome of one session run.
type Report struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	UploadedAt   time.Time `json:"uploaded_at"`
	Participants []string  `json:"participants"`
}

// Patch is a partial update; nil fields are left unchanged.
type Patch struct {
	Title        *string    `json:"title,omitempty"`
	Content      *string    `json:"content,omitempty"`
	UploadedAt   *time.Time `json:"uploaded_at,omitempty"`
	Participants *[]string  `json:"participants,omitempty"`
}

// Empty reports whether p changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.UploadedAt == nil && p.Participants == nil
}

// Title names a report after its session and day, e.g. "Standup_20261015".
func Title(sessionID string, at time.Time) string {
	return sessionID + "_" + at.Format("20060102")
}

// Document is the input of an export.
type Document struct {
	Title        string
	Participants []string
	Summary      string
	// Transcript is the rendered block document.
	Transcript string
}
