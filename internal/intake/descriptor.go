package intake

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/meeting-minutes/internal/apperr"
	"github.com/nguyentantai21042004/meeting-minutes/internal/processor"
)

// Descriptor is what an upload filename of the form speaker_session.ext
// tells us about the recording.
type Descriptor struct {
	Filename  string `json:"filename"`
	Speaker   string `json:"speaker"`
	SessionID string `json:"session_id"`
	Ext       string `json:"ext"`
}

// SessionInfo summarises one stored session.
type SessionInfo struct {
	ID        string    `json:"id"`
	Sources   []string  `json:"sources"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ParseDescriptor validates an upload filename. The session is everything
// after the first underscore, so "Amy_Weekly_Sync.wav" belongs to "Weekly_Sync".
func ParseDescriptor(filename string) (Descriptor, error) {
	invalid := func(reason string) (Descriptor, error) {
		return Descriptor{}, &apperr.ValidationError{Field: "filename", Value: filename, Reason: reason}
	}

	if filename == "" {
		return invalid("empty")
	}
	if strings.ContainsAny(filename, `/\`) || filename != filepath.Base(filename) {
		return invalid("must not contain a path")
	}
	if !processor.IsSupported(filename) {
		return invalid("extension must be one of " + strings.Join(processor.SupportedExtensions, ", "))
	}

	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	speaker, session, ok := strings.Cut(stem, "_")
	if !ok || speaker == "" || session == "" {
		return invalid("expected speaker_session" + strings.ToLower(ext))
	}
	if err := ValidateSessionID(session); err != nil {
		return invalid(err.Error())
	}

	return Descriptor{
		Filename:  filename,
		Speaker:   speaker,
		SessionID: session,
		Ext:       strings.ToLower(ext),
	}, nil
}

// ValidateSessionID rejects identifiers that cannot be used as a directory name.
func ValidateSessionID(id string) error {
	if id == "" || id == "." || id == ".." || strings.HasPrefix(id, ".") {
		return &apperr.ValidationError{Field: "session", Value: id, Reason: "not a valid session id"}
	}
	if strings.ContainsAny(id, `/\`) {
		return &apperr.ValidationError{Field: "session", Value: id, Reason: "must not contain a path"}
	}
	return nil
}
