package httpapi

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nguyentantai21042004/meeting-minutes/internal/apperr"
	"github.com/nguyentantai21042004/meeting-minutes/internal/intake"
	"github.com/nguyentantai21042004/meeting-minutes/internal/orchestrator"
)

// multipartMemory is how much of an upload is held in memory before
// spilling to temp files.
const multipartMemory = 32 << 20

type uploadResponse struct {
	Status   string              `json:"status"`
	Uploaded []intake.Descriptor `json:"uploaded"`
}

func (s *implServer) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// upload stores every file of a multipart request. All filenames are
// validated before anything is written.
func (s *implServer) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErrorf(w, http.StatusRequestEntityTooLarge, "upload exceeds %d bytes", tooLarge.Limit)
			return
		}
		writeError(w, &apperr.ValidationError{Field: "body", Reason: err.Error()})
		return
	}
	defer r.MultipartForm.RemoveAll()

	var files []*multipart.FileHeader
	files = append(files, r.MultipartForm.File["files"]...)
	files = append(files, r.MultipartForm.File["file"]...)
	if len(files) == 0 {
		writeError(w, &apperr.ValidationError{Field: "files", Reason: "no file in request"})
		return
	}

	descriptors := make([]intake.Descriptor, 0, len(files))
	for _, fh := range files {
		d, err := intake.ParseDescriptor(fh.Filename)
		if err != nil {
			writeError(w, err)
			return
		}
		descriptors = append(descriptors, d)
	}

	for i, fh := range files {
		if err := s.save(r, descriptors[i], fh); err != nil {
			writeError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusCreated, uploadResponse{Status: "success", Uploaded: descriptors})
}

func (s *implServer) save(r *http.Request, d intake.Descriptor, fh *multipart.FileHeader) error {
	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()
	return s.deps.Sources.Save(r.Context(), d, f)
}

func (s *implServer) listSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.deps.Sources.Sessions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if sessions == nil {
		sessions = []intake.SessionInfo{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

// process runs a session to completion and answers with the run result.
// A failed run keeps the status of its error kind.
func (s *implServer) process(w http.ResponseWriter, r *http.Request) {
	res := s.deps.Orchestrator.Run(r.Context(), chi.URLParam(r, "sessionID"))

	status := http.StatusOK
	if res.State == orchestrator.StateFailed {
		status = statusFor(res.Kind)
	}
	writeJSON(w, status, res)
}
