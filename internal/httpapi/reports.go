package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nguyentantai21042004/meeting-minutes/internal/apperr"
	"github.com/nguyentantai21042004/meeting-minutes/internal/report"
)

type insertRequest struct {
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	Participants []string   `json:"participants"`
	UploadedAt   *time.Time `json:"uploaded_at,omitempty"`
}

type deleteResponse struct {
	Result  string `json:"result"`
	Message string `json:"message"`
}

func (s *implServer) reportsForParticipant(w http.ResponseWriter, r *http.Request) {
	participant := strings.TrimSpace(r.URL.Query().Get("id"))
	if participant == "" {
		writeError(w, &apperr.ValidationError{Field: "id", Reason: "query parameter is required"})
		return
	}
	reports, err := s.deps.Reports.FindByParticipant(r.Context(), participant)
	if err != nil {
		writeError(w, err)
		return
	}
	writeReports(w, reports)
}

func (s *implServer) listReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.deps.Reports.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeReports(w, reports)
}

func writeReports(w http.ResponseWriter, reports []report.Report) {
	if reports == nil {
		reports = []report.Report{}
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *implServer) getReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.deps.Reports.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *implServer) insertReport(w http.ResponseWriter, r *http.Request) {
	var req insertRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, &apperr.ValidationError{Field: "title", Reason: "required"})
		return
	}

	in := report.Report{Title: req.Title, Content: req.Content, Participants: req.Participants}
	if req.UploadedAt != nil {
		in.UploadedAt = *req.UploadedAt
	}
	rep, err := s.deps.Reports.Insert(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rep)
}

// updateReport applies the fields present in the body; "{}" returns the
// report unchanged.
func (s *implServer) updateReport(w http.ResponseWriter, r *http.Request) {
	var patch report.Patch
	if err := parseJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	rep, err := s.deps.Reports.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *implServer) deleteReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.deps.Reports.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{Result: "success", Message: "Report " + id + " has been deleted."})
}
