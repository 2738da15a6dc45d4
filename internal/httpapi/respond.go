package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/nguyentantai21042004/meeting-minutes/internal/apperr"
	"github.com/nguyentantai21042004/meeting-minutes/internal/report"
)

type errorBody struct {
	Status  string      `json:"status"`
	Kind    apperr.Kind `json:"kind,omitempty"`
	Message string      `json:"message"`
}

func parseJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return &apperr.ValidationError{Field: "body", Reason: "missing request body"}
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &apperr.ValidationError{Field: "body", Reason: err.Error()}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	if errors.Is(err, report.ErrNotFound) {
		kind = apperr.KindNotFound
	}
	writeJSON(w, statusFor(kind), errorBody{Status: "error", Kind: kind, Message: err.Error()})
}

func writeErrorf(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, errorBody{Status: "error", Message: fmt.Sprintf(format, args...)})
}

// statusFor maps an error kind onto the response status.
func statusFor(kind apperr.Kind) int {
	switch kind {
	case "":
		return http.StatusOK
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindNoSources:
		return http.StatusUnprocessableEntity
	case apperr.KindBusy:
		return http.StatusConflict
	case apperr.KindUpstream, apperr.KindTransport:
		return http.StatusBadGateway
	case apperr.KindTimeout:
		return http.StatusGatewayTimeout
	case apperr.KindCancellation:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
