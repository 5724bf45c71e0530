package http

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/mind-engage/progress-tracker/internal/report"
	"github.com/mind-engage/progress-tracker/internal/scoring"
)

type errorBody struct {
	Error  string              `json:"error"`
	Fields []report.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps form and scoring errors to 400, oversized bodies to 413,
// everything else to 500.
func writeError(w http.ResponseWriter, err error) {
	var verr *report.ValidationError
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &mbe):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "request body too large"})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: errors.Cause(verr.Err).Error(), Fields: verr.Fields})
	case errors.Is(err, scoring.ErrInvalidInput), errors.Is(err, scoring.ErrEmptyInput):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}
