package server

import (
	"encoding/json"
	"errors"
	"net/http"

	errs "github.com/matzehuels/commitgraph/pkg/errors"
)

type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errs.Code) int {
	switch code {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidGraph, errs.ErrCodeInvalidDirection,
		errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidVizType, errs.ErrCodeInvalidConfig,
		errs.ErrCodeInvalidSource, errs.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errs.ErrCodeNotFound, errs.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errs.ErrCodeRenderFailed:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

// writeErr writes err as a JSON error body. Uncoded errors become
// INTERNAL_ERROR without leaking their text.
func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, r, http.StatusRequestEntityTooLarge, string(errs.ErrCodeInvalidInput), "request body too large")
		return
	}

	code := errs.GetCode(err)
	if code == "" {
		s.logger.Error("unhandled error", "id", RequestID(r.Context()), "err", err)
		writeError(w, r, http.StatusInternalServerError, string(errs.ErrCodeInternal), "internal error")
		return
	}
	writeError(w, r, statusFor(code), string(code), errs.UserMessage(err))
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeJSON(w, status, errorBody{Code: code, Message: msg, RequestID: RequestID(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
