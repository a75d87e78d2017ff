package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/pkordes/roadscan/internal/domain"
)

// ErrorDetail is the body of every error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the error envelope: {"error":{"code","message"}}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// Error codes.
const (
	codeNotFound          = "not_found"
	codeValidation        = "validation_error"
	codePayloadTooLarge   = "payload_too_large"
	codeUnsupportedFormat = "unsupported_format"
	codeCancelled         = "upload_cancelled"
	codeInternal          = "internal_error"
)

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorBody(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// notFound writes a 404. The caller supplies the message (e.g. "note not
// found") because the handler is the layer that knows what was looked up.
func notFound(w http.ResponseWriter, message string) {
	writeErrorBody(w, http.StatusNotFound, codeNotFound, message)
}

// badRequest writes a 422 for input rejected before reaching the service
// layer (malformed JSON, unparseable query parameters).
func badRequest(w http.ResponseWriter, message string) {
	writeErrorBody(w, http.StatusUnprocessableEntity, codeValidation, message)
}

// writeError maps a service error onto a status and code with errors.Is.
// Anything unrecognised is logged and reported as a bare 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, notFoundMessage string) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		notFound(w, notFoundMessage)
	case errors.Is(err, domain.ErrTooLarge), errors.As(err, &maxBytes):
		writeErrorBody(w, http.StatusRequestEntityTooLarge, codePayloadTooLarge, unwrapMessage(err))
	case errors.Is(err, domain.ErrUnsupportedFormat):
		writeErrorBody(w, http.StatusUnsupportedMediaType, codeUnsupportedFormat, unwrapMessage(err))
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrIngest):
		writeErrorBody(w, http.StatusUnprocessableEntity, codeValidation, unwrapMessage(err))
	case errors.Is(err, domain.ErrCancelled):
		writeErrorBody(w, http.StatusConflict, codeCancelled, unwrapMessage(err))
	default:
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeErrorBody(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}

// locationPrefix matches the "pkg.Type.Method: " context each layer adds
// when wrapping an error.
var locationPrefix = regexp.MustCompile(`[a-z]+\.[A-Z]\w*(?:\.[A-Z]\w*)?: `)

// unwrapMessage extracts the human-readable part of a wrapped error.
// e.g. "service.NoteService.Create: validation error: title and content are required"
// becomes "title and content are required".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	return cleanMessage(err.Error())
}

func cleanMessage(msg string) string {
	msg = locationPrefix.ReplaceAllString(msg, "")
	return strings.TrimPrefix(msg, domain.ErrValidation.Error()+": ")
}
