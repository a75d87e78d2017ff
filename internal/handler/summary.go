package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/pkordes/roadscan/internal/service"
)

// GetSummary handles GET /api/summary.
func (s *Server) GetSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.summary.Summary(r.Context())
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, summaryToResponse(sum))
}

// ExportSummary handles GET /api/summary/export?format=csv|pdf (default csv).
// The export is built in memory first so a failure still produces a JSON error.
func (s *Server) ExportSummary(w http.ResponseWriter, r *http.Request) {
	var raw *string
	if err := bindQuery(r, "format", &raw); err != nil {
		badRequest(w, "format must be a string")
		return
	}
	format, err := service.ParseExportFormat(deref(raw))
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	var buf bytes.Buffer
	if err := s.summary.Export(r.Context(), format, &buf); err != nil {
		s.writeError(w, r, err, "")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "distress-summary."+string(format)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
