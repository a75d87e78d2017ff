package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/roadscan/internal/domain"
	"github.com/pkordes/roadscan/internal/service"
)

// maxFieldBytes caps the small text fields that precede the file part.
const maxFieldBytes = 64

// partBody hides multipart.Part's Close, which drains the part and must not
// race the runner's reads.
type partBody struct{ io.Reader }

// CreateUpload handles POST /api/uploads.
//
// The body is multipart/form-data with a "kind" field ("data" or "video"),
// an optional "size" field (bytes, for progress), then the "file" part. The
// file is streamed straight to the upload runner; the response is sent once
// the upload is finished, while GET /api/uploads/{id} and /data-upload
// report progress in the meantime.
func (s *Server) CreateUpload(w http.ResponseWriter, r *http.Request) {
	mr, err := r.MultipartReader()
	if err != nil {
		badRequest(w, "request must be multipart/form-data")
		return
	}

	var (
		kind domain.UploadKind
		size int64 = -1
	)
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			badRequest(w, "file is required")
			return
		}
		if err != nil {
			var maxBytes *http.MaxBytesError
			if errors.As(err, &maxBytes) {
				s.writeError(w, r, err, "")
				return
			}
			badRequest(w, "malformed multipart body")
			return
		}

		switch part.FormName() {
		case "kind":
			kind, err = domain.ParseUploadKind(readField(part))
			if err != nil {
				s.writeError(w, r, err, "")
				return
			}
		case "size":
			size, err = strconv.ParseInt(readField(part), 10, 64)
			if err != nil || size < 0 {
				badRequest(w, "size must be a non-negative integer")
				return
			}
		case "file":
			if kind == "" {
				badRequest(w, "kind must be sent before file")
				return
			}
			s.runUpload(w, r, service.StartUpload{
				Kind:     kind,
				FileName: part.FileName(),
				Size:     size,
				Body:     partBody{part},
			})
			return
		default:
			_, _ = io.Copy(io.Discard, part)
		}
	}
}

func readField(part io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(part, maxFieldBytes))
	return strings.TrimSpace(string(b))
}

func (s *Server) runUpload(w http.ResponseWriter, r *http.Request, req service.StartUpload) {
	started, err := s.uploads.Start(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	final, err := s.uploads.Wait(r.Context(), started.ID)
	if err != nil {
		if r.Context().Err() != nil {
			// Client went away; the upload was cancelled with its context.
			return
		}
		s.writeError(w, r, err, "upload not found")
		return
	}

	writeJSON(w, http.StatusCreated, uploadToResponse(final))
}

// GetUpload handles GET /api/uploads/{id}.
func (s *Server) GetUpload(w http.ResponseWriter, r *http.Request) {
	var id openapi_types.UUID
	if err := bindPathParam(r, "id", &id); err != nil {
		badRequest(w, "id must be a UUID")
		return
	}

	u, err := s.uploads.Get(id)
	if err != nil {
		s.writeError(w, r, err, "upload not found")
		return
	}

	writeJSON(w, http.StatusOK, uploadToResponse(u))
}

// CancelUpload handles DELETE /api/uploads/{id}.
// Cancellation is asynchronous: 202 carries the state at the time of the
// request, and the upload reaches cancelled shortly after.
func (s *Server) CancelUpload(w http.ResponseWriter, r *http.Request) {
	var id openapi_types.UUID
	if err := bindPathParam(r, "id", &id); err != nil {
		badRequest(w, "id must be a UUID")
		return
	}

	if err := s.uploads.Cancel(id); err != nil {
		s.writeError(w, r, err, "upload not found")
		return
	}
	u, err := s.uploads.Get(id)
	if err != nil {
		s.writeError(w, r, err, "upload not found")
		return
	}

	writeJSON(w, http.StatusAccepted, uploadToResponse(u))
}
