package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pkordes/roadscan/internal/domain"
	"github.com/pkordes/roadscan/internal/service"
)

// CreateNoteRequest is the body of POST /api/notes.
type CreateNoteRequest struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Location  string   `json:"location"`
	Priority  string   `json:"priority"`
	Inspector string   `json:"inspector"`
	Tags      []string `json:"tags"`
}

// CreateNoteResponse carries the saved note and the form the screen shows next.
type CreateNoteResponse struct {
	Note Note     `json:"note"`
	Form NoteForm `json:"form"`
}

// NoteList is the body of GET /api/notes.
type NoteList struct {
	Data       []Note     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// CreateNote handles POST /api/notes.
func (s *Server) CreateNote(w http.ResponseWriter, r *http.Request) {
	var body CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			s.writeError(w, r, err, "")
			return
		}
		badRequest(w, "request body must be a JSON note")
		return
	}

	form := domain.NoteForm{
		Title:    body.Title,
		Content:  body.Content,
		Location: body.Location,
		Priority: domain.Priority(body.Priority),
	}
	next, note, err := s.notes.Create(r.Context(), service.NoteSubmission{
		Form:      form,
		Inspector: body.Inspector,
		Tags:      body.Tags,
	})
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusCreated, CreateNoteResponse{Note: noteToResponse(note), Form: formToResponse(next)})
}

// ListNotes handles GET /api/notes.
// Supports ?q= (case-insensitive search over title, content and location)
// and ?page= / ?limit= (defaults: page=1, limit=20, max=100).
func (s *Server) ListNotes(w http.ResponseWriter, r *http.Request) {
	params, err := paginationFromQuery(r)
	if err != nil {
		badRequest(w, "page and limit must be integers")
		return
	}
	var q *string
	if err := bindQuery(r, "q", &q); err != nil {
		badRequest(w, "q must be a string")
		return
	}

	notes, total, err := s.notes.List(r.Context(), deref(q), params)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	data := make([]Note, len(notes))
	for i, n := range notes {
		data[i] = noteToResponse(n)
	}
	writeJSON(w, http.StatusOK, NoteList{
		Data:       data,
		Pagination: Pagination{Page: params.Page, Limit: params.Limit, Total: total},
	})
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
