package service

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/pkordes/roadscan/internal/domain"
	"github.com/pkordes/roadscan/internal/notify"
	"github.com/pkordes/roadscan/internal/observability"
	"github.com/pkordes/roadscan/internal/repo"
)

// DefaultInspector is recorded on notes submitted without an inspector name.
const DefaultInspector = "Current Inspector"

// NoteService implements the inspector notes screen: saving notes from the
// form and searching the saved ones.
type NoteService struct {
	repo     repo.NoteRepo
	notifier notify.Notifier
	clock    clockwork.Clock
	metrics  *observability.Metrics
}

// NewNoteService constructs a NoteService.
func NewNoteService(r repo.NoteRepo, n notify.Notifier, clock clockwork.Clock, m *observability.Metrics) *NoteService {
	return &NoteService{repo: r, notifier: n, clock: clock, metrics: m}
}

// NoteSubmission is one save attempt from the notes form.
type NoteSubmission struct {
	Form      domain.NoteForm
	Inspector string
	Tags      []string
}

// Create applies a save attempt. It always returns the form the screen
// should show next: the submitted form on rejection, the default form on
// success. Exactly one notification is sent either way, except when the
// store itself fails.
func (s *NoteService) Create(ctx context.Context, sub NoteSubmission) (domain.NoteForm, domain.InspectorNote, error) {
	next, note, n, err := domain.SubmitNote(sub.Form)
	if err != nil {
		s.metrics.NotesRejected.Inc()
		s.notifier.Notify(ctx, n.Title, n.Message, n.Kind)
		return next, domain.InspectorNote{}, fmt.Errorf("service.NoteService.Create: %w", err)
	}

	note.CreatedAt = s.clock.Now()
	note.Inspector = sub.Inspector
	if note.Inspector == "" {
		note.Inspector = DefaultInspector
	}
	note.Tags = sub.Tags
	if note.Tags == nil {
		note.Tags = []string{}
	}

	saved, err := s.repo.Create(ctx, note)
	if err != nil {
		return sub.Form, domain.InspectorNote{}, fmt.Errorf("service.NoteService.Create: %w", err)
	}

	s.metrics.NotesCreated.Inc()
	s.notifier.Notify(ctx, n.Title, n.Message, n.Kind)
	return next, saved, nil
}

// GetByID returns a single note.
func (s *NoteService) GetByID(ctx context.Context, id int64) (domain.InspectorNote, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.InspectorNote{}, fmt.Errorf("service.NoteService.GetByID: %w", err)
	}
	return n, nil
}

// List returns the page of notes matching query, newest first, plus the
// total number of matches.
func (s *NoteService) List(ctx context.Context, query string, p domain.PaginationParams) ([]domain.InspectorNote, int, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("service.NoteService.List: %w", err)
	}
	matched := domain.SearchNotes(all, query)
	return domain.Paginate(matched, p), len(matched), nil
}
