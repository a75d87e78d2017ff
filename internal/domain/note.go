package domain

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// NoteTimeLayout is how note creation times are displayed on the notes screen.
const NoteTimeLayout = "2006-01-02 3:04 PM"

// Priority ranks an inspector note. It shares the Low/Medium/High scale with
// Severity but is a separate type so the two cannot be mixed up.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// ParsePriority maps a case-insensitive name onto a Priority.
func ParsePriority(s string) (Priority, error) {
	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh} {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: unknown priority %q", ErrValidation, s)
}

// InspectorNote is a free-text observation recorded by a field inspector.
// ID and CreatedAt are assigned when the note is saved.
type InspectorNote struct {
	ID        int64
	Title     string
	Content   string
	Location  string
	CreatedAt time.Time
	Inspector string
	Priority  Priority
	Tags      []string
}

// NoteForm is the state of the "Add New Note" form.
type NoteForm struct {
	Title    string
	Content  string
	Location string
	Priority Priority
}

// DefaultNoteForm returns the empty form with Medium priority selected.
func DefaultNoteForm() NoteForm {
	return NoteForm{Priority: PriorityMedium}
}

// Notification texts emitted by note submission.
const (
	NoteIncompleteTitle   = "Incomplete Note"
	NoteIncompleteMessage = "Please fill in both title and content."
	NoteSavedTitle        = "Note Saved"
	NoteSavedMessage      = "Your inspection note has been saved successfully."
)

// SubmitNote applies a save attempt to form.
//
// Title and Content must be non-empty; they are checked as given, without
// trimming. On rejection the returned form is form itself, so the user can
// correct it, and the error wraps ErrValidation. On success the returned form
// is DefaultNoteForm and note carries the submitted fields; the caller owns
// ID, CreatedAt and Inspector.
func SubmitNote(form NoteForm) (next NoteForm, note InspectorNote, n Notification, err error) {
	if form.Title == "" || form.Content == "" {
		n = Notification{Title: NoteIncompleteTitle, Message: NoteIncompleteMessage, Kind: KindDestructive}
		return form, InspectorNote{}, n, fmt.Errorf("%w: title and content are required", ErrValidation)
	}
	priority := form.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	priority, perr := ParsePriority(string(priority))
	if perr != nil {
		n = Notification{Title: NoteIncompleteTitle, Message: perr.Error(), Kind: KindDestructive}
		return form, InspectorNote{}, n, perr
	}
	note = InspectorNote{
		Title:    form.Title,
		Content:  form.Content,
		Location: form.Location,
		Priority: priority,
	}
	n = Notification{Title: NoteSavedTitle, Message: NoteSavedMessage, Kind: KindDefault}
	return DefaultNoteForm(), note, n, nil
}

// fold case-folds s. A Caser carries state, so each call gets its own.
func fold(s string) string { return cases.Fold().String(s) }

// NoteMatches reports whether query is a case-insensitive substring of the
// note's title, content or location. An empty query matches every note.
func NoteMatches(note InspectorNote, query string) bool {
	if query == "" {
		return true
	}
	q := fold(query)
	for _, field := range []string{note.Title, note.Content, note.Location} {
		if strings.Contains(fold(field), q) {
			return true
		}
	}
	return false
}

// SearchNotes returns the notes matching query in their original order.
// The result is never nil.
func SearchNotes(notes []InspectorNote, query string) []InspectorNote {
	out := make([]InspectorNote, 0, len(notes))
	for _, n := range notes {
		if NoteMatches(n, query) {
			out = append(out, n)
		}
	}
	return out
}
