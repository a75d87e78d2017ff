package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/roadscan/internal/domain"
)

func notes() []domain.InspectorNote {
	return []domain.InspectorNote{
		{ID: 1, Title: "Severe Cracking at KM 5.2", Content: "Multiple longitudinal cracks observed.", Location: "NH-1, KM 5.2"},
		{ID: 2, Title: "Routine Maintenance Required", Content: "Coordinate with bridge maintenance team.", Location: "NH-1, KM 12.7"},
		{ID: 3, Title: "Bridge Approach Inspection", Content: "Bridge approach shows signs of settlement.", Location: "NH-1, KM 25.4"},
	}
}

func noteIDs(ns []domain.InspectorNote) []int64 {
	out := make([]int64, len(ns))
	for i, n := range ns {
		out[i] = n.ID
	}
	return out
}

func TestSearchNotes_CaseInsensitiveAcrossFields(t *testing.T) {
	got := domain.SearchNotes(notes(), "bridge")

	// Note 2 only mentions the bridge in its content.
	assert.Equal(t, []int64{2, 3}, noteIDs(got))
}

func TestSearchNotes_MatchesLocation(t *testing.T) {
	got := domain.SearchNotes(notes(), "km 12.7")

	assert.Equal(t, []int64{2}, noteIDs(got))
}

func TestSearchNotes_EmptyQueryMatchesAll(t *testing.T) {
	got := domain.SearchNotes(notes(), "")

	assert.Equal(t, []int64{1, 2, 3}, noteIDs(got))
}

func TestSearchNotes_NoMatch(t *testing.T) {
	got := domain.SearchNotes(notes(), "pothole")

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestNoteMatches_UpperCaseQuery(t *testing.T) {
	assert.True(t, domain.NoteMatches(notes()[0], "CRACKING"))
}

func TestSubmitNote_MissingTitleRejected(t *testing.T) {
	form := domain.NoteForm{Content: "Some observation", Location: "KM 3", Priority: domain.PriorityHigh}

	next, _, n, err := domain.SubmitNote(form)

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, form, next, "form stays populated for correction")
	assert.Equal(t, domain.NoteIncompleteTitle, n.Title)
	assert.Equal(t, domain.NoteIncompleteMessage, n.Message)
	assert.Equal(t, domain.KindDestructive, n.Kind)
}

func TestSubmitNote_MissingContentRejected(t *testing.T) {
	_, _, _, err := domain.SubmitNote(domain.NoteForm{Title: "Title only"})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSubmitNote_WhitespaceIsNotTrimmed(t *testing.T) {
	_, note, _, err := domain.SubmitNote(domain.NoteForm{Title: " ", Content: " "})

	require.NoError(t, err)
	assert.Equal(t, " ", note.Title)
}

func TestSubmitNote_SuccessResetsForm(t *testing.T) {
	form := domain.NoteForm{Title: "Rutting", Content: "Right wheel path", Location: "KM 18.9", Priority: domain.PriorityLow}

	next, note, n, err := domain.SubmitNote(form)

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultNoteForm(), next)
	assert.Equal(t, domain.PriorityMedium, next.Priority)
	assert.Equal(t, "Rutting", note.Title)
	assert.Equal(t, "KM 18.9", note.Location)
	assert.Equal(t, domain.PriorityLow, note.Priority)
	assert.Equal(t, domain.NoteSavedTitle, n.Title)
	assert.Equal(t, domain.KindDefault, n.Kind)
}

func TestSubmitNote_UnknownPriorityRejected(t *testing.T) {
	_, _, _, err := domain.SubmitNote(domain.NoteForm{Title: "t", Content: "c", Priority: "Urgent"})

	assert.ErrorIs(t, err, domain.ErrValidation)
}
