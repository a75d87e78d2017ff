package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/roadscan/internal/domain"
)

func TestProcessingSteps(t *testing.T) {
	for _, status := range []domain.UploadStatus{domain.StatusIdle, domain.StatusUploading, domain.StatusError, domain.StatusCancelled, ""} {
		steps := domain.ProcessingSteps(status)
		assert.Equal(t, "Video Synchronization", steps[2].Name)
		assert.Equal(t, domain.StepPending, steps[2].Status, "status %q", status)
		assert.False(t, domain.CanViewMap(status))
	}

	steps := domain.ProcessingSteps(domain.StatusSuccess)
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.Name
		assert.Equal(t, domain.StepDone, s.Status)
	}
	assert.Equal(t, []string{"Data Parsing", "Geo-tagging", "Video Synchronization", "Map Generation"}, names)
	assert.True(t, domain.CanViewMap(domain.StatusSuccess))
}

func TestNotesEmptyMessage(t *testing.T) {
	assert.Equal(t, domain.NotesEmptyStartCreating, domain.NotesEmptyMessage(""))
	assert.Equal(t, domain.NotesEmptyNoMatch, domain.NotesEmptyMessage("bridge"))
}
