package domain

// StepStatus is the state of one processing step on the upload screen.
type StepStatus string

const (
	StepDone    StepStatus = "done"
	StepPending StepStatus = "pending"
)

// ProcessingStep is one row of the upload screen's processing status.
type ProcessingStep struct {
	Name   string
	Status StepStatus
}

// ProcessingSteps derives the processing status from the latest upload's
// status. Parsing, geo-tagging and map generation run on the stored survey
// and are always done; video synchronisation waits for a successful upload.
func ProcessingSteps(latest UploadStatus) []ProcessingStep {
	videoSync := StepPending
	if latest == StatusSuccess {
		videoSync = StepDone
	}
	return []ProcessingStep{
		{Name: "Data Parsing", Status: StepDone},
		{Name: "Geo-tagging", Status: StepDone},
		{Name: "Video Synchronization", Status: videoSync},
		{Name: "Map Generation", Status: StepDone},
	}
}

// CanViewMap reports whether the upload screen offers the way through to the
// video/map viewer.
func CanViewMap(latest UploadStatus) bool {
	return latest == StatusSuccess
}

// PreviewRows is how many records the upload screen previews.
const PreviewRows = 5

// Empty-state texts for the notes list.
const (
	NotesEmptyTitle         = "No Notes Found"
	NotesEmptyNoMatch       = "No notes match your search criteria."
	NotesEmptyStartCreating = "Start by adding your first inspection note."
)

// NotesEmptyMessage returns the message shown when the notes list is empty.
func NotesEmptyMessage(query string) string {
	if query != "" {
		return NotesEmptyNoMatch
	}
	return NotesEmptyStartCreating
}
