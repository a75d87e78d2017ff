package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UploadKind distinguishes survey data reports from dashboard camera video.
type UploadKind string

const (
	UploadData  UploadKind = "data"
	UploadVideo UploadKind = "video"
)

// ParseUploadKind maps a form value onto an UploadKind.
func ParseUploadKind(s string) (UploadKind, error) {
	switch UploadKind(strings.ToLower(strings.TrimSpace(s))) {
	case UploadData:
		return UploadData, nil
	case UploadVideo:
		return UploadVideo, nil
	}
	return "", fmt.Errorf("%w: kind must be %q or %q", ErrValidation, UploadData, UploadVideo)
}

// acceptedExtensions lists the file extensions each kind may carry.
// Spreadsheet reports are not accepted; CheckExtension rejects them with a
// message asking for a CSV export instead of the generic one.
var acceptedExtensions = map[UploadKind][]string{
	UploadData:  {".csv", ".json"},
	UploadVideo: {".mp4", ".avi", ".mov", ".webm"},
}

// CheckExtension returns ErrUnsupportedFormat unless name carries an
// extension accepted for kind.
func CheckExtension(kind UploadKind, name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range acceptedExtensions[kind] {
		if ext == e {
			return nil
		}
	}
	if kind == UploadData && (ext == ".xlsx" || ext == ".xls") {
		return fmt.Errorf("%w: spreadsheet reports must be exported to CSV before upload", ErrUnsupportedFormat)
	}
	return fmt.Errorf("%w: %q is not a supported %s file", ErrUnsupportedFormat, ext, kind)
}

// UploadStatus is the phase of an upload.
type UploadStatus string

const (
	StatusIdle      UploadStatus = "idle"
	StatusUploading UploadStatus = "uploading"
	StatusSuccess   UploadStatus = "success"
	StatusError     UploadStatus = "error"
	StatusCancelled UploadStatus = "cancelled"
)

// UploadState is the upload state machine:
//
//	idle -> uploading -> success | error | cancelled
//
// Every transition is a method returning the next state; the receiver is
// never modified. Progress only grows and never leaves [0, 100]. Once a
// terminal state is reached further events are ignored, so each terminal
// transition happens at most once.
type UploadState struct {
	Status   UploadStatus
	Progress int
	Err      string
}

// Terminal reports whether s is success, error or cancelled.
func (s UploadState) Terminal() bool {
	switch s.Status {
	case StatusSuccess, StatusError, StatusCancelled:
		return true
	}
	return false
}

// Start enters uploading at 0%. A running upload is left as is; a finished
// one starts over, as when the user selects another file.
func (s UploadState) Start() UploadState {
	if s.Status == StatusUploading {
		return s
	}
	return UploadState{Status: StatusUploading}
}

// Advance moves progress to percent while uploading. Values are clamped to
// [0, 100] and never move progress backwards. Reaching 100 does not finish
// the upload; Succeed does.
func (s UploadState) Advance(percent int) UploadState {
	if s.Status != StatusUploading {
		return s
	}
	percent = min(max(percent, 0), 100)
	if percent > s.Progress {
		s.Progress = percent
	}
	return s
}

// Succeed completes an upload at 100%. The bool is false when s was not
// uploading and nothing changed.
func (s UploadState) Succeed() (UploadState, bool) {
	if s.Status != StatusUploading {
		return s, false
	}
	return UploadState{Status: StatusSuccess, Progress: 100}, true
}

// Fail moves an upload to error, keeping the progress reached.
func (s UploadState) Fail(err error) (UploadState, bool) {
	if s.Status != StatusUploading {
		return s, false
	}
	msg := "upload failed"
	if err != nil {
		msg = err.Error()
	}
	return UploadState{Status: StatusError, Progress: s.Progress, Err: msg}, true
}

// Cancel moves an upload to cancelled, keeping the progress reached.
func (s UploadState) Cancel() (UploadState, bool) {
	if s.Status != StatusUploading {
		return s, false
	}
	return UploadState{Status: StatusCancelled, Progress: s.Progress, Err: ErrCancelled.Error()}, true
}

// PercentOf converts bytes written out of total into a whole percentage.
// An unknown total (<= 0) reports 0 until the upload finishes.
func PercentOf(written, total int64) int {
	if total <= 0 {
		return 0
	}
	if written >= total {
		return 100
	}
	return int(written * 100 / total)
}

// Upload is one file transfer and, for data files, its ingestion.
type Upload struct {
	ID           uuid.UUID
	Kind         UploadKind
	FileName     string
	Size         int64 // declared size; -1 when unknown
	BytesWritten int64
	State        UploadState
	Ingested     int
	StartedAt    time.Time
	FinishedAt   time.Time
}

// SimulateTicks drives a fresh upload with a fixed step per tick, the way
// the demo upload screen does without a real transfer, and returns every
// state observed after the start. The tick that finds progress at 100
// completes the upload, so the last state is success at 100 and appears
// exactly once. A step below 1 is treated as 1.
func SimulateTicks(step int) []UploadState {
	step = max(step, 1)
	s := UploadState{}.Start()
	var states []UploadState
	for !s.Terminal() {
		if s.Progress >= 100 {
			s, _ = s.Succeed()
		} else {
			s = s.Advance(s.Progress + step)
		}
		states = append(states, s)
	}
	return states
}
