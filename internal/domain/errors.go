package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the store.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. missing note title, unknown severity).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrTooLarge is returned when an upload exceeds the size limit for its kind.
// Handlers should map this to HTTP 413.
var ErrTooLarge = errors.New("file exceeds maximum size")

// ErrUnsupportedFormat is returned when an upload's extension or sniffed
// content type is not accepted for its kind.
// Handlers should map this to HTTP 415.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ErrCancelled marks an upload that was stopped before it completed.
var ErrCancelled = errors.New("upload cancelled")

// ErrIngest is returned when an uploaded data file cannot be parsed into
// distress records.
var ErrIngest = errors.New("ingest failed")
