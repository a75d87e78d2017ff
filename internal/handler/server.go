// Package handler implements the HTTP handlers for the roadscan API.
// All handlers are methods on Server; Routes mounts them on a chi router.
// Methods are split into domain-specific files (health.go, note.go, etc.) but
// all share the same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"

	"github.com/pkordes/roadscan/internal/domain"
	"github.com/pkordes/roadscan/internal/service"
)

// DistressServicer defines the distress operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the store or service layer.
type DistressServicer interface {
	List(ctx context.Context, toggles domain.Toggles) ([]domain.DistressRecord, error)
	GetByID(ctx context.Context, id int64) (domain.DistressRecord, error)
	GeoJSON(ctx context.Context, toggles domain.Toggles) (*geojson.FeatureCollection, error)
}

// NoteServicer defines the inspector note operations the handlers depend on.
type NoteServicer interface {
	Create(ctx context.Context, sub service.NoteSubmission) (domain.NoteForm, domain.InspectorNote, error)
	List(ctx context.Context, query string, p domain.PaginationParams) ([]domain.InspectorNote, int, error)
}

// SummaryServicer defines the summary report operations.
type SummaryServicer interface {
	Summary(ctx context.Context) (domain.Summary, error)
	Export(ctx context.Context, f service.ExportFormat, w io.Writer) error
}

// UploadServicer defines the upload operations.
type UploadServicer interface {
	Start(ctx context.Context, req service.StartUpload) (domain.Upload, error)
	Get(id uuid.UUID) (domain.Upload, error)
	Latest(kind domain.UploadKind) (domain.Upload, bool)
	Cancel(id uuid.UUID) error
	Wait(ctx context.Context, id uuid.UUID) (domain.Upload, error)
}

// NotificationFeed lists recent toast notifications.
type NotificationFeed interface {
	Recent(limit int) []domain.Notification
}

// ReadinessFunc reports whether the backing store can serve requests.
type ReadinessFunc func(ctx context.Context) error

// Deps bundles the Server's collaborators.
type Deps struct {
	Distresses    DistressServicer
	Notes         NoteServicer
	Summary       SummaryServicer
	Uploads       UploadServicer
	Notifications NotificationFeed
	Ready         ReadinessFunc
	Log           *slog.Logger
}

// Server holds the dependencies shared by every handler.
type Server struct {
	distresses    DistressServicer
	notes         NoteServicer
	summary       SummaryServicer
	uploads       UploadServicer
	notifications NotificationFeed
	ready         ReadinessFunc
	log           *slog.Logger
}

// NewServer constructs the Server with all its dependencies. A nil Ready
// always reports ready; a nil Log discards.
func NewServer(d Deps) *Server {
	s := &Server{
		distresses:    d.Distresses,
		notes:         d.Notes,
		summary:       d.Summary,
		uploads:       d.Uploads,
		notifications: d.Notifications,
		ready:         d.Ready,
		log:           d.Log,
	}
	if s.ready == nil {
		s.ready = func(context.Context) error { return nil }
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	return s
}
