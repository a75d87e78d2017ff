package service_test

import (
	"context"
	"sync"

	"github.com/pkordes/roadscan/internal/domain"
	"github.com/pkordes/roadscan/internal/notify"
	"github.com/pkordes/roadscan/internal/repo"
)

// mockDistressRepo is a hand-written test double for repo.DistressRepo.
// Each method is a function field; set only the ones your test needs.
type mockDistressRepo struct {
	create      func(ctx context.Context, r domain.DistressRecord) (domain.DistressRecord, error)
	createBatch func(ctx context.Context, rs []domain.DistressRecord) ([]domain.DistressRecord, error)
	getByID     func(ctx context.Context, id int64) (domain.DistressRecord, error)
	list        func(ctx context.Context) ([]domain.DistressRecord, error)
}

func (m *mockDistressRepo) Create(ctx context.Context, r domain.DistressRecord) (domain.DistressRecord, error) {
	return m.create(ctx, r)
}
func (m *mockDistressRepo) CreateBatch(ctx context.Context, rs []domain.DistressRecord) ([]domain.DistressRecord, error) {
	return m.createBatch(ctx, rs)
}
func (m *mockDistressRepo) GetByID(ctx context.Context, id int64) (domain.DistressRecord, error) {
	return m.getByID(ctx, id)
}
func (m *mockDistressRepo) List(ctx context.Context) ([]domain.DistressRecord, error) {
	return m.list(ctx)
}

// mockNoteRepo is a hand-written test double for repo.NoteRepo.
type mockNoteRepo struct {
	create  func(ctx context.Context, n domain.InspectorNote) (domain.InspectorNote, error)
	getByID func(ctx context.Context, id int64) (domain.InspectorNote, error)
	list    func(ctx context.Context) ([]domain.InspectorNote, error)
}

func (m *mockNoteRepo) Create(ctx context.Context, n domain.InspectorNote) (domain.InspectorNote, error) {
	return m.create(ctx, n)
}
func (m *mockNoteRepo) GetByID(ctx context.Context, id int64) (domain.InspectorNote, error) {
	return m.getByID(ctx, id)
}
func (m *mockNoteRepo) List(ctx context.Context) ([]domain.InspectorNote, error) {
	return m.list(ctx)
}

// compile-time checks: the mocks must satisfy the repo interfaces.
var (
	_ repo.DistressRepo = (*mockDistressRepo)(nil)
	_ repo.NoteRepo     = (*mockNoteRepo)(nil)
)

// recordingNotifier collects notifications. Upload runners call it from
// their own goroutines, so it locks.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, title, message string, kind domain.NotificationKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, domain.Notification{Title: title, Message: message, Kind: kind})
}

func (r *recordingNotifier) all() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Notification(nil), r.sent...)
}

var _ notify.Notifier = (*recordingNotifier)(nil)
