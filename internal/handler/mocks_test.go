package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/roadscan/internal/domain"
	"github.com/pkordes/roadscan/internal/fixtures"
	"github.com/pkordes/roadscan/internal/handler"
	"github.com/pkordes/roadscan/internal/service"
)

// Test doubles for the handler's service interfaces.
// Set only the method fields your test needs.

type mockDistressServicer struct {
	list    func(ctx context.Context, toggles domain.Toggles) ([]domain.DistressRecord, error)
	getByID func(ctx context.Context, id int64) (domain.DistressRecord, error)
	geoJSON func(ctx context.Context, toggles domain.Toggles) (*geojson.FeatureCollection, error)
}

func (m *mockDistressServicer) List(ctx context.Context, t domain.Toggles) ([]domain.DistressRecord, error) {
	return m.list(ctx, t)
}
func (m *mockDistressServicer) GetByID(ctx context.Context, id int64) (domain.DistressRecord, error) {
	return m.getByID(ctx, id)
}
func (m *mockDistressServicer) GeoJSON(ctx context.Context, t domain.Toggles) (*geojson.FeatureCollection, error) {
	return m.geoJSON(ctx, t)
}

type mockNoteServicer struct {
	create func(ctx context.Context, sub service.NoteSubmission) (domain.NoteForm, domain.InspectorNote, error)
	list   func(ctx context.Context, query string, p domain.PaginationParams) ([]domain.InspectorNote, int, error)
}

func (m *mockNoteServicer) Create(ctx context.Context, sub service.NoteSubmission) (domain.NoteForm, domain.InspectorNote, error) {
	return m.create(ctx, sub)
}
func (m *mockNoteServicer) List(ctx context.Context, q string, p domain.PaginationParams) ([]domain.InspectorNote, int, error) {
	return m.list(ctx, q, p)
}

type mockSummaryServicer struct {
	summary func(ctx context.Context) (domain.Summary, error)
	export  func(ctx context.Context, f service.ExportFormat, w io.Writer) error
}

func (m *mockSummaryServicer) Summary(ctx context.Context) (domain.Summary, error) {
	return m.summary(ctx)
}
func (m *mockSummaryServicer) Export(ctx context.Context, f service.ExportFormat, w io.Writer) error {
	return m.export(ctx, f, w)
}

type mockUploadServicer struct {
	start  func(ctx context.Context, req service.StartUpload) (domain.Upload, error)
	get    func(id uuid.UUID) (domain.Upload, error)
	latest func(kind domain.UploadKind) (domain.Upload, bool)
	cancel func(id uuid.UUID) error
	wait   func(ctx context.Context, id uuid.UUID) (domain.Upload, error)
}

func (m *mockUploadServicer) Start(ctx context.Context, req service.StartUpload) (domain.Upload, error) {
	return m.start(ctx, req)
}
func (m *mockUploadServicer) Get(id uuid.UUID) (domain.Upload, error) { return m.get(id) }
func (m *mockUploadServicer) Latest(kind domain.UploadKind) (domain.Upload, bool) {
	return m.latest(kind)
}
func (m *mockUploadServicer) Cancel(id uuid.UUID) error { return m.cancel(id) }
func (m *mockUploadServicer) Wait(ctx context.Context, id uuid.UUID) (domain.Upload, error) {
	return m.wait(ctx, id)
}

type mockFeed struct {
	recent func(limit int) []domain.Notification
}

func (m *mockFeed) Recent(limit int) []domain.Notification { return m.recent(limit) }

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.DistressServicer = (*mockDistressServicer)(nil)
	_ handler.NoteServicer     = (*mockNoteServicer)(nil)
	_ handler.SummaryServicer  = (*mockSummaryServicer)(nil)
	_ handler.UploadServicer   = (*mockUploadServicer)(nil)
	_ handler.NotificationFeed = (*mockFeed)(nil)
)

// ---- helpers ---------------------------------------------------------------

const testUploadLimit = 1 << 20

// newHTTPHandler mounts a Server built from d on a fresh chi router, the same
// way main.go does.
func newHTTPHandler(d handler.Deps) http.Handler {
	r := chi.NewRouter()
	handler.NewServer(d).Routes(r, testUploadLimit)
	return r
}

func serve(t *testing.T, h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

// seeded returns the sample survey with IDs assigned from 1.
func seeded() []domain.DistressRecord {
	rs := fixtures.Distresses()
	for i := range rs {
		rs[i].ID = int64(i + 1)
	}
	return rs
}

// filteringDistresses serves the sample survey through the real filter.
func filteringDistresses() *mockDistressServicer {
	return &mockDistressServicer{
		list: func(_ context.Context, t domain.Toggles) ([]domain.DistressRecord, error) {
			return domain.FilterDistresses(seeded(), t), nil
		},
	}
}
