package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/pkordes/roadscan/internal/domain"
	"github.com/pkordes/roadscan/internal/ingest"
	"github.com/pkordes/roadscan/internal/notify"
	"github.com/pkordes/roadscan/internal/observability"
)

// Upload notification texts.
const (
	UploadSucceededTitle = "Upload Successful"
	UploadFailedTitle    = "Upload Failed"
	UploadCancelledTitle = "Upload Cancelled"
)

// fileStore is the disk side of an upload. Satisfied by *storage.FileManager.
type fileStore interface {
	Limit(kind domain.UploadKind) int64
	Save(ctx context.Context, kind domain.UploadKind, fileName string, r io.Reader, progress func(written int64)) (string, int64, error)
	Remove(path string) error
}

// recordIngester stores records parsed from data uploads. Satisfied by
// *DistressService.
type recordIngester interface {
	Ingest(ctx context.Context, records []domain.DistressRecord) ([]domain.DistressRecord, error)
}

// StartUpload describes a file about to be transferred.
type StartUpload struct {
	Kind     domain.UploadKind
	FileName string
	Size     int64 // declared size in bytes; -1 when unknown
	Body     io.Reader
}

// UploadHistory is how many finished uploads the service remembers. Older
// finished uploads are forgotten; running ones are always kept.
const UploadHistory = 100

type uploadTask struct {
	upload domain.Upload
	err    error
	cancel context.CancelFunc
	done   chan struct{}
}

// UploadService runs uploads in the background. Each upload gets its own
// goroutine and cancellable context; the returned domain.Upload carries the
// ID used to poll, wait for or cancel it.
type UploadService struct {
	files    fileStore
	records  recordIngester
	notifier notify.Notifier
	clock    clockwork.Clock
	metrics  *observability.Metrics
	log      *slog.Logger

	base context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup

	mu     sync.Mutex
	tasks  map[uuid.UUID]*uploadTask
	order  []uuid.UUID
	closed bool
}

// NewUploadService constructs an UploadService. Call Shutdown to stop it.
func NewUploadService(files fileStore, records recordIngester, n notify.Notifier, clock clockwork.Clock, m *observability.Metrics, log *slog.Logger) *UploadService {
	base, stop := context.WithCancel(context.Background())
	return &UploadService{
		files:    files,
		records:  records,
		notifier: n,
		clock:    clock,
		metrics:  m,
		log:      log,
		base:     base,
		stop:     stop,
		tasks:    make(map[uuid.UUID]*uploadTask),
	}
}

// Start validates req and begins the transfer in the background, returning
// the upload in its uploading state. The upload is also cancelled when ctx
// is, so a caller that gives up takes the transfer down with it.
//
// A request rejected up front (format or declared size) returns an error
// and no upload is created.
func (s *UploadService) Start(ctx context.Context, req StartUpload) (domain.Upload, error) {
	if err := s.check(req); err != nil {
		s.notifier.Notify(ctx, UploadFailedTitle, fmt.Sprintf("%s: %v", req.FileName, err), domain.KindDestructive)
		return domain.Upload{}, fmt.Errorf("service.UploadService.Start: %w", err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.Upload{}, fmt.Errorf("service.UploadService.Start: %w: server is shutting down", domain.ErrCancelled)
	}
	runCtx, cancel := context.WithCancel(s.base)
	t := &uploadTask{
		upload: domain.Upload{
			ID:        uuid.New(),
			Kind:      req.Kind,
			FileName:  req.FileName,
			Size:      req.Size,
			State:     domain.UploadState{}.Start(),
			StartedAt: s.clock.Now(),
		},
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.tasks[t.upload.ID] = t
	s.order = append(s.order, t.upload.ID)
	s.wg.Add(1)
	snapshot := t.upload
	s.mu.Unlock()

	unlink := context.AfterFunc(ctx, cancel)
	s.metrics.UploadsInFlight.Inc()
	go func() {
		defer s.wg.Done()
		defer s.metrics.UploadsInFlight.Dec()
		defer unlink()
		defer cancel()
		s.run(runCtx, t, req)
	}()

	s.log.InfoContext(ctx, "upload started",
		"upload_id", snapshot.ID.String(),
		"kind", string(req.Kind),
		"file_name", req.FileName,
		"size", req.Size,
	)
	return snapshot, nil
}

func (s *UploadService) check(req StartUpload) error {
	if _, err := domain.ParseUploadKind(string(req.Kind)); err != nil {
		return err
	}
	if req.FileName == "" {
		return fmt.Errorf("%w: file name is required", domain.ErrValidation)
	}
	if err := domain.CheckExtension(req.Kind, req.FileName); err != nil {
		return err
	}
	if limit := s.files.Limit(req.Kind); limit > 0 && req.Size > limit {
		return fmt.Errorf("%w: %d bytes exceeds the %d byte limit for %s files", domain.ErrTooLarge, req.Size, limit, req.Kind)
	}
	return nil
}

func (s *UploadService) run(ctx context.Context, t *uploadTask, req StartUpload) {
	// A blocked Read only notices cancellation if the body can be closed.
	if c, ok := req.Body.(io.Closer); ok {
		stopClose := context.AfterFunc(ctx, func() { _ = c.Close() })
		defer stopClose()
	}

	path, written, err := s.files.Save(ctx, req.Kind, req.FileName, req.Body, func(w int64) {
		s.mu.Lock()
		t.upload.BytesWritten = w
		t.upload.State = t.upload.State.Advance(domain.PercentOf(w, req.Size))
		s.mu.Unlock()
	})
	s.metrics.UploadBytes.WithLabelValues(string(req.Kind)).Add(float64(written))

	// A stored video, or ingested records for data, is the commit point:
	// cancellation arriving after it no longer undoes the upload.
	ingested := 0
	if err == nil && req.Kind == domain.UploadData {
		ingested, err = s.ingest(ctx, path, req.FileName)
	}
	if err != nil && path != "" {
		if rerr := s.files.Remove(path); rerr != nil {
			s.log.Error("remove partial upload", "path", path, "error", rerr)
		}
	}

	s.finish(ctx, t, written, ingested, err)
}

func (s *UploadService) ingest(ctx context.Context, path, fileName string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	records, err := ingest.Parse(fileName, f)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrCancelled, err)
	}
	stored, err := s.records.Ingest(ctx, records)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrIngest, err)
	}
	s.metrics.RecordsIngested.Add(float64(len(stored)))
	return len(stored), nil
}

func (s *UploadService) finish(ctx context.Context, t *uploadTask, written int64, ingested int, err error) {
	cancelled := err != nil && (errors.Is(err, domain.ErrCancelled) || ctx.Err() != nil)

	s.mu.Lock()
	u := &t.upload
	u.BytesWritten = written
	u.FinishedAt = s.clock.Now()
	switch {
	case err == nil:
		u.Ingested = ingested
		u.State, _ = u.State.Succeed()
	case cancelled:
		u.State, _ = u.State.Cancel()
		t.err = domain.ErrCancelled
	default:
		u.State, _ = u.State.Fail(err)
		t.err = err
	}
	snapshot := *u
	s.pruneLocked()
	s.mu.Unlock()
	close(t.done)

	outcome := string(snapshot.State.Status)
	s.metrics.Uploads.WithLabelValues(string(snapshot.Kind), outcome).Inc()

	// The run context is done by now in the cancelled case; notifications
	// and logs must not inherit it.
	bg := context.WithoutCancel(ctx)
	switch snapshot.State.Status {
	case domain.StatusSuccess:
		s.notifier.Notify(bg, UploadSucceededTitle, snapshot.FileName+" has been uploaded successfully.", domain.KindDefault)
	case domain.StatusCancelled:
		s.notifier.Notify(bg, UploadCancelledTitle, snapshot.FileName+" upload was cancelled.", domain.KindDestructive)
	default:
		s.notifier.Notify(bg, UploadFailedTitle, fmt.Sprintf("%s: %v", snapshot.FileName, err), domain.KindDestructive)
	}

	s.log.InfoContext(bg, "upload finished",
		"upload_id", snapshot.ID.String(),
		"status", outcome,
		"bytes", snapshot.BytesWritten,
		"ingested", snapshot.Ingested,
		"error", snapshot.State.Err,
	)
}

// pruneLocked forgets the oldest finished uploads beyond UploadHistory.
// s.mu must be held.
func (s *UploadService) pruneLocked() {
	finished := 0
	for _, id := range s.order {
		if s.tasks[id].upload.State.Terminal() {
			finished++
		}
	}
	drop := finished - UploadHistory
	if drop <= 0 {
		return
	}
	s.order = slices.DeleteFunc(s.order, func(id uuid.UUID) bool {
		if drop == 0 || !s.tasks[id].upload.State.Terminal() {
			return false
		}
		drop--
		delete(s.tasks, id)
		return true
	})
}

// Get returns the current state of an upload.
func (s *UploadService) Get(id uuid.UUID) (domain.Upload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return domain.Upload{}, fmt.Errorf("service.UploadService.Get: %w", domain.ErrNotFound)
	}
	return t.upload, nil
}

// Latest returns the most recently started upload of kind.
func (s *UploadService) Latest(kind domain.UploadKind) (domain.Upload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range slices.Backward(s.order) {
		if t := s.tasks[id]; t.upload.Kind == kind {
			return t.upload, true
		}
	}
	return domain.Upload{}, false
}

// Cancel stops a running upload. The upload reaches cancelled
// asynchronously; use Wait to observe it. An upload already past its commit
// point (file stored, records ingested) still finishes as success.
func (s *UploadService) Cancel(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return fmt.Errorf("service.UploadService.Cancel: %w", domain.ErrNotFound)
	}
	if t.upload.State.Terminal() {
		return fmt.Errorf("service.UploadService.Cancel: %w: upload already %s", domain.ErrValidation, t.upload.State.Status)
	}
	t.cancel()
	return nil
}

// Wait blocks until the upload is terminal or ctx is done. The error is
// the upload's own failure (nil on success), or ctx's error if it gave up
// first.
func (s *UploadService) Wait(ctx context.Context, id uuid.UUID) (domain.Upload, error) {
	s.mu.Lock()
	t, ok := s.tasks[id]
	s.mu.Unlock()
	if !ok {
		return domain.Upload{}, fmt.Errorf("service.UploadService.Wait: %w", domain.ErrNotFound)
	}

	select {
	case <-t.done:
	case <-ctx.Done():
		u, _ := s.Get(id)
		return u, ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return t.upload, t.err
}

// Shutdown cancels every running upload, refuses new ones, and waits for
// the runners to finish or ctx to expire.
func (s *UploadService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.stop()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("service.UploadService.Shutdown: %w", ctx.Err())
	}
}
