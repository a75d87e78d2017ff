package repo

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/pkordes/roadscan/internal/domain"
)

// memDistressRepo is the in-memory implementation of DistressRepo.
// IDs are assigned sequentially from 1.
type memDistressRepo struct {
	mu      sync.RWMutex
	nextID  int64
	records []domain.DistressRecord
}

// NewMemoryDistressRepo returns an empty in-memory DistressRepo.
func NewMemoryDistressRepo() DistressRepo {
	return &memDistressRepo{nextID: 1}
}

func (m *memDistressRepo) Create(_ context.Context, r domain.DistressRecord) (domain.DistressRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r.ID = m.nextID
	m.nextID++
	m.records = append(m.records, r)
	return r, nil
}

func (m *memDistressRepo) CreateBatch(_ context.Context, rs []domain.DistressRecord) ([]domain.DistressRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.DistressRecord, len(rs))
	for i, r := range rs {
		r.ID = m.nextID
		m.nextID++
		out[i] = r
	}
	m.records = append(m.records, out...)
	return out, nil
}

func (m *memDistressRepo) GetByID(_ context.Context, id int64) (domain.DistressRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.records {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.DistressRecord{}, fmt.Errorf("repo.DistressRepo.GetByID: %w", domain.ErrNotFound)
}

func (m *memDistressRepo) List(_ context.Context) ([]domain.DistressRecord, error) {
	m.mu.RLock()
	out := slices.Clone(m.records)
	m.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b domain.DistressRecord) int {
		if c := cmp.Compare(a.KM, b.KM); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// memNoteRepo is the in-memory implementation of NoteRepo.
type memNoteRepo struct {
	mu     sync.RWMutex
	nextID int64
	notes  []domain.InspectorNote
}

// NewMemoryNoteRepo returns an empty in-memory NoteRepo.
func NewMemoryNoteRepo() NoteRepo {
	return &memNoteRepo{nextID: 1}
}

func (m *memNoteRepo) Create(_ context.Context, n domain.InspectorNote) (domain.InspectorNote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n.ID = m.nextID
	m.nextID++
	n.Tags = slices.Clone(n.Tags)
	if n.Tags == nil {
		n.Tags = []string{}
	}
	m.notes = append(m.notes, n)
	return n, nil
}

func (m *memNoteRepo) GetByID(_ context.Context, id int64) (domain.InspectorNote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, n := range m.notes {
		if n.ID == id {
			return n, nil
		}
	}
	return domain.InspectorNote{}, fmt.Errorf("repo.NoteRepo.GetByID: %w", domain.ErrNotFound)
}

func (m *memNoteRepo) List(_ context.Context) ([]domain.InspectorNote, error) {
	m.mu.RLock()
	out := slices.Clone(m.notes)
	m.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b domain.InspectorNote) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

// Seed stores the given records and notes, in order, through the repo
// interfaces so IDs are assigned by the store. It is used to load the
// sample survey into the in-memory store at start-up.
func Seed(ctx context.Context, distresses DistressRepo, notes NoteRepo, rs []domain.DistressRecord, ns []domain.InspectorNote) error {
	if _, err := distresses.CreateBatch(ctx, rs); err != nil {
		return fmt.Errorf("repo.Seed: distresses: %w", err)
	}
	for _, n := range ns {
		if _, err := notes.Create(ctx, n); err != nil {
			return fmt.Errorf("repo.Seed: notes: %w", err)
		}
	}
	return nil
}
