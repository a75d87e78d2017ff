package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/roadscan/internal/domain"
)

// NoteRepo defines the persistence operations for inspector notes.
type NoteRepo interface {
	// Create stores a note and returns it with its store-assigned ID.
	Create(ctx context.Context, n domain.InspectorNote) (domain.InspectorNote, error)

	// GetByID returns a single note.
	// Returns domain.ErrNotFound if no note with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.InspectorNote, error)

	// List returns all notes, newest first (created_at, then ID, descending).
	List(ctx context.Context) ([]domain.InspectorNote, error)
}

// pgNoteRepo is the Postgres implementation of NoteRepo.
type pgNoteRepo struct {
	db db
}

// NewNoteRepo constructs a NoteRepo backed by the provided db connection.
func NewNoteRepo(db db) NoteRepo {
	return &pgNoteRepo{db: db}
}

const noteColumns = `id, title, content, location, inspector, priority, tags, created_at`

// Create inserts a note row and returns the full persisted record.
func (p *pgNoteRepo) Create(ctx context.Context, n domain.InspectorNote) (domain.InspectorNote, error) {
	q := `
		INSERT INTO notes (title, content, location, inspector, priority, tags, created_at)
		VALUES (@title, @content, @location, @inspector, @priority, @tags, @created_at)
		RETURNING ` + noteColumns

	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	args := pgx.NamedArgs{
		"title":      n.Title,
		"content":    n.Content,
		"location":   n.Location,
		"inspector":  n.Inspector,
		"priority":   string(n.Priority),
		"tags":       tags,
		"created_at": n.CreatedAt,
	}

	result, err := scanNote(p.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.InspectorNote{}, fmt.Errorf("repo.NoteRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a note by primary key.
func (p *pgNoteRepo) GetByID(ctx context.Context, id int64) (domain.InspectorNote, error) {
	q := `SELECT ` + noteColumns + ` FROM notes WHERE id = @id`

	result, err := scanNote(p.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.InspectorNote{}, fmt.Errorf("repo.NoteRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns all notes, most recent first.
func (p *pgNoteRepo) List(ctx context.Context) ([]domain.InspectorNote, error) {
	q := `SELECT ` + noteColumns + ` FROM notes ORDER BY created_at DESC, id DESC`

	rows, err := p.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.NoteRepo.List: %w", err)
	}
	defer rows.Close()

	var out []domain.InspectorNote
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.NoteRepo.List: scan: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.NoteRepo.List: rows: %w", err)
	}
	return out, nil
}

// scanNote maps a single row into a domain.InspectorNote.
func scanNote(s scanner) (domain.InspectorNote, error) {
	var (
		n        domain.InspectorNote
		priority string
	)
	err := s.Scan(&n.ID, &n.Title, &n.Content, &n.Location, &n.Inspector, &priority, &n.Tags, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.InspectorNote{}, domain.ErrNotFound
		}
		return domain.InspectorNote{}, err
	}
	n.Priority = domain.Priority(priority)
	n.CreatedAt = n.CreatedAt.UTC()
	return n, nil
}
