// Package repo contains the record stores for the roadscan dashboard.
// Each resource has its own file with an interface and a Postgres
// implementation; memory.go holds the in-memory implementations used when no
// database is configured. No business logic lives here, only storage and
// type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/paulmach/orb"

	"github.com/pkordes/roadscan/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, *pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly lets integration
// tests pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// DistressRepo defines the persistence operations for distress records.
// Records are created by ingestion and never updated.
type DistressRepo interface {
	// Create stores a record and returns it with its store-assigned ID.
	Create(ctx context.Context, r domain.DistressRecord) (domain.DistressRecord, error)

	// CreateBatch stores records in order and returns them with IDs assigned.
	// Either all records are stored or none are.
	CreateBatch(ctx context.Context, rs []domain.DistressRecord) ([]domain.DistressRecord, error)

	// GetByID returns a single record.
	// Returns domain.ErrNotFound if no record with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.DistressRecord, error)

	// List returns all records ordered by km, then ID.
	List(ctx context.Context) ([]domain.DistressRecord, error)
}

// pgDistressRepo is the Postgres implementation of DistressRepo.
type pgDistressRepo struct {
	db db
}

// NewDistressRepo constructs a DistressRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewDistressRepo(db db) DistressRepo {
	return &pgDistressRepo{db: db}
}

const distressColumns = `id, type, severity, lat, lng, video_offset_seconds, description, km, confidence, length_m`

const insertDistress = `
	INSERT INTO distresses (type, severity, lat, lng, video_offset_seconds, description, km, confidence, length_m)
	VALUES (@type, @severity, @lat, @lng, @video_offset_seconds, @description, @km, @confidence, @length_m)
	RETURNING ` + distressColumns

func distressArgs(r domain.DistressRecord) pgx.NamedArgs {
	return pgx.NamedArgs{
		"type":                 string(r.Type),
		"severity":             string(r.Severity),
		"lat":                  r.Lat(),
		"lng":                  r.Lng(),
		"video_offset_seconds": int64(time.Duration(r.Timestamp) / time.Second),
		"description":          r.Description,
		"km":                   r.KM,
		"confidence":           r.Confidence,
		"length_m":             r.LengthM,
	}
}

// Create inserts a distress row and returns the full persisted record.
func (p *pgDistressRepo) Create(ctx context.Context, r domain.DistressRecord) (domain.DistressRecord, error) {
	result, err := scanDistress(p.db.QueryRow(ctx, insertDistress, distressArgs(r)))
	if err != nil {
		return domain.DistressRecord{}, fmt.Errorf("repo.DistressRepo.Create: %w", err)
	}
	return result, nil
}

// CreateBatch queues one INSERT per record in a single pgx batch. pgx runs a
// batch in an implicit transaction, so a failing row rolls back the rest.
func (p *pgDistressRepo) CreateBatch(ctx context.Context, rs []domain.DistressRecord) ([]domain.DistressRecord, error) {
	if len(rs) == 0 {
		return []domain.DistressRecord{}, nil
	}

	b := &pgx.Batch{}
	for _, r := range rs {
		b.Queue(insertDistress, distressArgs(r))
	}

	br := p.db.SendBatch(ctx, b)
	out := make([]domain.DistressRecord, 0, len(rs))
	for range rs {
		rec, err := scanDistress(br.QueryRow())
		if err != nil {
			_ = br.Close()
			return nil, fmt.Errorf("repo.DistressRepo.CreateBatch: %w", err)
		}
		out = append(out, rec)
	}
	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("repo.DistressRepo.CreateBatch: close: %w", err)
	}
	return out, nil
}

// GetByID retrieves a record by primary key.
func (p *pgDistressRepo) GetByID(ctx context.Context, id int64) (domain.DistressRecord, error) {
	q := `SELECT ` + distressColumns + ` FROM distresses WHERE id = @id`

	result, err := scanDistress(p.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.DistressRecord{}, fmt.Errorf("repo.DistressRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns all records ordered along the route.
func (p *pgDistressRepo) List(ctx context.Context) ([]domain.DistressRecord, error) {
	q := `SELECT ` + distressColumns + ` FROM distresses ORDER BY km ASC, id ASC`

	rows, err := p.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.DistressRepo.List: %w", err)
	}
	defer rows.Close()

	var out []domain.DistressRecord
	for rows.Next() {
		r, err := scanDistress(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.DistressRepo.List: scan: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DistressRepo.List: rows: %w", err)
	}
	return out, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanDistress maps a single row into a domain.DistressRecord.
func scanDistress(s scanner) (domain.DistressRecord, error) {
	var (
		r          domain.DistressRecord
		typ, sev   string
		lat, lng   float64
		offsetSecs int64
	)
	err := s.Scan(&r.ID, &typ, &sev, &lat, &lng, &offsetSecs, &r.Description, &r.KM, &r.Confidence, &r.LengthM)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DistressRecord{}, domain.ErrNotFound
		}
		return domain.DistressRecord{}, err
	}
	r.Type = domain.DistressType(typ)
	r.Severity = domain.Severity(sev)
	r.Location = orb.Point{lng, lat}
	r.Timestamp = domain.VideoOffset(time.Duration(offsetSecs) * time.Second)
	return r, nil
}
