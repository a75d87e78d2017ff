// Package service contains the dashboard's business logic.
// Services validate inputs, apply the screen rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/paulmach/orb/geojson"

	"github.com/pkordes/roadscan/internal/domain"
	"github.com/pkordes/roadscan/internal/repo"
)

// DistressService serves the distress records behind the video/map screen
// and stores records ingested from uploads.
type DistressService struct {
	repo repo.DistressRepo

	mu       sync.Mutex
	onChange []func()
}

// NewDistressService constructs a DistressService backed by the provided repo.
func NewDistressService(r repo.DistressRepo) *DistressService {
	return &DistressService{repo: r}
}

// OnChange registers fn to run after records are added.
func (s *DistressService) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

// List returns the records visible under toggles, in route order.
func (s *DistressService) List(ctx context.Context, toggles domain.Toggles) ([]domain.DistressRecord, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.DistressService.List: %w", err)
	}
	return domain.FilterDistresses(all, toggles), nil
}

// GetByID returns a single record.
func (s *DistressService) GetByID(ctx context.Context, id int64) (domain.DistressRecord, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.DistressRecord{}, fmt.Errorf("service.DistressService.GetByID: %w", err)
	}
	return r, nil
}

// GeoJSON returns the visible records as map markers: one Point feature per
// record, keyed by record ID.
func (s *DistressService) GeoJSON(ctx context.Context, toggles domain.Toggles) (*geojson.FeatureCollection, error) {
	records, err := s.List(ctx, toggles)
	if err != nil {
		return nil, fmt.Errorf("service.DistressService.GeoJSON: %w", err)
	}
	fc := geojson.NewFeatureCollection()
	for _, r := range records {
		f := geojson.NewFeature(r.Location)
		f.ID = r.ID
		f.Properties["id"] = r.ID
		f.Properties["type"] = string(r.Type)
		f.Properties["severity"] = string(r.Severity)
		f.Properties["timestamp"] = r.Timestamp.String()
		f.Properties["description"] = r.Description
		f.Properties["km"] = r.KM
		fc.Append(f)
	}
	return fc, nil
}

// Ingest validates and stores records parsed from an upload. Nothing is
// stored if any record is invalid.
func (s *DistressService) Ingest(ctx context.Context, records []domain.DistressRecord) ([]domain.DistressRecord, error) {
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("service.DistressService.Ingest: record %d: %w", i+1, err)
		}
	}
	if len(records) == 0 {
		return []domain.DistressRecord{}, nil
	}

	stored, err := s.repo.CreateBatch(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("service.DistressService.Ingest: %w", err)
	}

	s.mu.Lock()
	hooks := append([]func(){}, s.onChange...)
	s.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}
	return stored, nil
}
