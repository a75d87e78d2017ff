package handler

import (
	"net/http"

	"github.com/pkordes/roadscan/internal/domain"
)

// DistressList is the body of GET /api/distresses.
type DistressList struct {
	Data   []Distress     `json:"data"`
	Counts SeverityCounts `json:"counts"`
}

// ListDistresses handles GET /api/distresses.
// Layer toggles arrive as boolean query parameters, e.g. ?cracks=false&high=false.
func (s *Server) ListDistresses(w http.ResponseWriter, r *http.Request) {
	toggles, err := togglesFromQuery(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	records, err := s.distresses.List(r.Context(), toggles)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, DistressList{
		Data:   distressesToResponse(records),
		Counts: countsToResponse(domain.CountBySeverity(records)),
	})
}

// GetDistress handles GET /api/distresses/{id}.
func (s *Server) GetDistress(w http.ResponseWriter, r *http.Request) {
	var id int64
	if err := bindPathParam(r, "id", &id); err != nil {
		badRequest(w, "id must be an integer")
		return
	}

	record, err := s.distresses.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, "distress not found")
		return
	}

	writeJSON(w, http.StatusOK, distressToResponse(record))
}

// GetDistressGeoJSON handles GET /api/distresses/geojson: the visible records
// as a FeatureCollection of map markers.
func (s *Server) GetDistressGeoJSON(w http.ResponseWriter, r *http.Request) {
	toggles, err := togglesFromQuery(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	fc, err := s.distresses.GeoJSON(r.Context(), toggles)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	raw, err := fc.MarshalJSON()
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}
