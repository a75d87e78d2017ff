package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/roadscan/internal/domain"
	"github.com/pkordes/roadscan/internal/handler"
)

// ---- GET /api/distresses ---------------------------------------------------

func TestListDistresses_200AllVisibleByDefault(t *testing.T) {
	h := newHTTPHandler(handler.Deps{Distresses: filteringDistresses()})

	rec := serve(t, h, http.MethodGet, "/api/distresses", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[handler.DistressList](t, rec)
	assert.Len(t, body.Data, 8)
	assert.Equal(t, handler.SeverityCounts{High: 4, Medium: 3, Low: 1}, body.Counts)
	assert.Equal(t, "00:05:23", body.Data[0].Timestamp)
	assert.InDelta(t, 28.6139, body.Data[0].Lat, 1e-9)
	assert.InDelta(t, 77.2090, body.Data[0].Lng, 1e-9)
}

func TestListDistresses_200TogglesHideLayers(t *testing.T) {
	var got domain.Toggles
	svc := filteringDistresses()
	inner := svc.list
	svc.list = func(ctx context.Context, t domain.Toggles) ([]domain.DistressRecord, error) {
		got = t
		return inner(ctx, t)
	}
	h := newHTTPHandler(handler.Deps{Distresses: svc})

	rec := serve(t, h, http.MethodGet, "/api/distresses?cracks=false&high=false", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, got["cracks"])
	assert.False(t, got["high"])
	assert.True(t, got["rutting"])

	body := decode[handler.DistressList](t, rec)
	for _, d := range body.Data {
		assert.NotEqual(t, "Cracks", d.Type)
		assert.NotEqual(t, "High", d.Severity)
	}
	assert.Equal(t, 0, body.Counts.High)
}

func TestListDistresses_422BadToggle(t *testing.T) {
	h := newHTTPHandler(handler.Deps{Distresses: filteringDistresses()})

	rec := serve(t, h, http.MethodGet, "/api/distresses?rutting=maybe", nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode[handler.ErrorResponse](t, rec)
	assert.Equal(t, "validation_error", body.Error.Code)
	assert.Contains(t, body.Error.Message, `"rutting"`)
}

func TestListDistresses_500StoreError(t *testing.T) {
	svc := &mockDistressServicer{
		list: func(context.Context, domain.Toggles) ([]domain.DistressRecord, error) {
			return nil, errors.New("db down")
		},
	}
	h := newHTTPHandler(handler.Deps{Distresses: svc})

	rec := serve(t, h, http.MethodGet, "/api/distresses", nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"internal_error","message":"internal server error"}}`, rec.Body.String())
}

// ---- GET /api/distresses/{id} ----------------------------------------------

func TestGetDistress_200(t *testing.T) {
	svc := &mockDistressServicer{
		getByID: func(_ context.Context, id int64) (domain.DistressRecord, error) {
			return seeded()[id-1], nil
		},
	}
	h := newHTTPHandler(handler.Deps{Distresses: svc})

	rec := serve(t, h, http.MethodGet, "/api/distresses/7", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[handler.Distress](t, rec)
	assert.Equal(t, int64(7), body.ID)
	assert.Equal(t, "Potholes", body.Description)
	assert.InDelta(t, 0.98, body.Confidence, 1e-9)
}

func TestGetDistress_404(t *testing.T) {
	svc := &mockDistressServicer{
		getByID: func(context.Context, int64) (domain.DistressRecord, error) {
			return domain.DistressRecord{}, fmt.Errorf("repo.DistressRepo.GetByID: %w", domain.ErrNotFound)
		},
	}
	h := newHTTPHandler(handler.Deps{Distresses: svc})

	rec := serve(t, h, http.MethodGet, "/api/distresses/99", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"not_found","message":"distress not found"}}`, rec.Body.String())
}

func TestGetDistress_422NonIntegerID(t *testing.T) {
	h := newHTTPHandler(handler.Deps{Distresses: &mockDistressServicer{}})

	rec := serve(t, h, http.MethodGet, "/api/distresses/abc", nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "id must be an integer", decode[handler.ErrorResponse](t, rec).Error.Message)
}

// ---- GET /api/distresses/geojson -------------------------------------------

func TestGetDistressGeoJSON_200(t *testing.T) {
	svc := &mockDistressServicer{
		geoJSON: func(context.Context, domain.Toggles) (*geojson.FeatureCollection, error) {
			fc := geojson.NewFeatureCollection()
			r := seeded()[0]
			f := geojson.NewFeature(r.Location)
			f.ID = r.ID
			f.Properties["type"] = string(r.Type)
			fc.Append(f)
			return fc, nil
		},
	}
	h := newHTTPHandler(handler.Deps{Distresses: svc})

	rec := serve(t, h, http.MethodGet, "/api/distresses/geojson", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))

	fc, err := geojson.UnmarshalFeatureCollection(rec.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "Cracks", fc.Features[0].Properties.MustString("type"))
}
