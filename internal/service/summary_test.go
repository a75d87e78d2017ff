package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/roadscan/internal/domain"
	"github.com/pkordes/roadscan/internal/fixtures"
	"github.com/pkordes/roadscan/internal/observability"
	"github.com/pkordes/roadscan/internal/service"
)

func TestSummaryService_Summary_CachesUntilInvalidated(t *testing.T) {
	calls := 0
	records := fixtures.Distresses()
	m := observability.NewMetricsForTesting()
	svc := service.NewSummaryService(&mockDistressRepo{
		list: func(context.Context) ([]domain.DistressRecord, error) {
			calls++
			return records, nil
		},
	}, time.Hour, clockwork.NewFakeClock(), m)
	ctx := context.Background()

	first, err := svc.Summary(ctx)
	require.NoError(t, err)
	_, err = svc.Summary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 8, first.TotalDistresses)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SummaryCache.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SummaryCache.WithLabelValues("hit")))

	records = records[:2]
	svc.Invalidate()
	second, err := svc.Summary(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, second.TotalDistresses)
}

func TestSummaryService_Summary_ExpiresAfterTTL(t *testing.T) {
	calls := 0
	svc := service.NewSummaryService(&mockDistressRepo{
		list: func(context.Context) ([]domain.DistressRecord, error) {
			calls++
			return nil, nil
		},
	}, time.Millisecond, clockwork.NewFakeClock(), observability.NewMetricsForTesting())

	_, err := svc.Summary(context.Background())
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestSummaryService_IngestInvalidatesCache(t *testing.T) {
	r := seededDistresses(t)
	distresses := service.NewDistressService(r)
	summary := service.NewSummaryService(r, time.Hour, clockwork.NewFakeClock(), observability.NewMetricsForTesting())
	distresses.OnChange(summary.Invalidate)
	ctx := context.Background()

	before, err := summary.Summary(ctx)
	require.NoError(t, err)
	_, err = distresses.Ingest(ctx, fixtures.Distresses()[:1])
	require.NoError(t, err)
	after, err := summary.Summary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 8, before.TotalDistresses)
	assert.Equal(t, 9, after.TotalDistresses)
}

func TestSummaryService_Summary_RepoError(t *testing.T) {
	boom := errors.New("db down")
	svc := service.NewSummaryService(&mockDistressRepo{
		list: func(context.Context) ([]domain.DistressRecord, error) { return nil, boom },
	}, time.Hour, clockwork.NewFakeClock(), observability.NewMetricsForTesting())

	_, err := svc.Summary(context.Background())

	assert.ErrorIs(t, err, boom)
}

func TestSummaryService_ExportCSV(t *testing.T) {
	svc := service.NewSummaryService(seededDistresses(t), time.Hour, clockwork.NewFakeClock(), observability.NewMetricsForTesting())
	var buf bytes.Buffer

	err := svc.Export(context.Background(), service.ExportCSV, &buf)

	require.NoError(t, err)
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 9)
	assert.Equal(t, []string{"KM", "Type", "Severity", "Latitude", "Longitude", "Timestamp", "Confidence", "Length (m)", "Description"}, rows[0])
	assert.Equal(t, []string{"0.5", "Cracks", "High", "28.6139", "77.2090", "00:05:23", "95%", "15", "Longitudinal crack detected"}, rows[1])
}

func TestSummaryService_ExportPDF(t *testing.T) {
	svc := service.NewSummaryService(seededDistresses(t), time.Hour, clockwork.NewFakeClock(), observability.NewMetricsForTesting())
	var buf bytes.Buffer

	err := svc.Export(context.Background(), service.ExportPDF, &buf)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestParseExportFormat(t *testing.T) {
	f, err := service.ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, service.ExportCSV, f)
	assert.Equal(t, "text/csv; charset=utf-8", f.ContentType())

	f, err = service.ParseExportFormat("pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", f.ContentType())

	_, err = service.ParseExportFormat("xlsx")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
