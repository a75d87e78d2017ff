package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/jung-kurt/gofpdf"
	"github.com/patrickmn/go-cache"

	"github.com/pkordes/roadscan/internal/domain"
	"github.com/pkordes/roadscan/internal/observability"
	"github.com/pkordes/roadscan/internal/repo"
)

const summaryCacheKey = "summary"

// ExportFormat selects the summary download format.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ParseExportFormat maps a query value onto an ExportFormat. Empty means CSV.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case "", ExportCSV:
		return ExportCSV, nil
	case ExportPDF:
		return ExportPDF, nil
	}
	return "", fmt.Errorf("%w: format must be %q or %q", domain.ErrValidation, ExportCSV, ExportPDF)
}

// ContentType returns the MIME type of an export.
func (f ExportFormat) ContentType() string {
	if f == ExportPDF {
		return "application/pdf"
	}
	return "text/csv; charset=utf-8"
}

// SummaryService builds the distress summary report and its downloads.
// The aggregate is cached until the TTL passes or Invalidate is called.
type SummaryService struct {
	repo     repo.DistressRepo
	cache    *cache.Cache
	bucketKM float64
	clock    clockwork.Clock
	metrics  *observability.Metrics
}

// NewSummaryService constructs a SummaryService caching the aggregate for
// ttl. The cache runs no janitor goroutine; expired entries are replaced on
// the next read.
func NewSummaryService(r repo.DistressRepo, ttl time.Duration, clock clockwork.Clock, m *observability.Metrics) *SummaryService {
	return &SummaryService{
		repo:     r,
		cache:    cache.New(ttl, 0),
		bucketKM: domain.DefaultBucketKM,
		clock:    clock,
		metrics:  m,
	}
}

// Summary returns the aggregate over every stored record.
func (s *SummaryService) Summary(ctx context.Context) (domain.Summary, error) {
	if v, ok := s.cache.Get(summaryCacheKey); ok {
		s.metrics.SummaryCache.WithLabelValues("hit").Inc()
		return v.(domain.Summary), nil
	}
	s.metrics.SummaryCache.WithLabelValues("miss").Inc()

	records, err := s.repo.List(ctx)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("service.SummaryService.Summary: %w", err)
	}
	sum := domain.Summarize(records, s.bucketKM)
	s.cache.SetDefault(summaryCacheKey, sum)
	return sum, nil
}

// Invalidate drops the cached aggregate.
func (s *SummaryService) Invalidate() {
	s.cache.Delete(summaryCacheKey)
}

// Export writes the summary download in format f to w.
func (s *SummaryService) Export(ctx context.Context, f ExportFormat, w io.Writer) error {
	records, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("service.SummaryService.Export: %w", err)
	}
	switch f {
	case ExportPDF:
		sum, err := s.Summary(ctx)
		if err != nil {
			return fmt.Errorf("service.SummaryService.Export: %w", err)
		}
		err = writeSummaryPDF(w, sum, records, s.clock.Now())
		if err != nil {
			return fmt.Errorf("service.SummaryService.Export: %w", err)
		}
		return nil
	default:
		if err := writeDetailCSV(w, records); err != nil {
			return fmt.Errorf("service.SummaryService.Export: %w", err)
		}
		return nil
	}
}

var detailHeader = []string{"KM", "Type", "Severity", "Latitude", "Longitude", "Timestamp", "Confidence", "Length (m)", "Description"}

func detailRow(r domain.DistressRecord) []string {
	return []string{
		strconv.FormatFloat(r.KM, 'f', 1, 64),
		string(r.Type),
		string(r.Severity),
		strconv.FormatFloat(r.Lat(), 'f', 4, 64),
		strconv.FormatFloat(r.Lng(), 'f', 4, 64),
		r.Timestamp.String(),
		fmt.Sprintf("%.0f%%", r.Confidence*100),
		strconv.FormatFloat(r.LengthM, 'f', -1, 64),
		r.Description,
	}
}

func writeDetailCSV(w io.Writer, records []domain.DistressRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(detailHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(detailRow(r)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func writeSummaryPDF(w io.Writer, sum domain.Summary, records []domain.DistressRecord, generated time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Distress Summary Report", false)
	pdf.SetAuthor("roadscan", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Distress Summary Report")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Generated "+generated.UTC().Format("2006-01-02 15:04 MST"))
	pdf.Ln(10)

	writePDFSection(pdf, "Overview")
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range []string{
		fmt.Sprintf("Total distresses: %d", sum.TotalDistresses),
		fmt.Sprintf("High: %d   Medium: %d   Low: %d", sum.BySeverity.High, sum.BySeverity.Medium, sum.BySeverity.Low),
		fmt.Sprintf("Total km covered: %g", sum.TotalKM),
		fmt.Sprintf("Average per km: %g", sum.AveragePerKM),
	} {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	writePDFSection(pdf, "By type")
	pdf.SetFont("Helvetica", "", 11)
	for _, tc := range sum.ByType {
		pdf.Cell(0, 6, fmt.Sprintf("%s: %d (%g%%)", tc.Type, tc.Count, tc.Percentage))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	writePDFSection(pdf, "By km")
	writePDFTable(pdf, []string{"KM", "Total", "High", "Medium", "Low"}, []float64{40, 30, 30, 30, 30}, func(add func([]string)) {
		for _, b := range sum.ByKM {
			add([]string{b.Label, strconv.Itoa(b.Total), strconv.Itoa(b.High), strconv.Itoa(b.Medium), strconv.Itoa(b.Low)})
		}
	})
	pdf.Ln(4)

	writePDFSection(pdf, "Detailed distress data")
	widths := []float64{14, 22, 18, 22, 22, 20, 20, 18}
	writePDFTable(pdf, detailHeader[:8], widths, func(add func([]string)) {
		for _, r := range records {
			add(detailRow(r)[:8])
		}
	})

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func writePDFSection(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, title)
	pdf.Ln(9)
}

func writePDFTable(pdf *gofpdf.Fpdf, header []string, widths []float64, rows func(add func([]string))) {
	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range header {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	rows(func(cells []string) {
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	})
}
