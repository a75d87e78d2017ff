// Package ingest parses uploaded survey reports into distress records.
//
// Two formats are accepted, chosen by file extension:
//
//   - CSV with a header row. Columns are matched by name, case-insensitively
//     and in any order: type, severity, lat, lng, timestamp (required) and
//     description, km, confidence, length_m (optional). "latitude",
//     "longitude", "lon" and "length" are accepted as aliases.
//   - JSON: an array of objects using the same field names.
//
// Confidence may be a fraction (0.92) or a percentage ("92%").
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/pkordes/roadscan/internal/domain"
)

// row is one report entry before conversion. Every value is kept as text so
// CSV and JSON share the same conversion and error messages.
type row map[string]string

var aliases = map[string]string{
	"latitude":  "lat",
	"longitude": "lng",
	"lon":       "lng",
	"length":    "length_m",
}

var required = []string{"type", "severity", "lat", "lng", "timestamp"}

func canonical(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if a, ok := aliases[name]; ok {
		return a
	}
	return name
}

// Parse reads a report named fileName from r. Every error wraps
// domain.ErrIngest and names the offending record (1-based, header excluded).
func Parse(fileName string, r io.Reader) ([]domain.DistressRecord, error) {
	var (
		rows []row
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case ".csv":
		rows, err = readCSV(r)
	case ".json":
		rows, err = readJSON(r)
	default:
		return nil, fmt.Errorf("ingest.Parse: %w: %w: %q", domain.ErrIngest, domain.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("ingest.Parse: %w: %w", domain.ErrIngest, err)
	}

	out := make([]domain.DistressRecord, 0, len(rows))
	for i, rw := range rows {
		rec, err := rw.record()
		if err != nil {
			return nil, fmt.Errorf("ingest.Parse: %w: record %d: %w", domain.ErrIngest, i+1, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func readCSV(r io.Reader) ([]row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty report")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = canonical(strings.TrimPrefix(h, "\ufeff"))
	}
	if err := checkColumns(cols); err != nil {
		return nil, err
	}

	var rows []row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rw := make(row, len(cols))
		for i, v := range rec {
			rw[cols[i]] = strings.TrimSpace(v)
		}
		rows = append(rows, rw)
	}
	return rows, nil
}

func checkColumns(cols []string) error {
	have := make(map[string]bool, len(cols))
	for _, c := range cols {
		have[c] = true
	}
	var missing []string
	for _, c := range required {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

func readJSON(r io.Reader) ([]row, error) {
	var raw []map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	rows := make([]row, 0, len(raw))
	for _, obj := range raw {
		rw := make(row, len(obj))
		for k, v := range obj {
			switch v := v.(type) {
			case nil:
			case string:
				rw[canonical(k)] = strings.TrimSpace(v)
			case float64:
				rw[canonical(k)] = strconv.FormatFloat(v, 'f', -1, 64)
			default:
				rw[canonical(k)] = fmt.Sprint(v)
			}
		}
		rows = append(rows, rw)
	}
	return rows, nil
}

func (rw row) record() (domain.DistressRecord, error) {
	for _, c := range required {
		if rw[c] == "" {
			return domain.DistressRecord{}, fmt.Errorf("%s is required", c)
		}
	}

	typ, err := domain.ParseDistressType(rw["type"])
	if err != nil {
		return domain.DistressRecord{}, err
	}
	sev, err := domain.ParseSeverity(rw["severity"])
	if err != nil {
		return domain.DistressRecord{}, err
	}
	ts, err := domain.ParseVideoOffset(rw["timestamp"])
	if err != nil {
		return domain.DistressRecord{}, err
	}
	lat, err := rw.float("lat")
	if err != nil {
		return domain.DistressRecord{}, err
	}
	lng, err := rw.float("lng")
	if err != nil {
		return domain.DistressRecord{}, err
	}
	km, err := rw.float("km")
	if err != nil {
		return domain.DistressRecord{}, err
	}
	length, err := rw.float("length_m")
	if err != nil {
		return domain.DistressRecord{}, err
	}
	conf, err := rw.confidence()
	if err != nil {
		return domain.DistressRecord{}, err
	}

	rec := domain.DistressRecord{
		Type:        typ,
		Severity:    sev,
		Location:    orb.Point{lng, lat},
		Timestamp:   ts,
		Description: rw["description"],
		KM:          km,
		Confidence:  conf,
		LengthM:     length,
	}
	if err := rec.Validate(); err != nil {
		return domain.DistressRecord{}, err
	}
	return rec, nil
}

// float parses an optional numeric column; absent or empty is zero.
func (rw row) float(col string) (float64, error) {
	v := rw[col]
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", col, v)
	}
	return f, nil
}

func (rw row) confidence() (float64, error) {
	v, pct := strings.CutSuffix(rw["confidence"], "%")
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("confidence: %q is not a number", rw["confidence"])
	}
	if pct {
		f /= 100
	}
	return f, nil
}
