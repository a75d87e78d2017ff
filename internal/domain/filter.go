package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Toggles is the video/map filter configuration, keyed by the lower-cased
// distress type and severity names ("cracks", "high", ...).
//
// A missing key means shown. Only an explicit false hides records, so a
// record whose type or severity has no toggle (including strings outside the
// known enumerations) is always visible.
type Toggles map[string]bool

// DefaultToggles returns every known type and severity switched on, the
// state the video/map screen starts in.
func DefaultToggles() Toggles {
	t := make(Toggles, len(DistressTypes)+len(Severities))
	for _, dt := range DistressTypes {
		t[dt.Key()] = true
	}
	for _, sv := range Severities {
		t[sv.Key()] = true
	}
	return t
}

// Set returns a copy of t with key switched to on. The receiver is not
// modified, so screens can keep the previous state.
func (t Toggles) Set(key string, on bool) Toggles {
	out := make(Toggles, len(t)+1)
	for k, v := range t {
		out[k] = v
	}
	out[strings.ToLower(key)] = on
	return out
}

// Visible reports whether r passes the filter: neither its type toggle nor
// its severity toggle is explicitly false.
func (t Toggles) Visible(r DistressRecord) bool {
	typeOn, ok := t[strings.ToLower(string(r.Type))]
	if ok && !typeOn {
		return false
	}
	sevOn, ok := t[strings.ToLower(string(r.Severity))]
	if ok && !sevOn {
		return false
	}
	return true
}

// FilterDistresses returns the records visible under t, preserving input
// order. The input slice is not modified. The result is never nil.
func FilterDistresses(records []DistressRecord, t Toggles) []DistressRecord {
	out := make([]DistressRecord, 0, len(records))
	for _, r := range records {
		if t.Visible(r) {
			out = append(out, r)
		}
	}
	return out
}

// ParseToggles builds Toggles from string values such as URL query
// parameters. Only keys naming a known type or severity are read; values must
// parse with strconv.ParseBool.
func ParseToggles(get func(key string) string) (Toggles, error) {
	t := DefaultToggles()
	for key := range t {
		raw := get(key)
		if raw == "" {
			continue
		}
		on, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: filter %q must be true or false", ErrValidation, key)
		}
		t[key] = on
	}
	return t, nil
}

// SeverityCounts is the per-severity tally shown in the video/map sidebar.
type SeverityCounts struct {
	High   int
	Medium int
	Low    int
}

// CountBySeverity tallies records per severity. Records with a severity
// outside the known set are not counted.
func CountBySeverity(records []DistressRecord) SeverityCounts {
	var c SeverityCounts
	for _, r := range records {
		switch r.Severity {
		case SeverityHigh:
			c.High++
		case SeverityMedium:
			c.Medium++
		case SeverityLow:
			c.Low++
		}
	}
	return c
}
