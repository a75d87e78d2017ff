// Package domain contains the core data types and pure logic of the roadscan
// dashboard: distress records, inspector notes, uploads and the predicates
// the screens apply to them.
// Nothing here touches the network, the filesystem or a database.
package domain

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"
)

// DistressType is the kind of pavement defect detected by the survey.
type DistressType string

const (
	TypeCracks    DistressType = "Cracks"
	TypeRutting   DistressType = "Rutting"
	TypeRoughness DistressType = "Roughness"
)

// DistressTypes lists every DistressType in display order.
var DistressTypes = []DistressType{TypeCracks, TypeRutting, TypeRoughness}

// ParseDistressType maps a case-insensitive name onto a DistressType.
// Returns ErrValidation for anything outside the closed set.
func ParseDistressType(s string) (DistressType, error) {
	for _, t := range DistressTypes {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown distress type %q", ErrValidation, s)
}

// Key returns the lower-cased toggle key used by the map filters.
func (t DistressType) Key() string { return strings.ToLower(string(t)) }

// Severity is the qualitative impact level shared by distresses and notes.
// The order Low < Medium < High is for display only.
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// Severities lists every Severity from most to least severe, the order the
// dashboard renders them in.
var Severities = []Severity{SeverityHigh, SeverityMedium, SeverityLow}

// ParseSeverity maps a case-insensitive name onto a Severity.
func ParseSeverity(s string) (Severity, error) {
	for _, sv := range Severities {
		if strings.EqualFold(strings.TrimSpace(s), string(sv)) {
			return sv, nil
		}
	}
	return "", fmt.Errorf("%w: unknown severity %q", ErrValidation, s)
}

// Key returns the lower-cased toggle key used by the map filters.
func (s Severity) Key() string { return strings.ToLower(string(s)) }

// VideoOffset is an elapsed-time marker into the survey video, rendered as
// HH:MM:SS. It is not a wall-clock time.
type VideoOffset time.Duration

var videoOffsetPattern = regexp.MustCompile(`^(\d{2}):([0-5]\d):([0-5]\d)$`)

// ParseVideoOffset parses a strict HH:MM:SS marker.
func ParseVideoOffset(s string) (VideoOffset, error) {
	m := videoOffsetPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: timestamp %q must be HH:MM:SS", ErrValidation, s)
	}
	h, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	sec, _ := strconv.Atoi(m[3])
	d := time.Duration(h)*time.Hour + time.Duration(mins)*time.Minute + time.Duration(sec)*time.Second
	return VideoOffset(d), nil
}

// String formats the offset as HH:MM:SS.
func (v VideoOffset) String() string {
	total := int64(time.Duration(v) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

// DistressRecord is a single detected defect at a point on the surveyed route.
// ID is assigned by the store; callers creating records leave it zero.
type DistressRecord struct {
	ID          int64
	Type        DistressType
	Severity    Severity
	Location    orb.Point // [lng, lat], WGS84
	Timestamp   VideoOffset
	Description string

	// KM is the distance along the route, in kilometres.
	KM float64
	// Confidence is the detector confidence in [0, 1].
	Confidence float64
	// LengthM is the measured length of the defect in metres; 0 when unknown.
	LengthM float64
}

// Lat returns the record's latitude in decimal degrees.
func (r DistressRecord) Lat() float64 { return r.Location.Lat() }

// Lng returns the record's longitude in decimal degrees.
func (r DistressRecord) Lng() float64 { return r.Location.Lon() }

// Validate checks the invariants a record must satisfy before it is stored.
func (r DistressRecord) Validate() error {
	if _, err := ParseDistressType(string(r.Type)); err != nil {
		return err
	}
	if _, err := ParseSeverity(string(r.Severity)); err != nil {
		return err
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"latitude", r.Lat()}, {"longitude", r.Lng()}, {"km", r.KM}, {"confidence", r.Confidence}, {"length", r.LengthM},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be a finite number", ErrValidation, f.name)
		}
	}
	if lat := r.Lat(); lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrValidation, lat)
	}
	if lng := r.Lng(); lng < -180 || lng > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrValidation, lng)
	}
	if r.KM < 0 {
		return fmt.Errorf("%w: km must not be negative", ErrValidation)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("%w: confidence must be between 0 and 1", ErrValidation)
	}
	if r.LengthM < 0 {
		return fmt.Errorf("%w: length must not be negative", ErrValidation)
	}
	return nil
}
