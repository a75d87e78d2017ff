package domain

import (
	"fmt"
	"math"
)

// DefaultBucketKM is the width of the distance buckets in the summary report.
const DefaultBucketKM = 5.0

// MaxKMBuckets bounds the distance breakdown. A survey longer than
// MaxKMBuckets buckets widens each bucket to a whole multiple of the
// requested width.
const MaxKMBuckets = 1000

// TypeCount is one row of the type-wise breakdown.
type TypeCount struct {
	Type       DistressType
	Count      int
	Percentage float64 // share of all records, one decimal place
}

// KMBucket counts records whose KM falls in [From, To).
type KMBucket struct {
	Label  string
	From   float64
	To     float64
	Total  int
	High   int
	Medium int
	Low    int
}

// Summary is the aggregate shown on the distress summary screen.
type Summary struct {
	TotalDistresses int
	BySeverity      SeverityCounts
	ByType          []TypeCount
	TotalKM         float64
	AveragePerKM    float64
	ByKM            []KMBucket
}

// Summarize aggregates records. bucketKM <= 0 uses DefaultBucketKM.
//
// TotalKM is the furthest KM surveyed, rounded to 0.1. ByType always lists
// every known type, zero counts included. Buckets run from 0 to the first
// multiple of bucketKM past the furthest record; a record sitting exactly on
// a boundary belongs to the higher bucket.
func Summarize(records []DistressRecord, bucketKM float64) Summary {
	if bucketKM <= 0 {
		bucketKM = DefaultBucketKM
	}

	s := Summary{
		TotalDistresses: len(records),
		BySeverity:      CountBySeverity(records),
		ByType:          make([]TypeCount, len(DistressTypes)),
		ByKM:            []KMBucket{},
	}

	var maxKM float64
	typeIdx := make(map[DistressType]int, len(DistressTypes))
	for i, t := range DistressTypes {
		typeIdx[t] = i
		s.ByType[i].Type = t
	}
	for _, r := range records {
		if i, ok := typeIdx[r.Type]; ok {
			s.ByType[i].Count++
		}
		if finite(r.KM) {
			maxKM = math.Max(maxKM, r.KM)
		}
	}
	if s.TotalDistresses > 0 {
		for i := range s.ByType {
			s.ByType[i].Percentage = round1(float64(s.ByType[i].Count) * 100 / float64(s.TotalDistresses))
		}
	}

	s.TotalKM = round1(maxKM)
	if s.TotalKM > 0 {
		s.AveragePerKM = round1(float64(s.TotalDistresses) / s.TotalKM)
	}

	if len(records) == 0 {
		return s
	}
	if ratio := maxKM / bucketKM; ratio >= MaxKMBuckets {
		bucketKM *= math.Ceil(ratio / (MaxKMBuckets - 1))
	}
	n := min(int(math.Floor(maxKM/bucketKM))+1, MaxKMBuckets)
	s.ByKM = make([]KMBucket, n)
	for i := range s.ByKM {
		from := float64(i) * bucketKM
		to := from + bucketKM
		s.ByKM[i] = KMBucket{Label: fmt.Sprintf("%g-%g", from, to), From: from, To: to}
	}
	for _, r := range records {
		i := 0
		if finite(r.KM) && r.KM > 0 {
			i = min(int(math.Floor(r.KM/bucketKM)), n-1)
		}
		b := &s.ByKM[i]
		b.Total++
		switch r.Severity {
		case SeverityHigh:
			b.High++
		case SeverityMedium:
			b.Medium++
		case SeverityLow:
			b.Low++
		}
	}
	return s
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// round1 rounds to one decimal place. Values too large to carry a fraction
// are returned as is.
func round1(v float64) float64 {
	if math.Abs(v) >= 1e15 {
		return v
	}
	return math.Round(v*10) / 10
}
