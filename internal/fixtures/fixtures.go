// Package fixtures holds the sample survey shipped with the dashboard: one
// NSV run along NH-1 with its detected distresses and inspector notes.
// The in-memory store is seeded from here; the Postgres seed migration
// carries the same rows.
package fixtures

import (
	"time"

	"github.com/paulmach/orb"

	"github.com/pkordes/roadscan/internal/domain"
)

func offset(h, m, s int) domain.VideoOffset {
	return domain.VideoOffset(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second)
}

// Distresses returns the sample distress records without IDs, in survey order.
func Distresses() []domain.DistressRecord {
	return []domain.DistressRecord{
		{Type: domain.TypeCracks, Severity: domain.SeverityHigh, Location: orb.Point{77.2090, 28.6139}, Timestamp: offset(0, 5, 23), Description: "Longitudinal crack detected", KM: 0.5, Confidence: 0.95, LengthM: 15},
		{Type: domain.TypeRutting, Severity: domain.SeverityMedium, Location: orb.Point{77.2100, 28.6149}, Timestamp: offset(0, 7, 45), Description: "Wheel path rutting observed", KM: 1.2, Confidence: 0.87, LengthM: 8},
		{Type: domain.TypeRoughness, Severity: domain.SeverityLow, Location: orb.Point{77.2110, 28.6159}, Timestamp: offset(0, 9, 12), Description: "Minor surface irregularity", KM: 2.1, Confidence: 0.92, LengthM: 12},
		{Type: domain.TypeCracks, Severity: domain.SeverityHigh, Location: orb.Point{77.2120, 28.6169}, Timestamp: offset(0, 11, 30), Description: "Transverse crack pattern", KM: 3.4, Confidence: 0.89, LengthM: 6},
		{Type: domain.TypeRutting, Severity: domain.SeverityMedium, Location: orb.Point{77.2130, 28.6179}, Timestamp: offset(0, 13, 55), Description: "Progressive wheel rutting", KM: 4.7, Confidence: 0.84, LengthM: 10},
		{Type: domain.TypeCracks, Severity: domain.SeverityHigh, Location: orb.Point{77.2140, 28.6189}, Timestamp: offset(0, 16, 10), Description: "Alligator cracking", KM: 5.9, Confidence: 0.96, LengthM: 4},
		{Type: domain.TypeRoughness, Severity: domain.SeverityHigh, Location: orb.Point{77.2150, 28.6199}, Timestamp: offset(0, 18, 42), Description: "Potholes", KM: 7.2, Confidence: 0.98, LengthM: 2},
		{Type: domain.TypeRutting, Severity: domain.SeverityMedium, Location: orb.Point{77.2160, 28.6209}, Timestamp: offset(0, 21, 5), Description: "Surface deformation", KM: 8.5, Confidence: 0.82, LengthM: 7},
	}
}

// Notes returns the sample inspector notes without IDs, oldest first.
func Notes() []domain.InspectorNote {
	day := func(h, m int) time.Time { return time.Date(2024, time.January, 15, h, m, 0, 0, time.UTC) }
	return []domain.InspectorNote{
		{
			Title:     "Severe Cracking at KM 5.2",
			Content:   "Multiple longitudinal cracks observed. Immediate attention required for safety. Weather conditions: Clear, dry. Traffic volume: Heavy during inspection.",
			Location:  "NH-1, KM 5.2",
			CreatedAt: day(10, 30),
			Inspector: "Inspector A. Kumar",
			Priority:  domain.PriorityHigh,
			Tags:      []string{"Urgent", "Safety", "Cracks"},
		},
		{
			Title:     "Routine Maintenance Required",
			Content:   "Minor surface irregularities noted. Scheduled maintenance recommended within next quarter. No immediate safety concerns.",
			Location:  "NH-1, KM 12.7",
			CreatedAt: day(11, 45),
			Inspector: "Inspector B. Singh",
			Priority:  domain.PriorityLow,
			Tags:      []string{"Maintenance", "Routine"},
		},
		{
			Title:     "Rutting Pattern Analysis",
			Content:   "Progressive rutting pattern in right wheel path. Monitoring required. May be related to heavy vehicle traffic. Consider load restrictions.",
			Location:  "NH-1, KM 18.9",
			CreatedAt: day(14, 15),
			Inspector: "Inspector C. Sharma",
			Priority:  domain.PriorityMedium,
			Tags:      []string{"Rutting", "Traffic", "Monitoring"},
		},
		{
			Title:     "Bridge Approach Inspection",
			Content:   "Bridge approach shows signs of settlement. Joint sealing needs attention. Coordinate with bridge maintenance team.",
			Location:  "NH-1, KM 25.4 - Bridge Approach",
			CreatedAt: day(15, 30),
			Inspector: "Inspector A. Kumar",
			Priority:  domain.PriorityHigh,
			Tags:      []string{"Bridge", "Settlement", "Coordination"},
		},
	}
}
