package handler

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/roadscan/internal/domain"
)

// Distress is the wire form of a domain.DistressRecord.
type Distress struct {
	ID          int64   `json:"id"`
	Type        string  `json:"type"`
	Severity    string  `json:"severity"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Timestamp   string  `json:"timestamp"`
	Description string  `json:"description"`
	KM          float64 `json:"km"`
	Confidence  float64 `json:"confidence"`
	LengthM     float64 `json:"length_m"`
}

func distressToResponse(r domain.DistressRecord) Distress {
	return Distress{
		ID:          r.ID,
		Type:        string(r.Type),
		Severity:    string(r.Severity),
		Lat:         r.Lat(),
		Lng:         r.Lng(),
		Timestamp:   r.Timestamp.String(),
		Description: r.Description,
		KM:          r.KM,
		Confidence:  r.Confidence,
		LengthM:     r.LengthM,
	}
}

func distressesToResponse(rs []domain.DistressRecord) []Distress {
	out := make([]Distress, len(rs))
	for i, r := range rs {
		out[i] = distressToResponse(r)
	}
	return out
}

// SeverityCounts is the wire form of domain.SeverityCounts.
type SeverityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

func countsToResponse(c domain.SeverityCounts) SeverityCounts {
	return SeverityCounts{High: c.High, Medium: c.Medium, Low: c.Low}
}

// Note is the wire form of a domain.InspectorNote. CreatedAtDisplay is the
// timestamp as the notes screen shows it.
type Note struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Content          string    `json:"content"`
	Location         string    `json:"location"`
	CreatedAt        time.Time `json:"created_at"`
	CreatedAtDisplay string    `json:"created_at_display"`
	Inspector        string    `json:"inspector"`
	Priority         string    `json:"priority"`
	Tags             []string  `json:"tags"`
}

func noteToResponse(n domain.InspectorNote) Note {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	return Note{
		ID:               n.ID,
		Title:            n.Title,
		Content:          n.Content,
		Location:         n.Location,
		CreatedAt:        n.CreatedAt,
		CreatedAtDisplay: n.CreatedAt.Format(domain.NoteTimeLayout),
		Inspector:        n.Inspector,
		Priority:         string(n.Priority),
		Tags:             tags,
	}
}

// NoteForm is the wire form of the "Add New Note" form.
type NoteForm struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Location string `json:"location"`
	Priority string `json:"priority"`
}

func formToResponse(f domain.NoteForm) NoteForm {
	return NoteForm{Title: f.Title, Content: f.Content, Location: f.Location, Priority: string(f.Priority)}
}

// Pagination describes one page of a list response.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// Upload is the wire form of a domain.Upload.
type Upload struct {
	ID           openapi_types.UUID `json:"id"`
	Kind         string             `json:"kind"`
	FileName     string             `json:"file_name"`
	Status       string             `json:"status"`
	Progress     int                `json:"progress"`
	Size         int64              `json:"size"`
	BytesWritten int64              `json:"bytes_written"`
	Ingested     int                `json:"ingested"`
	Error        string             `json:"error,omitempty"`
	StartedAt    time.Time          `json:"started_at"`
	FinishedAt   *time.Time         `json:"finished_at,omitempty"`
}

func uploadToResponse(u domain.Upload) Upload {
	resp := Upload{
		ID:           u.ID,
		Kind:         string(u.Kind),
		FileName:     u.FileName,
		Status:       string(u.State.Status),
		Progress:     u.State.Progress,
		Size:         u.Size,
		BytesWritten: u.BytesWritten,
		Ingested:     u.Ingested,
		Error:        cleanMessage(u.State.Err),
		StartedAt:    u.StartedAt,
	}
	if !u.FinishedAt.IsZero() {
		f := u.FinishedAt
		resp.FinishedAt = &f
	}
	return resp
}

// Notification is the wire form of a toast.
type Notification struct {
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Kind    string    `json:"kind"`
	At      time.Time `json:"at"`
}

func notificationsToResponse(ns []domain.Notification) []Notification {
	out := make([]Notification, len(ns))
	for i, n := range ns {
		out[i] = Notification{Title: n.Title, Message: n.Message, Kind: string(n.Kind), At: n.At}
	}
	return out
}

// TypeCount is one row of the summary's type breakdown.
type TypeCount struct {
	Type       string  `json:"type"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// KMBucket is one row of the summary's distance breakdown.
type KMBucket struct {
	Label  string  `json:"label"`
	From   float64 `json:"from"`
	To     float64 `json:"to"`
	Total  int     `json:"total"`
	High   int     `json:"high"`
	Medium int     `json:"medium"`
	Low    int     `json:"low"`
}

// Summary is the wire form of domain.Summary.
type Summary struct {
	TotalDistresses int            `json:"total_distresses"`
	BySeverity      SeverityCounts `json:"by_severity"`
	ByType          []TypeCount    `json:"by_type"`
	TotalKM         float64        `json:"total_km"`
	AveragePerKM    float64        `json:"average_per_km"`
	ByKM            []KMBucket     `json:"by_km"`
}

func summaryToResponse(s domain.Summary) Summary {
	resp := Summary{
		TotalDistresses: s.TotalDistresses,
		BySeverity:      countsToResponse(s.BySeverity),
		ByType:          make([]TypeCount, len(s.ByType)),
		TotalKM:         s.TotalKM,
		AveragePerKM:    s.AveragePerKM,
		ByKM:            make([]KMBucket, len(s.ByKM)),
	}
	for i, t := range s.ByType {
		resp.ByType[i] = TypeCount{Type: string(t.Type), Count: t.Count, Percentage: t.Percentage}
	}
	for i, b := range s.ByKM {
		resp.ByKM[i] = KMBucket{Label: b.Label, From: b.From, To: b.To, Total: b.Total, High: b.High, Medium: b.Medium, Low: b.Low}
	}
	return resp
}

// NavEntry is one navigation link.
type NavEntry struct {
	Route string `json:"route"`
	Label string `json:"label"`
}

func navigationToResponse() []NavEntry {
	out := make([]NavEntry, len(domain.Navigation))
	for i, e := range domain.Navigation {
		out[i] = NavEntry{Route: string(e.Route), Label: e.Label}
	}
	return out
}
