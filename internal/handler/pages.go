package handler

import (
	"net/http"
	"slices"

	"github.com/pkordes/roadscan/internal/domain"
)

// Feature is one card on the landing screen.
type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Route       string `json:"route"`
}

var features = []Feature{
	{Title: "Video & Map Analysis", Description: "Real-time visualization of road conditions with geo-tagged markers", Route: string(domain.RouteVideoMap)},
	{Title: "Data Upload", Description: "Upload NSV reports and dashboard camera footage for analysis", Route: string(domain.RouteDataUpload)},
	{Title: "Distress Summary", Description: "Comprehensive analysis of pavement distress patterns and severity", Route: string(domain.RouteDistressSummary)},
	{Title: "Inspector Notes", Description: "Add annotations and comments for detailed inspection records", Route: string(domain.RouteInspectorNotes)},
}

// HomeStats is the landing screen's statistics strip.
type HomeStats struct {
	TotalInspections int `json:"total_inspections"`
	HighSeverity     int `json:"high_severity"`
	MediumSeverity   int `json:"medium_severity"`
	LowSeverity      int `json:"low_severity"`
	Notes            int `json:"notes"`
}

// HomeView is the body of GET /.
type HomeView struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartRoute  string     `json:"start_route"`
	Navigation  []NavEntry `json:"navigation"`
	Features    []Feature  `json:"features"`
	Stats       HomeStats  `json:"stats"`
}

// Home handles GET /.
func (s *Server) Home(w http.ResponseWriter, r *http.Request) {
	sum, err := s.summary.Summary(r.Context())
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	_, noteTotal, err := s.notes.List(r.Context(), "", domain.NewPaginationParams(nil, nil))
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, HomeView{
		Title:       "NSV Inspection Dashboard",
		Description: "Analyze Network Survey Vehicle data with synchronized video playback and geo-tagged distress mapping.",
		StartRoute:  string(domain.RouteVideoMap),
		Navigation:  navigationToResponse(),
		Features:    features,
		Stats: HomeStats{
			TotalInspections: sum.TotalDistresses,
			HighSeverity:     sum.BySeverity.High,
			MediumSeverity:   sum.BySeverity.Medium,
			LowSeverity:      sum.BySeverity.Low,
			Notes:            noteTotal,
		},
	})
}

// VideoMapView is the body of GET /video-map.
type VideoMapView struct {
	Navigation []NavEntry      `json:"navigation"`
	Toggles    map[string]bool `json:"toggles"`
	Markers    []Distress      `json:"markers"`
	QuickStats SeverityCounts  `json:"quick_stats"`
	Selected   *Distress       `json:"selected"`
}

// VideoMap handles GET /video-map. Toggles use the same query parameters as
// GET /api/distresses; ?selected=<id> picks the marker shown in the details
// panel, and must be one of the visible markers.
func (s *Server) VideoMap(w http.ResponseWriter, r *http.Request) {
	toggles, err := togglesFromQuery(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	var selected *int64
	if err := bindQuery(r, "selected", &selected); err != nil {
		badRequest(w, "selected must be an integer")
		return
	}

	records, err := s.distresses.List(r.Context(), toggles)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	view := VideoMapView{
		Navigation: navigationToResponse(),
		Toggles:    toggles,
		Markers:    distressesToResponse(records),
		QuickStats: countsToResponse(domain.CountBySeverity(records)),
	}
	if selected != nil {
		i := slices.IndexFunc(records, func(d domain.DistressRecord) bool { return d.ID == *selected })
		if i < 0 {
			notFound(w, "distress not found")
			return
		}
		d := distressToResponse(records[i])
		view.Selected = &d
	}

	writeJSON(w, http.StatusOK, view)
}

// Step is one row of the processing status panel.
type Step struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// PreviewRow is one row of the data preview table.
type PreviewRow struct {
	KM         float64 `json:"km"`
	Type       string  `json:"type"`
	Severity   string  `json:"severity"`
	Confidence float64 `json:"confidence"`
}

// DataUploadView is the body of GET /data-upload.
type DataUploadView struct {
	Navigation  []NavEntry   `json:"navigation"`
	DataUpload  *Upload      `json:"data_upload"`
	VideoUpload *Upload      `json:"video_upload"`
	Processing  []Step       `json:"processing"`
	Preview     []PreviewRow `json:"preview"`
	CanViewMap  bool         `json:"can_view_map"`
}

// DataUpload handles GET /data-upload.
func (s *Server) DataUpload(w http.ResponseWriter, r *http.Request) {
	records, err := s.distresses.List(r.Context(), domain.DefaultToggles())
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	view := DataUploadView{Navigation: navigationToResponse()}

	// The screen's status follows whichever upload started last.
	var last *domain.Upload
	for _, kind := range []domain.UploadKind{domain.UploadData, domain.UploadVideo} {
		u, ok := s.uploads.Latest(kind)
		if !ok {
			continue
		}
		resp := uploadToResponse(u)
		if kind == domain.UploadData {
			view.DataUpload = &resp
		} else {
			view.VideoUpload = &resp
		}
		if last == nil || u.StartedAt.After(last.StartedAt) {
			last = &u
		}
	}
	latest := domain.StatusIdle
	if last != nil {
		latest = last.State.Status
	}

	for _, st := range domain.ProcessingSteps(latest) {
		view.Processing = append(view.Processing, Step{Name: st.Name, Status: string(st.Status)})
	}
	view.Preview = make([]PreviewRow, 0, domain.PreviewRows)
	for _, d := range records[:min(len(records), domain.PreviewRows)] {
		view.Preview = append(view.Preview, PreviewRow{KM: d.KM, Type: string(d.Type), Severity: string(d.Severity), Confidence: d.Confidence})
	}
	view.CanViewMap = domain.CanViewMap(latest)

	writeJSON(w, http.StatusOK, view)
}

// DistressSummaryView is the body of GET /distress-summary.
type DistressSummaryView struct {
	Navigation []NavEntry `json:"navigation"`
	Summary    Summary    `json:"summary"`
	Exports    []string   `json:"exports"`
}

// DistressSummary handles GET /distress-summary.
func (s *Server) DistressSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.summary.Summary(r.Context())
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, DistressSummaryView{
		Navigation: navigationToResponse(),
		Summary:    summaryToResponse(sum),
		Exports:    []string{"/api/summary/export?format=csv", "/api/summary/export?format=pdf"},
	})
}

// EmptyState is shown in place of the notes list when it has no entries.
type EmptyState struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// InspectorNotesView is the body of GET /inspector-notes.
type InspectorNotesView struct {
	Navigation []NavEntry  `json:"navigation"`
	Form       NoteForm    `json:"form"`
	Query      string      `json:"query"`
	Notes      []Note      `json:"notes"`
	Total      int         `json:"total"`
	Empty      *EmptyState `json:"empty,omitempty"`
}

// InspectorNotes handles GET /inspector-notes?q=.
func (s *Server) InspectorNotes(w http.ResponseWriter, r *http.Request) {
	var q *string
	if err := bindQuery(r, "q", &q); err != nil {
		badRequest(w, "q must be a string")
		return
	}
	params, err := paginationFromQuery(r)
	if err != nil {
		badRequest(w, "page and limit must be integers")
		return
	}

	notes, total, err := s.notes.List(r.Context(), deref(q), params)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	view := InspectorNotesView{
		Navigation: navigationToResponse(),
		Form:       formToResponse(domain.DefaultNoteForm()),
		Query:      deref(q),
		Notes:      make([]Note, len(notes)),
		Total:      total,
	}
	for i, n := range notes {
		view.Notes[i] = noteToResponse(n)
	}
	if total == 0 {
		view.Empty = &EmptyState{Title: domain.NotesEmptyTitle, Message: domain.NotesEmptyMessage(deref(q))}
	}

	writeJSON(w, http.StatusOK, view)
}

// PageNotFound handles every path that is not a screen or API route.
func (s *Server) PageNotFound(w http.ResponseWriter, r *http.Request) {
	notFound(w, "page not found")
}
