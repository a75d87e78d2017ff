package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/roadscan/internal/domain"
	"github.com/pkordes/roadscan/internal/middleware"
)

// maxJSONBodyBytes bounds every non-upload request body.
const maxJSONBodyBytes = 1 << 20

// Routes mounts every screen and API route on r. uploadLimit caps the
// multipart body of POST /api/uploads, which is allowed to exceed the
// per-kind file limit by the size of the form envelope.
func (s *Server) Routes(r chi.Router, uploadLimit int64) {
	r.NotFound(s.PageNotFound)
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorBody(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Get("/healthz", s.GetHealth)
	r.Get("/readyz", s.GetReady)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Get(string(domain.RouteHome), s.Home)
	r.Get(string(domain.RouteVideoMap), s.VideoMap)
	r.Get(string(domain.RouteDataUpload), s.DataUpload)
	r.Get(string(domain.RouteDistressSummary), s.DistressSummary)
	r.Get(string(domain.RouteInspectorNotes), s.InspectorNotes)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewMaxBodySizeHandler(maxJSONBodyBytes))

			r.Get("/distresses", s.ListDistresses)
			r.Get("/distresses/geojson", s.GetDistressGeoJSON)
			r.Get("/distresses/{id}", s.GetDistress)

			r.Get("/summary", s.GetSummary)
			r.Get("/summary/export", s.ExportSummary)

			r.Get("/notes", s.ListNotes)
			r.Post("/notes", s.CreateNote)

			r.Get("/uploads/{id}", s.GetUpload)
			r.Delete("/uploads/{id}", s.CancelUpload)

			r.Get("/notifications", s.ListNotifications)
		})
		r.With(middleware.NewMaxBodySizeHandler(uploadLimit)).Post("/uploads", s.CreateUpload)
	})
}
