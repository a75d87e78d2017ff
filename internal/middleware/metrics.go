package middleware

import (
	"net/http"
	"strconv"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/roadscan/internal/observability"
)

// NewMetricsRecorder returns a middleware observing request latency by
// method, chi route pattern and status. Patterns rather than raw paths keep
// label cardinality bounded.
func NewMetricsRecorder(m *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			m.HTTPRequestDuration.
				WithLabelValues(r.Method, routePattern(r), strconv.Itoa(ww.Status())).
				Observe(time.Since(start).Seconds())
		})
	}
}
