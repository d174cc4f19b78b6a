package middleware

import (
	"net/http"
	"time"

	"github.com/jmylchreest/themeflex/internal/observability"
)

// Metrics records request counts and latencies by chi route pattern, so
// label cardinality stays bounded. A nil m disables the middleware.
func Metrics(m *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrapResponseWriter(w)
			next.ServeHTTP(wrapped, r)
			m.ObserveRequest(r.Method, routePattern(r), wrapped.status, time.Since(start))
		})
	}
}
