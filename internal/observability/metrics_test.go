package observability

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveCatalogFetch(t *testing.T) {
	m := NewMetrics()

	m.ObserveCatalogFetch(120*time.Millisecond, 20, nil)
	m.ObserveCatalogFetch(time.Second, 0, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.catalogFetchTotal.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.catalogFetchTotal.WithLabelValues(OutcomeFailure)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.catalogProducts))
}

func TestMetrics_ObserveRequest(t *testing.T) {
	m := NewMetrics()

	m.ObserveRequest(http.MethodGet, "/about", http.StatusOK, 5*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/about", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCatalogFetch(time.Second, 3, nil)
		m.ObserveRequest("GET", "/", 200, time.Second)
		m.ObserveThemeChange("1")
		m.ObserveContact("accepted")
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.ObserveThemeChange("3")
	m.ObserveContact("accepted")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `themeflex_theme_changes_total{theme="3"} 1`)
	assert.Contains(t, string(body), `themeflex_contact_submissions_total{outcome="accepted"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
