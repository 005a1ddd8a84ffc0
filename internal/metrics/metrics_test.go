package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_Counts(t *testing.T) {
	m := New()

	m.ObserveRedirect(time.Millisecond, nil)
	m.ObserveRedirect(time.Millisecond, nil)
	m.ObserveRedirect(time.Millisecond, errors.New("boom"))
	m.ObserveLoad(time.Millisecond, nil)

	body := scrape(t, m)
	assert.Contains(t, body, `boomerang_redirects_total{outcome="ok"} 2`)
	assert.Contains(t, body, `boomerang_redirects_total{outcome="error"} 1`)
	assert.Contains(t, body, `boomerang_loads_total{outcome="ok"} 1`)
	assert.Contains(t, body, `boomerang_operation_duration_seconds_count{operation="redirect"} 3`)
}

func TestMetrics_IsolatedRegistries(t *testing.T) {
	a := New()
	b := New()

	a.ObserveLoad(time.Millisecond, nil)

	assert.NotContains(t, scrape(t, b), `boomerang_loads_total{outcome="ok"} 1`)
}
