package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAPI(t *testing.T) {
	c := New()
	c.RecordAPI(http.MethodGet, 200, 10*time.Millisecond)
	c.RecordAPI(http.MethodGet, 204, 10*time.Millisecond)
	c.RecordAPI(http.MethodPost, 0, time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(c.apiRequests.WithLabelValues("GET", "2xx")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.apiRequests.WithLabelValues("POST", "error")))
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	c.RecordAPI("GET", 200, time.Second)
	c.Record(500, time.Second)
	c.RecordLogin("success")
	c.RecordRedirect("/login")
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := New()
	c.RecordLogin("failure")
	c.RecordRedirect("/login")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `hrms_console_logins_total{outcome="failure"} 1`)
	assert.Contains(t, rec.Body.String(), `hrms_console_guard_redirects_total{target="/login"} 1`)
}
