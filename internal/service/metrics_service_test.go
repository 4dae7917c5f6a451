package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceExposesWorkflowCounters(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodPost, "/api/v1/requests", http.StatusCreated, 10*time.Millisecond)
	m.RecordSubmission("accepted")
	m.RecordTransition("faculty", "faculty approved")
	m.RecordNotification("sent")
	m.RecordSweep(3)
	m.RecordSweep(0)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `makeup_submissions_total{outcome="accepted"} 1`)
	assert.Contains(t, body, `makeup_transitions_total{actor="faculty",status="faculty approved"} 1`)
	assert.Contains(t, body, `extension_sweep_closed_total 3`)
	assert.Contains(t, body, `http_requests_total{method="POST",path="/api/v1/requests",status="201"} 1`)
}

func TestMetricsServiceNilIsSafe(t *testing.T) {
	var m *MetricsService
	assert.NotPanics(t, func() {
		m.RecordSubmission("accepted")
		m.RecordCacheOperation(true, time.Millisecond)
		m.RecordSweep(1)
	})
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
