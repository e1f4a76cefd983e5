package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.ObservePublish(OutcomeSuccess, 10*time.Millisecond)
	m.ObservePublish(OutcomeRejected, time.Millisecond)
	m.ObservePublish(OutcomeRejected, time.Millisecond)
	m.ObserveIssue("dangling_section", "error")
	m.ObserveSubmission(OutcomeSuccess)
	m.ObserveResolve(true)
	m.ObserveResolve(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.publishes.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.publishes.WithLabelValues(OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.issues.WithLabelValues("dangling_section", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolves.WithLabelValues("terminal")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObservePublish(OutcomeSuccess, time.Second)
		m.ObserveIssue("x", "warning")
		m.ObserveSubmission(OutcomeError)
		m.ObserveResolve(false)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.ObserveSubmission(OutcomeRejected)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `intake_submissions_total{outcome="rejected"} 1`), body)
}
