package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicpulse/civicpulse/internal/application/complaint/usecases"
)

var _ usecases.MetricsRecorder = (*Metrics)(nil)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.ComplaintCreated("Koramangala")
	m.ComplaintCreated("Koramangala")
	m.ComplaintsMerged(usecases.MergeModeAuto)
	m.ComplaintsEscalated(3)
	m.ComplaintsEscalated(0)
	m.ComplaintClassified("Roads & Infrastructure")
	m.EnrichmentFailed("categorize")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CreatedTotal.WithLabelValues("Koramangala")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MergedTotal.WithLabelValues("auto")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.MergedTotal.WithLabelValues("manual")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.EscalatedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClassifiedTotal.WithLabelValues("Roads & Infrastructure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EnrichmentFailures.WithLabelValues("categorize")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.ObserveHTTPRequest(http.MethodPost, "/api/complaints", http.StatusCreated, 20*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `civicpulse_http_requests_total{method="POST",route="/api/complaints",status="201"} 1`))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.ComplaintCreated("Indiranagar")

	assert.Equal(t, 1.0, testutil.ToFloat64(a.CreatedTotal.WithLabelValues("Indiranagar")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.CreatedTotal.WithLabelValues("Indiranagar")))
}
