package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics("test")

	m.ObserveUpstream("list", OutcomeOK, 10*time.Millisecond)
	m.ObserveUpstream("list", OutcomeOK, 20*time.Millisecond)
	m.ObserveUpstream("signup", OutcomeRejected, time.Millisecond)
	m.CountRefresh("populated")
	m.CountNotice("signup", "error")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.upstreamTotal.WithLabelValues("list", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.upstreamTotal.WithLabelValues("signup", OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.refreshTotal.WithLabelValues("populated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.noticeTotal.WithLabelValues("signup", "error")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveUpstream("list", OutcomeOK, time.Second)
	m.CountRefresh("failed")
	m.CountNotice("signup", "success")

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics("portal")
	m.CountRefresh("failed")

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `portal_view_refresh_total{state="failed"} 1`)
}

func TestSetupTracing_DisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := SetupTracing(context.Background(), "", "svc")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
	assert.NotNil(t, Tracer())
}
