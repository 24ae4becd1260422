package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusRecorder_RecordOperation(t *testing.T) {
	pr := NewPrometheusRecorder("test")

	pr.RecordOperation("transfer", "ok", 5*time.Millisecond)
	pr.RecordOperation("transfer", "ok", 5*time.Millisecond)
	pr.RecordOperation("transfer", "insufficient_balance", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(pr.operations.WithLabelValues("transfer", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.operations.WithLabelValues("transfer", "insufficient_balance")))
	assert.Equal(t, 0.0, testutil.ToFloat64(pr.operations.WithLabelValues("deposit", "ok")))
}

func TestPrometheusRecorder_RecordRequest(t *testing.T) {
	pr := NewPrometheusRecorder("test")

	pr.RecordRequest(http.MethodPost, "/transfer", http.StatusCreated, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(pr.requests.WithLabelValues("POST", "/transfer", "201")))
}

func TestPrometheusRecorder_Handler(t *testing.T) {
	pr := NewPrometheusRecorder("test")
	pr.RecordOperation("deposit", "ok", time.Millisecond)

	w := httptest.NewRecorder()
	pr.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `test_ledger_operations_total{operation="deposit",outcome="ok"} 1`), body)
}

func TestNoOpRecorder(t *testing.T) {
	var r Recorder = NoOpRecorder{}
	r.RecordOperation("deposit", "ok", time.Second)
	r.RecordRequest("GET", "/", 200, time.Second)

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
