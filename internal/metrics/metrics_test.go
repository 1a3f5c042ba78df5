package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveInference(t *testing.T) {
	r := New("raidash_test")
	r.ObserveInference("tree", OutcomeOK, 10*time.Millisecond)
	r.ObserveInference("tree", OutcomeOK, 20*time.Millisecond)
	r.ObserveInference("tree", OutcomeServiceError, time.Millisecond)

	families, err := r.Gatherer().Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "raidash_test_inference_calls_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "outcome" {
					counts[lp.GetValue()] = m.GetCounter().GetValue()
				}
			}
		}
	}
	assert.Equal(t, 2.0, counts[OutcomeOK])
	assert.Equal(t, 1.0, counts[OutcomeServiceError])
}

func TestNilRegistryIsNoop(t *testing.T) {
	var r *Registry
	assert.NotPanics(t, func() {
		r.ObserveInference("predict", OutcomeOK, time.Second)
		r.ObserveHTTP("/", http.MethodGet, 200, time.Second)
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	r := New("raidash_test")
	r.ObserveHTTP("/healthz", http.MethodGet, 200, time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `raidash_test_http_requests_total{method="GET",route="/healthz",status="200"} 1`)
}
