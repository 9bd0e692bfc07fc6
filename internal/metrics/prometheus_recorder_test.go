package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveFetchDuration(150*time.Millisecond, OutcomeSuccess)
	pr.IncFetchResult(OutcomeSuccess)
	pr.IncFetchResult(OutcomeSuccess)
	pr.IncFetchResult(OutcomeFailed)
	pr.AddQuotesExtracted(12)
	pr.AddQuotesExtracted(-1)
	pr.IncRefreshOutcome("partial")
	pr.SetLastRefresh(time.Unix(1700000000, 0))

	families := gather(t, reg)

	assert.Equal(t, 2.0, counterWithLabel(t, families["lolquotes_fetch_results_total"], "outcome", "success"))
	assert.Equal(t, 1.0, counterWithLabel(t, families["lolquotes_fetch_results_total"], "outcome", "failed"))
	assert.Equal(t, 12.0, families["lolquotes_quotes_extracted_total"].GetMetric()[0].GetCounter().GetValue())
	assert.Equal(t, 1.0, counterWithLabel(t, families["lolquotes_refresh_outcomes_total"], "status", "partial"))
	assert.Equal(t, 1700000000.0, families["lolquotes_last_refresh_timestamp_seconds"].GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, uint64(1), families["lolquotes_fetch_duration_seconds"].GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveFetchDuration(time.Second, OutcomeFailed)
		pr.IncFetchResult(OutcomeFailed)
		pr.AddQuotesExtracted(1)
		pr.IncRefreshOutcome("failed")
		pr.SetLastRefresh(time.Now())
	})
}

func TestHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncFetchResult(OutcomeEmpty)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `lolquotes_fetch_results_total{outcome="empty"} 1`)
}

func gather(t *testing.T, reg *prom.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily, len(mfs))
	for _, mf := range mfs {
		byName[mf.GetName()] = mf
	}
	return byName
}

func counterWithLabel(t *testing.T, mf *dto.MetricFamily, name, value string) float64 {
	t.Helper()
	require.NotNil(t, mf)
	for _, m := range mf.GetMetric() {
		for _, lp := range m.GetLabel() {
			if lp.GetName() == name && lp.GetValue() == value {
				return m.GetCounter().GetValue()
			}
		}
	}
	t.Fatalf("no metric with %s=%s", name, value)
	return 0
}
