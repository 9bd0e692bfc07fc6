package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lolquotes"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	fetchDuration   *prom.HistogramVec
	fetchResults    *prom.CounterVec
	quotesExtracted prom.Counter
	refreshOutcome  *prom.CounterVec
	lastRefresh     prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}

	pr := &PrometheusRecorder{
		fetchDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of wiki audio page fetches",
			Buckets:   prom.DefBuckets,
		}, []string{"outcome"}),
		fetchResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_results_total",
			Help:      "Per-champion fetch results by outcome",
		}, []string{"outcome"}),
		quotesExtracted: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_extracted_total",
			Help:      "Quotes extracted from audio pages",
		}),
		refreshOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_outcomes_total",
			Help:      "Refresh runs by final status",
		}, []string{"status"}),
		lastRefresh: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_refresh_timestamp_seconds",
			Help:      "Unix time the last refresh finished",
		}),
	}
	reg.MustRegister(pr.fetchDuration, pr.fetchResults, pr.quotesExtracted, pr.refreshOutcome, pr.lastRefresh)

	return pr
}

func (p *PrometheusRecorder) ObserveFetchDuration(d time.Duration, outcome Outcome) {
	if p == nil {
		return
	}
	p.fetchDuration.WithLabelValues(string(outcome)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncFetchResult(outcome Outcome) {
	if p == nil {
		return
	}
	p.fetchResults.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) AddQuotesExtracted(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.quotesExtracted.Add(float64(n))
}

func (p *PrometheusRecorder) IncRefreshOutcome(status string) {
	if p == nil {
		return
	}
	p.refreshOutcome.WithLabelValues(status).Inc()
}

func (p *PrometheusRecorder) SetLastRefresh(t time.Time) {
	if p == nil {
		return
	}
	p.lastRefresh.Set(float64(t.Unix()))
}

// Handler serves the metrics in reg.
func Handler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
