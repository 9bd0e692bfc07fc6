// Package metrics records refresh pipeline observations.
//
// Components take a Recorder and default to NoopRecorder, so metrics stay
// optional. The serve command swaps in a PrometheusRecorder and exposes it
// through Handler.
package metrics

import "time"

// Outcome labels a per-champion fetch result.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
	OutcomeEmpty   Outcome = "empty"
)

// Recorder defines observability hooks for quote refreshes.
type Recorder interface {
	ObserveFetchDuration(d time.Duration, outcome Outcome)
	IncFetchResult(outcome Outcome)
	AddQuotesExtracted(n int)
	IncRefreshOutcome(status string)
	SetLastRefresh(t time.Time)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveFetchDuration(time.Duration, Outcome) {}
func (NoopRecorder) IncFetchResult(Outcome)                      {}
func (NoopRecorder) AddQuotesExtracted(int)                      {}
func (NoopRecorder) IncRefreshOutcome(string)                    {}
func (NoopRecorder) SetLastRefresh(time.Time)                    {}
