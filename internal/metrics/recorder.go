// Package metrics records build observations. Components take a Recorder and
// default to NoopRecorder; the dev server swaps in a PrometheusRecorder.
package metrics

import "time"

type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

type Recorder interface {
	IncPage(template string)
	IncQuery(kind string)
	ObserveStepDuration(step string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome Outcome)
}

type NoopRecorder struct{}

func (NoopRecorder) IncPage(string) {}
func (NoopRecorder) IncQuery(string) {}
func (NoopRecorder) ObserveStepDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) IncBuildOutcome(Outcome) {}
