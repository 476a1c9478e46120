package metrics

import "time"

// ResultLabel enumerates render result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultCached  ResultLabel = "cached"
	ResultFailed  ResultLabel = "failed"
)

// Stage names observed by ObserveStageDuration.
const (
	StageAssemble = "assemble"
	StageParse    = "parse"
	StageCollect  = "collect"
	StageSpans    = "spans"
)

// Recorder defines observability hooks for compile and render metrics.
// Implementations may forward to Prometheus or similar backends.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveCompileDuration(d time.Duration)
	ObserveRenderDuration(target string, d time.Duration)
	IncRenderResult(target string, result ResultLabel)
	ObserveInputLines(n int)
	IncCallback(kind string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)  {}
func (NoopRecorder) ObserveCompileDuration(time.Duration)        {}
func (NoopRecorder) ObserveRenderDuration(string, time.Duration) {}
func (NoopRecorder) IncRenderResult(string, ResultLabel)         {}
func (NoopRecorder) ObserveInputLines(int)                       {}
func (NoopRecorder) IncCallback(string)                          {}

// OrNoop returns r, or a NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
