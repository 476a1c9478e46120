package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "mkd"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	stageDuration   *prom.HistogramVec
	compileDuration prom.Histogram
	renderDuration  *prom.HistogramVec
	renderResults   *prom.CounterVec
	inputLines      prom.Histogram
	callbacks       *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual compile stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.compileDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "compile_duration_seconds",
			Help:      "Total compile duration",
			Buckets:   prom.DefBuckets,
		})
		pr.renderDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of renders by target",
			Buckets:   prom.DefBuckets,
		}, []string{"target"})
		pr.renderResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "render_results_total",
			Help:      "Render result counts by target and outcome",
		}, []string{"target", "result"})
		pr.inputLines = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "input_lines",
			Help:      "Number of assembled input lines per document",
			Buckets:   prom.ExponentialBuckets(1, 4, 8),
		})
		pr.callbacks = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "callback_invocations_total",
			Help:      "Callback hook invocations by kind",
		}, []string{"kind"})
		reg.MustRegister(pr.stageDuration, pr.compileDuration, pr.renderDuration, pr.renderResults, pr.inputLines, pr.callbacks)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveCompileDuration(d time.Duration) {
	if p == nil || p.compileDuration == nil {
		return
	}
	p.compileDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRenderDuration(target string, d time.Duration) {
	if p == nil || p.renderDuration == nil {
		return
	}
	p.renderDuration.WithLabelValues(target).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRenderResult(target string, result ResultLabel) {
	if p == nil || p.renderResults == nil {
		return
	}
	p.renderResults.WithLabelValues(target, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveInputLines(n int) {
	if p == nil || p.inputLines == nil {
		return
	}
	p.inputLines.Observe(float64(n))
}

func (p *PrometheusRecorder) IncCallback(kind string) {
	if p == nil || p.callbacks == nil {
		return
	}
	p.callbacks.WithLabelValues(kind).Inc()
}
