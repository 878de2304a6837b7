// Package metrics exports step telemetry as Prometheus metrics.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nvandessel/alignleap/internal/dynamics"
)

const namespace = "alignleap"

// Recorder holds the metrics of one run on its own registry, so parallel
// runs never share series. A nil Recorder is safe to use; all methods are
// no-ops.
type Recorder struct {
	registry *prometheus.Registry

	steps       prometheus.Counter
	jumps       prometheus.Counter
	heat        prometheus.Gauge
	threshold   prometheus.Gauge
	jumpRate    prometheus.Gauge
	temperature prometheus.Gauge
	entropy     prometheus.Gauge
	alignEff    prometheus.Gauge
	kappaMean   prometheus.Gauge
	current     prometheus.Gauge
	flowNorm    prometheus.Histogram
}

// NewRecorder registers all series on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	gauge := func(name, help string) prometheus.Gauge {
		return factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		})
	}

	return &Recorder{
		registry: reg,
		steps: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Total number of engine steps",
		}),
		jumps: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jumps_total",
			Help:      "Total number of steps that took the jump branch",
		}),
		heat:        gauge("heat", "Unresolved heat E after the last step"),
		threshold:   gauge("threshold", "Jump threshold Theta of the last step"),
		jumpRate:    gauge("jump_rate", "Jump rate h of the last step"),
		temperature: gauge("temperature", "Softmax temperature T of the last step"),
		entropy:     gauge("policy_entropy", "Normalized entropy of the policy distribution"),
		alignEff:    gauge("align_efficiency", "Alignment efficiency of the last step"),
		kappaMean:   gauge("kappa_mean", "Mean inertia over all edges"),
		current:     gauge("current_node", "Node occupied by the agent"),
		flowNorm: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "flow_norm",
			Help:      "Frobenius norm of the alignment flow per step",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 0.01 to ~20
		}),
	}
}

// Observe records one step.
func (r *Recorder) Observe(tel dynamics.Telemetry) {
	if r == nil {
		return
	}
	r.steps.Inc()
	if tel.DidJump {
		r.jumps.Inc()
	}
	r.heat.Set(tel.Heat)
	r.threshold.Set(tel.Threshold)
	r.jumpRate.Set(tel.JumpRate)
	r.temperature.Set(tel.Temp)
	r.entropy.Set(tel.Entropy)
	r.alignEff.Set(tel.AlignEff)
	r.kappaMean.Set(tel.KappaMean)
	r.current.Set(float64(tel.Current))
	r.flowNorm.Observe(tel.FlowNorm)
}

// Registry exposes the underlying registry for gathering.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// WriteTextfile writes the current values in the Prometheus text
// exposition format, suitable for the node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
