package monitor

import "github.com/prometheus/client_golang/prometheus"

// Metrics are live counters only; nothing here survives a restart.
type Metrics struct {
	Cycles      prometheus.Counter
	CycleErrors prometheus.Counter
	Probes      *prometheus.CounterVec
	Transitions *prometheus.CounterVec
	Unreachable prometheus.Gauge
}

// NewMetrics builds the monitor's instruments and registers them when reg is
// non-nil. Tests pass nil to keep registries out of the way.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "webmon",
			Name:      "cycles_total",
			Help:      "Completed check cycles.",
		}),
		CycleErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "webmon",
			Name:      "cycle_errors_total",
			Help:      "Cycles aborted before probing (target fetch failures).",
		}),
		Probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "webmon",
			Name:      "probes_total",
			Help:      "Per-domain resolutions by final outcome.",
		}, []string{"outcome"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "webmon",
			Name:      "transitions_total",
			Help:      "Classification changes by type.",
		}, []string{"type"}),
		Unreachable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "webmon",
			Name:      "unreachable_domains",
			Help:      "Domains currently classified unreachable.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Cycles, m.CycleErrors, m.Probes, m.Transitions, m.Unreachable)
	}
	return m
}
