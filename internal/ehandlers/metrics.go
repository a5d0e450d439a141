package ehandlers

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts what the handlers do. A nil *Metrics records nothing.
type Metrics struct {
	handled *prometheus.CounterVec
	panics  *prometheus.CounterVec
}

// NewMetrics creates the handler counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		handled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ehandlers",
			Name:      "handled_errors_total",
			Help:      "Errors handled, by handler and outcome (propagated, substituted, returned, synthesized, logged).",
		}, []string{"handler", "outcome"}),
		panics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ehandlers",
			Name:      "recovered_panics_total",
			Help:      "Panics recovered from wrapped functions, by handler.",
		}, []string{"handler"}),
	}
	for _, c := range []prometheus.Collector{m.handled, m.panics} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(handler, outcome string) {
	if m == nil {
		return
	}
	m.handled.WithLabelValues(handler, outcome).Inc()
}

func (m *Metrics) observePanic(handler string) {
	if m == nil {
		return
	}
	m.panics.WithLabelValues(handler).Inc()
}
