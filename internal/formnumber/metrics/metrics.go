package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks how hard the generator works to find a free number.
type Metrics struct {
	Attempts   *prometheus.CounterVec
	Collisions *prometheus.CounterVec
	Exhausted  *prometheus.CounterVec
}

// New registers the generator metrics with reg. A nil reg leaves them
// unregistered, which tests rely on.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Attempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "leadcrm_form_number_attempts_total",
			Help: "Candidate form numbers drawn, by prefix",
		}, []string{"prefix"}),
		Collisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "leadcrm_form_number_collisions_total",
			Help: "Candidates rejected because the number was already taken",
		}, []string{"prefix"}),
		Exhausted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "leadcrm_form_number_exhausted_total",
			Help: "Generations that gave up after the attempt budget",
		}, []string{"prefix"}),
	}
}

func (m *Metrics) IncAttempt(prefix string) {
	if m != nil {
		m.Attempts.WithLabelValues(prefix).Inc()
	}
}

func (m *Metrics) IncCollision(prefix string) {
	if m != nil {
		m.Collisions.WithLabelValues(prefix).Inc()
	}
}

func (m *Metrics) IncExhausted(prefix string) {
	if m != nil {
		m.Exhausted.WithLabelValues(prefix).Inc()
	}
}
