package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts lead lifecycle events.
type Metrics struct {
	Submitted         *prometheus.CounterVec
	Updated           prometheus.Counter
	FormNumbersMoved  prometheus.Counter
	SubmissionLatency prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Submitted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "leadcrm_leads_submitted_total",
			Help: "Enquiries accepted from the public form, by project prefix",
		}, []string{"prefix"}),
		Updated: f.NewCounter(prometheus.CounterOpts{
			Name: "leadcrm_leads_updated_total",
			Help: "Staff edits applied to leads",
		}),
		FormNumbersMoved: f.NewCounter(prometheus.CounterOpts{
			Name: "leadcrm_lead_form_numbers_migrated_total",
			Help: "Legacy form numbers rewritten to the canonical format",
		}),
		SubmissionLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "leadcrm_lead_submission_duration_seconds",
			Help:    "Time to validate, number and store an enquiry",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncSubmitted(prefix string) {
	if m != nil {
		m.Submitted.WithLabelValues(prefix).Inc()
	}
}

func (m *Metrics) IncUpdated() {
	if m != nil {
		m.Updated.Inc()
	}
}

func (m *Metrics) AddMigrated(n int) {
	if m != nil {
		m.FormNumbersMoved.Add(float64(n))
	}
}

func (m *Metrics) ObserveSubmission(seconds float64) {
	if m != nil {
		m.SubmissionLatency.Observe(seconds)
	}
}
