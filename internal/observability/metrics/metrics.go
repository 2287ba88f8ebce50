package metrics

import "github.com/prometheus/client_golang/prometheus"

// SiteMetrics exposes counters/histograms for the lead and generate endpoints.
type SiteMetrics struct {
	leadSubmissions   *prometheus.CounterVec
	leadNotifications *prometheus.CounterVec
	rateLimitDecision *prometheus.CounterVec
	generateRequests  *prometheus.CounterVec
	generateLatency   *prometheus.HistogramVec
}

func NewSiteMetrics(reg prometheus.Registerer) *SiteMetrics {
	m := &SiteMetrics{
		leadSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reluguard",
			Name:      "lead_submissions_total",
			Help:      "Lead form submissions by outcome",
		}, []string{"outcome"}),
		leadNotifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reluguard",
			Name:      "lead_notifications_total",
			Help:      "Lead notification emails by delivery result",
		}, []string{"result"}),
		rateLimitDecision: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reluguard",
			Name:      "ratelimit_decisions_total",
			Help:      "Rate limiter decisions",
		}, []string{"decision"}),
		generateRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reluguard",
			Name:      "generate_requests_total",
			Help:      "Policy generation requests by outcome",
		}, []string{"outcome"}),
		generateLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "reluguard",
			Name:      "generate_latency_seconds",
			Help:      "Latency of upstream policy generation calls",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60},
		}, []string{"provider"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.leadSubmissions, m.leadNotifications, m.rateLimitDecision, m.generateRequests, m.generateLatency)
	return m
}

func (m *SiteMetrics) ObserveLead(outcome string) {
	if m == nil {
		return
	}
	m.leadSubmissions.WithLabelValues(outcome).Inc()
}

func (m *SiteMetrics) ObserveNotification(result string) {
	if m == nil {
		return
	}
	m.leadNotifications.WithLabelValues(result).Inc()
}

func (m *SiteMetrics) ObserveRateLimit(admitted bool) {
	if m == nil {
		return
	}
	label := "rejected"
	if admitted {
		label = "admitted"
	}
	m.rateLimitDecision.WithLabelValues(label).Inc()
}

func (m *SiteMetrics) ObserveGenerate(outcome string) {
	if m == nil {
		return
	}
	m.generateRequests.WithLabelValues(outcome).Inc()
}

func (m *SiteMetrics) ObserveGenerateLatency(provider string, seconds float64) {
	if m == nil {
		return
	}
	m.generateLatency.WithLabelValues(provider).Observe(seconds)
}
