package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// APIMetrics conta as chamadas HTTP feitas pelo cliente da API.
type APIMetrics struct {
	requestsTotal  *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

func NewAPIMetrics(reg prometheus.Registerer) *APIMetrics {
	m := &APIMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "findcut",
			Subsystem: "api_client",
			Name:      "requests_total",
			Help:      "Total de requisições feitas à API FindCut",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "findcut",
			Subsystem: "api_client",
			Name:      "request_duration_seconds",
			Help:      "Latência das requisições à API FindCut",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.requestLatency)
	return m
}

// ObserveRequest registra uma chamada. status 0 indica falha de rede.
func (m *APIMetrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := "network_error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requestsTotal.WithLabelValues(method, route, label).Inc()
	m.requestLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// WorkflowMetrics acompanha o fluxo de agendamento.
type WorkflowMetrics struct {
	availabilityTotal *prometheus.CounterVec
	submissionsTotal  *prometheus.CounterVec
}

func NewWorkflowMetrics(reg prometheus.Registerer) *WorkflowMetrics {
	m := &WorkflowMetrics{
		availabilityTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "findcut",
			Subsystem: "booking",
			Name:      "availability_checks_total",
			Help:      "Verificações de disponibilidade por resultado",
		}, []string{"result"}),
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "findcut",
			Subsystem: "booking",
			Name:      "submissions_total",
			Help:      "Tentativas de agendamento por resultado",
		}, []string{"result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.availabilityTotal, m.submissionsTotal)
	return m
}

// ObserveAvailability: result é available, unavailable, error ou stale.
func (m *WorkflowMetrics) ObserveAvailability(result string) {
	if m == nil {
		return
	}
	m.availabilityTotal.WithLabelValues(result).Inc()
}

func (m *WorkflowMetrics) ObserveSubmission(result string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(result).Inc()
}
