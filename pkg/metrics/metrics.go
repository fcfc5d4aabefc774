package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-коллекторов сервиса
type Metrics struct {
	serviceName string

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBQueryErrors     *prometheus.CounterVec
	DBOpenConnections *prometheus.GaugeVec
	DBInUse           *prometheus.GaugeVec
	DBIdle            *prometheus.GaugeVec

	WorkflowTransitions *prometheus.CounterVec
	WorkflowRejections  *prometheus.CounterVec
	PhotoConfirmations  *prometheus.CounterVec
	ActiveSessions      *prometheus.GaugeVec
}

// New регистрирует метрики в глобальном prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в указанном реестре (используется в тестах)
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		serviceName: serviceName,

		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"service", "operation"}),

		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		}, []string{"service", "operation"}),

		DBOpenConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established connections",
		}, []string{"service"}),

		DBInUse: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),

		DBIdle: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle connections",
		}, []string{"service"}),

		WorkflowTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_workflow_transitions_total",
			Help: "Booking workflow state transitions",
		}, []string{"service", "from", "to"}),

		WorkflowRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_workflow_rejections_total",
			Help: "Booking workflow transitions rejected by a guard",
		}, []string{"service", "from", "to"}),

		PhotoConfirmations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vehicle_photo_confirmations_total",
			Help: "Vehicle photo edit confirmations by result",
		}, []string{"service", "result"}),

		ActiveSessions: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "active_sessions",
			Help: "Number of in-memory booking and photo editing sessions",
		}, []string{"service", "kind"}),
	}
}

// ServiceName возвращает имя сервиса, которым помечаются метрики
func (m *Metrics) ServiceName() string {
	return m.serviceName
}

// Методы Record* и SetActiveSessions допускают nil-получатель (метрики выключены)

// RecordTransition учитывает успешный переход workflow
func (m *Metrics) RecordTransition(from, to string) {
	if m == nil {
		return
	}
	m.WorkflowTransitions.WithLabelValues(m.serviceName, from, to).Inc()
}

// RecordRejection учитывает переход, отклонённый guard'ом
func (m *Metrics) RecordRejection(from, to string) {
	if m == nil {
		return
	}
	m.WorkflowRejections.WithLabelValues(m.serviceName, from, to).Inc()
}

// RecordPhotoConfirmation учитывает результат сохранения фотографий
func (m *Metrics) RecordPhotoConfirmation(result string) {
	if m == nil {
		return
	}
	m.PhotoConfirmations.WithLabelValues(m.serviceName, result).Inc()
}

// SetActiveSessions обновляет число активных сессий указанного вида
func (m *Metrics) SetActiveSessions(kind string, n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.WithLabelValues(m.serviceName, kind).Set(float64(n))
}
