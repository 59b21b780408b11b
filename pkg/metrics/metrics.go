package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "studio_booking"

// Metrics holds the Prometheus collectors of the service.
// All methods are safe to call on a nil receiver (metrics disabled).
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	flowTransitions   *prometheus.CounterVec
	submissions       *prometheus.CounterVec
	availabilityCalls *prometheus.CounterVec

	dbQueryDuration *prometheus.HistogramVec
	dbOpenConns     *prometheus.GaugeVec
	dbInUseConns    *prometheus.GaugeVec
	dbIdleConns     *prometheus.GaugeVec
	dbWaitCount     *prometheus.GaugeVec
}

// New registers collectors on the default registry.
func New(serviceName string) *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegisterer registers collectors on reg (nil means the default registry).
func NewWithRegisterer(reg prometheus.Registerer, serviceName string) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "Total HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		flowTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "flow",
			Name:        "transitions_total",
			Help:        "Booking flow operations by outcome",
			ConstLabels: constLabels,
		}, []string{"operation", "result"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "flow",
			Name:        "submissions_total",
			Help:        "Booking gateway submissions by outcome",
			ConstLabels: constLabels,
		}, []string{"result"}),
		availabilityCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "catalog",
			Name:        "availability_checks_total",
			Help:        "Availability source calls by outcome",
			ConstLabels: constLabels,
		}, []string{"result"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "db",
			Name:        "query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation", "status"}),
		dbOpenConns:  newPoolGauge("open_connections", "Open connections", constLabels),
		dbInUseConns: newPoolGauge("in_use_connections", "Connections in use", constLabels),
		dbIdleConns:  newPoolGauge("idle_connections", "Idle connections", constLabels),
		dbWaitCount:  newPoolGauge("wait_count", "Total connections waited for", constLabels),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.flowTransitions,
		m.submissions,
		m.availabilityCalls,
		m.dbQueryDuration,
		m.dbOpenConns,
		m.dbInUseConns,
		m.dbIdleConns,
		m.dbWaitCount,
	)
	return m
}

func newPoolGauge(name, help string, constLabels prometheus.Labels) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   namespace,
		Subsystem:   "db_pool",
		Name:        name,
		Help:        help,
		ConstLabels: constLabels,
	}, []string{"database"})
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, statusClass(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveTransition records a booking flow operation (select_service, toggle_slot, ...).
func (m *Metrics) ObserveTransition(operation string, err error) {
	if m == nil {
		return
	}
	m.flowTransitions.WithLabelValues(operation, resultLabel(err)).Inc()
}

// ObserveSubmission records a gateway submission outcome: confirmed, rejected, error, stale.
func (m *Metrics) ObserveSubmission(result string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(result).Inc()
}

// ObserveAvailabilityCheck records one call to the availability source.
func (m *Metrics) ObserveAvailabilityCheck(available bool, err error) {
	if m == nil {
		return
	}
	result := "unavailable"
	switch {
	case err != nil:
		result = "error"
	case available:
		result = "available"
	}
	m.availabilityCalls.WithLabelValues(result).Inc()
}

// ObserveDBQuery records one database call.
func (m *Metrics) ObserveDBQuery(operation string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(operation, resultLabel(err)).Observe(elapsed.Seconds())
}

// SetDBPoolStats publishes sql.DBStats values.
func (m *Metrics) SetDBPoolStats(database string, open, inUse, idle int, waitCount int64) {
	if m == nil {
		return
	}
	m.dbOpenConns.WithLabelValues(database).Set(float64(open))
	m.dbInUseConns.WithLabelValues(database).Set(float64(inUse))
	m.dbIdleConns.WithLabelValues(database).Set(float64(idle))
	m.dbWaitCount.WithLabelValues(database).Set(float64(waitCount))
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
