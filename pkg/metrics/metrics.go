package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Business metrics
	LeadsCreated     prometheus.Counter
	LeadsAssigned    *prometheus.CounterVec
	LeadsDeleted     prometheus.Counter
	Dispositions     *prometheus.CounterVec
	UsersRegistered  prometheus.Counter
	LoginAttempts    *prometheus.CounterVec
	EmailsSent       *prometheus.CounterVec
	ReportsGenerated *prometheus.CounterVec

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
}

// New registers all metrics on the default registry
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers all metrics on reg
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		HTTPResponseSize: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 5000, 10000, 50000, 100000, 500000, 1000000},
			},
			[]string{"method", "path"},
		),

		LeadsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "leads_created_total",
			Help: "Total number of leads created",
		}),
		LeadsAssigned: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leads_assigned_total",
				Help: "Total number of lead assignment changes",
			},
			[]string{"type"}, // manual, claim, unassign
		),
		LeadsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "leads_deleted_total",
			Help: "Total number of leads deleted",
		}),
		Dispositions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lead_dispositions_total",
				Help: "Total number of call dispositions recorded",
			},
			[]string{"disposition"},
		),
		UsersRegistered: f.NewCounter(prometheus.CounterOpts{
			Name: "users_registered_total",
			Help: "Total number of users registered",
		}),
		LoginAttempts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "login_attempts_total",
				Help: "Total number of login attempts",
			},
			[]string{"status"}, // success, failed
		),
		EmailsSent: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "emails_sent_total",
				Help: "Total number of emails sent",
			},
			[]string{"provider"},
		),
		ReportsGenerated: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reports_generated_total",
				Help: "Total number of dashboard reports generated",
			},
			[]string{"format"},
		),

		CacheHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"cache_type"},
		),
		CacheMisses: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"cache_type"},
		),
	}
}

// Middleware creates an Echo middleware for Prometheus metrics
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			path := c.Path() // route pattern, not the raw path

			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			m.HTTPRequestsTotal.WithLabelValues(req.Method, path, status).Inc()
			m.HTTPRequestDuration.WithLabelValues(req.Method, path, status).Observe(time.Since(start).Seconds())
			m.HTTPResponseSize.WithLabelValues(req.Method, path).Observe(float64(c.Response().Size))

			return err
		}
	}
}

// RecordLeadCreated increments leads created counter
func (m *Metrics) RecordLeadCreated() {
	if m == nil {
		return
	}
	m.LeadsCreated.Inc()
}

// RecordLeadAssigned increments the assignment counter for assignmentType
func (m *Metrics) RecordLeadAssigned(assignmentType string) {
	if m == nil {
		return
	}
	m.LeadsAssigned.WithLabelValues(assignmentType).Inc()
}

// RecordLeadDeleted increments leads deleted counter
func (m *Metrics) RecordLeadDeleted() {
	if m == nil {
		return
	}
	m.LeadsDeleted.Inc()
}

// RecordDisposition increments the counter for a disposition value
func (m *Metrics) RecordDisposition(disposition string) {
	if m == nil {
		return
	}
	m.Dispositions.WithLabelValues(disposition).Inc()
}

// RecordUserRegistered increments users registered counter
func (m *Metrics) RecordUserRegistered() {
	if m == nil {
		return
	}
	m.UsersRegistered.Inc()
}

// RecordLoginAttempt increments login attempts counter
func (m *Metrics) RecordLoginAttempt(success bool) {
	if m == nil {
		return
	}
	status := "failed"
	if success {
		status = "success"
	}
	m.LoginAttempts.WithLabelValues(status).Inc()
}

// RecordEmailSent increments emails sent for provider
func (m *Metrics) RecordEmailSent(provider string) {
	if m == nil {
		return
	}
	m.EmailsSent.WithLabelValues(provider).Inc()
}

// RecordReport increments reports generated for format
func (m *Metrics) RecordReport(format string) {
	if m == nil {
		return
	}
	m.ReportsGenerated.WithLabelValues(format).Inc()
}

// RecordCache records a hit or miss for cacheType
func (m *Metrics) RecordCache(cacheType string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHits.WithLabelValues(cacheType).Inc()
		return
	}
	m.CacheMisses.WithLabelValues(cacheType).Inc()
}
