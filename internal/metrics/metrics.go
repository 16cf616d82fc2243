package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cozyminds"

// Metrics owns a private registry so tests can build as many instances as they like.
type Metrics struct {
	Registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	coinsGranted   prometheus.Counter
	storyCompleted prometheus.Counter
	streakUpdates  *prometheus.CounterVec
	purchases      *prometheus.CounterVec
	mailSent       *prometheus.CounterVec
	mailFailures   *prometheus.CounterVec
	staleRetries   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),

		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"method", "route"}),

		coinsGranted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engagement",
			Name:      "daily_coins_granted_total",
			Help:      "Coins credited by the daily visit grant.",
		}),
		storyCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engagement",
			Name:      "stories_completed_total",
			Help:      "Number of times a story visit counter wrapped.",
		}),
		streakUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engagement",
			Name:      "streak_updates_total",
			Help:      "Journal saves by streak outcome.",
		}, []string{"outcome"}),
		purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "shop",
			Name:      "purchases_total",
			Help:      "Purchase attempts by category and result.",
		}, []string{"category", "result"}),
		mailSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mail",
			Name:      "sent_total",
			Help:      "Mail documents created by kind.",
		}, []string{"kind"}),
		mailFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mail",
			Name:      "failures_total",
			Help:      "Mail documents that could not be created, by kind.",
		}, []string{"kind"}),
		staleRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "accounts",
			Name:      "stale_write_retries_total",
			Help:      "Optimistic concurrency retries by operation.",
		}, []string{"operation"}),
	}

	m.Registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.coinsGranted,
		m.storyCompleted,
		m.streakUpdates,
		m.purchases,
		m.mailSent,
		m.mailFailures,
		m.staleRetries,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency labelled by the matched route template,
// which keeps ids out of the label set.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) DailyCoinsGranted(coins int) {
	if coins > 0 {
		m.coinsGranted.Add(float64(coins))
	}
}

func (m *Metrics) StoryCompleted() {
	m.storyCompleted.Inc()
}

func (m *Metrics) StreakUpdated(outcome string) {
	m.streakUpdates.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Purchase(category, result string) {
	m.purchases.WithLabelValues(category, result).Inc()
}

func (m *Metrics) MailSent(kind string) {
	m.mailSent.WithLabelValues(kind).Inc()
}

func (m *Metrics) MailFailed(kind string) {
	m.mailFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) StaleRetry(operation string) {
	m.staleRetries.WithLabelValues(operation).Inc()
}
