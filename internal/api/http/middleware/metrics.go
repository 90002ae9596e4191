package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "invitekeeper",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "The latency of the HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	httpRequestsCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "invitekeeper",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Number of the HTTP requests.",
	}, []string{"method", "route", "code"})
)

// Metrics records request latency and counts per route pattern.
type Metrics struct{}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) Handle(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	elapsed := time.Since(start)

	// Route patterns keep label cardinality bounded; raw paths carry ids.
	route := c.Route().Path
	httpRequestsDuration.With(prometheus.Labels{
		"method": c.Method(),
		"route":  route,
	}).Observe(elapsed.Seconds())
	httpRequestsCount.With(prometheus.Labels{
		"method": c.Method(),
		"route":  route,
		"code":   strconv.Itoa(responseStatus(c, err)),
	}).Inc()

	return err
}
