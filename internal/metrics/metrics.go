// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	requests       *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	tokensIssued   prometheus.Counter
	paymentIntents *prometheus.CounterVec
}

// NewCollector registers the collectors on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "inventory_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		tokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inventory_tokens_issued_total",
			Help: "Identity tokens issued.",
		}),
		paymentIntents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_payment_intents_total",
			Help: "Payment intent creation attempts by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(c.requests, c.latency, c.tokensIssued, c.paymentIntents)
	return c
}

func (c *Collector) RecordRequest(method, route string, status int, d time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (c *Collector) RecordTokenIssued() {
	c.tokensIssued.Inc()
}

func (c *Collector) RecordPaymentIntent(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	c.paymentIntents.WithLabelValues(outcome).Inc()
}

// Middleware records every request. Unmatched paths share the route label
// "unmatched" to keep cardinality bounded.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		c.RecordRequest(ctx.Request.Method, route, ctx.Writer.Status(), time.Since(start))
	}
}

// Handler returns the scrape endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
