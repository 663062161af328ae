// Package metrics records outbound API calls and console requests.
//
// Naming follows Prometheus conventions: hrms_console_ prefix, _total for
// counters, _seconds for histograms.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiDuration *prometheus.HistogramVec
	httpTotal   *prometheus.CounterVec
	httpLatency prometheus.Histogram
	logins      *prometheus.CounterVec
	redirects   *prometheus.CounterVec
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		apiRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hrms_console_api_requests_total",
				Help: "Outbound backend API requests by method and status class.",
			},
			[]string{"method", "status"},
		),
		apiDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hrms_console_api_request_duration_seconds",
				Help:    "Duration of outbound backend API requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		httpTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hrms_console_http_requests_total",
				Help: "Console HTTP requests by status class.",
			},
			[]string{"status"},
		),
		httpLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hrms_console_http_request_duration_seconds",
				Help:    "Duration of console HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
		),
		logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hrms_console_logins_total",
				Help: "Login attempts by outcome.",
			},
			[]string{"outcome"},
		),
		redirects: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hrms_console_guard_redirects_total",
				Help: "Route guard redirects by target.",
			},
			[]string{"target"},
		),
	}
	c.registry.MustRegister(c.apiRequests, c.apiDuration, c.httpTotal, c.httpLatency, c.logins, c.redirects)
	return c
}

// RecordAPI records one outbound call. Status 0 stands for a transport failure.
func (c *Collector) RecordAPI(method string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.apiRequests.WithLabelValues(method, statusClass(status)).Inc()
	c.apiDuration.WithLabelValues(method).Observe(duration.Seconds())
}

func (c *Collector) Record(status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.httpTotal.WithLabelValues(statusClass(status)).Inc()
	c.httpLatency.Observe(duration.Seconds())
}

func (c *Collector) RecordLogin(outcome string) {
	if c == nil {
		return
	}
	c.logins.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordRedirect(target string) {
	if c == nil {
		return
	}
	c.redirects.WithLabelValues(target).Inc()
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func statusClass(status int) string {
	if status <= 0 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}
