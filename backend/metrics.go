package backend

import (
	"bufio"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rules_viewer",
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rules_viewer",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	m.registry.MustRegister(m.requests, m.duration)
	return m
}

func (m *metrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Middleware only runs for matched routes, so CurrentRoute is set.
		route, _ := mux.CurrentRoute(r).GetPathTemplate()

		start := time.Now()
		iw := &interceptResponseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(iw, r)

		m.requests.WithLabelValues(route, strconv.Itoa(iw.status)).Inc()
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		log.WithField("route", route).Debugf("%s %s returned %d bytes with status code %d", r.Method, r.URL.Path, iw.length, iw.status)
	})
}

type interceptResponseWriter struct {
	http.ResponseWriter
	length int
	status int
}

func (w *interceptResponseWriter) WriteHeader(statusCode int) {
	w.status = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *interceptResponseWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.length += n
	return n, err
}

func (w *interceptResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("ResponseWriter does not support Hijacker interface")
	}
	return hijacker.Hijack()
}
