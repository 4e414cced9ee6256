package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	apierrors "github.com/xinwork/repair-order-api/internal/errors"
)

// Import outcomes
const (
	ImportSucceeded = "succeeded"
	ImportRejected  = "rejected"
	ImportFailed    = "failed"
)

// Metrics owns a private registry with HTTP and import collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry     *prometheus.Registry
	httpReqCnt   *prometheus.CounterVec
	httpDur      *prometheus.HistogramVec
	importCnt    *prometheus.CounterVec
	importedRows *prometheus.CounterVec
}

// New creates the collectors under namespace
func New(namespace string) *Metrics {
	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: "http_request_duration_seconds", Buckets: prometheus.DefBuckets}, []string{"method", "route"})
	r.MustRegister(httpReqCnt, httpDur)

	importCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "import_batches_total"}, []string{"entity", "outcome"})
	importedRows := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "import_rows_total"}, []string{"entity"})
	r.MustRegister(importCnt, importedRows)

	return &Metrics{
		registry:     r,
		httpReqCnt:   httpReqCnt,
		httpDur:      httpDur,
		importCnt:    importCnt,
		importedRows: importedRows,
	}
}

// ObserveRequest records one finished HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpReqCnt.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDur.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveImport records one import batch. Domain errors count as rejected,
// anything else as failed.
func (m *Metrics) ObserveImport(entity string, rows int, err error) {
	if m == nil {
		return
	}

	var de *apierrors.DomainError
	switch {
	case err == nil:
		m.importCnt.WithLabelValues(entity, ImportSucceeded).Inc()
		m.importedRows.WithLabelValues(entity).Add(float64(rows))
	case errors.As(err, &de):
		m.importCnt.WithLabelValues(entity, ImportRejected).Inc()
	default:
		m.importCnt.WithLabelValues(entity, ImportFailed).Inc()
	}
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
