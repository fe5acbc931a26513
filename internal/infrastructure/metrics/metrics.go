// Package metrics expone métricas Prometheus del servicio: resultado y duración de las
// operaciones del ledger y de las peticiones HTTP.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
)

const namespace = "inventario"

var _ inventory.Metrics = (*Recorder)(nil)

// Recorder registro propio (no el global) para que los tests puedan crear varios.
type Recorder struct {
	registry *prometheus.Registry

	ledgerOps      *prometheus.CounterVec
	ledgerDuration *prometheus.HistogramVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInFlight prometheus.Gauge
}

// New crea el recorder con los colectores de Go y del proceso.
func New() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}
	r.registry.MustRegister(collectors.NewGoCollector())
	r.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r.ledgerOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "operations_total",
		Help:      "Operaciones del ledger de stock por tipo y resultado",
	}, []string{"operation", "outcome"})

	r.ledgerDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "operation_duration_seconds",
		Help:      "Duración de las operaciones del ledger, incluida la espera del bloqueo",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"operation"})

	r.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Peticiones HTTP por método, ruta y status",
	}, []string{"method", "path", "status"})

	r.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duración de las peticiones HTTP",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path"})

	r.httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_flight",
		Help:      "Peticiones HTTP en curso",
	})

	r.registry.MustRegister(r.ledgerOps, r.ledgerDuration, r.httpRequests, r.httpDuration, r.httpInFlight)
	return r
}

// ObserveOperation implementa inventory.Metrics.
func (r *Recorder) ObserveOperation(operation, outcome string, elapsed time.Duration) {
	r.ledgerOps.WithLabelValues(operation, outcome).Inc()
	r.ledgerDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Handler handler de scrape para /metrics.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry expuesto para tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Middleware mide cada petición. La ruta es el patrón registrado (ej: /api/products/:id)
// para no crear una serie por ID.
func (r *Recorder) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		r.httpInFlight.Inc()
		defer r.httpInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		if path == "" || (path == "/" && c.Path() != "/") {
			path = "unmatched"
		}
		method := c.Method()
		r.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		r.httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		return err
	}
}
