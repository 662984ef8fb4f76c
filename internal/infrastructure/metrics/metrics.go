// Package metrics expone las métricas Prometheus del servicio.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/Inventario-kardex/internal/application/ports"
)

var _ ports.InventoryMetrics = (*Metrics)(nil)

const namespace = "kardex"

// Metrics agrupa los colectores. Se registran en el Registerer recibido para que los tests
// usen un registro propio.
type Metrics struct {
	UnitsRegistered     *prometheus.CounterVec
	RegistrationsFailed *prometheus.CounterVec

	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	HTTPRequestsInProgress prometheus.Gauge
}

// New crea y registra los colectores.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		UnitsRegistered: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "units_registered_total",
			Help:      "Unidades registradas por compras y ventas",
		}, []string{"operation"}),
		RegistrationsFailed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_failed_total",
			Help:      "Registros de compra/venta rechazados",
		}, []string{"operation", "reason"}),
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP atendidas",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de las peticiones HTTP",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		HTTPRequestsInProgress: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_progress",
			Help:      "Peticiones HTTP en curso",
		}),
	}
}

func (m *Metrics) PurchaseRegistered(quantity int) {
	m.UnitsRegistered.WithLabelValues("purchase").Add(float64(quantity))
}

func (m *Metrics) SaleRegistered(quantity int) {
	m.UnitsRegistered.WithLabelValues("sale").Add(float64(quantity))
}

func (m *Metrics) RegistrationFailed(operation, reason string) {
	m.RegistrationsFailed.WithLabelValues(operation, reason).Inc()
}

// Middleware mide cada petición usando la ruta registrada (no la URL) como etiqueta.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		m.HTTPRequestsInProgress.Inc()
		defer m.HTTPRequestsInProgress.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		m.HTTPRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
