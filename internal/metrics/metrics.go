// Package metrics exposes the Prometheus collectors for the ledger and the
// notification dispatcher.
package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Collector implements the MetricsCollector interfaces of the deposit and
// notification services on a private registry.
type Collector struct {
	registry *prometheus.Registry

	operations       *prometheus.CounterVec
	operationLatency *prometheus.HistogramVec
	creditedAmount   *prometheus.CounterVec
	deliveries       *prometheus.CounterVec
	deliveryLatency  *prometheus.HistogramVec
	events           *prometheus.CounterVec
}

func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deposit_operations_total",
				Help: "Deposit state machine operations by result",
			},
			[]string{"operation", "result"},
		),
		operationLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "deposit_operation_duration_seconds",
				Help:    "Duration of deposit state machine operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2, 5},
			},
			[]string{"operation"},
		),
		creditedAmount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_credited_amount_total",
				Help: "Amounts credited to member accounts",
			},
			[]string{"kind"},
		),
		deliveries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notification_deliveries_total",
				Help: "Notification channel attempts by status",
			},
			[]string{"channel", "status"},
		),
		deliveryLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "notification_delivery_duration_seconds",
				Help:    "Duration of notification channel sends",
				Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"channel"},
		),
		events: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deposit_events_published_total",
				Help: "Deposit lifecycle events published to subscribers",
			},
			[]string{"type"},
		),
	}
}

func (c *Collector) RecordOperationResult(operation, result string) {
	c.operations.WithLabelValues(operation, result).Inc()
}

func (c *Collector) RecordOperationDuration(operation string, d time.Duration) {
	c.operationLatency.WithLabelValues(operation).Observe(d.Seconds())
}

func (c *Collector) RecordLedgerCredit(amount, interest decimal.Decimal) {
	c.creditedAmount.WithLabelValues("contribution").Add(amount.InexactFloat64())
	c.creditedAmount.WithLabelValues("interest").Add(interest.InexactFloat64())
}

func (c *Collector) RecordDelivery(channel, status string, d time.Duration) {
	c.deliveries.WithLabelValues(channel, status).Inc()
	c.deliveryLatency.WithLabelValues(channel).Observe(d.Seconds())
}

func (c *Collector) RecordEvent(eventType string) {
	c.events.WithLabelValues(eventType).Inc()
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}))
}
