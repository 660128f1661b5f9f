package monitoring

import "github.com/prometheus/client_golang/prometheus"

// Collector handles metrics collection for bakery operations. It owns a
// private registry; the embedding caller can gather from it directly.
// A nil *Collector is valid and records nothing, so components do not
// have to guard their instrumentation calls.
type Collector struct {
	registry *prometheus.Registry

	ordersCreated   prometheus.Counter
	ordersCompleted prometheus.Counter
	ordersDeleted   prometheus.Counter
	revenue         prometheus.Counter
	lowStockItems   prometheus.Gauge
}

// NewCollector creates a collector with all bakery metrics registered.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bakehouse_orders_created_total",
			Help: "Orders created",
		}),
		ordersCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bakehouse_orders_completed_total",
			Help: "Orders marked completed",
		}),
		ordersDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bakehouse_orders_deleted_total",
			Help: "Order records deleted",
		}),
		revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bakehouse_revenue_total",
			Help: "Revenue from completed orders",
		}),
		lowStockItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bakehouse_low_stock_ingredients",
			Help: "Ingredients at or below their reorder level",
		}),
	}

	c.registry.MustRegister(
		c.ordersCreated,
		c.ordersCompleted,
		c.ordersDeleted,
		c.revenue,
		c.lowStockItems,
	)
	return c
}

// Gatherer exposes the private registry for scraping by the caller.
func (c *Collector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return prometheus.NewRegistry()
	}
	return c.registry
}

// RecordOrderCreated counts a newly created order.
func (c *Collector) RecordOrderCreated() {
	if c == nil {
		return
	}
	c.ordersCreated.Inc()
}

// RecordOrderCompleted counts a completion and its revenue.
func (c *Collector) RecordOrderCompleted(total float64) {
	if c == nil {
		return
	}
	c.ordersCompleted.Inc()
	c.revenue.Add(total)
}

// RecordOrderDeleted counts an order record deletion.
func (c *Collector) RecordOrderDeleted() {
	if c == nil {
		return
	}
	c.ordersDeleted.Inc()
}

// SetLowStockCount updates the low-stock ingredient gauge.
func (c *Collector) SetLowStockCount(n int) {
	if c == nil {
		return
	}
	c.lowStockItems.Set(float64(n))
}
