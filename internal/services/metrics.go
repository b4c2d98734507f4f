package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the storefront's Prometheus collectors on a private registry so
// that several apps can live in one process.
type Metrics struct {
	Registry *prometheus.Registry

	RequestCounter  *prometheus.CounterVec
	RequestLatency  *prometheus.HistogramVec
	CartItemsAdded  prometheus.Counter
	ActiveCheckouts prometheus.Gauge
	OrdersPlaced    prometheus.Counter
	OrderValue      prometheus.Histogram
	PaymentDeclines prometheus.Counter
	ContactMessages prometheus.Counter
	CatalogProducts prometheus.Gauge
}

// NewMetrics creates and registers all collectors, including the Go runtime
// and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tyrezone_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tyrezone_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		CartItemsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tyrezone_cart_items_added_total",
			Help: "Units added to carts",
		}),
		ActiveCheckouts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tyrezone_active_checkouts",
			Help: "Checkouts currently held in memory",
		}),
		OrdersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tyrezone_orders_placed_total",
			Help: "Orders placed through checkout",
		}),
		OrderValue: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tyrezone_order_value",
			Help:    "Order totals including shipping and tax",
			Buckets: []float64{100, 250, 500, 750, 1000, 2000, 5000},
		}),
		PaymentDeclines: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tyrezone_payment_declines_total",
			Help: "Checkout submissions refused by the payment gateway",
		}),
		ContactMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tyrezone_contact_messages_total",
			Help: "Messages received through the contact form",
		}),
		CatalogProducts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tyrezone_catalog_products",
			Help: "Number of products in the catalog",
		}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestCounter,
		m.RequestLatency,
		m.CartItemsAdded,
		m.ActiveCheckouts,
		m.OrdersPlaced,
		m.OrderValue,
		m.PaymentDeclines,
		m.ContactMessages,
		m.CatalogProducts,
	)
	return m
}
