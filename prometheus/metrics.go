package prometheus

import (
	"strconv"
	"time"

	"github.com/patriciaayrah/order-management-system/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Product metrics
	ProductOperationsCounter prometheus.CounterVec

	// Order metrics
	OrderOperationsCounter prometheus.CounterVec

	// Inventory metrics
	InventoryChangesCounter prometheus.CounterVec
	ProductStockGauge       prometheus.GaugeVec

	// Report metrics
	ReportGenerationDuration prometheus.Histogram
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Database operation metrics
	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Product metrics
	ProductOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_product_operations_total",
			Help: "Total number of product operations",
		},
		[]string{"operation"},
	)

	// Order metrics, labelled by the submitted status
	OrderOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_order_operations_total",
			Help: "Total number of order submissions",
		},
		[]string{"status"},
	)

	// Inventory change metrics, labelled by ledger change type
	InventoryChangesCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_inventory_changes_total",
			Help: "Total number of logged inventory changes",
		},
		[]string{"change_type"},
	)

	// Current stock level per product
	ProductStockGauge = *promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_product_stock_quantity",
			Help: "Current stock quantity for products",
		},
		[]string{"product_id", "product_name"},
	)

	// Report generation duration
	ReportGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    prefix + "_report_generation_duration_seconds",
			Help:    "Duration of dashboard report generation in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordProductOperation increments the counter for product operations
func RecordProductOperation(operation string) {
	ProductOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordOrderOperation increments the counter for order submissions
func RecordOrderOperation(status string) {
	OrderOperationsCounter.WithLabelValues(status).Inc()
}

// RecordInventoryChange increments the counter for logged stock changes
func RecordInventoryChange(changeType string) {
	InventoryChangesCounter.WithLabelValues(changeType).Inc()
}

// UpdateProductStock updates the gauge for a product's stock quantity
func UpdateProductStock(productID uint, productName string, quantity int) {
	ProductStockGauge.WithLabelValues(strconv.FormatUint(uint64(productID), 10), productName).Set(float64(quantity))
}
