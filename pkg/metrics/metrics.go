package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersSettledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_orders_settled_total",
		Help: "Total number of orders settled",
	})

	OrdersVoidedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_orders_voided_total",
		Help: "Total number of completed orders voided",
	})

	SettlementsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_settlements_failed_total",
		Help: "Total number of failed settlements",
	}, []string{"reason"})

	StockDebitConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_stock_debit_conflicts_total",
		Help: "Total number of settlement stock debits lost to a concurrent sale",
	})

	SettlementLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pos_settlement_latency_seconds",
		Help:    "Latency of the settlement commit sequence",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pos_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
