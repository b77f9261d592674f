package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProductsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_created_total",
		Help: "Total number of products created",
	})

	ProductsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_deleted_total",
		Help: "Total number of products deleted",
	})

	StockReservationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_reservations_total",
		Help: "Total number of committed stock reservations",
	})

	StockReleasesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_releases_total",
		Help: "Total number of committed stock releases",
	})

	StockReservationsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_reservations_failed_total",
		Help: "Total number of failed stock reservations",
	}, []string{"reason"})

	ReservationRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reservation_tx_retries_total",
		Help: "Total number of reservation transaction retries after write conflicts",
	})

	ReservationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stock_reservation_latency_seconds",
		Help:    "Latency of stock reservation transactions",
		Buckets: prometheus.DefBuckets,
	})

	CacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_cache_hits_total",
		Help: "Stock cache lookups by outcome",
	}, []string{"outcome"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
