package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsOpened = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parkir_sessions_opened_total",
			Help: "Total number of parking sessions opened by scan-in",
		},
	)

	SessionsClosed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkir_sessions_closed_total",
			Help: "Total number of parking sessions closed by scan-out",
		},
		[]string{"status", "penalized"},
	)

	ScanRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkir_scan_rejected_total",
			Help: "Scans refused by the parking service",
		},
		[]string{"direction", "reason"},
	)

	PaymentsConfirmed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parkir_payments_confirmed_total",
			Help: "Total number of confirmed parking payments",
		},
	)

	FeeCollected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkir_fee_collected_total",
			Help: "Sum of confirmed parking fees",
		},
		[]string{"status"},
	)

	OvernightDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkir_overnight_decisions_total",
			Help: "Overnight requests decided by administrators",
		},
		[]string{"decision"},
	)

	TariffCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkir_tariff_cache_lookups_total",
			Help: "Tariff cache lookups by result",
		},
		[]string{"result"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parkir_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
