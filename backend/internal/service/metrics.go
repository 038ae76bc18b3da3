package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "chanengine"
	metricsSubsystem = "engine"
)

var (
	postsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "posts_created_total",
			Help:      "Accepted posts by type (op or reply)",
		},
		[]string{"type"},
	)

	storeRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "store_retries_total",
			Help:      "Store operations retried after a transient failure",
		},
		[]string{"op", "kind"},
	)

	admissionRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "admission_rejections_total",
			Help:      "Rejected post submissions by error kind",
		},
		[]string{"kind"},
	)

	countersRepaired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "reconcile_repaired_total",
			Help:      "Rows whose counters were recomputed by reconciliation",
		},
		[]string{"entity"},
	)
)
