package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pipelinesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wemediaspider_pipelines_started_total",
		Help: "Total number of publisher pipelines started.",
	})

	pipelinesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wemediaspider_pipelines_failed_total",
			Help: "Total number of publisher pipelines that ended Failed, by publisher.",
		},
		[]string{"publisher"},
	)

	articlesCollected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wemediaspider_articles_collected",
		Help: "Running cross-publisher article count for the current or last batch.",
	})

	batchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wemediaspider_batch_duration_seconds",
		Help:    "Wall-clock duration of a completed batch run.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})
)
