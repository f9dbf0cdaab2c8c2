package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "ranger_analysis_duration_sec",
	Help: "Total duration of uncached account analyses",
})

var analysisCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ranger_analyses",
	Help: "Number of analyses served, by outcome",
}, []string{"outcome"})

var cacheHitCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "ranger_cache_hits",
	Help: "Number of analyses served from the result cache",
})

var cacheMissCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "ranger_cache_misses",
	Help: "Number of analyses requiring a full pipeline run",
})

var upstreamFetchCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "ranger_upstream_fetches",
	Help: "Number of profile fetches issued to the upstream data source",
})
