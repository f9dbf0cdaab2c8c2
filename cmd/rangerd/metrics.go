package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "rangerd_request_errors",
	Help: "Number of failed analyze requests, by error kind",
}, []string{"kind"})

var requestsRateLimited = promauto.NewCounter(prometheus.CounterOpts{
	Name: "rangerd_requests_rate_limited",
	Help: "Number of analyze requests rejected by the per-IP rate limiter",
})
