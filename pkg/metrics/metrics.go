package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type SaleMetrics struct {
	SalesCommitted prometheus.Counter
	SalesFailed    *prometheus.CounterVec
	CommitDuration prometheus.Histogram
}

func NewSaleMetrics(reg prometheus.Registerer) *SaleMetrics {
	m := &SaleMetrics{
		SalesCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sale_commits_total",
			Help: "Successfully committed sales.",
		}),
		SalesFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sale_commit_failures_total",
			Help: "Failed sale commits by reason.",
		}, []string{"reason"}),
		CommitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sale_commit_duration_seconds",
			Help:    "End to end commitSale latency.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.SalesCommitted, m.SalesFailed, m.CommitDuration)
	return m
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
