package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	UploadsTotal   prometheus.Counter
	DeletesTotal   *prometheus.CounterVec
	StreamRequests *prometheus.CounterVec
	StreamedBytes  prometheus.Histogram
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UploadsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "videoservice_uploads_total",
			Help: "Videos uploaded successfully.",
		}),
		DeletesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "videoservice_deletes_total",
			Help: "Video delete attempts by result.",
		}, []string{"result"}),
		StreamRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "videoservice_stream_requests_total",
			Help: "Stream requests by response class.",
		}, []string{"status"}),
		StreamedBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "videoservice_streamed_bytes",
			Help:    "Bytes served per stream response.",
			Buckets: prometheus.ExponentialBuckets(64<<10, 4, 8),
		}),
	}
}
