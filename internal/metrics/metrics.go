package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fehlergründe für das Label "reason" von RecordsFailed
const (
	ReasonSchema = "schema"
	ReasonRange  = "range"
	ReasonBind   = "bind"
	ReasonWrite  = "write"
	ReasonOther  = "other"
)

// Ingest enthält die Metriken des Loaders
type Ingest struct {
	RecordsWritten prometheus.Counter
	RecordsFailed  *prometheus.CounterVec
	BatchDuration  prometheus.Histogram
	InFlight       prometheus.Gauge
}

// NewIngest registriert die Loader-Metriken bei reg
func NewIngest(reg prometheus.Registerer) *Ingest {
	f := promauto.With(reg)
	return &Ingest{
		RecordsWritten: f.NewCounter(prometheus.CounterOpts{
			Name: "movie_loader_records_written_total",
			Help: "Total number of movies written to both tables",
		}),
		RecordsFailed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "movie_loader_records_failed_total",
			Help: "Total number of failed movie writes by reason",
		}, []string{"reason"}),
		BatchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "movie_loader_batch_duration_seconds",
			Help:    "Time taken to write one movie, batch submission included",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		InFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "movie_loader_in_flight",
			Help: "Number of movie writes currently in flight",
		}),
	}
}

// HTTP enthält die Metriken des Catalog-Servers
type HTTP struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewHTTP registriert die Server-Metriken bei reg
func NewHTTP(reg prometheus.Registerer) *HTTP {
	f := promauto.With(reg)
	return &HTTP{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		}, []string{"route", "status"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalog_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}
