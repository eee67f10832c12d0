// Package metrics declares the Prometheus collectors of the service. They are
// registered with the default registry at init and exposed on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "policeapp_http_requests_total",
		Help: "Total HTTP requests by route and status code",
	}, []string{"method", "route", "status"})
	HTTPRequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "policeapp_http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	}, []string{"method", "route"})

	MatrixRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "policeapp_distance_matrix_requests_total",
		Help: "Total distance matrix provider requests",
	})
	MatrixFailTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "policeapp_distance_matrix_fail_total",
		Help: "Total distance matrix provider failures by kind",
	}, []string{"kind"})
	MatrixDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "policeapp_distance_matrix_duration_ms",
		Help:    "Distance matrix provider call duration in milliseconds",
		Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000},
	})

	NearestCandidates = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "policeapp_nearest_candidates",
		Help:    "Number of candidates sent to the provider per nearest query",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
	})
	UnreachableTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "policeapp_unreachable_candidates_total",
		Help: "Total candidates the provider could not route to",
	})
	DatasetPoints = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "policeapp_dataset_points",
		Help: "Number of points in the currently served dataset",
	})

	ReportsCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "policeapp_reports_created_total",
		Help: "Total crime reports created by crime type",
	}, []string{"crime_type"})
	SMSSentTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "policeapp_sms_sent_total",
		Help: "Total SMS messages accepted by the provider",
	})
	SMSFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "policeapp_sms_fail_total",
		Help: "Total SMS messages the provider rejected",
	})
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDurationMs)
	prometheus.MustRegister(MatrixRequestsTotal)
	prometheus.MustRegister(MatrixFailTotal)
	prometheus.MustRegister(MatrixDurationMs)
	prometheus.MustRegister(NearestCandidates)
	prometheus.MustRegister(UnreachableTotal)
	prometheus.MustRegister(DatasetPoints)
	prometheus.MustRegister(ReportsCreatedTotal)
	prometheus.MustRegister(SMSSentTotal)
	prometheus.MustRegister(SMSFailTotal)
}

// Handler returns the Prometheus exposition handler for /metrics.
func Handler() http.Handler { return promhttp.Handler() }
