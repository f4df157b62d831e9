package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	PagesFetched  prometheus.Counter
	FetchErrors   *prometheus.CounterVec
	StatusPolls   prometheus.Counter
	JobsFinished  *prometheus.CounterVec
	ProxyRequests *prometheus.CounterVec
}

// NewMetrics registers the application counters with reg. Passing an
// isolated registry keeps test instances independent.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PagesFetched: factory.NewCounter(prometheus.CounterOpts{
			Name: "memeboard_feed_pages_fetched_total",
			Help: "The total number of feed pages fetched from the backend",
		}),
		FetchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "memeboard_feed_fetch_errors_total",
			Help: "The total number of failed feed page fetches",
		}, []string{"kind"}), // e.g. 'transport', 'client', 'decode'
		StatusPolls: factory.NewCounter(prometheus.CounterOpts{
			Name: "memeboard_generation_status_polls_total",
			Help: "The total number of generation status requests issued",
		}),
		JobsFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "memeboard_generation_jobs_finished_total",
			Help: "The total number of generation jobs reaching a terminal state",
		}, []string{"outcome"}), // 'completed', 'failed', 'lost'
		ProxyRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "memeboard_image_proxy_requests_total",
			Help: "The total number of image proxy requests",
		}, []string{"result"}), // 'hit', 'miss', 'error'
	}
}

func (m *Metrics) IncPagesFetched() {
	m.PagesFetched.Inc()
}

func (m *Metrics) IncFetchErrors(kind string) {
	m.FetchErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncStatusPolls() {
	m.StatusPolls.Inc()
}

func (m *Metrics) IncJobsFinished(outcome string) {
	m.JobsFinished.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncProxyRequests(result string) {
	m.ProxyRequests.WithLabelValues(result).Inc()
}
