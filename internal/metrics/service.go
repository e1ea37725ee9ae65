package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		AllocationRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "volley_allocation_runs_total",
			Help: "The total number of allocation engine runs.",
		}),
		ReplacementRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "volley_replacement_runs_total",
			Help: "The total number of replacement engine runs.",
		}),
		LockContention: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "volley_match_lock_contention_total",
			Help: "The total number of operations aborted because the match lease was held.",
		}),
		SweepRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "volley_deadline_sweep_runs_total",
			Help: "The total number of deadline sweep cycles.",
		}),
		SweepFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "volley_deadline_sweep_failures_total",
			Help: "The total number of per-match failures during deadline sweeps.",
		}),
		AllocationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "volley_allocation_duration_seconds",
			Help:    "The duration of individual allocation runs.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		NotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "volley_notifications_sent_total",
			Help: "The total number of notifications successfully sent.",
		}),
		NotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "volley_notifications_failed_total",
			Help: "The total number of notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "volley_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.AllocationRuns,
		s.ReplacementRuns,
		s.LockContention,
		s.SweepRuns,
		s.SweepFailures,
		s.AllocationDuration,
		s.NotifSent,
		s.NotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncAllocationRuns() {
	s.AllocationRuns.Inc()
}

func (s *Service) IncReplacementRuns() {
	s.ReplacementRuns.Inc()
}

func (s *Service) IncLockContention() {
	s.LockContention.Inc()
}

func (s *Service) IncSweepRuns() {
	s.SweepRuns.Inc()
}

func (s *Service) IncSweepFailures() {
	s.SweepFailures.Inc()
}

func (s *Service) ObserveAllocationDuration(duration float64) {
	s.AllocationDuration.Observe(duration)
}

func (s *Service) IncNotifSent() {
	s.NotifSent.Inc()
}

func (s *Service) IncNotifFailed() {
	s.NotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
