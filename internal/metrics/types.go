package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	AllocationRuns     prometheus.Counter
	ReplacementRuns    prometheus.Counter
	LockContention     prometheus.Counter
	SweepRuns          prometheus.Counter
	SweepFailures      prometheus.Counter
	AllocationDuration prometheus.Histogram
	NotifSent          prometheus.Counter
	NotifFailed        prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
