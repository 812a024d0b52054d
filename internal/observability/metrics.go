package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the splitter.
type Metrics struct {
	ProfilesRead    prometheus.Counter
	StationsWritten prometheus.Counter
	SplitErrors     prometheus.Counter

	StationWriteDuration prometheus.Histogram
	RunDuration          prometheus.Histogram
}

// NewMetrics creates and registers all splitter metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ProfilesRead,
		m.StationsWritten,
		m.SplitErrors,
		m.StationWriteDuration,
		m.RunDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ProfilesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ctd_split",
			Name:      "profiles_read_total",
			Help:      "Total profile records read from cruise files.",
		}),
		StationsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ctd_split",
			Name:      "stations_written_total",
			Help:      "Total single-station files written.",
		}),
		SplitErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ctd_split",
			Name:      "split_errors_total",
			Help:      "Total station boundary detection failures.",
		}),
		StationWriteDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ctd_split",
			Name:      "station_file_write_duration_seconds",
			Help:      "Duration of writing one station file.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ctd_split",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete cruise split run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}
