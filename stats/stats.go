package stats

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/rwsampling/trackcanvas/extract"
)

const ResultOK = extract.ResultOK

// Statistics collects per track metrics of a single extract run.
type Statistics struct {
	registry *prometheus.Registry
	counter  *counter

	tracks   *prometheus.CounterVec
	vertices prometheus.Counter
	duration prometheus.Histogram
}

func New() *Statistics {
	reg := prometheus.NewRegistry()
	return &Statistics{
		registry: reg,
		counter:  newCounter(),
		tracks: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "trackcanvas_tracks_total",
				Help: "Number of processed track files by result",
			},
			[]string{"result"},
		),
		vertices: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "trackcanvas_vertices_total",
				Help: "Number of vertices fitted onto the canvas",
			},
		),
		duration: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "trackcanvas_fit_duration_seconds",
				Help:    "Time to read and fit a single track file",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
		),
	}
}

// Track records one processed track file. result is ResultOK or the
// name of the error class.
func (s *Statistics) Track(result string, vertices int, d time.Duration) {
	s.tracks.WithLabelValues(result).Inc()
	s.duration.Observe(d.Seconds())
	if result == ResultOK {
		s.vertices.Add(float64(vertices))
	}
	s.counter.add(result, vertices)
}

func (s *Statistics) Registry() *prometheus.Registry {
	return s.registry
}

// Summary returns a single line with the track and vertex counts.
func (s *Statistics) Summary() string {
	ok, failed, vertices := s.counter.values()
	return fmt.Sprintf("tracks: %d ok, %d failed, vertices: %d, %.0f vertices/s",
		ok, failed, vertices, s.counter.rate())
}

// Push sends all metrics to the Prometheus Pushgateway at url.
func (s *Statistics) Push(url, job string) error {
	err := push.New(url, job).Gatherer(s.registry).Push()
	return errors.Wrapf(err, "pushing metrics to %s", url)
}
