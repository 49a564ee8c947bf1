// Package metrics records scheduling outcomes in Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bluemens/dermatopathology-scheduler/pkg/scheduler/solver"
	"github.com/bluemens/dermatopathology-scheduler/pkg/stats"
)

// Sink records solve and schedule-quality metrics.
type Sink struct {
	solves    *prometheus.CounterVec
	duration  prometheus.Histogram
	nodes     prometheus.Histogram
	objective prometheus.Gauge
	gini      prometheus.Gauge
	coverage  prometheus.Gauge
}

// NewSink registers the scheduling metrics on the default registerer.
func NewSink() (*Sink, error) {
	return NewSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewSinkWithRegistry registers metrics on the provided registerer. A nil
// registerer defaults to the global one. Re-registration reuses the existing
// collectors, so repeated construction is safe.
func NewSinkWithRegistry(reg prometheus.Registerer) (*Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	solves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dermsched_solves_total",
		Help: "Total number of solve attempts by outcome status",
	}, []string{"status"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dermsched_solve_duration_seconds",
		Help:    "Wall-clock duration of solve attempts",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
	})
	nodes := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dermsched_solve_nodes",
		Help:    "Search nodes explored per solve attempt",
		Buckets: prometheus.ExponentialBuckets(100, 10, 7),
	})
	objective := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dermsched_solution_objective",
		Help: "Objective value of the most recent solution",
	})
	gini := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dermsched_workload_gini",
		Help: "Workload Gini coefficient of the most recent schedule",
	})
	coverage := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dermsched_coverage_fill_rate",
		Help: "Overall coverage fill rate of the most recent schedule",
	})

	if err := register(reg, &solves); err != nil {
		return nil, err
	}
	for _, c := range []*prometheus.Histogram{&duration, &nodes} {
		if err := registerHistogram(reg, c); err != nil {
			return nil, err
		}
	}
	for _, g := range []*prometheus.Gauge{&objective, &gini, &coverage} {
		if err := registerGauge(reg, g); err != nil {
			return nil, err
		}
	}

	return &Sink{
		solves:    solves,
		duration:  duration,
		nodes:     nodes,
		objective: objective,
		gini:      gini,
		coverage:  coverage,
	}, nil
}

func register(reg prometheus.Registerer, c **prometheus.CounterVec) error {
	if err := reg.Register(*c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			*c = are.ExistingCollector.(*prometheus.CounterVec)
			return nil
		}
		return err
	}
	return nil
}

func registerHistogram(reg prometheus.Registerer, h *prometheus.Histogram) error {
	if err := reg.Register(*h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			*h = are.ExistingCollector.(prometheus.Histogram)
			return nil
		}
		return err
	}
	return nil
}

func registerGauge(reg prometheus.Registerer, g *prometheus.Gauge) error {
	if err := reg.Register(*g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			*g = are.ExistingCollector.(prometheus.Gauge)
			return nil
		}
		return err
	}
	return nil
}

// RecordSolve records one solve attempt.
func (s *Sink) RecordSolve(res *solver.Result) {
	s.solves.WithLabelValues(string(res.Status)).Inc()
	s.duration.Observe(res.Duration.Seconds())
	s.nodes.Observe(float64(res.Nodes))
	if res.HasSolution {
		s.objective.Set(float64(res.Objective))
	}
}

// RecordQuality records the quality metrics of a solved schedule.
func (s *Sink) RecordQuality(workload *stats.WorkloadMetrics, coverage *stats.CoverageMetrics) {
	if workload != nil {
		s.gini.Set(workload.Gini)
	}
	if coverage != nil {
		s.coverage.Set(coverage.OverallFillRate)
	}
}

// Serve exposes the metrics endpoint. It blocks until the server fails.
func Serve(addr, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}
