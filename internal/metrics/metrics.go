package metrics

import (
	"errors"

	"github.com/meikuraledutech/skilltree"
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder exports engine activity to Prometheus. It implements
// skilltree.Observer.
type Recorder struct {
	mutations      *prometheus.CounterVec
	commitFailures *prometheus.CounterVec
	nodes          prometheus.Gauge
	edges          prometheus.Gauge
	unlocked       prometheus.Gauge
}

var _ skilltree.Observer = (*Recorder)(nil)

// NewRecorder creates a Recorder and registers its collectors with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skilltree",
			Name:      "mutations_total",
			Help:      "Mutation attempts by operation and result.",
		}, []string{"op", "result"}),
		commitFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skilltree",
			Name:      "commit_failures_total",
			Help:      "Snapshots the store failed to save.",
		}, []string{"op"}),
		nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "skilltree",
			Name:      "nodes",
			Help:      "Nodes in the graph.",
		}),
		edges: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "skilltree",
			Name:      "edges",
			Help:      "Edges in the graph.",
		}),
		unlocked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "skilltree",
			Name:      "unlocked_nodes",
			Help:      "Unlocked nodes in the graph.",
		}),
	}
	reg.MustRegister(r.mutations, r.commitFailures, r.nodes, r.edges, r.unlocked)
	return r
}

// Mutated records a mutation attempt and the resulting graph size.
func (r *Recorder) Mutated(op skilltree.Op, err error, stats skilltree.Stats) {
	r.mutations.WithLabelValues(string(op), resultLabel(err)).Inc()
	r.Observe(stats)
}

// CommitFailed counts a failed save.
func (r *Recorder) CommitFailed(op skilltree.Op, err error) {
	r.commitFailures.WithLabelValues(string(op)).Inc()
}

// Observe sets the size gauges.
func (r *Recorder) Observe(stats skilltree.Stats) {
	r.nodes.Set(float64(stats.Nodes))
	r.edges.Set(float64(stats.Edges))
	r.unlocked.Set(float64(stats.Unlocked))
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, skilltree.ErrDuplicateEdge):
		return "duplicate_edge"
	case errors.Is(err, skilltree.ErrCyclicDependency):
		return "cyclic_dependency"
	case errors.Is(err, skilltree.ErrPrerequisitesNotMet):
		return "prerequisites_not_met"
	case errors.Is(err, skilltree.ErrNodeNotFound):
		return "node_not_found"
	case errors.Is(err, skilltree.ErrMalformedSnapshot):
		return "malformed_snapshot"
	}
	return "error"
}
