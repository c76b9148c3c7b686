package collision

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	pairLabel   = "pair"
	resultLabel = "result"
)

var (
	collisionQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collision_queries",
		Help: "The number of collision queries by collider pair and result.",
	}, []string{
		pairLabel,
		resultLabel,
	})

	collisionQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "collision_query_latency",
		Help:    "The time to run a collision query.",
		Buckets: prometheus.ExponentialBuckets(1e-7, 4, 12),
	}, []string{
		pairLabel,
	})

	gridReshapes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grid_reshapes",
		Help: "The number of times a voxel grid was reallocated.",
	})

	gridCells = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "grid_cells",
		Help: "The number of backing cells of the last reshaped grid.",
	})

	treeBuilds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tree_builds",
		Help: "The number of box trees built.",
	})

	treeNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tree_nodes",
		Help: "The number of nodes of the last built box tree.",
	})
)

func instrumentQuery(a, b Kind, start time.Time, r Report) {
	pair := a.String() + "_" + b.String()

	result := "miss"
	if r.Collision() {
		result = "hit"
	}

	collisionQueries.
		With(prometheus.Labels{
			pairLabel:   pair,
			resultLabel: result,
		}).
		Inc()

	collisionQueryLatency.
		With(prometheus.Labels{pairLabel: pair}).
		Observe(time.Since(start).Seconds())
}

func instrumentGridReshape(g *Grid) {
	gridReshapes.Inc()
	gridCells.Set(float64(g.Len()))
}

func instrumentTreeBuild(t *Tree) {
	treeBuilds.Inc()
	treeNodes.Set(float64(t.Len()))
}
