package ship

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultLabel = "result"
)

var (
	placements = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ship_part_placements",
		Help: "The number of part placements by result.",
	}, []string{
		resultLabel,
	})

	partCount = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ship_parts",
		Help: "The number of parts placed in a ship interior.",
	}, []string{
		"interior_id",
	})
)

func instrumentPlacement(allowed bool) {
	result := "blocked"
	if allowed {
		result = "placed"
	}
	placements.WithLabelValues(result).Inc()
}

func instrumentParts(i *Interior) {
	partCount.WithLabelValues(i.ID).Set(float64(len(i.parts)))
}

func forgetParts(i *Interior) {
	partCount.DeleteLabelValues(i.ID)
}
