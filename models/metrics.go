package models

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bodyCountTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "body_count_total",
		Help: "The total number of rigid bodies created.",
	})

	bodyPoseUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "body_pose_updates",
		Help: "The number of rigid body pose updates.",
	})
)

func instrumentCountBody() {
	bodyCountTotal.Inc()
}

func instrumentPoseUpdate() {
	bodyPoseUpdates.Inc()
}
