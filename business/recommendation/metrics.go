package recommendation

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	FeedbackEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drink_recommend_feedback_total",
			Help: "Count of recommendation feedback events by verdict and algorithm version.",
		},
		[]string{"verdict", "algorithm_version"},
	)
)

func init() {
	prometheus.MustRegister(FeedbackEventsTotal)
}
