package storage

import "github.com/prometheus/client_golang/prometheus"

var (
	loadsRecovered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liftlog_history_loads_recovered_total",
			Help: "History loads that fell back to an empty history, by failure stage.",
		},
		[]string{"stage"},
	)

	historySize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "liftlog_history_workouts",
			Help: "Number of workouts in the last saved history.",
		},
	)
)

func init() {
	prometheus.MustRegister(loadsRecovered)
	prometheus.MustRegister(historySize)
}
