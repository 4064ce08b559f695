package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	activityStoredGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tracker",
		Subsystem: "store",
		Name:      "last_activity_date_ms",
		Help:      "Activity date (epoch ms) of the most recently stored record.",
	})
	remindersResolved = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tracker",
		Subsystem: "reminder",
		Name:      "resolved_total",
		Help:      "Number of reminders surfaced to users.",
	})
	weeksAggregated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tracker",
		Subsystem: "chart",
		Name:      "weeks_aggregated_total",
		Help:      "Number of weekly chart aggregations computed.",
	})
)

func init() {
	prometheus.MustRegister(activityStoredGauge, remindersResolved, weeksAggregated)
}

// RecordActivityStored updates the stored-activity watermark gauge.
func RecordActivityStored(dateMs int64) {
	if dateMs <= 0 {
		return
	}
	activityStoredGauge.Set(float64(dateMs))
}

// RecordReminderResolved counts a surfaced reminder.
func RecordReminderResolved() {
	remindersResolved.Inc()
}

// RecordWeekAggregated counts a computed week chart.
func RecordWeekAggregated() {
	weeksAggregated.Inc()
}
