package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// ActionMetrics exposes counters/histograms for dashboard action flows.
type ActionMetrics struct {
	actionsTotal  *prometheus.CounterVec
	actionLatency *prometheus.HistogramVec
}

func NewActionMetrics(reg prometheus.Registerer) *ActionMetrics {
	m := &ActionMetrics{
		actionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "healcard",
			Subsystem: "dashboard",
			Name:      "actions_total",
			Help:      "Total dashboard actions by outcome",
		}, []string{"action", "outcome"}),
		actionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "healcard",
			Subsystem: "dashboard",
			Name:      "action_latency_seconds",
			Help:      "Latency of dashboard action requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.actionsTotal, m.actionLatency)
	return m
}

func (m *ActionMetrics) ObserveAction(action, outcome string) {
	if m == nil {
		return
	}
	m.actionsTotal.WithLabelValues(action, outcome).Inc()
}

func (m *ActionMetrics) ObserveLatency(action string, seconds float64) {
	if m == nil {
		return
	}
	m.actionLatency.WithLabelValues(action).Observe(seconds)
}

// SnapshotActions reads the gathered action counters, keyed by
// "<action>/<outcome>". Used for the CLI's --stats output.
func SnapshotActions(gatherer prometheus.Gatherer) map[string]int64 {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mfs, err := gatherer.Gather()
	if err != nil {
		return nil
	}

	var family *dto.MetricFamily
	for _, mf := range mfs {
		if mf != nil && mf.GetName() == "healcard_dashboard_actions_total" {
			family = mf
			break
		}
	}
	if family == nil {
		return nil
	}

	out := make(map[string]int64)
	for _, metric := range family.Metric {
		if metric == nil {
			continue
		}
		var action, outcome string
		for _, lp := range metric.Label {
			switch lp.GetName() {
			case "action":
				action = lp.GetValue()
			case "outcome":
				outcome = lp.GetValue()
			}
		}
		out[action+"/"+outcome] = int64(metric.GetCounter().GetValue())
	}
	return out
}
