package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/gridmate/gridmate/core/metrics"
)

// PromSink records engine events in Prometheus metrics.
type PromSink struct {
	refreshes     *prometheus.CounterVec
	stage         prometheus.Gauge
	usageWatts    prometheus.Gauge
	monthlyCost   prometheus.Gauge
	activeDevices prometheus.Gauge
	actions       *prometheus.CounterVec
	notifications prometheus.Counter
}

// NewPromSink registers engine metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grid_refreshes_total",
			Help: "Total grid refresh cycles by source and window presence",
		}, []string{"source", "has_window"}),
		stage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "grid_outage_stage",
			Help: "Current outage stage",
		}),
		usageWatts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "home_usage_watts",
			Help: "Total rated power of active devices",
		}),
		monthlyCost: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "home_monthly_cost_estimate",
			Help: "Estimated monthly cost of the active device set",
		}),
		activeDevices: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "home_active_devices",
			Help: "Number of devices currently on",
		}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "automation_actions_total",
			Help: "Actions emitted by the automation engine",
		}, []string{"kind"}),
		notifications: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "outage_notifications_total",
			Help: "Advance-warning notifications fired",
		}),
	}
	collectors := []prometheus.Collector{
		s.refreshes, s.stage, s.usageWatts, s.monthlyCost, s.activeDevices, s.actions, s.notifications,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return s, nil
}

// RecordRefresh updates refresh counters and the stage gauge.
func (s *PromSink) RecordRefresh(ev coremetrics.RefreshEvent) error {
	s.refreshes.WithLabelValues(string(ev.Source), strconv.FormatBool(ev.HasWindow)).Inc()
	s.stage.Set(float64(ev.Stage))
	return nil
}

// RecordUsage exposes the latest usage snapshot as gauges.
func (s *PromSink) RecordUsage(sample coremetrics.UsageSample) error {
	s.usageWatts.Set(sample.Stats.TotalUsageWatts)
	s.monthlyCost.Set(float64(sample.Stats.MonthlyCostEstimate))
	s.activeDevices.Set(float64(sample.Stats.ActiveDeviceCount))
	return nil
}

// RecordActions counts emitted actions by kind.
func (s *PromSink) RecordActions(evs []coremetrics.ActionEvent) error {
	for _, ev := range evs {
		s.actions.WithLabelValues(ev.Kind.String()).Inc()
	}
	return nil
}

// RecordNotification counts fired notifications.
func (s *PromSink) RecordNotification(coremetrics.NotificationEvent) error {
	s.notifications.Inc()
	return nil
}
