package metrics

import coremetrics "github.com/gridmate/gridmate/core/metrics"

// MultiSink fans engine events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRefresh forwards the event to all sinks, returning the first error.
func (m *MultiSink) RecordRefresh(ev coremetrics.RefreshEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordRefresh(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordUsage forwards the sample to all sinks.
func (m *MultiSink) RecordUsage(sample coremetrics.UsageSample) error {
	for _, s := range m.Sinks {
		if err := s.RecordUsage(sample); err != nil {
			return err
		}
	}
	return nil
}

// RecordActions forwards the action events to all sinks.
func (m *MultiSink) RecordActions(evs []coremetrics.ActionEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordActions(evs); err != nil {
			return err
		}
	}
	return nil
}

// RecordNotification forwards the notification event to all sinks.
func (m *MultiSink) RecordNotification(ev coremetrics.NotificationEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordNotification(ev); err != nil {
			return err
		}
	}
	return nil
}
