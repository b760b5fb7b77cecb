package metrics

import (
	"errors"
	"testing"

	coremetrics "github.com/gridmate/gridmate/core/metrics"
)

type recordingSink struct {
	refreshes int
	usages    int
	actions   int
	notifies  int
	err       error
}

func (r *recordingSink) RecordRefresh(coremetrics.RefreshEvent) error {
	r.refreshes++
	return r.err
}
func (r *recordingSink) RecordUsage(coremetrics.UsageSample) error {
	r.usages++
	return r.err
}
func (r *recordingSink) RecordActions([]coremetrics.ActionEvent) error {
	r.actions++
	return r.err
}
func (r *recordingSink) RecordNotification(coremetrics.NotificationEvent) error {
	r.notifies++
	return r.err
}

func TestMultiSinkFanout(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	m := NewMultiSink(a, b)
	if err := m.RecordRefresh(coremetrics.RefreshEvent{}); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if err := m.RecordUsage(coremetrics.UsageSample{}); err != nil {
		t.Fatalf("usage: %v", err)
	}
	if err := m.RecordActions(nil); err != nil {
		t.Fatalf("actions: %v", err)
	}
	if err := m.RecordNotification(coremetrics.NotificationEvent{}); err != nil {
		t.Fatalf("notification: %v", err)
	}
	if a.refreshes != 1 || b.refreshes != 1 || a.notifies != 1 || b.notifies != 1 {
		t.Fatalf("fanout incomplete: %#v %#v", a, b)
	}
}

func TestMultiSinkFirstError(t *testing.T) {
	a := &recordingSink{err: errors.New("boom")}
	b := &recordingSink{}
	m := NewMultiSink(a, b)
	if err := m.RecordRefresh(coremetrics.RefreshEvent{}); err == nil {
		t.Fatalf("expected error")
	}
	if b.refreshes != 0 {
		t.Fatalf("second sink reached after error")
	}
}
