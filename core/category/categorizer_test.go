package category

import (
	"testing"

	"github.com/gridmate/gridmate/core/model"
)

func TestCategorizePartition(t *testing.T) {
	devices := []model.Device{
		{ID: "d1", Type: model.TypeRefrigerator, RatedPowerWatts: 150},
		{ID: "d2", Type: model.TypeGeyser, RatedPowerWatts: 3000},
		{ID: "d3", Type: model.TypeLight, RatedPowerWatts: 10},
		{ID: "d4", Type: model.TypeCamera, RatedPowerWatts: 500},
		{ID: "d5", Type: model.TypeTelevision, RatedPowerWatts: 300},
	}
	c := Categorize(devices)

	if len(c.Essential) != 2 {
		t.Fatalf("expected 2 essential, got %d", len(c.Essential))
	}
	if len(c.HighUsage) != 1 || c.HighUsage[0].ID != "d2" {
		t.Fatalf("expected only d2 high-usage, got %#v", c.HighUsage)
	}
	// 300W sits exactly on the threshold and is not high-usage.
	if len(c.Other) != 2 {
		t.Fatalf("expected 2 other, got %d", len(c.Other))
	}

	seen := map[string]int{}
	for _, set := range [][]model.Device{c.Essential, c.HighUsage, c.Other} {
		for _, d := range set {
			seen[d.ID]++
		}
	}
	if len(seen) != len(devices) {
		t.Fatalf("partition does not cover input: %v", seen)
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("device %s appears %d times", id, n)
		}
	}
}

func TestCategorizeEssentialNeverHighUsage(t *testing.T) {
	d := model.Device{ID: "cam", Type: model.TypeCamera, RatedPowerWatts: 900}
	c := Categorize([]model.Device{d})
	if len(c.Essential) != 1 || len(c.HighUsage) != 0 {
		t.Fatalf("high-wattage essential misfiled: %#v", c)
	}
}

func TestCategorizeEmpty(t *testing.T) {
	c := Categorize(nil)
	if len(c.Essential)+len(c.HighUsage)+len(c.Other) != 0 {
		t.Fatalf("expected empty partition")
	}
}

func TestCategorizeIdempotent(t *testing.T) {
	devices := []model.Device{
		{ID: "d1", Type: model.TypeHeater, RatedPowerWatts: 2000},
	}
	first := Categorize(devices)
	second := Categorize(devices)
	if len(first.HighUsage) != 1 || len(second.HighUsage) != 1 {
		t.Fatalf("categorize not idempotent")
	}
}
