package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/gridmate/gridmate/core/metrics"
	"github.com/gridmate/gridmate/infra/logger"
)

// InfluxSink writes engine events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg coremetrics.Config) *InfluxSink {
	client := influxdb2.NewClientWithOptions(cfg.InfluxURL, cfg.InfluxToken,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.Sink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRefresh writes the refresh outcome as a point.
func (s *InfluxSink) RecordRefresh(ev coremetrics.RefreshEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("grid_refresh").
		AddTag("source", string(ev.Source)).
		AddTag("has_window", strconv.FormatBool(ev.HasWindow)).
		AddField("stage", int(ev.Stage)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordUsage writes the usage snapshot as a point.
func (s *InfluxSink) RecordUsage(sample coremetrics.UsageSample) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("home_usage").
		AddTag("owner_id", sample.OwnerID).
		AddTag("efficiency", string(sample.Stats.EfficiencyRating)).
		AddField("total_watts", sample.Stats.TotalUsageWatts).
		AddField("monthly_cost", sample.Stats.MonthlyCostEstimate).
		AddField("active_devices", sample.Stats.ActiveDeviceCount).
		AddField("average_active_watts", sample.Stats.AverageActiveWatts).
		SetTime(sample.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordActions writes each action as a point.
func (s *InfluxSink) RecordActions(evs []coremetrics.ActionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, ev := range evs {
		p := write.NewPointWithMeasurement("automation_action").
			AddTag("kind", ev.Kind.String()).
			AddTag("reason", ev.Reason).
			AddField("devices", ev.Devices).
			SetTime(ev.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordNotification writes the notification event as a point.
func (s *InfluxSink) RecordNotification(ev coremetrics.NotificationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("outage_notification").
		AddField("window_start", ev.WindowStart.Unix()).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }
