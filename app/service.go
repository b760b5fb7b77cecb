// Package app wires the engine components together and drives them on the
// refresh cadence.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gridmate/gridmate/config"
	"github.com/gridmate/gridmate/core/automation"
	"github.com/gridmate/gridmate/core/category"
	"github.com/gridmate/gridmate/core/events"
	coremetrics "github.com/gridmate/gridmate/core/metrics"
	"github.com/gridmate/gridmate/core/model"
	"github.com/gridmate/gridmate/core/notify"
	"github.com/gridmate/gridmate/core/outage"
	"github.com/gridmate/gridmate/core/usage"
	"github.com/gridmate/gridmate/infra/actionlog"
	"github.com/gridmate/gridmate/infra/grid"
	"github.com/gridmate/gridmate/infra/logger"
	"github.com/gridmate/gridmate/infra/metrics"
	"github.com/gridmate/gridmate/infra/mqtt"
	"github.com/gridmate/gridmate/infra/store"
	"github.com/gridmate/gridmate/internal/eventbus"
)

// Service orchestrates the estimators, rule engine and stores.
type Service struct {
	ownerID   string
	refresh   time.Duration
	estimator outage.ScheduleEstimator
	fallback  *outage.FallbackEstimator
	engine    *automation.Engine
	planner   *automation.Planner
	notifier  *notify.Scheduler
	usage     usage.Estimator

	fetcher   grid.StageFetcher
	repo      store.DeviceRepository
	prefs     store.PreferenceStore
	publisher mqtt.Publisher
	sink      coremetrics.Sink
	actions   actionlog.Store
	bus       eventbus.EventBus
	log       logger.Logger

	promEnabled bool
	promAddr    string

	now func() time.Time

	mu    sync.Mutex
	state State
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var repo store.DeviceRepository
	var prefs store.PreferenceStore
	mem := store.NewMemoryStore()
	switch cfg.Storage.Backend {
	case "sqlite":
		sq, err := store.NewSQLiteStore(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("sqlite store: %w", err)
		}
		repo = sq
	default:
		repo = mem
	}
	prefs = mem
	if cfg.Storage.RedisEnabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rs, err := store.NewRedisStore(ctx, cfg.Storage.Redis)
		if err != nil {
			return nil, fmt.Errorf("redis store: %w", err)
		}
		prefs = rs
	}

	var publisher mqtt.Publisher = mqtt.NopPublisher{}
	if cfg.MQTT.Enabled {
		p, err := mqtt.NewPahoPublisher(cfg.MQTT.Config)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		publisher = p
	}

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	var actions actionlog.Store
	if cfg.ActionLog.Enabled {
		st, err := actionlog.NewRotatingStore(cfg.ActionLog.Path,
			cfg.ActionLog.MaxSizeMB, cfg.ActionLog.MaxBackups, cfg.ActionLog.MaxAgeDays)
		if err != nil {
			return nil, fmt.Errorf("action log: %w", err)
		}
		actions = st
	}

	svc := &Service{
		ownerID:     cfg.Engine.OwnerID,
		refresh:     time.Duration(cfg.Engine.RefreshMinutes) * time.Minute,
		estimator:   outage.ScheduleEstimator{Area: cfg.Engine.Area},
		fallback:    outage.NewFallbackEstimator(cfg.Engine.Area, cfg.Engine.FallbackSeed),
		engine:      automation.NewEngine(logg),
		notifier:    notify.NewScheduler(),
		usage:       usage.NewEstimator(cfg.Engine.RatePerKWh),
		fetcher:     grid.NewClient(cfg.Grid),
		repo:        repo,
		prefs:       prefs,
		publisher:   publisher,
		sink:        sink,
		actions:     actions,
		bus:         eventbus.New(),
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promAddr:    ":" + cfg.Metrics.PrometheusPort,
		now:         time.Now,
	}
	svc.planner = automation.NewPlanner(repo, automation.AutoConfirm{}, logg)
	return svc, nil
}

// Bus exposes the internal event bus for subscribers.
func (s *Service) Bus() eventbus.EventBus { return s.bus }

// State returns a copy of the current snapshot.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// SetConfirmer replaces the planner's confirmation strategy. Interactive
// callers install a prompt before running Prepare.
func (s *Service) SetConfirmer(c automation.Confirmer) {
	s.planner = automation.NewPlanner(s.repo, c, s.log)
}

// LoadPreferences pulls the persisted automation rules into the snapshot and
// arms or disarms the rule engine accordingly.
func (s *Service) LoadPreferences(ctx context.Context) error {
	rules, err := s.prefs.LoadRules(ctx, s.ownerID)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}
	favorites, err := s.prefs.LoadFavorites(ctx, s.ownerID)
	if err != nil {
		return fmt.Errorf("load favorites: %w", err)
	}
	s.mu.Lock()
	s.state.Rules = rules
	s.state.Favorites = favorites
	s.mu.Unlock()
	s.engine.SetArmed(rules.Armed())
	return nil
}

// Run loads preferences, performs an initial refresh and re-runs the
// estimator on the configured cadence until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if err := s.LoadPreferences(ctx); err != nil {
		return err
	}

	go s.journalEvents(ctx)

	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	s.Refresh(ctx)
	ticker := time.NewTicker(s.refresh)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// journalEvents consumes the bus and writes every engine event to the log.
// It runs until the context is cancelled or the bus is closed.
func (s *Service) journalEvents(ctx context.Context) {
	sub := s.bus.Subscribe()
	defer s.bus.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-sub:
			if !ok {
				return
			}
			s.logEvent(e)
		}
	}
}

func (s *Service) logEvent(e eventbus.Event) {
	switch ev := e.(type) {
	case events.OutageRefreshed:
		s.log.Debugw("outage refreshed", map[string]any{
			"stage":      int(ev.State.Stage),
			"source":     string(ev.State.Source),
			"has_window": ev.State.NextSlot != nil,
		})
	case events.ActionsEmitted:
		s.log.Debugw("actions emitted", map[string]any{"actions": len(ev.Actions)})
	case events.NotificationFired:
		s.log.Infof("outage notification: %s", ev.Message)
	case events.DeviceToggled:
		s.log.Debugw("device toggled", map[string]any{
			"device":      ev.DeviceID,
			"status":      string(ev.Status),
			"rolled_back": ev.RolledBack,
		})
	case events.PrepareCompleted:
		s.log.Infof("prepare completed: %d off, %d skipped", ev.TurnedOff, ev.Skipped)
	}
}

// Refresh runs one full cycle: stage fetch, outage estimation, device
// categorization, rule evaluation and notification check. Failures degrade
// to fallback data; nothing here is fatal.
func (s *Service) Refresh(ctx context.Context) {
	now := s.now()

	var outageState model.OutageState
	stage, err := s.fetcher.FetchStage(ctx)
	if err != nil {
		s.log.Warnf("grid fetch failed, using fallback: %v", err)
		outageState = s.fallback.State(now)
	} else {
		outageState = s.estimator.State(stage, now)
	}

	// Copy the snapshot slice: ToggleDevice mutates elements in place and
	// the recompute below runs outside the lock.
	s.mu.Lock()
	devices := append([]model.Device(nil), s.state.Devices...)
	rules := s.state.Rules
	s.mu.Unlock()

	if listed, err := s.repo.List(ctx, s.ownerID); err != nil {
		s.log.Warnf("device list failed, keeping previous snapshot: %v", err)
	} else {
		devices = listed
	}

	cats := category.Categorize(devices)
	stats := s.usage.Estimate(devices)
	s.engine.SetArmed(rules.Armed())
	acts := s.engine.Evaluate(automation.Input{
		Now:        now,
		Window:     outageState.NextSlot,
		Categories: cats,
		Rules:      rules,
	})

	s.notifier.Forget(now)
	if msg, ok := s.notifier.ShouldNotify(outageState.NextSlot, rules, now); ok {
		if err := s.publisher.PublishAlert(msg); err != nil {
			s.log.Errorf("alert delivery: %v", err)
		}
		if err := s.sink.RecordNotification(coremetrics.NotificationEvent{
			WindowStart: outageState.NextSlot.Start, Time: now,
		}); err != nil {
			s.log.Errorf("record notification: %v", err)
		}
		s.appendAction(ctx, actionlog.Record{
			Timestamp: now, OwnerID: s.ownerID,
			Kind: model.ActionNotify, Reason: "Outage warning", Message: msg,
			Executed: true,
		})
		s.bus.Publish(events.NotificationFired{
			WindowStart: outageState.NextSlot.Start, Message: msg, At: now,
		})
	}

	s.recordRefresh(outageState, stats, acts, now)

	s.mu.Lock()
	s.state.Devices = devices
	s.state.Outage = outageState
	s.state.Categories = cats
	s.state.Stats = stats
	s.state.Actions = acts
	s.mu.Unlock()

	s.bus.Publish(events.OutageRefreshed{State: outageState, At: now})
	if len(acts) > 0 {
		s.bus.Publish(events.ActionsEmitted{Actions: acts, At: now})
	}
}

func (s *Service) recordRefresh(st model.OutageState, stats usage.Stats, acts []model.UpcomingAction, now time.Time) {
	if err := s.sink.RecordRefresh(coremetrics.RefreshEvent{
		Stage: st.Stage, Source: st.Source, HasWindow: st.NextSlot != nil, Time: now,
	}); err != nil {
		s.log.Errorf("record refresh: %v", err)
	}
	if err := s.sink.RecordUsage(coremetrics.UsageSample{
		OwnerID: s.ownerID, Stats: stats, Time: now,
	}); err != nil {
		s.log.Errorf("record usage: %v", err)
	}
	if len(acts) == 0 {
		return
	}
	evs := make([]coremetrics.ActionEvent, len(acts))
	for i, a := range acts {
		evs[i] = coremetrics.ActionEvent{
			Kind: a.Kind, Devices: len(a.Devices), Reason: a.Reason, Time: now,
		}
	}
	if err := s.sink.RecordActions(evs); err != nil {
		s.log.Errorf("record actions: %v", err)
	}
}

// ToggleDevice flips a device's status optimistically: the snapshot is
// updated immediately, the repository write follows, and on failure the
// prior snapshot is restored exactly.
func (s *Service) ToggleDevice(ctx context.Context, id string) error {
	s.mu.Lock()
	prev := s.state.clone()
	idx := -1
	for i, d := range s.state.Devices {
		if d.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	next := model.StatusOn
	if s.state.Devices[idx].Status == model.StatusOn {
		next = model.StatusOff
	}
	s.state.Devices[idx].Status = next
	s.state.Categories = category.Categorize(s.state.Devices)
	s.state.Stats = s.usage.Estimate(s.state.Devices)
	s.mu.Unlock()

	now := s.now()
	if err := s.repo.Update(ctx, s.ownerID, id, store.StatusUpdate(next)); err != nil {
		s.mu.Lock()
		s.state = prev
		s.mu.Unlock()
		s.bus.Publish(events.DeviceToggled{DeviceID: id, Status: next, RolledBack: true, At: now})
		return fmt.Errorf("toggle %s: %w", id, err)
	}
	if _, err := s.publisher.PublishCommand(id, next); err != nil {
		s.log.Errorf("command delivery: %v", err)
	}
	s.bus.Publish(events.DeviceToggled{DeviceID: id, Status: next, At: now})

	if err := s.sink.RecordUsage(coremetrics.UsageSample{
		OwnerID: s.ownerID, Stats: s.State().Stats, Time: now,
	}); err != nil {
		s.log.Errorf("record usage: %v", err)
	}
	return nil
}

// SetRules persists the new rule set and re-arms the engine.
func (s *Service) SetRules(ctx context.Context, rules model.AutomationRules) error {
	rules.SetDefaults()
	if err := s.prefs.SaveRules(ctx, s.ownerID, rules); err != nil {
		return fmt.Errorf("save rules: %w", err)
	}
	s.mu.Lock()
	s.state.Rules = rules
	s.mu.Unlock()
	s.engine.SetArmed(rules.Armed())
	return nil
}

// ToggleFavorite adds or removes a device from the favorites list and
// persists the new list.
func (s *Service) ToggleFavorite(ctx context.Context, id string) error {
	s.mu.Lock()
	favorites := append([]string(nil), s.state.Favorites...)
	s.mu.Unlock()

	found := false
	for i, f := range favorites {
		if f == id {
			favorites = append(favorites[:i], favorites[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		favorites = append(favorites, id)
	}
	if err := s.prefs.SaveFavorites(ctx, s.ownerID, favorites); err != nil {
		return fmt.Errorf("save favorites: %w", err)
	}
	s.mu.Lock()
	s.state.Favorites = favorites
	s.mu.Unlock()
	return nil
}

// Prepare runs the one-shot preparation flow against the current device set
// and refreshes the snapshot on success.
func (s *Service) Prepare(ctx context.Context) (automation.PrepareResult, error) {
	devices, err := s.repo.List(ctx, s.ownerID)
	if err != nil {
		return automation.PrepareResult{}, fmt.Errorf("list devices: %w", err)
	}
	s.mu.Lock()
	rules := s.state.Rules
	s.mu.Unlock()

	res, err := s.planner.Prepare(ctx, s.ownerID, devices, rules)
	if err != nil {
		return res, err
	}
	now := s.now()
	if res.Outcome == automation.OutcomePrepared {
		ids := make([]string, len(res.TurnedOff))
		for i, d := range res.TurnedOff {
			ids[i] = d.ID
			if _, err := s.publisher.PublishCommand(d.ID, model.StatusOff); err != nil {
				s.log.Errorf("command delivery: %v", err)
			}
		}
		s.appendAction(ctx, actionlog.Record{
			Timestamp: now, OwnerID: s.ownerID,
			Kind: model.ActionTurnOff, Reason: "Prepared for outage",
			DeviceIDs: ids, Executed: true,
		})
		if listed, err := s.repo.List(ctx, s.ownerID); err == nil {
			s.mu.Lock()
			s.state.Devices = listed
			s.state.Categories = category.Categorize(listed)
			s.state.Stats = s.usage.Estimate(listed)
			s.mu.Unlock()
		}
	}
	s.bus.Publish(events.PrepareCompleted{
		TurnedOff: len(res.TurnedOff), Skipped: len(res.Skipped), At: now,
	})
	return res, nil
}

func (s *Service) appendAction(ctx context.Context, rec actionlog.Record) {
	if s.actions == nil {
		return
	}
	if err := s.actions.Append(ctx, rec); err != nil {
		s.log.Errorf("action log append: %v", err)
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	s.publisher.Close()
	if s.actions != nil {
		if err := s.actions.Close(); err != nil {
			return err
		}
	}
	if closer, ok := s.repo.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
