package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/refinelab/feedplan/api/reports"
	"github.com/refinelab/feedplan/config"
	"github.com/refinelab/feedplan/connectors/simulator"
	coremetrics "github.com/refinelab/feedplan/core/metrics"
	"github.com/refinelab/feedplan/core/report"
	"github.com/refinelab/feedplan/infra/history"
	"github.com/refinelab/feedplan/infra/logger"
	"github.com/refinelab/feedplan/infra/metrics"
	"github.com/refinelab/feedplan/internal/eventbus"
)

// Service orchestrates the simulation client, the reconciliation engine, the
// run history store and the dashboard API.
type Service struct {
	cfg    *config.Config
	client *simulator.Client
	engine *report.Engine
	store  history.Store
	bus    *eventbus.Bus
	cache  *reports.Cache
	sink   coremetrics.MetricsSink
	log    logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var sinks []coremetrics.MetricsSink
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
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	store, err := history.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("history store: %w", err)
	}

	return &Service{
		cfg:    cfg,
		client: simulator.NewClient(cfg.Simulator),
		engine: report.NewEngine(nil),
		store:  store,
		bus:    eventbus.New(),
		cache:  reports.NewCache(store),
		sink:   sink,
		log:    logg,
	}, nil
}

// Run starts the service and blocks until the context is cancelled: it runs
// the configured plan once, serves the dashboard API, and re-runs on MQTT
// notifications or on the poll ticker.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	sub := s.bus.Subscribe()
	go func() {
		for ev := range sub {
			s.log.Infof("run %s completed: %d days", ev.RunID, ev.Summary.Days)
		}
	}()

	go s.serveAPI(ctx)

	if err := s.RunOnce(ctx); err != nil {
		s.log.Errorf("initial run: %v", err)
	}

	switch {
	case s.cfg.Simulator.Notify.Enabled:
		notifier := simulator.NewNotifier(s.cfg.Simulator.Notify)
		return notifier.Start(ctx, func(runID string) {
			s.log.Infof("run notification %s, re-running plan", runID)
			if err := s.RunOnce(ctx); err != nil {
				s.log.Errorf("notified run: %v", err)
			}
		})
	case s.cfg.Simulator.PollIntervalSeconds > 0:
		ticker := time.NewTicker(time.Duration(s.cfg.Simulator.PollIntervalSeconds) * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.RunOnce(ctx); err != nil {
					s.log.Errorf("scheduled run: %v", err)
				}
			case <-ctx.Done():
				return nil
			}
		}
	default:
		<-ctx.Done()
		return nil
	}
}

// RunOnce executes the configured plan against the simulation service,
// reconciles the feeds and persists and publishes the outcome.
func (s *Service) RunOnce(ctx context.Context) error {
	plan, err := s.store.LoadPlan(ctx, s.cfg.Plan.Name)
	if err != nil {
		s.log.Warnf("load plan %s: %v", s.cfg.Plan.Name, err)
	}
	if plan == nil {
		plan = s.cfg.Plan.Inputs
	}
	if plan == nil {
		plan = map[string]any{}
	}

	start := time.Now()
	res, err := s.client.Simulate(ctx, plan)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	dayReports := s.engine.Reconcile(*res)
	summary := report.Summarize(dayReports, s.cfg.Plan.ProcessingRateBblPerDay)

	rec := history.RunRecord{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now(),
		Result:    *res,
		Reports:   dayReports,
		Summary:   summary,
	}
	if err := s.store.AppendRun(ctx, rec); err != nil {
		s.log.Warnf("persist run %s: %v", rec.RunID, err)
	}
	s.cache.Set(rec)
	s.bus.Publish(eventbus.RunCompleted{RunID: rec.RunID, Reports: dayReports, Summary: summary})

	if err := s.sink.RecordReconcile(coremetrics.ReconcileEvent{
		RunID:         rec.RunID,
		Days:          len(dayReports),
		Events:        len(res.SimulationLog),
		ParseFailures: report.CountParseFailures(res.SimulationLog),
		Duration:      time.Since(start),
		Time:          time.Now(),
	}); err != nil {
		s.log.Warnf("record metrics: %v", err)
	}

	s.log.Infof("run %s reconciled %d days in %s", rec.RunID, len(dayReports), time.Since(start))
	return nil
}

func (s *Service) serveAPI(ctx context.Context) {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           reports.Routes(s.cache, s.store, s.store, s.client),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	s.log.Infof("dashboard API listening on %s", s.cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.Errorf("api server: %v", err)
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	return s.store.Close()
}
