package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"github.com/Dnicola11/repuestos/internal/analytics"
	"github.com/Dnicola11/repuestos/internal/caching"
	"github.com/Dnicola11/repuestos/internal/store"
)

const (
	statsCacheKey = "stats:latest"
	statsCacheTTL = 10 * time.Minute

	alertsInterval  = 30 * time.Minute
	refreshInterval = 5 * time.Minute
)

// Scheduler runs the periodic maintenance jobs: low-stock alerting and the
// cached statistics refresh. Both work off the in-memory state, never the
// database directly.
type Scheduler struct {
	scheduler gocron.Scheduler
	state     *store.Store
	cache     caching.SessionCache
	log       *zap.Logger
	jobs      map[string]gocron.Job
}

func NewScheduler(state *store.Store, cache caching.SessionCache, log *zap.Logger) (*Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		scheduler: scheduler,
		state:     state,
		cache:     cache,
		log:       log,
		jobs:      make(map[string]gocron.Job),
	}
	s.registerJobs()
	return s, nil
}

func (s *Scheduler) Start() {
	s.log.Info("starting background jobs", zap.Int("count", len(s.jobs)))
	s.scheduler.Start()
}

func (s *Scheduler) Stop() error {
	s.log.Info("stopping background jobs")
	return s.scheduler.Shutdown()
}

func (s *Scheduler) registerJobs() {
	alertsJob, err := s.scheduler.NewJob(
		gocron.DurationJob(alertsInterval),
		gocron.NewTask(s.processLowStockAlerts),
		gocron.WithName("low-stock-alerts"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		s.log.Error("failed to register low-stock alerts job", zap.Error(err))
	} else {
		s.jobs["low-stock-alerts"] = alertsJob
	}

	refreshJob, err := s.scheduler.NewJob(
		gocron.DurationJob(refreshInterval),
		gocron.NewTask(s.refreshStatisticsCache, context.Background()),
		gocron.WithName("statistics-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		s.log.Error("failed to register statistics refresh job", zap.Error(err))
	} else {
		s.jobs["statistics-refresh"] = refreshJob
	}
}

// processLowStockAlerts logs one warning per part at or below its minimum
// stock level. Delivery beyond the log belongs to a notification channel.
func (s *Scheduler) processLowStockAlerts() {
	low := analytics.LowStockParts(s.state.Parts())
	if len(low) == 0 {
		s.log.Debug("low stock check: all parts above threshold")
		return
	}

	for _, part := range low {
		s.log.Warn("low stock alert",
			zap.String("part_id", part.ID),
			zap.String("name", part.Name),
			zap.Int("quantity", part.Quantity),
			zap.Int("min_stock", part.MinStock))
	}
	s.log.Info("low stock check completed", zap.Int("alerts", len(low)))
}

// refreshStatisticsCache recomputes the inventory statistics and caches the
// JSON so dashboards read a precomputed value.
func (s *Scheduler) refreshStatisticsCache(ctx context.Context) {
	stats := analytics.ComputeStatistics(s.state.Parts())

	payload, err := json.Marshal(stats)
	if err != nil {
		s.log.Error("failed to encode statistics", zap.Error(err))
		return
	}

	if err := s.cache.SetString(ctx, statsCacheKey, string(payload), statsCacheTTL); err != nil {
		s.log.Warn("failed to cache statistics", zap.Error(err))
		return
	}
	s.log.Debug("statistics cache refreshed",
		zap.Int("total_quantity", stats.TotalQuantity),
		zap.Float64("total_value", stats.TotalValue))
}
