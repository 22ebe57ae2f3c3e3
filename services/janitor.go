package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Janitor evicts idle carts from memory and prunes expired persisted state.
type Janitor struct {
	sessions  *SessionManager
	store     Store
	idle      time.Duration
	retention time.Duration
	logger    *zap.Logger
	now       func() time.Time
	cron      *cron.Cron
}

func NewJanitor(sessions *SessionManager, store Store, idle, retention time.Duration, logger *zap.Logger) *Janitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Janitor{
		sessions:  sessions,
		store:     store,
		idle:      idle,
		retention: retention,
		logger:    logger,
		now:       time.Now,
	}
}

// Start schedules Sweep with a cron spec such as "@every 10m".
func (j *Janitor) Start(spec string) error {
	j.cron = cron.New()
	if _, err := j.cron.AddFunc(spec, func() { j.Sweep(context.Background()) }); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("Session janitor started", zap.String("schedule", spec))
	return nil
}

func (j *Janitor) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
	}
}

func (j *Janitor) Sweep(ctx context.Context) {
	now := j.now()
	evicted := j.sessions.Evict(now.Add(-j.idle))

	var pruned int64
	if p, ok := j.store.(Pruner); ok && j.retention > 0 {
		n, err := p.Prune(ctx, now.Add(-j.retention))
		if err != nil {
			j.logger.Warn("Failed to prune booking state", zap.Error(err))
		}
		pruned = n
	}

	if evicted > 0 || pruned > 0 {
		j.logger.Info("Session sweep",
			zap.Int("evicted", evicted), zap.Int64("pruned", pruned))
	}
}
