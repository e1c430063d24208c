package scheduler

import (
	"context"
	"fmt"

	"brokerage_portal_backend/platform/config"
	"brokerage_portal_backend/platform/logger"

	"github.com/hibiken/asynq"
)

const defaultColdSweepCron = "@every 1h"

// Periodic registers the recurring booking maintenance tasks with asynq.
type Periodic struct {
	scheduler *asynq.Scheduler
	log       *logger.Logger
}

func NewPeriodic(cfg config.SchedulerConfig, log *logger.Logger) (*Periodic, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	spec := cfg.GetColdSweepCron()
	if spec == "" {
		spec = defaultColdSweepCron
	}

	task, err := NewColdSweepTask(ColdSweepPayload{})
	if err != nil {
		return nil, err
	}

	scheduler := asynq.NewScheduler(opt, nil)
	if _, err := scheduler.Register(spec, task, asynq.Queue(queueName(cfg)), asynq.Unique(coldSweepUniqueTTL)); err != nil {
		return nil, fmt.Errorf("register cold sweep %q: %w", spec, err)
	}
	log.Info("cold sweep scheduled", "cron", spec)

	return &Periodic{scheduler: scheduler, log: log}, nil
}

func (p *Periodic) Run(ctx context.Context) {
	if p == nil || p.scheduler == nil {
		return
	}

	if err := p.scheduler.Start(); err != nil {
		p.log.Error("periodic scheduler failed to start", "error", err)
		return
	}
	<-ctx.Done()
	p.scheduler.Shutdown()
}
