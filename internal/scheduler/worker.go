package scheduler

import (
	"context"
	"fmt"

	"brokerage_portal_backend/internal/bookings/maintenance"
	"brokerage_portal_backend/platform/config"
	"brokerage_portal_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Sweeper runs one cold sweep pass.
type Sweeper interface {
	Sweep(ctx context.Context) (maintenance.SweepResult, error)
}

type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	sweeper Sweeper
	log     *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, sweeper Sweeper, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := newWorker(sweeper, log)
	w.server = server
	return w, nil
}

func newWorker(sweeper Sweeper, log *logger.Logger) *Worker {
	if log == nil {
		log = logger.Discard()
	}
	w := &Worker{
		mux:     asynq.NewServeMux(),
		sweeper: sweeper,
		log:     log,
	}
	w.mux.HandleFunc(TaskColdSweep, w.handleColdSweep)
	return w
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleColdSweep(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseColdSweepPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if w.sweeper == nil {
		return nil
	}

	result, err := w.sweeper.Sweep(ctx)
	if err != nil {
		return err
	}
	w.log.Info("cold sweep task done",
		"requested_by", payload.RequestedBy,
		"scanned", result.Scanned,
		"marked", result.Marked,
	)
	return nil
}
