package scheduler

import (
	"context"
	"errors"
	"testing"

	"brokerage_portal_backend/internal/bookings/maintenance"

	"github.com/hibiken/asynq"
)

type countingSweeper struct {
	calls int
	err   error
}

func (s *countingSweeper) Sweep(context.Context) (maintenance.SweepResult, error) {
	s.calls++
	return maintenance.SweepResult{Scanned: 2, Marked: 1}, s.err
}

func TestColdSweepTaskRunsSweeper(t *testing.T) {
	sweeper := &countingSweeper{}
	w := newWorker(sweeper, nil)

	task, err := NewColdSweepTask(ColdSweepPayload{RequestedBy: "ops"})
	if err != nil {
		t.Fatalf("task: %v", err)
	}
	if task.Type() != TaskColdSweep {
		t.Fatalf("unexpected task type %q", task.Type())
	}
	if err := w.mux.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("process: %v", err)
	}
	if sweeper.calls != 1 {
		t.Fatalf("expected one sweep, got %d", sweeper.calls)
	}
}

func TestColdSweepTaskErrors(t *testing.T) {
	sweeper := &countingSweeper{err: errors.New("store down")}
	w := newWorker(sweeper, nil)

	task, _ := NewColdSweepTask(ColdSweepPayload{})
	if err := w.mux.ProcessTask(context.Background(), task); err == nil {
		t.Fatal("expected the sweep error to be returned for retry")
	}

	bad := asynq.NewTask(TaskColdSweep, []byte("{"))
	err := w.mux.ProcessTask(context.Background(), bad)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry for a malformed payload, got %v", err)
	}
}

type recordingTrigger struct {
	payloads []ColdSweepPayload
	err      error
}

func (r *recordingTrigger) EnqueueColdSweep(_ context.Context, p ColdSweepPayload) error {
	r.payloads = append(r.payloads, p)
	return r.err
}

func TestEnqueueStartupSweep(t *testing.T) {
	trigger := &recordingTrigger{}
	if err := EnqueueStartupSweep(context.Background(), trigger); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if len(trigger.payloads) != 1 || trigger.payloads[0].RequestedBy != "startup" {
		t.Fatalf("unexpected payloads %+v", trigger.payloads)
	}

	trigger.err = errors.New("redis down")
	if err := EnqueueStartupSweep(context.Background(), trigger); !errors.Is(err, trigger.err) {
		t.Fatalf("expected the enqueue error, got %v", err)
	}
}

func TestRedisClientOpt(t *testing.T) {
	opt, err := redisClientOpt("redis://:secret@cache.internal:6380/2", false)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if opt.Addr != "cache.internal:6380" || opt.Password != "secret" || opt.DB != 2 || opt.TLSConfig != nil {
		t.Fatalf("unexpected options: %+v", opt)
	}

	opt, err = redisClientOpt("rediss://cache.internal:6380", true)
	if err != nil {
		t.Fatalf("parse tls: %v", err)
	}
	if opt.TLSConfig == nil || !opt.TLSConfig.InsecureSkipVerify {
		t.Fatalf("expected insecure tls config")
	}

	if _, err := redisClientOpt("://nope", false); err == nil {
		t.Fatal("expected an error for a malformed url")
	}
}
