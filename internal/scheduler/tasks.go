package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskColdSweep = "bookings.cold_sweep"

const coldSweepUniqueTTL = 10 * time.Minute

// ColdSweepPayload records who asked for the sweep; empty for cron runs.
type ColdSweepPayload struct {
	RequestedBy string `json:"requestedBy,omitempty"`
}

func NewColdSweepTask(payload ColdSweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskColdSweep, data), nil
}

func ParseColdSweepPayload(task *asynq.Task) (ColdSweepPayload, error) {
	var payload ColdSweepPayload
	if len(task.Payload()) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ColdSweepPayload{}, err
	}
	return payload, nil
}
