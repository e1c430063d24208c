package scheduler

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"brokerage_portal_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Client enqueues booking maintenance tasks.
type Client struct {
	client *asynq.Client
	queue  string
}

// SweepTrigger requests an out-of-schedule cold sweep.
type SweepTrigger interface {
	EnqueueColdSweep(ctx context.Context, payload ColdSweepPayload) error
}

var _ SweepTrigger = (*Client)(nil)

// EnqueueStartupSweep catches up on bookings that went idle while no
// scheduler was running.
func EnqueueStartupSweep(ctx context.Context, trigger SweepTrigger) error {
	return trigger.EnqueueColdSweep(ctx, ColdSweepPayload{RequestedBy: "startup"})
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueColdSweep queues a single sweep. Concurrent requests collapse into
// one task while it is pending.
func (c *Client) EnqueueColdSweep(ctx context.Context, payload ColdSweepPayload) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewColdSweepTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.Unique(coldSweepUniqueTTL))
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	return err
}

func queueName(cfg config.SchedulerConfig) string {
	if queue := cfg.GetAsynqQueueName(); queue != "" {
		return queue
	}
	return "default"
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}

// NewRedisClient opens a go-redis client with the same URL and TLS handling
// as the asynq connections, for components that talk to Redis directly.
func NewRedisClient(cfg config.SchedulerConfig) (*redis.Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	asynqOpt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}
	return redis.NewClient(&redis.Options{
		Addr:      asynqOpt.Addr,
		Password:  asynqOpt.Password,
		DB:        asynqOpt.DB,
		TLSConfig: asynqOpt.TLSConfig,
	}), nil
}
