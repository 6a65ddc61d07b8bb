package worker

import (
	"context"

	"slotswap-api/core/config"
	"slotswap-api/core/logger"

	"github.com/hibiken/asynq"
)

// Enqueuer is the producer side of the activity log: services record events
// through it without waiting on the database write.
type Enqueuer interface {
	RecordActivity(ctx context.Context, p ActivityPayload) error
}

type Client struct {
	inner *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		inner: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (c *Client) RecordActivity(ctx context.Context, p ActivityPayload) error {
	task, err := NewActivityTask(p)
	if err != nil {
		return err
	}

	info, err := c.inner.EnqueueContext(ctx, task)
	if err != nil {
		logger.Error("ActivityClient:RecordActivity:Enqueue:Error", err)
		return err
	}

	logger.Debug("ActivityClient:RecordActivity:Enqueued",
		"task_id", info.ID,
		"action", p.Action,
	)
	return nil
}

func (c *Client) Close() error {
	return c.inner.Close()
}
