// Package scheduler provides background task scheduling on top of asynq.
// The API process enqueues geocode tasks; the worker process executes them.
package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"

	"salesmap_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

type Client struct {
	client *asynq.Client
	queue  string
}

// GeocodeEnqueuer schedules a geocode task for an order.
type GeocodeEnqueuer interface {
	EnqueueGeocodeOrder(ctx context.Context, payload OrderGeocodePayload) error
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

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueGeocodeOrder schedules a geocode task for immediate execution.
// MaxRetry is zero: a failed lookup is recorded as a null-coordinate record
// by the task itself, and hammering the geocoding service with automatic
// retries would violate its usage policy.
func (c *Client) EnqueueGeocodeOrder(ctx context.Context, payload OrderGeocodePayload) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewOrderGeocodeTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(0))
	return err
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
