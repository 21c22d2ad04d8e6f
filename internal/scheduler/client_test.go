package scheduler

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type testSchedulerConfig struct {
	redisURL string
	queue    string
}

func (c testSchedulerConfig) GetRedisURL() string       { return c.redisURL }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string { return c.queue }
func (c testSchedulerConfig) GetAsynqConcurrency() int  { return 1 }

func TestClientEnqueueGeocodeOrder(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testSchedulerConfig{redisURL: "redis://" + mr.Addr(), queue: "salesmap"}
	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	orderID := uuid.New()
	if err := client.EnqueueGeocodeOrder(context.Background(), OrderGeocodePayload{OrderID: orderID.String()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	opt, err := redisClientOpt(cfg.redisURL, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inspector := asynq.NewInspector(opt)
	t.Cleanup(func() { _ = inspector.Close() })

	var tasks []*asynq.TaskInfo
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		tasks, err = inspector.ListPendingTasks("salesmap")
		if err == nil && len(tasks) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 pending task, got %d (err=%v)", len(tasks), err)
	}

	task := tasks[0]
	if task.Type != TaskOrderGeocode {
		t.Errorf("unexpected task type: %q", task.Type)
	}
	if task.MaxRetry != 0 {
		t.Errorf("geocode tasks must not retry, got MaxRetry=%d", task.MaxRetry)
	}

	var payload OrderGeocodePayload
	if err := json.Unmarshal(task.Payload, &payload); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if payload.OrderID != orderID.String() {
		t.Errorf("unexpected order id: %q", payload.OrderID)
	}
}

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(testSchedulerConfig{}); err == nil {
		t.Fatalf("expected an error")
	}
}
