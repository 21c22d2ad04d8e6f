package scheduler

import (
	"context"
	"fmt"

	"salesmap_backend/platform/config"
	"salesmap_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// OrderGeocoder runs the geocode task body for one order.
type OrderGeocoder interface {
	GeocodeOrder(ctx context.Context, orderID uuid.UUID) error
}

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	geocoder OrderGeocoder
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, geocoder OrderGeocoder, log *logger.Logger) (*Worker, error) {
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

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		geocoder: geocoder,
		log:      log,
	}

	mux.HandleFunc(TaskOrderGeocode, w.handleOrderGeocode)

	return w, nil
}

func (w *Worker) handleOrderGeocode(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseOrderGeocodePayload(task)
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(payload.OrderID)
	if err != nil {
		return err
	}

	return w.geocoder.GeocodeOrder(ctx, orderID)
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
