package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salesmap_backend/internal/events"
	"salesmap_backend/internal/geocode"
	ordersrepo "salesmap_backend/internal/orders/repository"
	salesmaprepo "salesmap_backend/internal/salesmap/repository"
	"salesmap_backend/internal/salesmap/service"
	"salesmap_backend/internal/scheduler"
	"salesmap_backend/platform/config"
	"salesmap_backend/platform/db"
	"salesmap_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	registerEventLogging(eventBus, log)

	geocoder := geocode.NewNominatimClient(cfg, log)
	svc := service.New(ordersrepo.New(pool), salesmaprepo.New(pool), geocoder, eventBus, log)

	worker, err := scheduler.NewWorker(cfg, svc, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

// registerEventLogging is the default subscriber for geocode outcome events.
// Deployments that want alerting hook their own handlers here.
func registerEventLogging(bus events.Bus, log *logger.Logger) {
	bus.Subscribe(events.OrderGeocoded{}.EventName(), events.HandlerFunc(func(_ context.Context, event events.Event) error {
		if e, ok := event.(events.OrderGeocoded); ok {
			log.Info("order geocode completed", "order_code", e.OrderCode, "lat", e.Latitude, "lon", e.Longitude)
		}
		return nil
	}))
	bus.Subscribe(events.OrderGeocodeFailed{}.EventName(), events.HandlerFunc(func(_ context.Context, event events.Event) error {
		if e, ok := event.(events.OrderGeocodeFailed); ok {
			log.Warn("order geocode failed", "order_code", e.OrderCode, "reason", e.Reason)
		}
		return nil
	}))
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
