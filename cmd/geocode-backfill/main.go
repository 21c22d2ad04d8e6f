// Command geocode-backfill resolves coordinates for paid orders that have no
// geocode record yet, for deployments that enable the map on an event with
// existing sales. It runs the same task body the worker runs, serially, and
// stops once a full batch makes no progress.
package main

import (
	"context"

	"salesmap_backend/internal/geocode"
	ordersrepo "salesmap_backend/internal/orders/repository"
	salesmaprepo "salesmap_backend/internal/salesmap/repository"
	"salesmap_backend/internal/salesmap/service"
	"salesmap_backend/platform/config"
	"salesmap_backend/platform/db"
	"salesmap_backend/platform/logger"

	"github.com/google/uuid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting geocode backfill")

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	orders := ordersrepo.New(pool)
	store := salesmaprepo.New(pool)
	geocoder := geocode.NewNominatimClient(cfg, log)
	svc := service.New(orders, store, geocoder, nil, log)

	const batchSize = 25
	attempted := make(map[uuid.UUID]bool)
	total := 0
	for {
		// Failed lookups keep their null-coordinate record and stay in the
		// result set, so widen the limit by what this run already tried to
		// make sure fresh orders still fit in the batch.
		ids, err := orders.ListPaidWithoutCoordinates(ctx, batchSize+len(attempted))
		if err != nil {
			log.Error("failed to list orders", "error", err)
			return
		}
		if len(ids) == 0 {
			log.Info("no orders left to geocode", "processed", total)
			return
		}

		progress := false
		for _, id := range ids {
			if attempted[id] {
				continue
			}
			attempted[id] = true
			progress = true

			if err := svc.GeocodeOrder(ctx, id); err != nil {
				log.Error("geocode task failed", "orderId", id, "error", err)
				continue
			}
			total++
		}

		if !progress {
			log.Info("no orders left to attempt, stopping", "processed", total)
			return
		}
	}
}
