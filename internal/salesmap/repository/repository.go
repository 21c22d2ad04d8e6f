// Package repository provides database operations for order geocode records.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salesmap_backend/internal/geocode"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GeocodeRecord is the stored geocoding outcome for one order. Latitude and
// longitude are written together or not at all; a null pair marks an attempt
// that produced no coordinates.
type GeocodeRecord struct {
	OrderID   uuid.UUID `db:"order_id"`
	Latitude  *float64  `db:"latitude"`
	Longitude *float64  `db:"longitude"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// MapPoint is a resolved coordinate pair joined with its order code.
type MapPoint struct {
	Latitude  float64 `db:"latitude"`
	Longitude float64 `db:"longitude"`
	OrderCode string  `db:"order_code"`
}

// Repository provides database operations for geocode records.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new geocode record repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Upsert writes the geocoding outcome for an order. Passing nil coordinates
// records a failed attempt. The write is idempotent and keyed on order_id;
// re-running a task overwrites the previous outcome.
func (r *Repository) Upsert(ctx context.Context, orderID uuid.UUID, coords *geocode.Coordinates) error {
	var lat, lon *float64
	if coords != nil {
		lat = &coords.Latitude
		lon = &coords.Longitude
	}

	query := `
		INSERT INTO order_geocodes (order_id, latitude, longitude, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (order_id)
		DO UPDATE SET latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude, updated_at = now()`

	if _, err := r.pool.Exec(ctx, query, orderID, lat, lon); err != nil {
		return fmt.Errorf("failed to upsert geocode record: %w", err)
	}

	return nil
}

// Get retrieves the geocode record for an order, or nil when none exists.
func (r *Repository) Get(ctx context.Context, orderID uuid.UUID) (*GeocodeRecord, error) {
	var record GeocodeRecord
	query := `SELECT order_id, latitude, longitude, created_at, updated_at
		FROM order_geocodes WHERE order_id = $1`

	err := r.pool.QueryRow(ctx, query, orderID).Scan(
		&record.OrderID, &record.Latitude, &record.Longitude, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get geocode record: %w", err)
	}

	return &record, nil
}

// ListByEvent returns resolved map points for all of an event's orders,
// excluding records whose coordinates are null.
func (r *Repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]MapPoint, error) {
	query := `
		SELECT g.latitude, g.longitude, o.code
		FROM order_geocodes g
		JOIN orders o ON o.id = g.order_id
		WHERE o.event_id = $1
		  AND g.latitude IS NOT NULL
		  AND g.longitude IS NOT NULL
		ORDER BY o.code ASC`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list geocode records: %w", err)
	}
	defer rows.Close()

	points := make([]MapPoint, 0)
	for rows.Next() {
		var point MapPoint
		if err := rows.Scan(&point.Latitude, &point.Longitude, &point.OrderCode); err != nil {
			return nil, fmt.Errorf("failed to scan map point: %w", err)
		}
		points = append(points, point)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return points, nil
}
