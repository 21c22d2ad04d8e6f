// Package repository provides read access to the host ticketing platform's
// orders and invoice addresses. The tables are owned by the host; this
// service never writes to them.
package repository

import (
	"context"
	"errors"
	"fmt"

	"salesmap_backend/internal/geocode"
	"salesmap_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Order represents a host order with its optional invoice address.
type Order struct {
	ID             uuid.UUID `db:"id"`
	EventID        uuid.UUID `db:"event_id"`
	Code           string    `db:"code"`
	Status         string    `db:"status"`
	InvoiceAddress *geocode.Address
}

// Repository provides read-only database operations for host orders.
type Repository struct {
	pool *pgxpool.Pool
}

const orderNotFoundMsg = "order not found"

// New creates a new orders repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByID retrieves an order and its invoice address, if any.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	var (
		order    Order
		street   *string
		city     *string
		postcode *string
		region   *string
		country  *string
	)

	query := `
		SELECT o.id, o.event_id, o.code, o.status,
			ia.street, ia.city, ia.zipcode, ia.state, ia.country
		FROM orders o
		LEFT JOIN invoice_addresses ia ON ia.order_id = o.id
		WHERE o.id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID, &order.EventID, &order.Code, &order.Status,
		&street, &city, &postcode, &region, &country,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(orderNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if street != nil || city != nil || postcode != nil || region != nil || country != nil {
		order.InvoiceAddress = &geocode.Address{
			Street:   deref(street),
			City:     deref(city),
			Postcode: deref(postcode),
			Region:   deref(region),
			Country:  deref(country),
		}
	}

	return &order, nil
}

// ListPaidWithoutCoordinates returns paid orders that have either no geocode
// record at all or a record whose coordinates are null. Used by the backfill
// command; ordered oldest first so re-runs make steady progress.
func (r *Repository) ListPaidWithoutCoordinates(ctx context.Context, limit int) ([]uuid.UUID, error) {
	query := `
		SELECT o.id
		FROM orders o
		LEFT JOIN order_geocodes g ON g.order_id = o.id
		WHERE o.status = 'paid'
		  AND (g.order_id IS NULL OR g.latitude IS NULL OR g.longitude IS NULL)
		ORDER BY o.created_at ASC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders without coordinates: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan order id: %w", err)
		}
		ids = append(ids, id)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return ids, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
