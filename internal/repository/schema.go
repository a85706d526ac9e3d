package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the tables used by the dispatch service.
const Schema = `
CREATE TABLE IF NOT EXISTS couriers (
    id              BIGSERIAL PRIMARY KEY,
    chat_id         BIGINT UNIQUE,
    name            TEXT NOT NULL,
    phone           TEXT NOT NULL UNIQUE,
    status          TEXT NOT NULL,
    latitude        DOUBLE PRECISION,
    longitude       DOUBLE PRECISION,
    delivery_radius DOUBLE PRECISION,
    created_at      TIMESTAMP WITHOUT TIME ZONE DEFAULT now() NOT NULL,
    updated_at      TIMESTAMP WITHOUT TIME ZONE DEFAULT now() NOT NULL
);

CREATE TABLE IF NOT EXISTS courier_orders (
    id               BIGSERIAL PRIMARY KEY,
    courier_id       BIGINT NOT NULL REFERENCES couriers(id) ON DELETE CASCADE,
    courier_chat_id  BIGINT,
    customer_id      TEXT NOT NULL DEFAULT '',
    customer_chat_id BIGINT,
    order_id         TEXT NOT NULL,
    product_name     TEXT NOT NULL DEFAULT '',
    quantity         DOUBLE PRECISION NOT NULL DEFAULT 0,
    address          TEXT NOT NULL DEFAULT '',
    latitude         DOUBLE PRECISION,
    longitude        DOUBLE PRECISION,
    maps_url         TEXT NOT NULL DEFAULT '',
    phone            TEXT NOT NULL DEFAULT '',
    customer_name    TEXT NOT NULL DEFAULT '',
    distance_meters  DOUBLE PRECISION NOT NULL DEFAULT 0,
    status           TEXT NOT NULL,
    created_at       TIMESTAMP WITHOUT TIME ZONE DEFAULT now() NOT NULL,
    updated_at       TIMESTAMP WITHOUT TIME ZONE DEFAULT now() NOT NULL,
    UNIQUE (order_id, courier_id)
);
`

// EnsureSchema applies Schema. It is idempotent.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
