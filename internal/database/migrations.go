package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Migration is one ordered schema step. Versions are applied in slice order
// and recorded in schema_migrations.
type Migration struct {
	Version int
	Up      string
}

var AllMigrations = []Migration{
	{Version: 1, Up: migrationV1},
	{Version: 2, Up: migrationV2},
}

const migrationV1 = `
CREATE TABLE IF NOT EXISTS product (
    product_id     BIGSERIAL PRIMARY KEY,
    product_name   TEXT NOT NULL,
    product_price  NUMERIC(12,2) NOT NULL CHECK (product_price >= 0),
    product_status TEXT NOT NULL DEFAULT 'active'
);

CREATE TABLE IF NOT EXISTS order_table (
    order_id    BIGSERIAL PRIMARY KEY,
    customer_id BIGINT NOT NULL,
    order_date  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS warehouse (
    warehouse_id   BIGSERIAL PRIMARY KEY,
    warehouse_name TEXT NOT NULL,
    street         TEXT NOT NULL DEFAULT '',
    city           TEXT NOT NULL DEFAULT '',
    zip_code       TEXT NOT NULL DEFAULT '',
    stock_amount   INTEGER NOT NULL DEFAULT 0 CHECK (stock_amount >= 0)
);

CREATE TABLE IF NOT EXISTS order_item (
    order_id      BIGINT NOT NULL REFERENCES order_table (order_id) ON DELETE CASCADE,
    order_item_id INTEGER NOT NULL,
    product_id    BIGINT NOT NULL REFERENCES product (product_id),
    warehouse_id  BIGINT REFERENCES warehouse (warehouse_id) ON DELETE SET NULL,
    quantity      INTEGER NOT NULL CHECK (quantity > 0),
    unit_price    NUMERIC(12,2) NOT NULL CHECK (unit_price >= 0),
    PRIMARY KEY (order_id, order_item_id)
);

CREATE TABLE IF NOT EXISTS payment_transaction (
    transaction_id UUID PRIMARY KEY,
    order_id       BIGINT NOT NULL UNIQUE REFERENCES order_table (order_id) ON DELETE CASCADE,
    payment_method TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS payment (
    payment_id     BIGSERIAL PRIMARY KEY,
    transaction_id UUID NOT NULL UNIQUE REFERENCES payment_transaction (transaction_id) ON DELETE CASCADE,
    payment_status TEXT NOT NULL DEFAULT 'pending',
    amount         NUMERIC(12,2) NOT NULL DEFAULT 0,
    payment_date   TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS review (
    review_id     BIGSERIAL PRIMARY KEY,
    order_id      BIGINT NOT NULL,
    order_item_id INTEGER NOT NULL,
    user_id       BIGINT NOT NULL,
    review_rating INTEGER NOT NULL CHECK (review_rating BETWEEN 1 AND 5),
    title         TEXT,
    comment       TEXT,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (order_id, order_item_id, user_id)
);

CREATE TABLE IF NOT EXISTS return_request (
    return_request_id BIGSERIAL PRIMARY KEY,
    order_id          BIGINT NOT NULL,
    order_item_id     INTEGER NOT NULL,
    request_status    TEXT NOT NULL DEFAULT 'pending',
    reason            TEXT,
    requested_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (order_id, order_item_id)
);

CREATE TABLE IF NOT EXISTS refund (
    refund_id         BIGSERIAL PRIMARY KEY,
    return_request_id BIGINT NOT NULL UNIQUE REFERENCES return_request (return_request_id) ON DELETE CASCADE,
    amount            NUMERIC(12,2) NOT NULL CHECK (amount >= 0),
    reason            TEXT
);

CREATE INDEX IF NOT EXISTS idx_order_customer ON order_table (customer_id);
CREATE INDEX IF NOT EXISTS idx_review_item ON review (order_id, order_item_id);
`

// Catalog management is an external concern; seeding gives a fresh database
// something to sell.
const migrationV2 = `
INSERT INTO product (product_name, product_price, product_status)
SELECT * FROM (VALUES
    ('Walnut Desk Organizer', 34.50, 'active'),
    ('Ceramic Pour-Over Set', 58.00, 'active'),
    ('Linen Throw Blanket', 89.90, 'active'),
    ('Brass Reading Lamp', 120.00, 'active')
) AS seed (product_name, product_price, product_status)
WHERE NOT EXISTS (SELECT 1 FROM product);
`

// Migrate applies pending migrations in order, each in its own transaction.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, m := range AllMigrations {
		var applied bool
		err := db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, m.Version,
		).Scan(&applied)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if applied {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, m.Up); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %d: %w", m.Version, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schema_migrations (version) VALUES ($1)`, m.Version,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}
