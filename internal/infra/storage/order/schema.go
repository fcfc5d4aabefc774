package order

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-OrderFlow/pkg/psqlbuilder"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS orders (
    id               TEXT PRIMARY KEY,
    customer_id      TEXT NOT NULL,
    vehicle_id       TEXT NOT NULL,
    address_id       TEXT NOT NULL,
    services         JSONB NOT NULL,
    service_date     DATE NOT NULL,
    service_time     TEXT NOT NULL,
    duration_minutes INTEGER NOT NULL,
    total_amount     NUMERIC(12, 2) NOT NULL,
    travel_fee       NUMERIC(12, 2) NOT NULL,
    grand_total      NUMERIC(12, 2) NOT NULL,
    currency         TEXT NOT NULL,
    state            TEXT NOT NULL,
    payment_id       TEXT,
    cancelled_at     TIMESTAMPTZ,
    created_at       TIMESTAMPTZ NOT NULL,
    updated_at       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders (customer_id, vehicle_id);
CREATE INDEX IF NOT EXISTS idx_orders_date ON orders (service_date, state);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS orders (
    id               TEXT PRIMARY KEY,
    customer_id      TEXT NOT NULL,
    vehicle_id       TEXT NOT NULL,
    address_id       TEXT NOT NULL,
    services         TEXT NOT NULL,
    service_date     TEXT NOT NULL,
    service_time     TEXT NOT NULL,
    duration_minutes INTEGER NOT NULL,
    total_amount     TEXT NOT NULL,
    travel_fee       TEXT NOT NULL,
    grand_total      TEXT NOT NULL,
    currency         TEXT NOT NULL,
    state            TEXT NOT NULL,
    payment_id       TEXT,
    cancelled_at     DATETIME,
    created_at       DATETIME NOT NULL,
    updated_at       DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders (customer_id, vehicle_id);
CREATE INDEX IF NOT EXISTS idx_orders_date ON orders (service_date, state);
`

// Migrate создает таблицу заказов, если ее нет
func Migrate(ctx context.Context, db DBExecutor, dialect psqlbuilder.Dialect) error {
	schema := postgresSchema
	if dialect == psqlbuilder.DialectSQLite {
		schema = sqliteSchema
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: Migrate - create orders table: %v", ErrExecQuery, err)
	}
	return nil
}
