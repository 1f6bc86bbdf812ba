package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS cities (
		id         TEXT PRIMARY KEY,
		country    TEXT NOT NULL,
		name       TEXT NOT NULL,
		is_public  BOOLEAN NOT NULL DEFAULT FALSE,
		UNIQUE (country, name)
	)`,
	`CREATE TABLE IF NOT EXISTS spots (
		id         TEXT PRIMARY KEY,
		city_id    TEXT NOT NULL REFERENCES cities(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		price      DOUBLE PRECISION NOT NULL DEFAULT 0,
		is_public  BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS hotels (
		id         TEXT PRIMARY KEY,
		city_id    TEXT NOT NULL REFERENCES cities(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		room_type  TEXT NOT NULL DEFAULT '',
		price      DOUBLE PRECISION NOT NULL DEFAULT 0,
		is_public  BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS activities (
		id         TEXT PRIMARY KEY,
		city_id    TEXT NOT NULL REFERENCES cities(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		price      DOUBLE PRECISION NOT NULL DEFAULT 0,
		is_public  BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS transport_rates (
		id           TEXT PRIMARY KEY,
		region       TEXT NOT NULL,
		car_model    TEXT NOT NULL,
		service_type TEXT NOT NULL DEFAULT '',
		passengers   INTEGER NOT NULL DEFAULT 0,
		price_low    DOUBLE PRECISION NOT NULL DEFAULT 0,
		price_high   DOUBLE PRECISION NOT NULL DEFAULT 0,
		is_public    BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS saved_trips (
		id               TEXT PRIMARY KEY,
		scope            TEXT NOT NULL DEFAULT 'private',
		name             TEXT NOT NULL,
		saved_at         TIMESTAMPTZ NOT NULL,
		payload          JSONB NOT NULL,
		created_by       TEXT NOT NULL DEFAULT '',
		last_modified_by TEXT NOT NULL DEFAULT '',
		UNIQUE (scope, name)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_spots_city ON spots(city_id)`,
	`CREATE INDEX IF NOT EXISTS idx_hotels_city ON hotels(city_id)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_city ON activities(city_id)`,
	`CREATE INDEX IF NOT EXISTS idx_transport_region ON transport_rates(region)`,
}

// EnsureSchema creates the tables the service needs if they are missing.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
