package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sauce_product (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		price       NUMERIC(10,2) NOT NULL,
		image       TEXT,
		spicy_level INT NOT NULL DEFAULT 0,
		category    TEXT,
		pairings    TEXT[] NOT NULL DEFAULT '{}',
		position    INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            SERIAL PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		first_name    TEXT,
		last_name     TEXT,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id               TEXT PRIMARY KEY,
		user_email       TEXT NOT NULL,
		items            JSONB NOT NULL DEFAULT '[]',
		quantity         INT NOT NULL DEFAULT 0,
		subtotal         NUMERIC(10,2) NOT NULL DEFAULT 0,
		shipping         NUMERIC(10,2) NOT NULL DEFAULT 0,
		total            NUMERIC(10,2) NOT NULL DEFAULT 0,
		shipping_address TEXT NOT NULL,
		payment_method   TEXT NOT NULL,
		status           TEXT NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS orders_user_email_idx ON orders (user_email, created_at DESC)`,
}

// openDB connects with the pgx driver and applies the schema.
func openDB(ctx context.Context, dbURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
