package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"calidad/internal/config"
)

// Database wraps the sql connection pool.
type Database struct {
	*sql.DB
}

func Connect(cfg config.DatabaseConfig) (*Database, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{DB: db}, nil
}

func (d *Database) HealthCheck(ctx context.Context) error {
	return d.PingContext(ctx)
}
