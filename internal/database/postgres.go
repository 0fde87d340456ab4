package database

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

// ConfigFromEnv reads connection settings from METRICS_DB_* variables.
func ConfigFromEnv() Config {
	cfg := Config{
		Host:     os.Getenv("METRICS_DB_HOST"),
		Port:     os.Getenv("METRICS_DB_PORT"),
		User:     os.Getenv("METRICS_DB_USER"),
		Password: os.Getenv("METRICS_DB_PASSWORD"),
		Database: os.Getenv("METRICS_DB_NAME"),
		SSLMode:  os.Getenv("METRICS_DB_SSLMODE"),
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == "" {
		cfg.Port = "5432"
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}
	return cfg
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s", c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

type DB struct {
	Pool *pgxpool.Pool
}

// New opens a pool and verifies the connection before handing it out.
func New(ctx context.Context, config Config) (*DB, error) {
	pgPool, err := pgxpool.New(ctx, config.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("Failed to connect to database, Error: %w", err)
	}

	if err := pgPool.Ping(ctx); err != nil {
		pgPool.Close()
		return nil, fmt.Errorf("Failed to ping database, Error: %w", err)
	}

	return &DB{
		Pool: pgPool,
	}, nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

func (db *DB) Close() {
	db.Pool.Close()
}
