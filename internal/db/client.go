package db

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/tommy-mor/spare/internal/config"
	"github.com/tommy-mor/spare/internal/logging"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "github.com/mattn/go-sqlite3"    // register sqlite3 as a database/sql driver
)

type Client struct {
	drv     *entsql.Driver
	db      *sql.DB
	dialect string
	logger  logging.Logger
}

// NewClient opens the database selected by cfg.Driver.
func NewClient(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Client, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return Open(ctx, dialect.Postgres, cfg.Postgres.EffectiveDSN(), logger)
	case config.DriverSQLite:
		return Open(ctx, dialect.SQLite, cfg.SQLite.DSN, logger)
	default:
		return nil, fmt.Errorf("db: driver %q has no sql backend", cfg.Database.Driver)
	}
}

// Open creates an ent SQL driver backed by database/sql for the given
// ent dialect (dialect.Postgres or dialect.SQLite).
func Open(ctx context.Context, dialectName, dsn string, logger logging.Logger) (*Client, error) {
	driverName := dialectName
	if dialectName == dialect.Postgres {
		driverName = "pgx"
	}

	dbStd, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	// Verify connectivity
	if err := dbStd.PingContext(ctx); err != nil {
		_ = dbStd.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return &Client{
		drv:     entsql.OpenDB(dialectName, dbStd),
		db:      dbStd,
		dialect: dialectName,
		logger:  logger.With("component", "db_client", "dialect", dialectName),
	}, nil
}

// Driver returns the underlying ent SQL driver.
func (c *Client) Driver() *entsql.Driver {
	return c.drv
}

// Dialect returns the ent dialect name used to build queries.
func (c *Client) Dialect() string {
	return c.dialect
}

// Close closes the underlying DB pool.
func (c *Client) Close() error {
	return c.drv.Close()
}

// Ping is used by health checks.
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}
