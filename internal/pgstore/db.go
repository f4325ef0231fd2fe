// Package pgstore is the PostgreSQL backend: catalog tables, similarity
// rows, the user event log and the pgvector recipe index.
package pgstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvector "github.com/pgvector/pgvector-go/pgx"
)

// DB is the subset of *pgxpool.Pool the store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// PoolConfig holds tunable parameters for the connection pool.
type PoolConfig struct {
	MaxConns int
	MinConns int
}

// NewPool opens a pool with pgvector types registered on every connection.
func NewPool(ctx context.Context, dsn string, cfg PoolConfig) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing dsn: %w", err)
	}

	config.MaxConns = 10
	if cfg.MaxConns > 0 {
		config.MaxConns = int32(cfg.MaxConns)
	}
	config.MinConns = 1
	if cfg.MinConns > 0 {
		config.MinConns = int32(cfg.MinConns)
	}
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return pool, nil
}

const schemaSQL = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS recipe (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	inputrecipe TEXT,
	imgurl      TEXT,
	portnum     INTEGER,
	style       TEXT,
	instruction TEXT,
	ingredient  TEXT,
	category    TEXT,
	time        TEXT
);

CREATE TABLE IF NOT EXISTS product (
	id       TEXT PRIMARY KEY,
	domain   TEXT,
	division TEXT,
	category TEXT,
	name     TEXT NOT NULL,
	brand    TEXT,
	weight   DOUBLE PRECISION,
	unit     TEXT,
	price    INTEGER,
	image    TEXT
);

CREATE TABLE IF NOT EXISTS similarity (
	usernum       INTEGER NOT NULL,
	id            TEXT NOT NULL,
	name          TEXT,
	similarity    DOUBLE PRECISION NOT NULL,
	exception     BOOLEAN NOT NULL DEFAULT FALSE,
	partitiondate TEXT
);
CREATE INDEX IF NOT EXISTS similarity_usernum_idx ON similarity (usernum);

CREATE TABLE IF NOT EXISTS user_logs (
	usernum       INTEGER NOT NULL,
	logtype       TEXT NOT NULL,
	timestamp     TIMESTAMPTZ NOT NULL,
	parameter     JSONB,
	ostype        TEXT,
	partitiondate TEXT
);
`

// EnsureSchema creates the tables and the embedding table with dims
// dimensions if they do not exist yet.
func EnsureSchema(ctx context.Context, db DB, dims int) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	embeddings := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS recipe_embedding (
	recipe_id TEXT PRIMARY KEY REFERENCES recipe (id) ON DELETE CASCADE,
	model     TEXT NOT NULL,
	embedding vector(%d) NOT NULL
)`, dims)
	if _, err := db.Exec(ctx, embeddings); err != nil {
		return fmt.Errorf("creating embedding table: %w", err)
	}
	return nil
}
