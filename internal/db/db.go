// Package db provides PostgreSQL mirroring of enriched product records.
// The database is optional; the JSON files under the output directory
// remain the source of truth.
package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/datacarts/barcode-enricher/internal/types"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// UpsertProduct mirrors an enriched record, replacing any previous row
// for the same barcode.
func (db *DB) UpsertProduct(ctx context.Context, runID string, record *types.ProductRecord) error {
	content, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal product %s: %w", record.Barcode, err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO products (barcode, run_id, product_name, brand, category, data_source, content)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (barcode) DO UPDATE
		 SET run_id = $2, product_name = $3, brand = $4, category = $5,
		     data_source = $6, content = $7, updated_at = NOW()`,
		record.Barcode, runID, record.ProductName, record.Brand,
		record.Category, record.DataSource, content,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert product %s: %w", record.Barcode, err)
	}
	return nil
}
