package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"placemark-api/internal/models"

	_ "modernc.org/sqlite"
)

// SQLiteGeocodeCache is a SQLite-backed read-through cache mapping address
// text to previously resolved coordinates. It keeps repeated lookups for the
// same address off the gazetteer database.
type SQLiteGeocodeCache struct {
	db *sql.DB
}

// Open initializes the cache database, creating directories as needed.
func Open(path string) (*SQLiteGeocodeCache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)

	return &SQLiteGeocodeCache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *SQLiteGeocodeCache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Init ensures the cache table exists.
func (c *SQLiteGeocodeCache) Init(ctx context.Context) error {
	stmt := `CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT NOT NULL,
		position INTEGER NOT NULL,
		lat REAL NOT NULL,
		lon REAL NOT NULL,
		PRIMARY KEY (address, position)
	);`

	if _, err := c.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("init geocode cache schema: %w", err)
	}
	return nil
}

// Get fetches cached coordinates for the given address. The second return
// value reports whether the address has a cached result. Empty result sets
// are never cached, so addresses added to the gazetteer later are found.
func (c *SQLiteGeocodeCache) Get(ctx context.Context, address string) ([]models.Coordinate, bool, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, false, nil
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT lat, lon FROM geocode_cache WHERE address = ? ORDER BY position`,
		address,
	)
	if err != nil {
		return nil, false, fmt.Errorf("get geocode cache: query: %w", err)
	}
	defer rows.Close()

	var coords []models.Coordinate
	hit := false
	for rows.Next() {
		var lat, lon float64
		if err := rows.Scan(&lat, &lon); err != nil {
			return nil, false, fmt.Errorf("get geocode cache: scan: %w", err)
		}
		hit = true
		coords = append(coords, models.Coordinate{Latitude: lat, Longitude: lon})
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("get geocode cache: row iteration: %w", err)
	}

	return coords, hit, nil
}

// Put stores the resolved coordinates for an address, replacing any earlier
// entry for the same address.
func (c *SQLiteGeocodeCache) Put(ctx context.Context, address string, coords []models.Coordinate) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return fmt.Errorf("put geocode cache: empty address key")
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("put geocode cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM geocode_cache WHERE address = ?`, address); err != nil {
		return fmt.Errorf("put geocode cache: clear previous entry: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO geocode_cache (address, position, lat, lon) VALUES (?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("put geocode cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for i, coord := range coords {
		if _, err := stmt.ExecContext(ctx, address, i, coord.Latitude, coord.Longitude); err != nil {
			return fmt.Errorf("put geocode cache addr=%q: %w", address, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("put geocode cache: commit: %w", err)
	}

	return nil
}
