package repository

import (
	"context"
	"fmt"

	"placemark-api/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements gazetteer lookups against PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// SearchByText finds gazetteer entries whose name or address contains the
// query text. Results are capped and ordered by insertion id so repeated
// lookups stay deterministic.
func (r *Repository) SearchByText(ctx context.Context, query string) ([]models.GazetteerEntry, error) {
	sql := `
		SELECT
			id,
			name,
			address,
			lat,
			lon
		FROM gazetteer
		WHERE name ILIKE '%' || $1 || '%'
		   OR address ILIKE '%' || $1 || '%'
		ORDER BY id
		LIMIT 10
	`

	rows, err := r.db.Query(ctx, sql, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute search query: %w", err)
	}
	defer rows.Close()

	var entries []models.GazetteerEntry
	for rows.Next() {
		var e models.GazetteerEntry
		err := rows.Scan(
			&e.ID,
			&e.Name,
			&e.Address,
			&e.Latitude,
			&e.Longitude,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return entries, nil
}
