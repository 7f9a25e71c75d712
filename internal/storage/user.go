package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"

	"github.com/neexbeast/hajj-compare/internal/scoring"
)

// ListFavorites returns favorited package IDs, oldest first.
func (r *Repository) ListFavorites(ctx context.Context) ([]string, error) {
	const q = `SELECT package_id FROM favorites ORDER BY created_at, package_id`

	rows, err := r.q.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying favorites: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning favorite row: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating favorite rows: %w", err)
	}

	return ids, nil
}

// AddFavorite marks a package as favorite. Adding twice is a no-op.
func (r *Repository) AddFavorite(ctx context.Context, id string) error {
	const q = `
		INSERT INTO favorites (package_id)
		VALUES ($1)
		ON CONFLICT (package_id) DO NOTHING
	`

	if _, err := r.q.Exec(ctx, q, id); err != nil {
		return fmt.Errorf("adding favorite %s: %w", id, err)
	}
	return nil
}

// RemoveFavorite unmarks a package. Removing an absent favorite is a no-op.
func (r *Repository) RemoveFavorite(ctx context.Context, id string) error {
	const q = `DELETE FROM favorites WHERE package_id = $1`

	if _, err := r.q.Exec(ctx, q, id); err != nil {
		return fmt.Errorf("removing favorite %s: %w", id, err)
	}
	return nil
}

// GetPreferences returns the saved preferences.
// Returns nil, nil when nothing has been saved yet.
func (r *Repository) GetPreferences(ctx context.Context) (*scoring.Preferences, error) {
	const q = `SELECT data FROM preferences WHERE id = 1`

	var dataJSON []byte
	if err := r.q.QueryRow(ctx, q).Scan(&dataJSON); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying preferences: %w", err)
	}

	var prefs scoring.Preferences
	if err := json.Unmarshal(dataJSON, &prefs); err != nil {
		return nil, fmt.Errorf("unmarshaling preferences: %w", err)
	}
	return &prefs, nil
}

// SavePreferences replaces the saved preferences.
func (r *Repository) SavePreferences(ctx context.Context, prefs scoring.Preferences) error {
	dataJSON, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshaling preferences: %w", err)
	}

	const q = `
		INSERT INTO preferences (id, data, updated_at)
		VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE
		SET data       = EXCLUDED.data,
		    updated_at = EXCLUDED.updated_at
	`

	if _, err := r.q.Exec(ctx, q, dataJSON); err != nil {
		return fmt.Errorf("saving preferences: %w", err)
	}
	return nil
}
