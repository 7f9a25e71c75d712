package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neexbeast/hajj-compare/internal/catalog"
)

// ErrNotFound is returned when a write targets a record that does not exist.
var ErrNotFound = errors.New("record not found")

// Querier abstracts the subset of pgxpool.Pool used by Repository.
// This allows injection of a mock in tests.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository provides database access for packages, overrides, favorites
// and saved preferences.
type Repository struct {
	q Querier
}

// NewRepository constructs a Repository backed by the given pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{q: pool}
}

// NewRepositoryWithQuerier constructs a Repository with a custom Querier (for tests).
func NewRepositoryWithQuerier(q Querier) *Repository {
	return &Repository{q: q}
}

// ListPackages returns the packages of one source in insertion order.
func (r *Repository) ListPackages(ctx context.Context, source string) ([]catalog.Package, error) {
	const q = `
		SELECT id, data
		FROM packages
		WHERE source = $1
		ORDER BY position, id
	`

	rows, err := r.q.Query(ctx, q, source)
	if err != nil {
		return nil, fmt.Errorf("querying %s packages: %w", source, err)
	}
	defer rows.Close()

	pkgs := []catalog.Package{}
	for rows.Next() {
		var id string
		var dataJSON []byte
		if err := rows.Scan(&id, &dataJSON); err != nil {
			return nil, fmt.Errorf("scanning package row: %w", err)
		}

		var p catalog.Package
		if err := json.Unmarshal(dataJSON, &p); err != nil {
			return nil, fmt.Errorf("unmarshaling package %s: %w", id, err)
		}
		p.ID = id
		pkgs = append(pkgs, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating package rows: %w", err)
	}

	return pkgs, nil
}

// ReplacePreloaded swaps the whole preloaded catalog for pkgs in a single
// transaction. User-added packages are left untouched.
func (r *Repository) ReplacePreloaded(ctx context.Context, pkgs []catalog.Package) error {
	const del = `DELETE FROM packages WHERE source = 'preloaded'`
	const ins = `
		INSERT INTO packages (id, source, position, data, updated_at)
		VALUES ($1, 'preloaded', $2, $3, NOW())
	`

	tx, err := r.q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning preloaded replace: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, del); err != nil {
		return fmt.Errorf("clearing preloaded packages: %w", err)
	}

	for i, p := range pkgs {
		dataJSON, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshaling package %s: %w", p.ID, err)
		}
		if _, err := tx.Exec(ctx, ins, p.ID, i, dataJSON); err != nil {
			return fmt.Errorf("inserting preloaded package %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing preloaded replace: %w", err)
	}
	return nil
}

// InsertUserPackage appends a user-added package after the existing ones.
func (r *Repository) InsertUserPackage(ctx context.Context, p catalog.Package) error {
	dataJSON, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling package %s: %w", p.ID, err)
	}

	const q = `
		INSERT INTO packages (id, source, position, data)
		SELECT $1, 'user', COALESCE(MAX(position), -1) + 1, $2
		FROM packages
		WHERE source = 'user'
	`

	if _, err := r.q.Exec(ctx, q, p.ID, dataJSON); err != nil {
		return fmt.Errorf("inserting user package %s: %w", p.ID, err)
	}
	return nil
}

// DeleteUserPackage removes a user-added package together with its override
// and favorite. Preloaded packages cannot be deleted; both cases return
// ErrNotFound.
func (r *Repository) DeleteUserPackage(ctx context.Context, id string) error {
	const q = `
		WITH gone AS (
			DELETE FROM packages WHERE id = $1 AND source = 'user' RETURNING id
		), overrides AS (
			DELETE FROM package_overrides WHERE package_id IN (SELECT id FROM gone)
		), favs AS (
			DELETE FROM favorites WHERE package_id IN (SELECT id FROM gone)
		)
		SELECT COUNT(*) FROM gone
	`

	var n int
	if err := r.q.QueryRow(ctx, q, id).Scan(&n); err != nil {
		return fmt.Errorf("deleting user package %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("user package %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListOverrides returns every stored override keyed by the package it replaces.
func (r *Repository) ListOverrides(ctx context.Context) (map[string]catalog.Package, error) {
	const q = `SELECT package_id, data FROM package_overrides`

	rows, err := r.q.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying overrides: %w", err)
	}
	defer rows.Close()

	overrides := make(map[string]catalog.Package)
	for rows.Next() {
		var id string
		var dataJSON []byte
		if err := rows.Scan(&id, &dataJSON); err != nil {
			return nil, fmt.Errorf("scanning override row: %w", err)
		}

		var p catalog.Package
		if err := json.Unmarshal(dataJSON, &p); err != nil {
			return nil, fmt.Errorf("unmarshaling override %s: %w", id, err)
		}
		p.ID = id
		overrides[id] = p
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating override rows: %w", err)
	}

	return overrides, nil
}

// UpsertOverride stores an edited copy of package p.ID.
// On conflict (package_id), replaces the stored data.
func (r *Repository) UpsertOverride(ctx context.Context, p catalog.Package) error {
	dataJSON, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling override %s: %w", p.ID, err)
	}

	const q = `
		INSERT INTO package_overrides (package_id, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (package_id) DO UPDATE
		SET data       = EXCLUDED.data,
		    updated_at = EXCLUDED.updated_at
	`

	if _, err := r.q.Exec(ctx, q, p.ID, dataJSON); err != nil {
		return fmt.Errorf("upserting override %s: %w", p.ID, err)
	}
	return nil
}

// DeleteOverride reverts package id to its stored form.
func (r *Repository) DeleteOverride(ctx context.Context, id string) error {
	const q = `DELETE FROM package_overrides WHERE package_id = $1`

	tag, err := r.q.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("deleting override %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("override %s: %w", id, ErrNotFound)
	}
	return nil
}
