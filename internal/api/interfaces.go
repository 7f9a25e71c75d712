package api

import (
	"context"

	"github.com/neexbeast/hajj-compare/internal/catalog"
	"github.com/neexbeast/hajj-compare/internal/scoring"
)

// Store defines the storage operations needed by handlers.
type Store interface {
	ReplacePreloaded(ctx context.Context, pkgs []catalog.Package) error
	InsertUserPackage(ctx context.Context, p catalog.Package) error
	DeleteUserPackage(ctx context.Context, id string) error
	UpsertOverride(ctx context.Context, p catalog.Package) error
	DeleteOverride(ctx context.Context, id string) error

	ListFavorites(ctx context.Context) ([]string, error)
	AddFavorite(ctx context.Context, id string) error
	RemoveFavorite(ctx context.Context, id string) error

	GetPreferences(ctx context.Context) (*scoring.Preferences, error)
	SavePreferences(ctx context.Context, prefs scoring.Preferences) error
}

// CatalogCache defines the snapshot cache operations needed by handlers.
// Get reports the cache generation it looked at; Set stores a snapshot
// for that generation and Invalidate starts a new one.
type CatalogCache interface {
	Get(ctx context.Context) ([]catalog.Package, int64, error)
	Set(ctx context.Context, version int64, pkgs []catalog.Package) error
	Invalidate(ctx context.Context) error
}

// CatalogSource assembles the merged catalog on a cache miss.
type CatalogSource interface {
	Snapshot(ctx context.Context) ([]catalog.Package, error)
}

type dbPinger interface {
	Ping(ctx context.Context) error
}

type redisPinger interface {
	Ping(ctx context.Context) error
}
