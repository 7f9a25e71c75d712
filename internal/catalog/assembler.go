package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Source is the persistence surface the Assembler reads from.
// *storage.Repository satisfies this interface.
type Source interface {
	ListPackages(ctx context.Context, source string) ([]Package, error)
	ListOverrides(ctx context.Context) (map[string]Package, error)
}

// Source names used by the persistence layer.
const (
	SourcePreloaded = "preloaded"
	SourceUser      = "user"
)

// Assembler builds the merged catalog snapshot from its stored parts.
type Assembler struct {
	src Source
	log *slog.Logger
}

// NewAssembler constructs an Assembler over src.
func NewAssembler(src Source, log *slog.Logger) *Assembler {
	return &Assembler{src: src, log: log}
}

// Snapshot loads preloaded packages, user-added packages and overrides in
// parallel and merges them. Any failing load fails the snapshot, since a
// partial catalog would silently drop or un-edit records.
func (a *Assembler) Snapshot(ctx context.Context) ([]Package, error) {
	g, gCtx := errgroup.WithContext(ctx)

	var preloaded, userAdded []Package
	var overrides map[string]Package

	g.Go(func() (err error) {
		defer a.recoverInto("preloaded load", &err)
		preloaded, err = a.src.ListPackages(gCtx, SourcePreloaded)
		if err != nil {
			return fmt.Errorf("loading preloaded packages: %w", err)
		}
		return nil
	})

	g.Go(func() (err error) {
		defer a.recoverInto("user package load", &err)
		userAdded, err = a.src.ListPackages(gCtx, SourceUser)
		if err != nil {
			return fmt.Errorf("loading user packages: %w", err)
		}
		return nil
	})

	g.Go(func() (err error) {
		defer a.recoverInto("override load", &err)
		overrides, err = a.src.ListOverrides(gCtx)
		if err != nil {
			return fmt.Errorf("loading overrides: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("assembling catalog snapshot: %w", err)
	}

	merged := Merge(preloaded, userAdded, overrides)
	a.log.Debug("catalog snapshot assembled",
		"preloaded", len(preloaded),
		"user", len(userAdded),
		"overrides", len(overrides),
		"total", len(merged),
	)
	return merged, nil
}

func (a *Assembler) recoverInto(op string, err *error) {
	if r := recover(); r != nil {
		a.log.Error(op+" panicked", "recover", r)
		*err = fmt.Errorf("%s panicked: %v", op, r)
	}
}
