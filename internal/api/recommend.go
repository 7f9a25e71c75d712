package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/neexbeast/hajj-compare/internal/catalog"
	"github.com/neexbeast/hajj-compare/internal/metrics"
	"github.com/neexbeast/hajj-compare/internal/scoring"
	"github.com/neexbeast/hajj-compare/internal/validation"
)

type recommendResponse struct {
	Preferences     scoring.Preferences      `json:"preferences"`
	Recommendations []scoring.Recommendation `json:"recommendations"`
	Stats           scoring.Stats            `json:"stats"`
}

// Recommend handles POST /api/v1/recommendations.
// The body is a Preferences object; an empty body ranks with the saved
// preferences, or with none when nothing is saved.
func (h *Handlers) Recommend(w http.ResponseWriter, r *http.Request) {
	var prefs scoring.Preferences
	useSaved := false
	if err := decodeJSON(w, r, &prefs); err != nil {
		if !errors.Is(err, errEmptyBody) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		useSaved = true
	}
	if !useSaved {
		if err := validation.Struct(prefs); err != nil {
			writeValidation(w, err)
			return
		}
	}

	g, gCtx := errgroup.WithContext(r.Context())

	var pkgs []catalog.Package
	g.Go(func() error {
		var err error
		pkgs, err = h.catalog(gCtx)
		return err
	})

	if useSaved {
		g.Go(func() error {
			saved, err := h.store.GetPreferences(gCtx)
			if err != nil {
				return fmt.Errorf("loading saved preferences: %w", err)
			}
			if saved != nil {
				prefs = *saved
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		h.log.Error("recommendation inputs failed to load", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	start := time.Now()
	recs, stats, err := h.engine.Evaluate(pkgs, prefs)
	if err != nil {
		h.log.Error("ranking failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	metrics.RecordRecommendation(time.Since(start), stats.ExcludedUnpriced, stats.ExcludedOccupancy)

	h.log.Debug("recommendations ranked",
		"candidates", stats.Candidates,
		"scored", stats.Scored,
		"returned", len(recs),
		"saved_preferences", useSaved,
	)

	writeJSON(w, http.StatusOK, recommendResponse{
		Preferences:     prefs,
		Recommendations: recs,
		Stats:           stats,
	})
}
