package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/neexbeast/hajj-compare/internal/catalog"
	"github.com/neexbeast/hajj-compare/internal/scoring"
	"github.com/neexbeast/hajj-compare/internal/validation"
)

// ListFavorites handles GET /api/v1/favorites. Favorites that no longer
// resolve to a catalog package are listed in ids but not in packages.
func (h *Handlers) ListFavorites(w http.ResponseWriter, r *http.Request) {
	ids, err := h.store.ListFavorites(r.Context())
	if err != nil {
		h.log.Error("list favorites failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkgs, ok := h.loadCatalog(w, r)
	if !ok {
		return
	}

	favs := make([]catalog.Package, 0, len(ids))
	for _, id := range ids {
		if p, found := catalog.Find(pkgs, id); found {
			favs = append(favs, p)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ids":      ids,
		"packages": favs,
	})
}

// AddFavorite handles PUT /api/v1/favorites/{id}.
func (h *Handlers) AddFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	pkgs, ok := h.loadCatalog(w, r)
	if !ok {
		return
	}
	if _, found := catalog.Find(pkgs, id); !found {
		writeError(w, http.StatusNotFound, "package not found")
		return
	}

	if err := h.store.AddFavorite(r.Context(), id); err != nil {
		h.log.Error("add favorite failed", "package_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to store favorite")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveFavorite handles DELETE /api/v1/favorites/{id}.
func (h *Handlers) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.RemoveFavorite(r.Context(), id); err != nil {
		h.log.Error("remove favorite failed", "package_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to remove favorite")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetPreferences handles GET /api/v1/preferences. Nothing saved yet returns
// empty preferences.
func (h *Handlers) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.store.GetPreferences(r.Context())
	if err != nil {
		h.log.Error("get preferences failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if prefs == nil {
		prefs = &scoring.Preferences{}
	}

	writeJSON(w, http.StatusOK, prefs)
}

// PutPreferences handles PUT /api/v1/preferences.
func (h *Handlers) PutPreferences(w http.ResponseWriter, r *http.Request) {
	var prefs scoring.Preferences
	if err := decodeJSON(w, r, &prefs); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.Struct(prefs); err != nil {
		writeValidation(w, err)
		return
	}

	if err := h.store.SavePreferences(r.Context(), prefs); err != nil {
		h.log.Error("save preferences failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to save preferences")
		return
	}

	writeJSON(w, http.StatusOK, prefs)
}
