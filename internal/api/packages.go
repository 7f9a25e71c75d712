package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/neexbeast/hajj-compare/internal/catalog"
	"github.com/neexbeast/hajj-compare/internal/ingest"
	"github.com/neexbeast/hajj-compare/internal/scoring"
	"github.com/neexbeast/hajj-compare/internal/storage"
)

// maxCompare caps how many packages one comparison may request.
const maxCompare = 10

// packageView is one row of the package listing.
type packageView struct {
	catalog.Package
	Occupancy catalog.Occupancy `json:"occupancy"`
	Price     *float64          `json:"price_per_person"`
	Favorite  bool              `json:"favorite"`
}

// packageDetail is a package with its full price table and value score.
type packageDetail struct {
	Package catalog.Package                `json:"package"`
	Prices  map[catalog.Occupancy]*float64 `json:"prices"`
	Value   float64                        `json:"value_score"`
}

func (h *Handlers) detail(p catalog.Package) packageDetail {
	return packageDetail{
		Package: p,
		Prices:  h.engine.Pricer().Prices(p),
		Value:   scoring.Value(p),
	}
}

// favoriteSet loads favorites as a set. Failures degrade to an empty set.
func (h *Handlers) favoriteSet(r *http.Request) map[string]bool {
	ids, err := h.store.ListFavorites(r.Context())
	if err != nil {
		h.log.Warn("favorites load failed", "err", err)
		return map[string]bool{}
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// ListPackages handles GET /api/v1/packages.
func (h *Handlers) ListPackages(w http.ResponseWriter, r *http.Request) {
	f, err := parseListFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pkgs, ok := h.loadCatalog(w, r)
	if !ok {
		return
	}
	favs := h.favoriteSet(r)

	views := make([]packageView, 0, len(pkgs))
	for _, p := range pkgs {
		v := packageView{Package: p, Occupancy: f.occupancy, Favorite: favs[p.ID]}
		if price, ok := h.engine.Pricer().Price(p, f.occupancy); ok {
			v.Price = &price
		}
		if f.keep(v) {
			views = append(views, v)
		}
	}
	f.order(views)

	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(views),
		"packages": views,
	})
}

// GetPackage handles GET /api/v1/packages/{id}.
func (h *Handlers) GetPackage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	pkgs, ok := h.loadCatalog(w, r)
	if !ok {
		return
	}
	p, found := catalog.Find(pkgs, id)
	if !found {
		writeError(w, http.StatusNotFound, "package not found")
		return
	}

	writeJSON(w, http.StatusOK, h.detail(p))
}

// GetPrices handles GET /api/v1/packages/{id}/prices.
// Unavailable tiers are reported as null.
func (h *Handlers) GetPrices(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	pkgs, ok := h.loadCatalog(w, r)
	if !ok {
		return
	}
	p, found := catalog.Find(pkgs, id)
	if !found {
		writeError(w, http.StatusNotFound, "package not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"package_id": p.ID,
		"prices":     h.engine.Pricer().Prices(p),
	})
}

// Compare handles GET /api/v1/compare?ids=a,b,c.
func (h *Handlers) Compare(w http.ResponseWriter, r *http.Request) {
	var ids []string
	seen := make(map[string]bool)
	for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		writeError(w, http.StatusBadRequest, "ids is required")
		return
	}
	if len(ids) > maxCompare {
		writeError(w, http.StatusBadRequest, "too many ids to compare")
		return
	}

	pkgs, ok := h.loadCatalog(w, r)
	if !ok {
		return
	}

	rows := make([]packageDetail, 0, len(ids))
	missing := []string{}
	for _, id := range ids {
		p, found := catalog.Find(pkgs, id)
		if !found {
			missing = append(missing, id)
			continue
		}
		rows = append(rows, h.detail(p))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"packages": rows,
		"missing":  missing,
	})
}

// decodePackage reads and checks a package record. It writes the error
// response itself and returns false on failure.
func decodePackage(w http.ResponseWriter, r *http.Request) (catalog.Package, bool) {
	var p catalog.Package
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return p, false
	}

	ingest.SortStays(p.Stays)
	if reasons := ingest.Check(p); len(reasons) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":   "validation failed",
			"reasons": reasons,
		})
		return p, false
	}
	return p, true
}

// CreatePackage handles POST /api/v1/packages. The record gets a fresh UUID.
func (h *Handlers) CreatePackage(w http.ResponseWriter, r *http.Request) {
	p, ok := decodePackage(w, r)
	if !ok {
		return
	}
	p.ID = uuid.NewString()

	if err := h.store.InsertUserPackage(r.Context(), p); err != nil {
		h.log.Error("insert user package failed", "package_id", p.ID, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to store package")
		return
	}
	h.invalidate(r.Context())

	h.log.Info("user package added", "package_id", p.ID, "provider", p.Provider)
	writeJSON(w, http.StatusCreated, p)
}

// DeletePackage handles DELETE /api/v1/packages/{id}. Only user-added
// packages can be deleted.
func (h *Handlers) DeletePackage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteUserPackage(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user-added package not found")
			return
		}
		h.log.Error("delete user package failed", "package_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to delete package")
		return
	}
	h.invalidate(r.Context())

	w.WriteHeader(http.StatusNoContent)
}

// PutOverride handles PUT /api/v1/packages/{id}/override. The body is the
// full edited record; its ID is forced to the path ID.
func (h *Handlers) PutOverride(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	pkgs, ok := h.loadCatalog(w, r)
	if !ok {
		return
	}
	if _, found := catalog.Find(pkgs, id); !found {
		writeError(w, http.StatusNotFound, "package not found")
		return
	}

	p, ok := decodePackage(w, r)
	if !ok {
		return
	}
	p.ID = id

	if err := h.store.UpsertOverride(r.Context(), p); err != nil {
		h.log.Error("upsert override failed", "package_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to store override")
		return
	}
	h.invalidate(r.Context())

	writeJSON(w, http.StatusOK, p)
}

// DeleteOverride handles DELETE /api/v1/packages/{id}/override.
func (h *Handlers) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteOverride(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "override not found")
			return
		}
		h.log.Error("delete override failed", "package_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to delete override")
		return
	}
	h.invalidate(r.Context())

	w.WriteHeader(http.StatusNoContent)
}
