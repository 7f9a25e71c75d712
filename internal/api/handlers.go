package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/neexbeast/hajj-compare/internal/catalog"
	"github.com/neexbeast/hajj-compare/internal/metrics"
	"github.com/neexbeast/hajj-compare/internal/scoring"
	"github.com/neexbeast/hajj-compare/internal/validation"
)

const maxBodyBytes = 1 << 20

// maxImportBytes bounds a CSV upload.
const maxImportBytes = 8 << 20

var errEmptyBody = errors.New("request body is empty")

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	store  Store
	cache  CatalogCache
	source CatalogSource
	engine *scoring.Engine
	log    *slog.Logger
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(store Store, cache CatalogCache, source CatalogSource, engine *scoring.Engine, log *slog.Logger) *Handlers {
	return &Handlers{
		store:  store,
		cache:  cache,
		source: source,
		engine: engine,
		log:    log,
	}
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeValidation reports field-level problems with 422.
func writeValidation(w http.ResponseWriter, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
		return
	}
	writeError(w, http.StatusUnprocessableEntity, err.Error())
}

// readBody returns the request body, capped at limit bytes.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}
	return body, nil
}

// decodeJSON reads a JSON body into v. An empty body yields errEmptyBody.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := readBody(w, r, maxBodyBytes)
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return errEmptyBody
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}
	return nil
}

// catalog returns the merged snapshot, from cache when possible. A snapshot
// assembled after a miss is stored under the generation seen before
// assembly, so a write that invalidates in between is never masked.
func (h *Handlers) catalog(ctx context.Context) ([]catalog.Package, error) {
	cached, version, cacheErr := h.cache.Get(ctx)
	switch {
	case cacheErr != nil:
		metrics.RecordCacheLookup(metrics.CacheError)
		h.log.Error("catalog cache get failed", "err", cacheErr)
	case cached != nil:
		metrics.RecordCacheLookup(metrics.CacheHit)
		return cached, nil
	default:
		metrics.RecordCacheLookup(metrics.CacheMiss)
	}

	pkgs, err := h.source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	if cacheErr != nil {
		return pkgs, nil
	}
	if err := h.cache.Set(ctx, version, pkgs); err != nil {
		h.log.Warn("catalog cache set failed after assembly", "err", err)
	}
	return pkgs, nil
}

// invalidate moves the cache past the current snapshot after a catalog write.
func (h *Handlers) invalidate(ctx context.Context) {
	if err := h.cache.Invalidate(ctx); err != nil {
		h.log.Warn("catalog cache invalidate failed", "err", err)
	}
}

// loadCatalog writes a 500 and returns false when the snapshot cannot be loaded.
func (h *Handlers) loadCatalog(w http.ResponseWriter, r *http.Request) ([]catalog.Package, bool) {
	pkgs, err := h.catalog(r.Context())
	if err != nil {
		h.log.Error("catalog load failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	return pkgs, true
}

// HealthHandlerFunc returns an http.HandlerFunc that checks db and redis connectivity.
// Pings DB and Redis; returns 200 if both ok, 503 otherwise.
func HealthHandlerFunc(db dbPinger, redis redisPinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		overall := "ok"
		dbStatus := "ok"
		redisStatus := "ok"

		if err := db.Ping(ctx); err != nil {
			log.Error("health check: db ping failed", "err", err)
			dbStatus = "error"
		}

		if err := redis.Ping(ctx); err != nil {
			log.Error("health check: redis ping failed", "err", err)
			redisStatus = "error"
		}

		if dbStatus != "ok" || redisStatus != "ok" {
			status = http.StatusServiceUnavailable
			overall = "degraded"
		}

		writeJSON(w, status, map[string]string{
			"status": overall,
			"db":     dbStatus,
			"redis":  redisStatus,
		})
	}
}
