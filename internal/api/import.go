package api

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/neexbeast/hajj-compare/internal/ingest"
	"github.com/neexbeast/hajj-compare/internal/metrics"
)

type importReport struct {
	Accepted   int                `json:"accepted"`
	Rejected   int                `json:"rejected"`
	Rejections []ingest.Rejection `json:"rejections"`
}

// ImportCatalog handles POST /api/v1/catalog/import. The body is a CSV export,
// or a JSON array when the content type says so. Accepted records replace the
// preloaded catalog; an import with nothing valid leaves it untouched.
func (h *Handlers) ImportCatalog(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, maxImportBytes)
	if err != nil {
		status := http.StatusBadRequest
		if errors.As(err, new(*http.MaxBytesError)) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, err.Error())
		return
	}

	parse := ingest.ParseCSV
	if strings.Contains(r.Header.Get("Content-Type"), "json") {
		parse = ingest.ParseJSON
	}

	res, err := parse(bytes.NewReader(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	metrics.RecordIngest(res.Accepted(), len(res.Rejections))

	report := importReport{
		Accepted:   res.Accepted(),
		Rejected:   len(res.Rejections),
		Rejections: res.Rejections,
	}

	if res.Accepted() == 0 {
		writeJSON(w, http.StatusUnprocessableEntity, report)
		return
	}

	if err := h.store.ReplacePreloaded(r.Context(), res.Packages); err != nil {
		h.log.Error("replace preloaded catalog failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to store catalog")
		return
	}
	h.invalidate(r.Context())

	h.log.Info("catalog imported", "accepted", report.Accepted, "rejected", report.Rejected)
	writeJSON(w, http.StatusOK, report)
}
