package api_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/hajj-compare/internal/catalog"
	"github.com/neexbeast/hajj-compare/internal/scoring"
)

type recommendResponse struct {
	Preferences     scoring.Preferences      `json:"preferences"`
	Recommendations []scoring.Recommendation `json:"recommendations"`
	Stats           scoring.Stats            `json:"stats"`
}

func TestRecommend_WithBody(t *testing.T) {
	h := newHarness()
	h.store.getPreferencesFn = func(_ context.Context) (*scoring.Preferences, error) {
		t.Fatal("saved preferences should not be read when a body is sent")
		return nil, nil
	}

	w := h.do(t, http.MethodPost, "/api/v1/recommendations",
		`{"budget":{"amount":60000,"headcount":2},"camp":"premium"}`)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody[recommendResponse](t, w)
	require.Len(t, body.Recommendations, 3)
	assert.Equal(t, 3, body.Stats.Scored)

	top := body.Recommendations[0]
	assert.Equal(t, "rawda-silver-shifting", top.Package.ID)
	assert.Equal(t, catalog.OccupancyQuad, top.Occupancy)
	assert.InDelta(t, 31000+campSurcharge, top.Price, 1e-9)
	assert.Contains(t, top.Reasons, scoring.ReasonPremiumLimit)

	for i := 1; i < len(body.Recommendations); i++ {
		assert.GreaterOrEqual(t, body.Recommendations[i-1].Score, body.Recommendations[i].Score)
	}
}

func TestRecommend_EmptyBodyUsesSavedPreferences(t *testing.T) {
	h := newHarness()
	called := false
	h.store.getPreferencesFn = func(_ context.Context) (*scoring.Preferences, error) {
		called = true
		return &scoring.Preferences{Occupancy: catalog.OccupancyTriple}, nil
	}

	w := h.do(t, http.MethodPost, "/api/v1/recommendations", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
	body := decodeBody[recommendResponse](t, w)
	assert.Equal(t, catalog.OccupancyTriple, body.Preferences.Occupancy)
	require.Len(t, body.Recommendations, 1, "only one package offers triple")
	assert.Equal(t, "al-safwa-gold-14", body.Recommendations[0].Package.ID)
	assert.Equal(t, 26200.0, body.Recommendations[0].Price)
	assert.Equal(t, 2, body.Stats.ExcludedOccupancy)
}

func TestRecommend_EmptyBodyNothingSaved(t *testing.T) {
	h := newHarness()

	w := h.do(t, http.MethodPost, "/api/v1/recommendations", "  ")

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody[recommendResponse](t, w)
	assert.Len(t, body.Recommendations, 3)
}

func TestRecommend_EmptyCatalog(t *testing.T) {
	h := newHarness()
	h.source.snapshotFn = func(_ context.Context) ([]catalog.Package, error) {
		return []catalog.Package{}, nil
	}

	w := h.do(t, http.MethodPost, "/api/v1/recommendations", `{}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody[recommendResponse](t, w).Recommendations)
}

func TestRecommend_InvalidPreferences(t *testing.T) {
	h := newHarness()

	w := h.do(t, http.MethodPost, "/api/v1/recommendations", `{"occupancy":"single"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRecommend_MalformedBody(t *testing.T) {
	h := newHarness()

	w := h.do(t, http.MethodPost, "/api/v1/recommendations", `{"camp":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecommend_SavedPreferencesError(t *testing.T) {
	h := newHarness()
	h.store.getPreferencesFn = func(_ context.Context) (*scoring.Preferences, error) {
		return nil, fmt.Errorf("db down")
	}

	w := h.do(t, http.MethodPost, "/api/v1/recommendations", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
