package scoring

import (
	"errors"
	"math"
	"sort"

	"github.com/neexbeast/hajj-compare/internal/catalog"
)

// ErrNilCatalog is returned when Recommend is called without a catalog.
var ErrNilCatalog = errors.New("scoring: nil catalog")

// Reason strings attached to recommendations, in the order they are emitted.
const (
	ReasonStrongMatch   = "Strong match with your preferences"
	ReasonPremiumCamp   = "Premium camp upgrade is included in the price"
	ReasonPremiumLimit  = "Premium camp places are limited, book early"
	ReasonMuaisimCamp   = "Muaisim camp has ample capacity"
	ReasonShiftingValue = "Shifting through Aziziya adds value for the price"
	ReasonBudgetClose   = "Price is close to your budget"
)

const (
	strongMatchThreshold = 0.75
	budgetCloseThreshold = 0.85
)

// Engine ranks packages against preferences. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	cfg    Config
	pricer Pricer
}

// NewEngine constructs an Engine. A non-positive limit falls back to the default.
func NewEngine(cfg Config) *Engine {
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultConfig().Limit
	}
	return &Engine{cfg: cfg, pricer: NewPricer(cfg.CampSurcharge)}
}

// Pricer returns the resolver the engine prices with.
func (e *Engine) Pricer() Pricer { return e.pricer }

// Recommend returns the top packages for prefs, best first. Ties keep catalog
// order. An empty catalog gives an empty result.
func (e *Engine) Recommend(pkgs []catalog.Package, prefs Preferences) ([]Recommendation, error) {
	recs, _, err := e.Evaluate(pkgs, prefs)
	return recs, err
}

// Evaluate is Recommend plus counts of how each candidate was handled.
func (e *Engine) Evaluate(pkgs []catalog.Package, prefs Preferences) ([]Recommendation, Stats, error) {
	if pkgs == nil {
		return nil, Stats{}, ErrNilCatalog
	}

	occ := prefs.RequestedOccupancy()
	stats := Stats{Candidates: len(pkgs)}
	out := make([]Recommendation, 0, len(pkgs))

	for _, p := range pkgs {
		if occ != catalog.OccupancyQuad && !Available(p, occ) {
			stats.ExcludedOccupancy++
			continue
		}
		price, ok := e.pricer.Price(p, occ)
		if !ok {
			stats.ExcludedUnpriced++
			continue
		}
		out = append(out, e.score(p, prefs, occ, price))
	}
	stats.Scored = len(out)

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > e.cfg.Limit {
		out = out[:e.cfg.Limit]
	}
	return out, stats, nil
}

func (e *Engine) score(p catalog.Package, prefs Preferences, occ catalog.Occupancy, price float64) Recommendation {
	b := Breakdown{
		Match:    MatchRatio(p, prefs),
		Value:    Value(p),
		Budget:   BudgetFit(price, prefs.Budget),
		Scarcity: Scarcity(p, e.cfg.ScarcityPenalty),
	}

	total := b.Match*e.cfg.MatchWeight +
		b.Value*e.cfg.ValueWeight +
		b.Budget*e.cfg.BudgetWeight -
		b.Scarcity

	return Recommendation{
		Package:   p,
		Occupancy: occ,
		Price:     price,
		Score:     round3(total),
		Breakdown: b,
		Reasons:   reasons(p, b),
	}
}

func reasons(p catalog.Package, b Breakdown) []string {
	out := make([]string, 0, 4)
	if b.Match > strongMatchThreshold {
		out = append(out, ReasonStrongMatch)
	}
	switch p.Camp {
	case catalog.CampPremium:
		out = append(out, ReasonPremiumCamp, ReasonPremiumLimit)
	case catalog.CampMuaisim:
		out = append(out, ReasonMuaisimCamp)
	}
	if p.Shifting {
		out = append(out, ReasonShiftingValue)
	}
	if b.Budget > budgetCloseThreshold {
		out = append(out, ReasonBudgetClose)
	}
	return out
}

func round3(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*1000) / 1000
}
