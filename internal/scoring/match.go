package scoring

import (
	"math"
	"time"

	"github.com/neexbeast/hajj-compare/internal/catalog"
)

const (
	dateLayout = "2006-01-02"

	proximityStep     = 0.25
	dateDecayDays     = 14.0
	durationDecayDays = 3.0
)

// Match scores how well p fits the set preferences. It returns the raw score
// and the maximum attainable score. Each set preference adds 1 to possible and
// a value in [0,1] to score; unset preferences add nothing to either.
func Match(p catalog.Package, prefs Preferences) (score, possible float64) {
	add := func(v float64) {
		score += clamp01(v)
		possible++
	}

	if !isAny(prefs.Provider) {
		add(boolScore(p.Provider == prefs.Provider))
	}

	if !isAny(string(prefs.FirstStay)) {
		loc, ok := p.FirstLocation()
		add(boolScore(ok && loc == prefs.FirstStay))
	}

	if !isAny(string(prefs.LastStay)) {
		loc, ok := p.LastLocation()
		add(boolScore(ok && loc == prefs.LastStay))
	}

	if !isAny(string(prefs.Proximity)) {
		add(ProximityScore(prefs.Proximity, p.Proximity))
	}

	if !isAny(string(prefs.Camp)) {
		add(boolScore(p.Camp == prefs.Camp))
	}

	if prefs.Shifting != nil {
		add(boolScore(p.Shifting == *prefs.Shifting))
	}

	if prefs.Dates != nil {
		if v, ok := DateScore(*prefs.Dates, p.StartDate, p.EndDate); ok {
			add(v)
		}
	}

	if prefs.DurationDays != nil {
		add(DurationScore(*prefs.DurationDays, p.DurationDays))
	}

	return score, possible
}

// MatchRatio normalizes Match to [0,1]. With no preferences set the ratio is 0,
// so an unconstrained user gets no preference-driven boost.
func MatchRatio(p catalog.Package, prefs Preferences) float64 {
	score, possible := Match(p, prefs)
	if possible <= 0 {
		return 0
	}
	return clamp01(score / possible)
}

// ProximityScore gives 1 for an exact tier and loses 0.25 per step of distance.
// Unknown tiers score 0.
func ProximityScore(want, got catalog.Proximity) float64 {
	if want == got {
		return 1
	}
	wi, gi := want.Rank(), got.Rank()
	if wi < 0 || gi < 0 {
		return 0
	}
	dist := math.Abs(float64(wi - gi))
	return math.Max(0, 1-dist*proximityStep)
}

// DateScore scores a package window against a preferred window. Full
// containment scores 1; otherwise the closer of the start and end gaps decays
// linearly to 0 over 14 days. ok is false when any date fails to parse.
func DateScore(want DateWindow, start, end string) (float64, bool) {
	ws, err1 := time.Parse(dateLayout, want.Start)
	we, err2 := time.Parse(dateLayout, want.End)
	ps, err3 := time.Parse(dateLayout, start)
	pe, err4 := time.Parse(dateLayout, end)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return 0, false
	}

	if !ps.Before(ws) && !pe.After(we) {
		return 1, true
	}

	gap := math.Min(daysBetween(ps, ws), daysBetween(pe, we))
	return math.Max(0, 1-gap/dateDecayDays), true
}

// DurationScore decays linearly to 0 over a 3 day difference.
func DurationScore(want, got int) float64 {
	diff := math.Abs(float64(want - got))
	return math.Max(0, 1-diff/durationDecayDays)
}

func daysBetween(a, b time.Time) float64 {
	return math.Abs(a.Sub(b).Hours() / 24)
}

func boolScore(ok bool) float64 {
	if ok {
		return 1
	}
	return 0
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
