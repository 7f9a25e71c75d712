package scoring

import (
	"github.com/neexbeast/hajj-compare/internal/catalog"
)

// Budget is the total amount the group is willing to spend, in SAR.
type Budget struct {
	Amount    float64 `json:"amount" validate:"gte=0"`
	Headcount int     `json:"headcount" validate:"gte=0"`
}

// DateWindow is a preferred travel window as YYYY-MM-DD strings.
type DateWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Preferences are the user's stated wants. Empty strings, "any" and nil
// pointers leave a filter unset; unset filters do not affect the score.
type Preferences struct {
	Budget       Budget            `json:"budget"`
	Provider     string            `json:"provider,omitempty"`
	FirstStay    catalog.Location  `json:"first_stay,omitempty" validate:"omitempty,location|eq=any"`
	LastStay     catalog.Location  `json:"last_stay,omitempty" validate:"omitempty,location|eq=any"`
	Proximity    catalog.Proximity `json:"makkah_proximity,omitempty" validate:"omitempty,proximity|eq=any"`
	Camp         catalog.CampTier  `json:"camp,omitempty" validate:"omitempty,camp|eq=any"`
	Shifting     *bool             `json:"shifting,omitempty"`
	Occupancy    catalog.Occupancy `json:"occupancy,omitempty" validate:"omitempty,occupancy"`
	Dates        *DateWindow       `json:"dates,omitempty"`
	DurationDays *int              `json:"duration_days,omitempty"`
}

// RequestedOccupancy returns the tier to price at, defaulting to quad.
func (p Preferences) RequestedOccupancy() catalog.Occupancy {
	if isAny(string(p.Occupancy)) {
		return catalog.OccupancyQuad
	}
	return p.Occupancy
}

// Breakdown holds the sub-scores behind a total.
type Breakdown struct {
	Match    float64 `json:"match"`
	Value    float64 `json:"value"`
	Budget   float64 `json:"budget"`
	Scarcity float64 `json:"scarcity_penalty"`
}

// Recommendation is one ranked, explained entry in a shortlist.
type Recommendation struct {
	Package   catalog.Package   `json:"package"`
	Occupancy catalog.Occupancy `json:"occupancy"`
	Price     float64           `json:"price_per_person"`
	Score     float64           `json:"score"`
	Breakdown Breakdown         `json:"breakdown"`
	Reasons   []string          `json:"reasons"`
}

// Stats counts how candidates were handled in one evaluation.
type Stats struct {
	Candidates        int `json:"candidates"`
	Scored            int `json:"scored"`
	ExcludedUnpriced  int `json:"excluded_unpriced"`
	ExcludedOccupancy int `json:"excluded_occupancy_unavailable"`
}

func isAny(s string) bool {
	return s == "" || s == string(catalog.OccupancyAny)
}
