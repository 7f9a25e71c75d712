package catalog

import (
	"strings"
)

// Location is one of the cities a package stays in.
type Location string

const (
	Madinah Location = "madinah"
	Makkah  Location = "makkah"
	Aziziya Location = "aziziya"
)

// Locations lists every stay location in fee lookup order.
var Locations = []Location{Madinah, Makkah, Aziziya}

// Valid reports whether l is a known location.
func (l Location) Valid() bool {
	switch l {
	case Madinah, Makkah, Aziziya:
		return true
	}
	return false
}

// Proximity classifies how close the Makkah hotel is to the Haram.
type Proximity string

const (
	ProximityAdjacent Proximity = "adjacent"
	ProximityNear     Proximity = "near"
	ProximityMid      Proximity = "mid"
	ProximityFar      Proximity = "far"
)

// ProximityOrder is the fixed nearest-to-farthest ordering used for partial credit.
var ProximityOrder = []Proximity{ProximityAdjacent, ProximityNear, ProximityMid, ProximityFar}

// Rank returns the position of p in ProximityOrder, or -1 if p is unknown.
func (p Proximity) Rank() int {
	for i, v := range ProximityOrder {
		if v == p {
			return i
		}
	}
	return -1
}

// CampTier classifies the Mina camp.
type CampTier string

const (
	// CampPremium is the capacity-constrained upgraded camp.
	CampPremium CampTier = "premium"
	// CampMuaisim is the standard camp with ample capacity.
	CampMuaisim CampTier = "muaisim"
)

// Valid reports whether c is a known camp tier.
func (c CampTier) Valid() bool {
	return c == CampPremium || c == CampMuaisim
}

// Occupancy is the room sharing tier a price is quoted for.
type Occupancy string

const (
	OccupancyAny    Occupancy = "any"
	OccupancyQuad   Occupancy = "quad"
	OccupancyTriple Occupancy = "triple"
	OccupancyDouble Occupancy = "double"
)

// Occupancies lists the priced tiers, baseline first.
var Occupancies = []Occupancy{OccupancyQuad, OccupancyTriple, OccupancyDouble}

// Valid reports whether o is a known tier or "any".
func (o Occupancy) Valid() bool {
	switch o {
	case OccupancyAny, OccupancyQuad, OccupancyTriple, OccupancyDouble:
		return true
	}
	return false
}

// TierFees holds the optional per-person upgrade fees for one location.
type TierFees struct {
	Triple Amount `json:"triple"`
	Double Amount `json:"double"`
}

// Fee returns the fee for the given tier. Quad has no upgrade fee.
func (f TierFees) Fee(o Occupancy) Amount {
	switch o {
	case OccupancyTriple:
		return f.Triple
	case OccupancyDouble:
		return f.Double
	}
	return Amount{}
}

// Stay is one hotel leg of a package.
type Stay struct {
	Location Location `json:"location" validate:"required,location"`
	Hotel    string   `json:"hotel" validate:"required"`
	CheckIn  string   `json:"check_in" validate:"required,datetime=2006-01-02"`
}

// Flight is the optional flight baseline bundled with a package.
type Flight struct {
	Gateway string `json:"gateway"`
	Price   Amount `json:"price"`
}

// Package is a single travel package offering. Prices are per person in SAR
// at quad occupancy.
type Package struct {
	ID           string                `json:"id"`
	Provider     string                `json:"provider" validate:"required"`
	Name         string                `json:"name" validate:"required"`
	StartDate    string                `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate      string                `json:"end_date" validate:"required,datetime=2006-01-02"`
	DurationDays int                   `json:"duration_days" validate:"gt=0"`
	FirstStay    Location              `json:"first_stay" validate:"required,location"`
	Shifting     bool                  `json:"shifting"`
	Proximity    Proximity             `json:"makkah_proximity" validate:"required,proximity"`
	Camp         CampTier              `json:"camp" validate:"required,camp"`
	PriceQuad    float64               `json:"price_quad" validate:"gt=0"`
	Fees         map[Location]TierFees `json:"fees,omitempty"`
	Stays        []Stay                `json:"stays" validate:"min=2,max=3,dive"`
	Flight       *Flight               `json:"flight,omitempty"`
}

// FirstLocation returns the location of the first stay entry.
func (p Package) FirstLocation() (Location, bool) {
	if len(p.Stays) == 0 {
		return "", false
	}
	return p.Stays[0].Location, true
}

// LastLocation returns the location of the last stay entry.
func (p Package) LastLocation() (Location, bool) {
	if len(p.Stays) == 0 {
		return "", false
	}
	return p.Stays[len(p.Stays)-1].Location, true
}

// DistinctHotels counts distinct non-empty hotel names across stays.
func (p Package) DistinctHotels() int {
	seen := make(map[string]struct{}, len(p.Stays))
	for _, s := range p.Stays {
		name := strings.ToLower(strings.TrimSpace(s.Hotel))
		if name == "" {
			continue
		}
		seen[name] = struct{}{}
	}
	return len(seen)
}

// Slug builds the stable ID used for preloaded and imported packages.
func Slug(provider, name string) string {
	s := strings.ToLower(strings.TrimSpace(provider) + " " + strings.TrimSpace(name))
	return strings.Join(strings.Fields(s), "-")
}
