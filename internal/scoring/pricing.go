package scoring

import (
	"github.com/neexbeast/hajj-compare/internal/catalog"
)

// Pricer resolves all-in per-person prices.
type Pricer struct {
	campSurcharge float64
}

// NewPricer constructs a Pricer with the given premium camp surcharge.
func NewPricer(campSurcharge float64) Pricer {
	if !catalog.Positive(campSurcharge) {
		campSurcharge = 0
	}
	return Pricer{campSurcharge: campSurcharge}
}

// Available reports whether tier o can be booked on p. Quad is available
// whenever the package is priced; other tiers need a positive fee in at
// least one location.
func Available(p catalog.Package, o catalog.Occupancy) bool {
	switch o {
	case catalog.OccupancyQuad, catalog.OccupancyAny, "":
		return catalog.Positive(p.PriceQuad)
	case catalog.OccupancyTriple, catalog.OccupancyDouble:
		return tierFeeSum(p, o) > 0
	}
	return false
}

// Price returns the per-person price of p at tier o, or false when the
// package is unpriced or the tier is not offered.
func (pr Pricer) Price(p catalog.Package, o catalog.Occupancy) (float64, bool) {
	if !catalog.Positive(p.PriceQuad) {
		return 0, false
	}

	price := p.PriceQuad
	if p.Camp == catalog.CampPremium {
		price += pr.campSurcharge
	}

	switch o {
	case catalog.OccupancyQuad, catalog.OccupancyAny, "":
		return price, true
	case catalog.OccupancyTriple, catalog.OccupancyDouble:
		fees := tierFeeSum(p, o)
		if fees <= 0 {
			return 0, false
		}
		return price + fees, true
	}
	return 0, false
}

// Prices returns the per-person price for every tier; unavailable tiers are nil.
func (pr Pricer) Prices(p catalog.Package) map[catalog.Occupancy]*float64 {
	out := make(map[catalog.Occupancy]*float64, len(catalog.Occupancies))
	for _, o := range catalog.Occupancies {
		if v, ok := pr.Price(p, o); ok {
			out[o] = &v
		} else {
			out[o] = nil
		}
	}
	return out
}

func tierFeeSum(p catalog.Package, o catalog.Occupancy) float64 {
	var sum float64
	for _, loc := range catalog.Locations {
		sum += p.Fees[loc].Fee(o).Or(0)
	}
	return sum
}
