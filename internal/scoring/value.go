package scoring

import (
	"math"

	"github.com/neexbeast/hajj-compare/internal/catalog"
)

var (
	campPoints = map[catalog.CampTier]float64{
		catalog.CampPremium: 1.0,
		catalog.CampMuaisim: 0.6,
	}

	proximityPoints = map[catalog.Proximity]float64{
		catalog.ProximityAdjacent: 1.0,
		catalog.ProximityNear:     0.7,
		catalog.ProximityMid:      0.4,
		catalog.ProximityFar:      0.2,
	}
)

const (
	shiftingPoints   = 0.5
	multiHotelPoints = 0.2
	flightPoints     = 0.15
	valueNormalizer  = 3.0
)

// Value scores the intrinsic quality of p in [0,1], independent of preferences.
func Value(p catalog.Package) float64 {
	sum := campPoints[p.Camp] + proximityPoints[p.Proximity]
	if p.Shifting {
		sum += shiftingPoints
	}
	if p.DistinctHotels() >= 2 {
		sum += multiHotelPoints
	}
	if p.Flight != nil && p.Flight.Price.Available() {
		sum += flightPoints
	}
	return math.Min(sum/valueNormalizer, 1)
}
