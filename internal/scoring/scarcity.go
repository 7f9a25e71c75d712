package scoring

import (
	"github.com/neexbeast/hajj-compare/internal/catalog"
)

// Capacity describes how easy it is to get a place in a camp tier.
type Capacity string

const (
	CapacityLimited Capacity = "limited"
	CapacityAmple   Capacity = "ample"
)

var campCapacity = map[catalog.CampTier]Capacity{
	catalog.CampPremium: CapacityLimited,
	catalog.CampMuaisim: CapacityAmple,
}

// CampCapacity returns the capacity class of a camp tier.
func CampCapacity(c catalog.CampTier) Capacity {
	if v, ok := campCapacity[c]; ok {
		return v
	}
	return CapacityAmple
}

// Scarcity returns the penalty for p. Only limited-capacity camps, which today
// means the premium tier, are penalized.
func Scarcity(p catalog.Package, penalty float64) float64 {
	if penalty <= 0 || CampCapacity(p.Camp) != CapacityLimited {
		return 0
	}
	return penalty
}
