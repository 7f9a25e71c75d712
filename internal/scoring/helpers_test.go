package scoring_test

import (
	"github.com/neexbeast/hajj-compare/internal/catalog"
)

// basePackage is a non-shifting muaisim package with two stays and no fees.
func basePackage(id string) catalog.Package {
	return catalog.Package{
		ID:           id,
		Provider:     "Al Safwa",
		Name:         id,
		StartDate:    "2026-05-20",
		EndDate:      "2026-06-03",
		DurationDays: 14,
		FirstStay:    catalog.Madinah,
		Shifting:     false,
		Proximity:    catalog.ProximityAdjacent,
		Camp:         catalog.CampMuaisim,
		PriceQuad:    25000,
		Stays: []catalog.Stay{
			{Location: catalog.Madinah, Hotel: "Pullman Zamzam Madinah", CheckIn: "2026-05-20"},
			{Location: catalog.Makkah, Hotel: "Swissotel Makkah", CheckIn: "2026-05-25"},
		},
	}
}

func shiftingPackage(id string) catalog.Package {
	p := basePackage(id)
	p.Shifting = true
	p.Stays = append(p.Stays, catalog.Stay{Location: catalog.Aziziya, Hotel: "Aziziya Tower", CheckIn: "2026-05-30"})
	return p
}

func ptr[T any](v T) *T { return &v }
