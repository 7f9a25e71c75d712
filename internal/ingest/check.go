package ingest

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/neexbeast/hajj-compare/internal/catalog"
	"github.com/neexbeast/hajj-compare/internal/validation"
)

const dateLayout = "2006-01-02"

// Check returns every reason p is not a well-formed catalog record. An empty
// result means the engine may score p.
func Check(p catalog.Package) []string {
	var reasons []string

	if err := validation.Struct(p); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			reasons = append(reasons, verr.Messages()...)
		} else {
			reasons = append(reasons, err.Error())
		}
	}

	start, errStart := time.Parse(dateLayout, p.StartDate)
	end, errEnd := time.Parse(dateLayout, p.EndDate)
	if errStart == nil && errEnd == nil && end.Before(start) {
		reasons = append(reasons, "end_date must not be before start_date")
	}

	for _, loc := range catalog.Locations {
		fees := p.Fees[loc]
		for _, o := range []catalog.Occupancy{catalog.OccupancyTriple, catalog.OccupancyDouble} {
			if v, ok := fees.Fee(o).Get(); ok && v < 0 {
				reasons = append(reasons, fmt.Sprintf("fees.%s.%s must not be negative", loc, o))
			}
		}
	}
	for loc := range p.Fees {
		if !loc.Valid() {
			reasons = append(reasons, fmt.Sprintf("fees has unknown location %q", loc))
		}
	}

	if p.Flight != nil {
		if v, ok := p.Flight.Price.Get(); ok && v < 0 {
			reasons = append(reasons, "flight.price must not be negative")
		}
	}

	reasons = append(reasons, checkStays(p)...)
	return reasons
}

func checkStays(p catalog.Package) []string {
	var reasons []string

	seen := make(map[catalog.Location]int, len(p.Stays))
	for _, s := range p.Stays {
		seen[s.Location]++
	}
	for loc, n := range seen {
		if n > 1 {
			reasons = append(reasons, fmt.Sprintf("stays has %d entries for %s", n, loc))
		}
	}

	if p.Shifting {
		if len(p.Stays) != 3 {
			reasons = append(reasons, "shifting package must have 3 stays")
		}
	} else {
		if len(p.Stays) != 2 {
			reasons = append(reasons, "non-shifting package must have 2 stays")
		}
		if seen[catalog.Aziziya] > 0 {
			reasons = append(reasons, "non-shifting package must not stay in aziziya")
		}
	}

	if first, ok := p.FirstLocation(); ok && p.FirstStay != "" && first != p.FirstStay {
		reasons = append(reasons, fmt.Sprintf("first stay is %s but first_stay is %s", first, p.FirstStay))
	}

	sort.Strings(reasons)
	return reasons
}

// SortStays orders stays by check-in date, keeping input order for ties and
// unparseable dates.
func SortStays(stays []catalog.Stay) {
	sort.SliceStable(stays, func(i, j int) bool {
		a, errA := time.Parse(dateLayout, stays[i].CheckIn)
		b, errB := time.Parse(dateLayout, stays[j].CheckIn)
		if errA != nil || errB != nil {
			return false
		}
		return a.Before(b)
	})
}
