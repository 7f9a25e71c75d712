package api

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/neexbeast/hajj-compare/internal/catalog"
)

// Sort orders accepted by GET /packages.
const (
	sortPriceAsc  = "price_asc"
	sortPriceDesc = "price_desc"
	sortStartDate = "start_date"
)

type listFilter struct {
	provider  string
	firstStay catalog.Location
	camp      catalog.CampTier
	proximity catalog.Proximity
	shifting  *bool
	occupancy catalog.Occupancy
	// strict drops packages that do not offer the requested occupancy.
	strict    bool
	favorites bool
	maxPrice  *float64
	sort      string
}

func parseListFilter(q url.Values) (listFilter, error) {
	f := listFilter{
		provider:  strings.TrimSpace(q.Get("provider")),
		firstStay: catalog.Location(strings.ToLower(q.Get("first_stay"))),
		camp:      catalog.CampTier(strings.ToLower(q.Get("camp"))),
		proximity: catalog.Proximity(strings.ToLower(q.Get("proximity"))),
		occupancy: catalog.OccupancyQuad,
		sort:      q.Get("sort"),
	}

	if f.firstStay != "" && !f.firstStay.Valid() {
		return f, fmt.Errorf("first_stay must be one of madinah, makkah, aziziya")
	}
	if f.camp != "" && !f.camp.Valid() {
		return f, fmt.Errorf("camp must be one of premium, muaisim")
	}
	if f.proximity != "" && f.proximity.Rank() < 0 {
		return f, fmt.Errorf("proximity must be one of adjacent, near, mid, far")
	}

	if v := q.Get("shifting"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, fmt.Errorf("shifting must be true or false")
		}
		f.shifting = &b
	}

	if v := strings.ToLower(q.Get("occupancy")); v != "" && v != string(catalog.OccupancyAny) {
		o := catalog.Occupancy(v)
		if !o.Valid() {
			return f, fmt.Errorf("occupancy must be one of any, quad, triple, double")
		}
		f.occupancy = o
		f.strict = true
	}

	if v := q.Get("favorites"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, fmt.Errorf("favorites must be true or false")
		}
		f.favorites = b
	}

	if v := q.Get("max_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil || !catalog.Positive(p) {
			return f, fmt.Errorf("max_price must be a positive number")
		}
		f.maxPrice = &p
	}

	switch f.sort {
	case "", sortPriceAsc, sortPriceDesc, sortStartDate:
	default:
		return f, fmt.Errorf("sort must be one of price_asc, price_desc, start_date")
	}

	return f, nil
}

// keep reports whether v passes every filter except sorting.
func (f listFilter) keep(v packageView) bool {
	p := v.Package
	switch {
	case f.provider != "" && !strings.EqualFold(f.provider, p.Provider):
		return false
	case f.firstStay != "" && f.firstStay != p.FirstStay:
		return false
	case f.camp != "" && f.camp != p.Camp:
		return false
	case f.proximity != "" && f.proximity != p.Proximity:
		return false
	case f.shifting != nil && *f.shifting != p.Shifting:
		return false
	case f.favorites && !v.Favorite:
		return false
	case f.strict && v.Price == nil:
		return false
	case f.maxPrice != nil && (v.Price == nil || *v.Price > *f.maxPrice):
		return false
	}
	return true
}

// order sorts views in place. Unpriced packages sort last for price orders;
// ties keep catalog order.
func (f listFilter) order(views []packageView) {
	switch f.sort {
	case sortPriceAsc, sortPriceDesc:
		desc := f.sort == sortPriceDesc
		sort.SliceStable(views, func(i, j int) bool {
			a, b := views[i].Price, views[j].Price
			if a == nil || b == nil {
				return a != nil && b == nil
			}
			if desc {
				return *a > *b
			}
			return *a < *b
		})
	case sortStartDate:
		sort.SliceStable(views, func(i, j int) bool {
			return views[i].StartDate < views[j].StartDate
		})
	}
}
