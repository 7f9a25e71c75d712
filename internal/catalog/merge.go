package catalog

// Merge combines the preloaded catalog with user-added records and overrides.
// Preloaded order comes first, then user-added records. A user-added record
// sharing an ID with a preloaded one replaces it in place, and an override
// replaces whichever record carries its ID. The result never repeats an ID.
func Merge(preloaded, userAdded []Package, overrides map[string]Package) []Package {
	out := make([]Package, 0, len(preloaded)+len(userAdded))
	index := make(map[string]int, len(preloaded)+len(userAdded))

	add := func(p Package) {
		if i, ok := index[p.ID]; ok {
			out[i] = p
			return
		}
		index[p.ID] = len(out)
		out = append(out, p)
	}

	for _, p := range preloaded {
		add(p)
	}
	for _, p := range userAdded {
		add(p)
	}

	for i, p := range out {
		o, ok := overrides[p.ID]
		if !ok {
			continue
		}
		o.ID = p.ID
		out[i] = o
	}

	return out
}

// Find returns the package with the given ID.
func Find(pkgs []Package, id string) (Package, bool) {
	for _, p := range pkgs {
		if p.ID == id {
			return p, true
		}
	}
	return Package{}, false
}
