package reconcile

import "github.com/minios-linux/nuxtkit/tree"

// Duplicate is a translation value used at more than one location.
type Duplicate struct {
	Value     string
	Locations []string
}

// Duplicates collects values across the scopes of one locale.
type Duplicates struct {
	order []string
	locs  map[string][]string
	seen  map[string]map[string]struct{}
}

// NewDuplicates returns an empty collector.
func NewDuplicates() *Duplicates {
	return &Duplicates{
		locs: make(map[string][]string),
		seen: make(map[string]map[string]struct{}),
	}
}

// Add records every non-empty leaf of n under "<scope> - <key>".
func (d *Duplicates) Add(scope string, n *tree.Node) {
	for _, e := range tree.Entries(n) {
		if e.Value == "" {
			continue
		}
		loc := scope + " - " + e.Key
		set, ok := d.seen[e.Value]
		if !ok {
			set = make(map[string]struct{})
			d.seen[e.Value] = set
			d.order = append(d.order, e.Value)
		}
		if _, dup := set[loc]; dup {
			continue
		}
		set[loc] = struct{}{}
		d.locs[e.Value] = append(d.locs[e.Value], loc)
	}
}

// Report returns the values found at more than one location, in the order
// they were first seen.
func (d *Duplicates) Report() []Duplicate {
	var out []Duplicate
	for _, v := range d.order {
		if locs := d.locs[v]; len(locs) > 1 {
			out = append(out, Duplicate{Value: v, Locations: locs})
		}
	}
	return out
}
