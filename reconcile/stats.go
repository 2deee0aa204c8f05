package reconcile

import "github.com/minios-linux/nuxtkit/tree"

// Coverage counts how many reference keys a locale has translated.
type Coverage struct {
	// Total is the number of keys in the reference tree.
	Total int
	// Translated is the number of those keys holding a non-empty string in
	// the target.
	Translated int
}

// Measure compares target against ref. Keys present only in the target do
// not count.
func Measure(ref, target *tree.Node) Coverage {
	flat := tree.Flatten(target)
	var c Coverage
	for _, k := range tree.Keys(ref) {
		c.Total++
		if flat[k] != "" {
			c.Translated++
		}
	}
	return c
}

// Add accumulates other into c.
func (c *Coverage) Add(other Coverage) {
	c.Total += other.Total
	c.Translated += other.Translated
}

// Percent returns the translated share in percent. An empty reference is
// fully covered.
func (c Coverage) Percent() float64 {
	if c.Total == 0 {
		return 100
	}
	return float64(c.Translated) * 100 / float64(c.Total)
}
