// Package reconcile compares and repairs locale translation trees against a
// reference tree. The reference tree is always the shape authority.
package reconcile

import (
	"strings"

	"github.com/minios-linux/nuxtkit/tree"
)

// Synchronize returns a tree with exactly the shape of ref. String leaves
// take the target's value when the target holds a non-empty string at the
// same path and "" otherwise. Keys of target absent from ref are dropped.
//
// A reference value that is neither a string nor an object (a number, an
// array, null) is handled like a string leaf: it becomes the target's
// non-empty string or "". Such keys appear in the result but not in
// Flatten(ref), so the shape law holds only for references made of strings
// and objects.
func Synchronize(ref, target *tree.Node) *tree.Node {
	out := tree.New()
	for _, k := range ref.Keys() {
		rv, _ := ref.Lookup(k)
		tv, _ := target.Lookup(k)

		if rv.IsNode() {
			// A missing or non-node target recurses against nothing and
			// produces a blank skeleton.
			out.Put(k, tree.Branch(Synchronize(rv.Node(), tv.Node())))
			continue
		}
		if tv.IsLeaf() && tv.String() != "" {
			out.Put(k, tree.Leaf(tv.String()))
		} else {
			out.Put(k, tree.Leaf(""))
		}
	}
	return out
}

// MissingKey is a reference key absent from a target, with the reference
// value attached.
type MissingKey struct {
	Key          string `json:"key"`
	DefaultValue string `json:"defaultValue"`
}

// Report lists the keys that differ between a reference and a target.
type Report struct {
	Missing []MissingKey
	Extra   []string
}

// Empty reports whether ref and target expose the same key set.
func (r Report) Empty() bool {
	return len(r.Missing) == 0 && len(r.Extra) == 0
}

// Diff flattens both trees and reports reference keys missing from target
// (in reference order) and target keys absent from the reference (in
// target order).
func Diff(ref, target *tree.Node) Report {
	refFlat := tree.Flatten(ref)
	targetFlat := tree.Flatten(target)

	var r Report
	for _, e := range tree.Entries(ref) {
		if _, ok := targetFlat[e.Key]; !ok {
			r.Missing = append(r.Missing, MissingKey{Key: e.Key, DefaultValue: e.Value})
		}
	}
	for _, k := range tree.Keys(target) {
		if _, ok := refFlat[k]; !ok {
			r.Extra = append(r.Extra, k)
		}
	}
	return r
}

// Fill merges an extracted skeleton into an existing tree: every existing
// value is kept and every skeleton path the tree lacks is added. Where the
// two disagree on type the existing value wins.
func Fill(skeleton, existing *tree.Node) *tree.Node {
	out := existing.Clone()
	fillInto(out, skeleton)
	return out
}

func fillInto(dst, skeleton *tree.Node) {
	for _, k := range skeleton.Keys() {
		sv, _ := skeleton.Lookup(k)
		dv, ok := dst.Lookup(k)
		if !ok {
			if sv.IsNode() {
				dst.Put(k, tree.Branch(sv.Node().Clone()))
			} else {
				dst.Put(k, sv)
			}
			continue
		}
		if dv.IsNode() && sv.IsNode() {
			fillInto(dv.Node(), sv.Node())
		}
	}
}

// ---------------------------------------------------------------------------
// Clean
// ---------------------------------------------------------------------------

// Keys is a set of translation keys.
type Keys map[string]struct{}

// NewKeys builds a Keys set from a list.
func NewKeys(keys ...string) Keys {
	s := make(Keys, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether key is in the set.
func (k Keys) Has(key string) bool {
	_, ok := k[key]
	return ok
}

// Cleaner removes unused keys from a tree.
//
// A leaf survives when its full key is used. A subtree survives whole when
// its own key is used (a key may address an object, e.g. a list rendered by
// the template), and is otherwise descended into when some used key lives
// below it. The keep func protects keys regardless of use. A subtree left
// empty once its unused keys are gone is dropped, even when a used key
// points below it.
type Cleaner struct {
	used Keys
	keep func(key string) bool
	// prefixes holds every proper prefix of a used key.
	prefixes map[string]struct{}
}

// NewCleaner prepares a cleaner for the given used keys.
func NewCleaner(used []string, keep func(string) bool) *Cleaner {
	c := &Cleaner{
		used:     NewKeys(used...),
		keep:     keep,
		prefixes: make(map[string]struct{}),
	}
	for _, k := range used {
		parts := strings.Split(k, tree.Sep)
		for i := 1; i < len(parts); i++ {
			c.prefixes[strings.Join(parts[:i], tree.Sep)] = struct{}{}
		}
	}
	return c
}

// Clean returns the pruned tree and the keys that were removed.
func (c *Cleaner) Clean(n *tree.Node) (*tree.Node, []string) {
	var removed []string
	out := c.clean(n, "", &removed)
	return out, removed
}

func (c *Cleaner) clean(n *tree.Node, prefix string, removed *[]string) *tree.Node {
	out := tree.New()
	for _, k := range n.Keys() {
		v, _ := n.Lookup(k)
		full := k
		if prefix != "" {
			full = prefix + tree.Sep + k
		}

		if c.used.Has(full) || (c.keep != nil && c.keep(full)) {
			if v.IsNode() {
				out.Put(k, tree.Branch(v.Node().Clone()))
			} else {
				out.Put(k, v)
			}
			continue
		}
		if v.IsNode() {
			_, below := c.prefixes[full]
			if below || c.keep != nil {
				// keep patterns may match keys below an unused node
				sub := c.clean(v.Node(), full, removed)
				if sub.Len() > 0 {
					out.Put(k, tree.Branch(sub))
				} else if v.Node().Len() == 0 {
					*removed = append(*removed, full)
				}
				continue
			}
			for _, leaf := range tree.Keys(v.Node()) {
				*removed = append(*removed, full+tree.Sep+leaf)
			}
			if v.Node().Len() == 0 {
				*removed = append(*removed, full)
			}
			continue
		}
		*removed = append(*removed, full)
	}
	return out
}

// Clean prunes every key of n not covered by used.
func Clean(n *tree.Node, used []string) *tree.Node {
	out, _ := NewCleaner(used, nil).Clean(n)
	return out
}
