package tree

import "strings"

// Sep separates segments in a translation key.
const Sep = "."

// Entry is one flattened leaf.
type Entry struct {
	Key   string
	Value string
}

// Entries walks n depth-first and returns every string leaf with its full
// key, in tree order. Raw values are skipped.
func Entries(n *Node) []Entry {
	var out []Entry
	walk(n, "", func(key, value string) {
		out = append(out, Entry{Key: key, Value: value})
	})
	return out
}

// Flatten returns the key -> value mapping of every string leaf in n.
func Flatten(n *Node) map[string]string {
	out := make(map[string]string)
	walk(n, "", func(key, value string) {
		out[key] = value
	})
	return out
}

// Keys returns the flattened keys of n in tree order.
func Keys(n *Node) []string {
	var out []string
	walk(n, "", func(key, _ string) {
		out = append(out, key)
	})
	return out
}

func walk(n *Node, prefix string, fn func(key, value string)) {
	if n == nil {
		return
	}
	for _, k := range n.keys {
		full := k
		if prefix != "" {
			full = prefix + Sep + k
		}
		v := n.vals[k]
		switch v.kind {
		case KindLeaf:
			fn(full, v.leaf)
		case KindNode:
			walk(v.node, full, fn)
		}
	}
}

// Expand builds the nested singleton tree for key with value at its leaf.
func Expand(key, value string) *Node {
	parts := strings.Split(key, Sep)
	root := New()
	cur := root
	for i, p := range parts {
		if i == len(parts)-1 {
			cur.Put(p, Leaf(value))
			break
		}
		child := New()
		cur.Put(p, Branch(child))
		cur = child
	}
	return root
}

// FromKeys returns the skeleton tree holding every key with an empty leaf.
func FromKeys(keys []string) *Node {
	root := New()
	for _, k := range keys {
		Merge(root, Expand(k, ""))
	}
	return root
}

// FromEntries rebuilds a tree from flattened entries.
func FromEntries(entries []Entry) *Node {
	root := New()
	for _, e := range entries {
		Merge(root, Expand(e.Key, e.Value))
	}
	return root
}

// Merge deep-merges src into dst. When both sides hold nodes at the same
// key they are merged recursively; otherwise the value from src replaces
// whatever dst held there, including a node replaced by a leaf or the
// reverse.
func Merge(dst, src *Node) {
	if src == nil {
		return
	}
	for _, k := range src.keys {
		sv := src.vals[k]
		if dv, ok := dst.vals[k]; ok && dv.kind == KindNode && sv.kind == KindNode {
			Merge(dv.node, sv.node)
			continue
		}
		dst.Put(k, sv.clone())
	}
}

// Get resolves a dot path in n.
func Get(n *Node, path string) (Value, bool) {
	cur := n
	parts := strings.Split(path, Sep)
	for i, p := range parts {
		v, ok := cur.Lookup(p)
		if !ok {
			return Value{}, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		if v.kind != KindNode {
			return Value{}, false
		}
		cur = v.node
	}
	return Value{}, false
}

// GetString resolves a dot path to a string leaf.
func GetString(n *Node, path string) (string, bool) {
	v, ok := Get(n, path)
	if !ok || v.kind != KindLeaf {
		return "", false
	}
	return v.leaf, true
}

// Set stores v at path, creating intermediate nodes as needed. A leaf or
// raw value found where an intermediate node is required is overwritten by
// a new empty node, losing its previous content.
func Set(n *Node, path string, v Value) {
	parts := strings.Split(path, Sep)
	cur := n
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur.Lookup(p)
		if !ok || next.kind != KindNode {
			child := New()
			cur.Put(p, Branch(child))
			cur = child
			continue
		}
		cur = next.node
	}
	cur.Put(parts[len(parts)-1], v)
}

// SetString stores a string leaf at path.
func SetString(n *Node, path, value string) {
	Set(n, path, Leaf(value))
}
