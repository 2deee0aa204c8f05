// Package tree implements the nested translation tree used by locale JSON
// files.
//
// A tree is a *Node: an ordered mapping from segment name to a Value. A
// Value is tagged: it is either a string Leaf, a nested Node, or an opaque
// Raw JSON value (numbers, booleans, arrays, null) that is preserved on
// write but otherwise ignored. Dot-delimited keys ("a.b.c") address leaves.
package tree

import (
	"bytes"
	"encoding/json"
)

// Kind tells which variant a Value holds.
type Kind int

const (
	// KindInvalid is the zero Value, returned for absent keys.
	KindInvalid Kind = iota
	// KindLeaf is a string leaf.
	KindLeaf
	// KindNode is a nested subtree.
	KindNode
	// KindRaw is any other JSON value, kept verbatim.
	KindRaw
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindNode:
		return "node"
	case KindRaw:
		return "raw"
	default:
		return "invalid"
	}
}

// Value is a tagged tree value: Leaf(string) | Node(*Node) | Raw(json).
type Value struct {
	kind Kind
	leaf string
	node *Node
	raw  json.RawMessage
}

// Leaf returns a string leaf value.
func Leaf(s string) Value {
	return Value{kind: KindLeaf, leaf: s}
}

// Branch returns a subtree value. A nil node is replaced by an empty one.
func Branch(n *Node) Value {
	if n == nil {
		n = New()
	}
	return Value{kind: KindNode, node: n}
}

// Raw wraps a JSON value that is neither a string nor an object. The value
// is stored in compact form.
func Raw(data json.RawMessage) Value {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return Value{kind: KindRaw, raw: append(json.RawMessage(nil), data...)}
	}
	return Value{kind: KindRaw, raw: buf.Bytes()}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsLeaf reports whether v is a string leaf.
func (v Value) IsLeaf() bool { return v.kind == KindLeaf }

// IsNode reports whether v is a subtree.
func (v Value) IsNode() bool { return v.kind == KindNode }

// String returns the leaf text, or "" for other kinds.
func (v Value) String() string {
	if v.kind != KindLeaf {
		return ""
	}
	return v.leaf
}

// Node returns the subtree, or nil when v is not a node.
func (v Value) Node() *Node {
	if v.kind != KindNode {
		return nil
	}
	return v.node
}

// clone deep-copies node values; leaves and raw values are immutable.
func (v Value) clone() Value {
	if v.kind == KindNode {
		return Branch(v.node.Clone())
	}
	return v
}
