package tree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Node is an ordered mapping from segment name to Value. Insertion order is
// kept so that files are written back in the order they were read.
type Node struct {
	keys []string
	vals map[string]Value
}

// New returns an empty node.
func New() *Node {
	return &Node{vals: make(map[string]Value)}
}

// Len returns the number of direct children.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	return len(n.keys)
}

// Keys returns the child names in order.
func (n *Node) Keys() []string {
	if n == nil {
		return nil
	}
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}

// Lookup returns the direct child named key.
func (n *Node) Lookup(key string) (Value, bool) {
	if n == nil {
		return Value{}, false
	}
	v, ok := n.vals[key]
	return v, ok
}

// Put stores v under key. An existing key keeps its position.
func (n *Node) Put(key string, v Value) {
	if _, ok := n.vals[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.vals[key] = v
}

// Delete removes the direct child named key.
func (n *Node) Delete(key string) {
	if _, ok := n.vals[key]; !ok {
		return
	}
	delete(n.vals, key)
	for i, k := range n.keys {
		if k == key {
			n.keys = append(n.keys[:i], n.keys[i+1:]...)
			break
		}
	}
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	out := New()
	if n == nil {
		return out
	}
	for _, k := range n.keys {
		out.Put(k, n.vals[k].clone())
	}
	return out
}

// Equal reports whether a and b hold the same keys, order and values. A nil
// node equals an empty one.
func Equal(a, b *Node) bool {
	ak, bk := a.Keys(), b.Keys()
	if len(ak) != len(bk) {
		return false
	}
	for i, k := range ak {
		if bk[i] != k {
			return false
		}
		av, _ := a.Lookup(k)
		bv, _ := b.Lookup(k)
		if av.kind != bv.kind {
			return false
		}
		switch av.kind {
		case KindLeaf:
			if av.leaf != bv.leaf {
				return false
			}
		case KindNode:
			if !Equal(av.node, bv.node) {
				return false
			}
		case KindRaw:
			if !bytes.Equal(av.raw, bv.raw) {
				return false
			}
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// JSON
// ---------------------------------------------------------------------------

// Parse decodes a JSON object into a node, preserving key order.
func Parse(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	n, err := decodeObject(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level object")
	}
	return n, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Node) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*n = *parsed
	return nil
}

func decodeObject(dec *json.Decoder) (*Node, error) {
	t, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := t.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected {, got %v", t)
	}

	n := New()
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := kt.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %T", kt)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		v, err := decodeValue(raw)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		n.Put(key, v)
	}

	// Closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return n, nil
}

func decodeValue(raw json.RawMessage) (Value, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Value{}, fmt.Errorf("empty value")
	}
	switch trimmed[0] {
	case '{':
		child, err := decodeObject(json.NewDecoder(bytes.NewReader(trimmed)))
		if err != nil {
			return Value{}, err
		}
		return Branch(child), nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return Value{}, err
		}
		return Leaf(s), nil
	default:
		return Raw(trimmed), nil
	}
}

// Marshal encodes n as JSON indented with two spaces, followed by a newline.
func Marshal(n *Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeNode(&buf, n, ""); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler (compact form).
func (n *Node) MarshalJSON() ([]byte, error) {
	data, err := Marshal(n)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeNode(buf *bytes.Buffer, n *Node, indent string) error {
	if n.Len() == 0 {
		buf.WriteString("{}")
		return nil
	}
	inner := indent + "  "
	buf.WriteString("{\n")
	for i, k := range n.keys {
		buf.WriteString(inner)
		buf.WriteString(jsonString(k))
		buf.WriteString(": ")

		v := n.vals[k]
		switch v.kind {
		case KindLeaf:
			buf.WriteString(jsonString(v.leaf))
		case KindNode:
			if err := writeNode(buf, v.node, inner); err != nil {
				return err
			}
		case KindRaw:
			if err := json.Indent(buf, v.raw, inner, "  "); err != nil {
				return fmt.Errorf("key %q: %w", k, err)
			}
		default:
			buf.WriteString("null")
		}
		if i < len(n.keys)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString(indent)
	buf.WriteByte('}')
	return nil
}

// jsonString encodes s without HTML escaping, matching JSON.stringify.
func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
