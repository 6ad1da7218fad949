package tokens

import (
	"bytes"
	"encoding/json"
	"slices"
)

// Node is either a *Leaf or a *Subtree. The set is closed; traversal code
// switches on the concrete type.
type Node interface {
	node()
}

// Leaf is a token: a node carrying a primary value
type Leaf struct {
	Value       any    // string, number, bool, nil, []any or map[string]any
	Type        string // $type (or legacy type)
	Description string // $description (or legacy description)

	// Extensions holds every other field of the leaf, keyed by its sanitized name
	Extensions map[string]any
}

// Subtree is a group of tokens. Metadata keys are kept apart from the
// children and never take part in traversal.
type Subtree struct {
	keys     []string
	children map[string]Node

	metaKeys []string
	metadata map[string]any
}

// Tree is a parsed token document. It is immutable once built and safe for
// concurrent readers.
type Tree struct {
	root *Subtree
}

func (*Leaf) node()    {}
func (*Subtree) node() {}

// StringValue returns the leaf's value when it is a string
func (l *Leaf) StringValue() (string, bool) {
	if l == nil {
		return "", false
	}
	s, ok := l.Value.(string)
	return s, ok
}

// References returns the dot-paths referenced by the leaf's value
func (l *Leaf) References() []string {
	s, ok := l.StringValue()
	if !ok {
		return nil
	}
	return ParseTokenReferences(s)
}

func newSubtree() *Subtree {
	return &Subtree{
		children: make(map[string]Node),
		metadata: make(map[string]any),
	}
}

// set adds or replaces a child. A replaced child keeps its original position.
func (s *Subtree) set(key string, n Node) {
	if _, exists := s.children[key]; !exists {
		s.keys = append(s.keys, key)
	}
	s.children[key] = n
}

func (s *Subtree) setMetadata(key string, v any) {
	if _, exists := s.metadata[key]; !exists {
		s.metaKeys = append(s.metaKeys, key)
	}
	s.metadata[key] = v
}

// Keys returns the child keys in document order
func (s *Subtree) Keys() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.keys)
}

// Child returns the child stored under key
func (s *Subtree) Child(key string) (Node, bool) {
	if s == nil {
		return nil, false
	}
	n, ok := s.children[key]
	return n, ok
}

// Len returns the number of children, metadata excluded
func (s *Subtree) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Metadata returns the value of a metadata key such as "$description"
func (s *Subtree) Metadata(key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.metadata[key]
	return v, ok
}

// MetadataKeys returns the metadata keys in document order
func (s *Subtree) MetadataKeys() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.metaKeys)
}

// Root returns the top-level subtree
func (t *Tree) Root() *Subtree {
	if t == nil {
		return nil
	}
	return t.root
}

// Namespaces returns the top-level keys in document order
func (t *Tree) Namespaces() []string {
	return t.Root().Keys()
}

// MarshalJSON writes the subtree as an object in document order, children
// first, then metadata.
func (s *Subtree) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	write := func(key string, v any) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		return writeMember(&buf, key, v)
	}

	for _, key := range s.keys {
		if err := write(key, s.children[key]); err != nil {
			return nil, err
		}
	}
	for _, key := range s.metaKeys {
		if err := write(key, s.metadata[key]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON writes the leaf in the $-prefixed token format
func (l *Leaf) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeMember(&buf, "$value", l.Value); err != nil {
		return nil, err
	}
	if l.Type != "" {
		buf.WriteByte(',')
		if err := writeMember(&buf, "$type", l.Type); err != nil {
			return nil, err
		}
	}
	if l.Description != "" {
		buf.WriteByte(',')
		if err := writeMember(&buf, "$description", l.Description); err != nil {
			return nil, err
		}
	}

	keys := make([]string, 0, len(l.Extensions))
	for key := range l.Extensions {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		buf.WriteByte(',')
		if err := writeMember(&buf, key, l.Extensions[key]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key string, v any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	val, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(val)
	return nil
}
