package tokens

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Primary value field names, in order of preference
var valueKeys = []string{"$value", "value"}

var (
	typeKeys        = []string{"$type", "type"}
	descriptionKeys = []string{"$description", "description"}
)

// maxAliasExpansions bounds the number of YAML aliases one document may
// expand while it is built into a tree
const maxAliasExpansions = 100_000

var (
	// ErrNotMapping is returned when a document, or a part of it that must
	// be an object, is something else
	ErrNotMapping = errors.New("token document must be an object")

	// ErrAliasCycle is returned for a YAML alias that points at one of its
	// own enclosing nodes
	ErrAliasCycle = errors.New("alias refers back to an enclosing anchor")

	// ErrTooManyAliases is returned once a document expands more than
	// maxAliasExpansions aliases
	ErrTooManyAliases = errors.New("too many alias expansions")
)

// Parse builds a Tree from a JSON or YAML token document. Input that is
// valid JSON goes through ParseJSON, anything else through ParseYAML.
func Parse(data []byte) (*Tree, error) {
	if json.Valid(data) {
		return ParseJSON(data)
	}
	return ParseYAML(data)
}

// ParseYAML builds a Tree from a YAML token document. Key order is preserved
// and every key is sanitized with SanitizeKey. When two keys of one object
// collide after sanitizing, the later value wins and keeps the position of
// the first.
//
// Values below a data key that are neither a leaf nor a group (bare scalars
// or arrays) are not tokens and are left out of the tree.
func ParseYAML(data []byte) (*Tree, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode token document: %w", err)
	}
	return buildTree(&doc)
}

func buildTree(doc *yaml.Node) (*Tree, error) {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty document: %w", ErrNotMapping)
	}

	b := &builder{active: make(map[*yaml.Node]bool)}
	root, err := b.resolve(doc.Content[0])
	if err != nil {
		return nil, err
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("document root at line %d: %w", root.Line, ErrNotMapping)
	}

	subtree, err := b.subtree(root)
	if err != nil {
		return nil, err
	}
	return &Tree{root: subtree}, nil
}

// builder converts a decoded document into tree nodes. active holds the
// nodes on the current descent path so an alias back into one of them is
// reported instead of followed.
type builder struct {
	active  map[*yaml.Node]bool
	aliases int
}

func (b *builder) resolve(n *yaml.Node) (*yaml.Node, error) {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		b.aliases++
		if b.aliases > maxAliasExpansions {
			return nil, fmt.Errorf("line %d: %w (limit %d)", n.Line, ErrTooManyAliases, maxAliasExpansions)
		}
		if b.active[n.Alias] {
			return nil, fmt.Errorf("line %d: alias cycle: %w", n.Line, ErrAliasCycle)
		}
		n = n.Alias
	}
	return n, nil
}

func (b *builder) enter(n *yaml.Node) { b.active[n] = true }
func (b *builder) leave(n *yaml.Node) { delete(b.active, n) }

func (b *builder) subtree(m *yaml.Node) (*Subtree, error) {
	b.enter(m)
	defer b.leave(m)

	s := newSubtree()

	for i := 0; i+1 < len(m.Content); i += 2 {
		key := SanitizeKey(m.Content[i].Value)
		child, err := b.resolve(m.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}

		if IsMetadataKey(key) {
			v, err := b.value(child)
			if err != nil {
				return nil, fmt.Errorf("metadata %q: %w", key, err)
			}
			s.setMetadata(key, v)
			continue
		}

		if child.Kind != yaml.MappingNode {
			continue
		}

		if isLeafNode(child) {
			leaf, err := b.leaf(child)
			if err != nil {
				return nil, fmt.Errorf("token %q: %w", key, err)
			}
			s.set(key, leaf)
			continue
		}

		sub, err := b.subtree(child)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		s.set(key, sub)
	}

	return s, nil
}

func isLeafNode(m *yaml.Node) bool {
	for i := 0; i+1 < len(m.Content); i += 2 {
		key := SanitizeKey(m.Content[i].Value)
		for _, vk := range valueKeys {
			if key == vk {
				return true
			}
		}
	}
	return false
}

func (b *builder) leaf(m *yaml.Node) (*Leaf, error) {
	b.enter(m)
	defer b.leave(m)

	fields := make(map[string]*yaml.Node)
	var order []string
	for i := 0; i+1 < len(m.Content); i += 2 {
		key := SanitizeKey(m.Content[i].Value)
		field, err := b.resolve(m.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		if _, exists := fields[key]; !exists {
			order = append(order, key)
		}
		fields[key] = field
	}

	consumed := make(map[string]bool)
	leaf := &Leaf{}

	valueKey := firstPresent(fields, valueKeys)
	v, err := b.value(fields[valueKey])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", valueKey, err)
	}
	leaf.Value = v
	consumed[valueKey] = true

	if key := firstPresent(fields, typeKeys); key != "" && fields[key].Kind == yaml.ScalarNode {
		leaf.Type = fields[key].Value
		consumed[key] = true
	}
	if key := firstPresent(fields, descriptionKeys); key != "" && fields[key].Kind == yaml.ScalarNode {
		leaf.Description = fields[key].Value
		consumed[key] = true
	}

	for _, key := range order {
		if consumed[key] {
			continue
		}
		v, err := b.value(fields[key])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		if leaf.Extensions == nil {
			leaf.Extensions = make(map[string]any)
		}
		leaf.Extensions[key] = v
	}

	return leaf, nil
}

func firstPresent(fields map[string]*yaml.Node, keys []string) string {
	for _, key := range keys {
		if _, ok := fields[key]; ok {
			return key
		}
	}
	return ""
}

// value converts a YAML node into plain Go values with sanitized object keys
func (b *builder) value(n *yaml.Node) (any, error) {
	n, err := b.resolve(n)
	if err != nil {
		return nil, err
	}

	switch n.Kind {
	case yaml.MappingNode:
		b.enter(n)
		defer b.leave(n)

		obj := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := b.value(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj[SanitizeKey(n.Content[i].Value)] = v
		}
		return obj, nil

	case yaml.SequenceNode:
		b.enter(n)
		defer b.leave(n)

		list := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := b.value(item)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil

	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	}
}
