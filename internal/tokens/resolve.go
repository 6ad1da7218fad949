package tokens

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// missingValue is substituted for references that name no node
const missingValue = "null"

// ResolveTokenValue returns the value of the node at fullPath, which is walked
// from the root. A leaf's string value has each {ref} span replaced with the
// primary value of the node the reference names, in a single pass; the
// substituted text is not scanned again. References to missing nodes become
// "null". Non-string values come back untouched and a subtree comes back as
// the *Subtree itself.
//
// ok is false when fullPath names no node.
func ResolveTokenValue(t *Tree, fullPath string) (any, bool) {
	n, ok := Lookup(t, fullPath)
	if !ok {
		return nil, false
	}

	leaf, isLeaf := n.(*Leaf)
	if !isLeaf {
		return n, true
	}

	s, isString := leaf.StringValue()
	if !isString || !strings.Contains(s, "{") {
		return leaf.Value, true
	}

	return replaceReferences(s, func(ref string) string {
		refNode, ok := FindNodeByDotPath(t, ref)
		if !ok {
			return missingValue
		}
		return FormatValue(primaryValue(refNode))
	}), true
}

// Resolution is the outcome of ResolveFully
type Resolution struct {
	Path  string // full path of the resolved token
	Value any
	Found bool

	// Cycle lists the full paths of the first reference cycle met, closing
	// with the path that repeats. A cyclic reference is left unsubstituted.
	Cycle []string
}

// Cyclic reports whether resolution stopped at a reference cycle
func (r Resolution) Cyclic() bool {
	return len(r.Cycle) > 0
}

// ResolveFully substitutes references until the value holds none, following
// referenced values that carry references of their own. A value made of
// exactly one reference takes the referenced value with its original type.
// path may be a full path or a namespace-less path (see CanonicalPath).
func ResolveFully(t *Tree, path string) Resolution {
	fullPath, n, ok := target(t, path)
	if !ok {
		return Resolution{Path: path}
	}

	r := &fullResolver{tree: t, onStack: make(map[string]bool)}
	value := r.resolve(fullPath, n)
	return Resolution{
		Path:  fullPath,
		Value: value,
		Found: true,
		Cycle: r.cycle,
	}
}

type fullResolver struct {
	tree    *Tree
	stack   []string
	onStack map[string]bool
	cycle   []string
}

func (r *fullResolver) resolve(fullPath string, n Node) any {
	leaf, isLeaf := n.(*Leaf)
	if !isLeaf {
		return n
	}

	s, isString := leaf.StringValue()
	if !isString {
		return leaf.Value
	}

	r.stack = append(r.stack, fullPath)
	r.onStack[fullPath] = true
	defer func() {
		r.stack = r.stack[:len(r.stack)-1]
		delete(r.onStack, fullPath)
	}()

	refs := ParseTokenReferences(s)
	if len(refs) == 1 && s == referenceSpan(refs[0]) {
		if v, ok := r.follow(refs[0]); ok {
			return v
		}
		return s
	}

	return replaceReferences(s, func(ref string) string {
		v, ok := r.follow(ref)
		if !ok {
			return referenceSpan(ref)
		}
		return FormatValue(v)
	})
}

// follow resolves one reference. ok is false when the reference closes a
// cycle; a missing node resolves to nil.
func (r *fullResolver) follow(ref string) (any, bool) {
	refPath, refNode, found := locate(r.tree, ref)
	if !found {
		return nil, true
	}

	if r.onStack[refPath] {
		if r.cycle == nil {
			start := slices.Index(r.stack, refPath)
			r.cycle = append(slices.Clone(r.stack[start:]), refPath)
		}
		return nil, false
	}

	return r.resolve(refPath, refNode), true
}

func primaryValue(n Node) any {
	if leaf, ok := n.(*Leaf); ok {
		return leaf.Value
	}
	return n
}

// FormatValue renders a token value the way it is substituted into a string.
// nil renders as "null" and objects as JSON.
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return missingValue
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case *Subtree:
		if v == nil {
			return missingValue
		}
	case *Leaf:
		if v == nil {
			return missingValue
		}
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
