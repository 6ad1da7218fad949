package tokens

import "strings"

// WalkFunc is called for every leaf in document order. Returning false stops
// the walk.
type WalkFunc func(fullPath string, leaf *Leaf) bool

// Walk visits every leaf of t pre-order: namespaces in document order, then
// keys in document order within each group. Metadata is never visited.
func Walk(t *Tree, fn WalkFunc) {
	root := t.Root()
	if root == nil {
		return
	}
	walkSubtree(root, "", fn)
}

func walkSubtree(s *Subtree, prefix string, fn WalkFunc) bool {
	for _, key := range s.keys {
		fullPath := key
		if prefix != "" {
			fullPath = joinPath(prefix, key)
		}

		switch child := s.children[key].(type) {
		case *Leaf:
			if !fn(fullPath, child) {
				return false
			}
		case *Subtree:
			if !walkSubtree(child, fullPath, fn) {
				return false
			}
		}
	}
	return true
}

// LeafPaths returns the full path of every leaf in document order
func LeafPaths(t *Tree) []string {
	var paths []string
	Walk(t, func(fullPath string, _ *Leaf) bool {
		paths = append(paths, fullPath)
		return true
	})
	return paths
}

// FindDownstreamReferences returns every token whose value references the
// token at path, in document order, with the referencing token's raw value.
// A token references the target when its value embeds the literal
// {dot.path} of the target, or when one of its references locates the
// target's node.
func FindDownstreamReferences(t *Tree, path string) []TokenReference {
	refs := []TokenReference{}

	fullPath, _, found := target(t, path)
	literal := referenceSpan(SplitFullPath(path).DotPath)

	// resolved caches the full path each distinct reference locates
	resolved := make(map[string]string)
	pointsAtTarget := func(ref string) bool {
		if !found {
			return false
		}
		refPath, ok := resolved[ref]
		if !ok {
			refPath, _, _ = locate(t, ref)
			resolved[ref] = refPath
		}
		return refPath == fullPath
	}

	Walk(t, func(leafPath string, leaf *Leaf) bool {
		s, ok := leaf.StringValue()
		if !ok {
			return true
		}

		matches := strings.Contains(s, literal)
		for _, ref := range ParseTokenReferences(s) {
			if matches {
				break
			}
			matches = pointsAtTarget(ref)
		}

		if matches {
			refs = append(refs, TokenReference{Path: leafPath, Value: s})
		}
		return true
	})

	return refs
}
