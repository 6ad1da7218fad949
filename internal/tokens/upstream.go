package tokens

import "slices"

// TokenReference is one end of a reference edge
type TokenReference struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// FindUpstreamReferences collects every token path depends on, directly or
// transitively, depth first. Each located reference contributes its full path
// and resolved value, followed by its own upstream references. A path is
// expanded at most once per call, which stops reference cycles.
func FindUpstreamReferences(t *Tree, path string) []TokenReference {
	refs := []TokenReference{}
	collectUpstream(t, path, make(map[string]bool), &refs)
	return refs
}

func collectUpstream(t *Tree, path string, visited map[string]bool, out *[]TokenReference) {
	fullPath, n, ok := target(t, path)
	if !ok || visited[fullPath] {
		return
	}
	visited[fullPath] = true

	leaf, isLeaf := n.(*Leaf)
	if !isLeaf {
		return
	}

	for _, ref := range leaf.References() {
		refPath, _, found := locate(t, ref)
		if !found {
			continue
		}

		value, _ := ResolveTokenValue(t, refPath)
		*out = append(*out, TokenReference{Path: refPath, Value: value})
		collectUpstream(t, refPath, visited, out)
	}
}

// BuildUpstreamChain follows the first reference of each token starting at
// path and returns the visited paths root-most first, ending with path. The
// walk stops at a token without references, at a path already in the chain,
// or at a reference naming no node; such a dangling reference is still the
// first element.
func BuildUpstreamChain(t *Tree, path string) []string {
	current := path
	if fullPath, ok := CanonicalPath(t, path); ok {
		current = fullPath
	}

	var chain []string
	visited := make(map[string]bool)
	for !visited[current] {
		visited[current] = true
		chain = append(chain, current)

		n, ok := Lookup(t, current)
		if !ok {
			break
		}
		leaf, isLeaf := n.(*Leaf)
		if !isLeaf {
			break
		}
		refs := leaf.References()
		if len(refs) == 0 {
			break
		}
		current = FindFullPathForDotPath(t, refs[0])
	}

	slices.Reverse(chain)
	return chain
}
