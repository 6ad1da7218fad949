package tokens

// FindNodeByDotPath finds the node named by a dot-path that omits its
// namespace. Every top-level namespace is tried in document order and the
// first one below which all segments resolve wins. When no namespace
// matches, the dot-path is tried from the root, for references that spell
// out their namespace.
func FindNodeByDotPath(t *Tree, dotPath string) (Node, bool) {
	_, n, ok := locate(t, dotPath)
	return n, ok
}

// FindFullPathForDotPath returns the full path of the node a dot-path names,
// found the same way as FindNodeByDotPath. When nothing matches the
// dot-path is returned unchanged.
func FindFullPathForDotPath(t *Tree, dotPath string) string {
	if fullPath, _, ok := locate(t, dotPath); ok {
		return fullPath
	}
	return dotPath
}

// Lookup walks a full path from the root. Metadata segments are skipped.
func Lookup(t *Tree, fullPath string) (Node, bool) {
	n, _, ok := descend(t.Root(), splitPath(fullPath))
	return n, ok
}

// CanonicalPath maps a path supplied by a caller to the full path of the node
// it names. The path is first walked from the root; failing that its
// namespace is stripped with SplitFullPath and the rest is searched across
// namespaces.
func CanonicalPath(t *Tree, path string) (string, bool) {
	fullPath, _, ok := target(t, path)
	return fullPath, ok
}

func target(t *Tree, path string) (string, Node, bool) {
	if n, walked, ok := descend(t.Root(), splitPath(path)); ok {
		return joinPath(walked...), n, true
	}
	return locate(t, SplitFullPath(path).DotPath)
}

func locate(t *Tree, dotPath string) (string, Node, bool) {
	root := t.Root()
	if root == nil {
		return "", nil, false
	}

	segments := splitPath(dotPath)
	for _, namespace := range root.keys {
		if n, walked, ok := descend(root.children[namespace], segments); ok {
			return joinPath(append([]string{namespace}, walked...)...), n, true
		}
	}

	if n, walked, ok := descend(root, segments); ok {
		return joinPath(walked...), n, true
	}
	return "", nil, false
}

// descend follows segments down from start and returns the node reached with
// the data segments it walked. A walk that names no data segment, or that
// tries to step into a leaf, fails.
func descend(start Node, segments []string) (Node, []string, bool) {
	if start == nil {
		return nil, nil, false
	}

	current := start
	walked := make([]string, 0, len(segments))
	for _, segment := range segments {
		if IsMetadataKey(segment) {
			continue
		}

		sub, ok := current.(*Subtree)
		if !ok {
			return nil, nil, false
		}
		child, ok := sub.Child(segment)
		if !ok {
			return nil, nil, false
		}
		current = child
		walked = append(walked, segment)
	}

	if len(walked) == 0 {
		return nil, nil, false
	}
	return current, walked, true
}
