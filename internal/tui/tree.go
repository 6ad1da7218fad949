package tui

import (
	"strings"

	"github.com/mabhi256/tokgraph/internal/tokens"
)

// visibleRows lists the rows of the tree pane. A non-empty filter flattens
// the tree to the leaf paths containing it, ignoring case.
func visibleRows(tree *tokens.Tree, expanded map[string]bool, filter string) []row {
	if filter != "" {
		return matchingRows(tree, filter)
	}

	var rows []row
	appendRows(&rows, tree.Root(), "", 0, expanded)
	return rows
}

func appendRows(rows *[]row, s *tokens.Subtree, prefix string, depth int, expanded map[string]bool) {
	for _, key := range s.Keys() {
		path := key
		if prefix != "" {
			path = prefix + tokens.PathSeparator + key
		}

		child, _ := s.Child(key)
		sub, isGroup := child.(*tokens.Subtree)
		*rows = append(*rows, row{path: path, label: key, depth: depth, group: isGroup})

		if isGroup && expanded[path] {
			appendRows(rows, sub, path, depth+1, expanded)
		}
	}
}

func matchingRows(tree *tokens.Tree, filter string) []row {
	needle := strings.ToLower(filter)

	var rows []row
	for _, path := range tokens.LeafPaths(tree) {
		if strings.Contains(strings.ToLower(path), needle) {
			rows = append(rows, row{path: path, label: path})
		}
	}
	return rows
}

// expandAncestors marks every group above path as expanded
func expandAncestors(expanded map[string]bool, path string) {
	segments := strings.Split(path, tokens.PathSeparator)
	for i := 1; i < len(segments); i++ {
		expanded[strings.Join(segments[:i], tokens.PathSeparator)] = true
	}
}

func parentPath(path string) string {
	i := strings.LastIndex(path, tokens.PathSeparator)
	if i < 0 {
		return ""
	}
	return path[:i]
}

func indexOf(rows []row, path string) int {
	for i, r := range rows {
		if r.path == path {
			return i
		}
	}
	return -1
}

func renderRows(rows []row, expanded map[string]bool, cursor, offset, height, width int) string {
	if len(rows) == 0 {
		return MutedStyle.Render("(no tokens)")
	}

	end := min(offset+height, len(rows))
	lines := make([]string, 0, end-offset)
	for i := offset; i < end; i++ {
		r := rows[i]
		marker := "•"
		if r.group {
			marker = "▸"
			if expanded[r.path] {
				marker = "▾"
			}
		}

		line := TruncateString(strings.Repeat("  ", r.depth)+marker+" "+r.label, width)
		switch {
		case i == cursor:
			line = SelectedStyle.Render(line)
		case r.group:
			line = InfoLightStyle.Render(line)
		default:
			line = TextStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
