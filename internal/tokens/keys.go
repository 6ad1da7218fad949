package tokens

import (
	"regexp"
	"strings"
)

const (
	// MetadataPrefix marks keys that describe a document or a group and never name a token
	MetadataPrefix = "$"

	// PathSeparator joins path segments
	PathSeparator = "."

	// KeySeparator replaces whitespace runs in keys
	KeySeparator = "-"

	// namespaceMarker identifies a first path segment as a namespace (e.g. "global/colors")
	namespaceMarker = "/"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// SanitizeKey replaces every whitespace run in key with KeySeparator.
// Tree keys are sanitized at parse time, so every path segment that is
// matched against the tree must go through SanitizeKey too.
func SanitizeKey(key string) string {
	return whitespaceRun.ReplaceAllString(key, KeySeparator)
}

// IsMetadataKey reports whether key carries the reserved metadata prefix
func IsMetadataKey(key string) bool {
	return strings.HasPrefix(key, MetadataPrefix)
}

// PathParts is a path split into its namespace and the dot-path below it
type PathParts struct {
	Namespace string // empty when no namespace could be recognised
	DotPath   string
}

// SplitFullPath strips a leading namespace segment only when that segment
// contains a "/" and more segments follow it. Any other path is returned
// whole as a dot-path.
func SplitFullPath(fullPath string) PathParts {
	first, rest, found := strings.Cut(fullPath, PathSeparator)
	if found && strings.Contains(first, namespaceMarker) {
		return PathParts{Namespace: first, DotPath: rest}
	}
	return PathParts{DotPath: fullPath}
}

// splitPath returns the sanitized segments of path
func splitPath(path string) []string {
	parts := strings.Split(path, PathSeparator)
	for i, part := range parts {
		parts[i] = SanitizeKey(part)
	}
	return parts
}

func joinPath(segments ...string) string {
	return strings.Join(segments, PathSeparator)
}
