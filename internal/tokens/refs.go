package tokens

import "regexp"

// referencePattern matches a {dot.path} reference
var referencePattern = regexp.MustCompile(`\{([^}]+)\}`)

// ParseTokenReferences returns the interior of every {...} span in value,
// left to right. Duplicates are kept.
func ParseTokenReferences(value string) []string {
	matches := referencePattern.FindAllStringSubmatch(value, -1)
	if len(matches) == 0 {
		return []string{}
	}

	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, m[1])
	}
	return refs
}

// ReferencesOf returns the references embedded in v. Only strings carry
// references.
func ReferencesOf(v any) []string {
	s, ok := v.(string)
	if !ok {
		return []string{}
	}
	return ParseTokenReferences(s)
}

// replaceReferences rebuilds value with every reference span replaced by
// replace(ref). The result is not re-scanned.
func replaceReferences(value string, replace func(ref string) string) string {
	return referencePattern.ReplaceAllStringFunc(value, func(span string) string {
		return replace(span[1 : len(span)-1])
	})
}

// referenceSpan wraps a dot-path in braces
func referenceSpan(dotPath string) string {
	return "{" + dotPath + "}"
}
