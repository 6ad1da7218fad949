package tokens

import (
	"fmt"
	"slices"
)

// ReferenceMap tracks reference edges between leaf full paths in both
// directions
type ReferenceMap struct {
	// Forward references: path -> paths it references, in reference order
	ForwardRefs map[string][]string

	// Backward references: path -> paths that reference it, in document order
	BackwardRefs map[string][]string

	// Sources lists every path with outgoing references in document order
	Sources []string
}

// NewReferenceMap creates an empty reference map
func NewReferenceMap() *ReferenceMap {
	return &ReferenceMap{
		ForwardRefs:  make(map[string][]string),
		BackwardRefs: make(map[string][]string),
	}
}

// AddReference records that source references target
func (rm *ReferenceMap) AddReference(source, target string) {
	if _, seen := rm.ForwardRefs[source]; !seen {
		rm.Sources = append(rm.Sources, source)
	}
	rm.ForwardRefs[source] = append(rm.ForwardRefs[source], target)
	rm.BackwardRefs[target] = append(rm.BackwardRefs[target], source)
}

// GetReferences returns the paths source references
func (rm *ReferenceMap) GetReferences(source string) []string {
	return rm.ForwardRefs[source]
}

// GetReferrers returns the paths that reference target
func (rm *ReferenceMap) GetReferrers(target string) []string {
	return rm.BackwardRefs[target]
}

// DanglingReference is a reference that names no node
type DanglingReference struct {
	From string `json:"from"` // full path of the referencing token
	Ref  string `json:"ref"`  // dot-path as written
}

// ValidationResult reports the reference integrity of a document
type ValidationResult struct {
	Valid     bool                `json:"valid"`
	Tokens    int                 `json:"tokens"`
	TotalRefs int                 `json:"totalRefs"`
	ValidRefs int                 `json:"validRefs"`
	Dangling  []DanglingReference `json:"dangling"`
	Cycles    [][]string          `json:"cycles"`
}

// IsValid reports whether every reference resolves and none forms a cycle
func (vr *ValidationResult) IsValid() bool {
	return vr.Valid
}

// GetIntegrityPercentage returns the share of references that resolve
func (vr *ValidationResult) GetIntegrityPercentage() float64 {
	if vr.TotalRefs == 0 {
		return 100.0
	}
	return float64(vr.ValidRefs) / float64(vr.TotalRefs) * 100
}

// GetSummary returns a one-line report
func (vr *ValidationResult) GetSummary() string {
	if vr.TotalRefs == 0 {
		return fmt.Sprintf("%d tokens, no references to validate", vr.Tokens)
	}

	summary := fmt.Sprintf("%d tokens: %d/%d references valid (%.2f%% integrity)",
		vr.Tokens, vr.ValidRefs, vr.TotalRefs, vr.GetIntegrityPercentage())

	if len(vr.Dangling) > 0 {
		summary += fmt.Sprintf(", %d dangling", len(vr.Dangling))
	}
	if len(vr.Cycles) > 0 {
		summary += fmt.Sprintf(", %d cycles", len(vr.Cycles))
	}

	if vr.Valid {
		summary += " - PASSED"
	} else {
		summary += " - FAILED"
	}
	return summary
}

// BuildReferenceMap records an edge for every reference that locates a node
func BuildReferenceMap(t *Tree) *ReferenceMap {
	refMap, _ := scanReferences(t)
	return refMap
}

// Validate checks that every reference in t names a node and that no
// reference chain loops back on itself
func Validate(t *Tree) *ValidationResult {
	refMap, result := scanReferences(t)
	result.Cycles = findCycles(refMap)
	result.Valid = len(result.Dangling) == 0 && len(result.Cycles) == 0
	return result
}

func scanReferences(t *Tree) (*ReferenceMap, *ValidationResult) {
	refMap := NewReferenceMap()
	result := &ValidationResult{
		Dangling: []DanglingReference{},
		Cycles:   [][]string{},
	}

	Walk(t, func(fullPath string, leaf *Leaf) bool {
		result.Tokens++
		for _, ref := range leaf.References() {
			result.TotalRefs++
			refPath, _, ok := locate(t, ref)
			if !ok {
				result.Dangling = append(result.Dangling, DanglingReference{From: fullPath, Ref: ref})
				continue
			}
			result.ValidRefs++
			refMap.AddReference(fullPath, refPath)
		}
		return true
	})

	return refMap, result
}

// findCycles runs a depth-first search over the forward edges and reports
// one cycle per back edge, each closing with its repeated path
func findCycles(refMap *ReferenceMap) [][]string {
	const (
		unvisited = iota
		inProgress
		done
	)

	state := make(map[string]int)
	var stack []string
	cycles := [][]string{}

	var visit func(path string)
	visit = func(path string) {
		state[path] = inProgress
		stack = append(stack, path)

		for _, next := range refMap.ForwardRefs[path] {
			switch state[next] {
			case unvisited:
				visit(next)
			case inProgress:
				start := slices.Index(stack, next)
				cycles = append(cycles, append(slices.Clone(stack[start:]), next))
			}
		}

		stack = stack[:len(stack)-1]
		state[path] = done
	}

	for _, source := range refMap.Sources {
		if state[source] == unvisited {
			visit(source)
		}
	}
	return cycles
}
