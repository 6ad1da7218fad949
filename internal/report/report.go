package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mabhi256/tokgraph/internal/diagram"
	"github.com/mabhi256/tokgraph/internal/tokens"
)

const (
	FormatCLI     = "cli"
	FormatJSON    = "json"
	FormatMermaid = "mermaid"
)

const ruleWidth = 65

func unknownFormat(format string) error {
	return fmt.Errorf("unknown output format '%s'", format)
}

// ErrNoDiagram is returned when mermaid output is asked of a report that is
// not a graph
var ErrNoDiagram = errors.New("output has no mermaid form")

func noDiagram(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNoDiagram)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

type graphOutput struct {
	tokens.TokenGraph
	Chain []string `json:"chain"`
}

// PrintGraph writes the references around the selected token
func PrintGraph(w io.Writer, graph tokens.TokenGraph, chain []string, format string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, graphOutput{TokenGraph: graph, Chain: chain})
	case FormatMermaid:
		_, err := io.WriteString(w, diagram.Mermaid(chain, graph))
		return err
	case FormatCLI:
		printGraph(w, graph, chain, painter{color: ColorEnabled(w)})
		return nil
	default:
		return unknownFormat(format)
	}
}

func printGraph(w io.Writer, graph tokens.TokenGraph, chain []string, p painter) {
	fmt.Fprintf(w, "🔗 %s\n", p.paint(HeadingStyle, graph.SelectedToken))
	fmt.Fprintln(w, strings.Repeat("═", ruleWidth))

	fmt.Fprintln(w, "\n⛓️  UPSTREAM CHAIN")
	fmt.Fprintln(w, strings.Repeat("─", 35))
	if len(chain) > 1 {
		fmt.Fprintf(w, "   %s\n", strings.Join(chain, p.paint(MutedStyle, " → ")))
	} else {
		fmt.Fprintf(w, "   %s\n", p.paint(MutedStyle, "(no references)"))
	}

	printReferences(w, "⬆️  UPSTREAM", graph.Upstream, p)
	printReferences(w, "⬇️  DOWNSTREAM", graph.Downstream, p)
}

func printReferences(w io.Writer, title string, refs []tokens.TokenReference, p painter) {
	fmt.Fprintf(w, "\n%s (%d)\n", title, len(refs))
	fmt.Fprintln(w, strings.Repeat("─", 35))
	if len(refs) == 0 {
		fmt.Fprintf(w, "   %s\n", p.paint(MutedStyle, "(none)"))
		return
	}
	for _, ref := range refs {
		fmt.Fprintf(w, "   %s = %s\n", p.paint(InfoStyle, ref.Path), tokens.FormatValue(ref.Value))
	}
}

type valueOutput struct {
	Path  string   `json:"path"`
	Value any      `json:"value"`
	Cycle []string `json:"cycle,omitempty"`
}

// PrintValue writes a resolved value. cycle, when set, is reported as a
// warning after the value.
func PrintValue(w io.Writer, path string, value any, cycle []string, format string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, valueOutput{Path: path, Value: value, Cycle: cycle})
	case FormatMermaid:
		return noDiagram("resolved value")
	case FormatCLI:
		p := painter{color: ColorEnabled(w)}
		if _, isSubtree := value.(*tokens.Subtree); isSubtree {
			if err := writeJSON(w, value); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(w, tokens.FormatValue(value))
		}
		if len(cycle) > 0 {
			fmt.Fprintf(w, "%s reference cycle: %s\n",
				p.paint(WarningStyle, "⚠️"), strings.Join(cycle, " → "))
		}
		return nil
	default:
		return unknownFormat(format)
	}
}

// PrintChain writes the upstream chain root-most first, one path per line.
// As mermaid it is drawn as a flowchart with one edge per link.
func PrintChain(w io.Writer, chain []string, format string) error {
	switch format {
	case FormatJSON:
		if chain == nil {
			chain = []string{}
		}
		return writeJSON(w, chain)
	case FormatMermaid:
		_, err := io.WriteString(w, diagram.Mermaid(chain, tokens.TokenGraph{}))
		return err
	case FormatCLI:
		for i, path := range chain {
			fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", i), path)
		}
		return nil
	default:
		return unknownFormat(format)
	}
}

// PrintTree writes an indented listing of the document. Leaves show their
// raw value and type.
func PrintTree(w io.Writer, tree *tokens.Tree) {
	p := painter{color: ColorEnabled(w)}
	printSubtree(w, tree.Root(), 0, p)
}

func printSubtree(w io.Writer, s *tokens.Subtree, depth int, p painter) {
	indent := strings.Repeat("  ", depth)
	for _, key := range s.Keys() {
		child, _ := s.Child(key)
		switch n := child.(type) {
		case *tokens.Subtree:
			fmt.Fprintf(w, "%s%s\n", indent, p.paint(HeadingStyle, key))
			printSubtree(w, n, depth+1, p)
		case *tokens.Leaf:
			line := fmt.Sprintf("%s%s = %s", indent, p.paint(InfoStyle, key), tokens.FormatValue(n.Value))
			if n.Type != "" {
				line += p.paint(MutedStyle, fmt.Sprintf("  (%s)", n.Type))
			}
			fmt.Fprintln(w, line)
		}
	}
}

// PrintValidation writes a reference integrity report
func PrintValidation(w io.Writer, result *tokens.ValidationResult, format string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatMermaid:
		return noDiagram("reference check")
	case FormatCLI:
	default:
		return unknownFormat(format)
	}

	p := painter{color: ColorEnabled(w)}
	fmt.Fprintln(w, "🔍 Reference Check")
	fmt.Fprintln(w, strings.Repeat("═", ruleWidth))

	if result.IsValid() {
		fmt.Fprintf(w, "%s %s\n", p.paint(GoodStyle, "✅"), result.GetSummary())
		return nil
	}
	fmt.Fprintf(w, "%s %s\n", p.paint(CriticalStyle, "❌"), result.GetSummary())

	if len(result.Dangling) > 0 {
		fmt.Fprintln(w, "\n🔴 DANGLING REFERENCES")
		fmt.Fprintln(w, strings.Repeat("─", 35))
		for _, d := range result.Dangling {
			fmt.Fprintf(w, "   %s → {%s}\n", p.paint(InfoStyle, d.From), p.paint(CriticalStyle, d.Ref))
		}
	}

	if len(result.Cycles) > 0 {
		fmt.Fprintln(w, "\n🔁 REFERENCE CYCLES")
		fmt.Fprintln(w, strings.Repeat("─", 35))
		for _, cycle := range result.Cycles {
			fmt.Fprintf(w, "   %s\n", p.paint(WarningStyle, strings.Join(cycle, " → ")))
		}
	}
	return nil
}
