package tui

import (
	"fmt"
	"strings"

	"github.com/mabhi256/tokgraph/internal/diagram"
	"github.com/mabhi256/tokgraph/internal/tokens"
)

// RenderDetails describes the node at path: its values, its place in the
// reference graph and the diagram source for that graph
func RenderDetails(tree *tokens.Tree, path string) string {
	if path == "" {
		return MutedStyle.Render("Select a token")
	}

	n, ok := tokens.Lookup(tree, path)
	if !ok {
		return CriticalStyle.Render(fmt.Sprintf("%s no longer exists", path))
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(path) + "\n\n")

	sub, isGroup := n.(*tokens.Subtree)
	if isGroup {
		fmt.Fprintf(&b, "%s %d entries\n", field("Group"), sub.Len())
		return b.String()
	}
	leaf := n.(*tokens.Leaf)

	fmt.Fprintf(&b, "%s %s\n", field("Value"), tokens.FormatValue(leaf.Value))
	if resolved, ok := tokens.ResolveTokenValue(tree, path); ok {
		fmt.Fprintf(&b, "%s %s\n", field("Resolved"), tokens.FormatValue(resolved))
	}

	full := tokens.ResolveFully(tree, path)
	fmt.Fprintf(&b, "%s %s\n", field("Final"), tokens.FormatValue(full.Value))
	if full.Cyclic() {
		fmt.Fprintf(&b, "%s\n", WarningStyle.Render("⚠️  cycle: "+strings.Join(full.Cycle, " → ")))
	}

	if leaf.Type != "" {
		fmt.Fprintf(&b, "%s %s\n", field("Type"), leaf.Type)
	}
	if leaf.Description != "" {
		fmt.Fprintf(&b, "%s %s\n", field("Description"), leaf.Description)
	}

	chain := tokens.BuildUpstreamChain(tree, path)
	graph := tokens.GenerateTokenGraph(tree, path)

	b.WriteString("\n" + SectionStyle.Render("Chain") + "\n")
	b.WriteString("  " + strings.Join(chain, " → ") + "\n")

	writeReferences(&b, "Upstream", graph.Upstream)
	writeReferences(&b, "Downstream", graph.Downstream)

	b.WriteString("\n" + SectionStyle.Render("Mermaid") + "\n")
	b.WriteString(MutedStyle.Render(diagram.Mermaid(chain, graph)))

	return b.String()
}

func field(name string) string {
	return InfoStyle.Render(fmt.Sprintf("%-12s", name+":"))
}

func writeReferences(b *strings.Builder, title string, refs []tokens.TokenReference) {
	fmt.Fprintf(b, "\n%s\n", SectionStyle.Render(fmt.Sprintf("%s (%d)", title, len(refs))))
	if len(refs) == 0 {
		b.WriteString("  " + MutedStyle.Render("(none)") + "\n")
		return
	}
	for _, ref := range refs {
		fmt.Fprintf(b, "  %s = %s\n", ref.Path, tokens.FormatValue(ref.Value))
	}
}
