package diagram

import (
	"fmt"
	"strings"

	"github.com/mabhi256/tokgraph/internal/tokens"
)

// Edge is a directed edge between two token paths
type Edge struct {
	From string
	To   string
}

// Diagram is the node and edge set drawn for one selected token
type Diagram struct {
	Nodes []string // in first-seen order
	Edges []Edge
}

// Build draws an edge for every consecutive pair of the upstream chain and
// one from the selected token to every downstream token
func Build(chain []string, graph tokens.TokenGraph) *Diagram {
	d := &Diagram{}
	seen := make(map[string]bool)
	addNode := func(path string) {
		if !seen[path] {
			seen[path] = true
			d.Nodes = append(d.Nodes, path)
		}
	}

	for i := 0; i+1 < len(chain); i++ {
		addNode(chain[i])
		addNode(chain[i+1])
		d.Edges = append(d.Edges, Edge{From: chain[i], To: chain[i+1]})
	}

	selected := graph.SelectedToken
	if len(chain) > 0 {
		selected = chain[len(chain)-1]
	}
	if selected == "" {
		return d
	}
	addNode(selected)
	for _, ref := range graph.Downstream {
		addNode(ref.Path)
		d.Edges = append(d.Edges, Edge{From: selected, To: ref.Path})
	}

	return d
}

// Mermaid renders d as a left-to-right Mermaid flowchart. Token paths are
// used as labels behind generated ids, since paths may hold characters
// Mermaid ids cannot.
func (d *Diagram) Mermaid() string {
	ids := make(map[string]string, len(d.Nodes))
	var b strings.Builder
	b.WriteString("graph LR\n")

	for i, node := range d.Nodes {
		id := fmt.Sprintf("n%d", i)
		ids[node] = id
		fmt.Fprintf(&b, "    %s[\"%s\"]\n", id, escapeLabel(node))
	}
	for _, e := range d.Edges {
		fmt.Fprintf(&b, "    %s --> %s\n", ids[e.From], ids[e.To])
	}

	return b.String()
}

// Mermaid is shorthand for Build(chain, graph).Mermaid()
func Mermaid(chain []string, graph tokens.TokenGraph) string {
	return Build(chain, graph).Mermaid()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}
