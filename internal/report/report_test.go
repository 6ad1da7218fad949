package report

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mabhi256/tokgraph/internal/tokens"
)

const doc = `{
  "color": {
    "red": {"$value": "#f00", "$type": "color"},
    "brand": {"$value": "{color.red}"},
    "button": {"$value": "{color.brand}"},
    "broken": {"$value": "{color.nope}"}
  },
  "loop": {
    "a": {"$value": "{loop.b}"},
    "b": {"$value": "{loop.a}"}
  }
}`

func parse(t *testing.T) *tokens.Tree {
	t.Helper()
	tree, err := tokens.Parse([]byte(doc))
	require.NoError(t, err)
	return tree
}

func TestPrintGraphCLI(t *testing.T) {
	tree := parse(t)
	graph := tokens.GenerateTokenGraph(tree, "color.brand")
	chain := tokens.BuildUpstreamChain(tree, "color.brand")

	var buf bytes.Buffer
	require.NoError(t, PrintGraph(&buf, graph, chain, FormatCLI))

	out := buf.String()
	assert.Contains(t, out, "🔗 color.brand")
	assert.Contains(t, out, "color.red → color.brand")
	assert.Contains(t, out, "UPSTREAM (1)")
	assert.Contains(t, out, "color.red = #f00")
	assert.Contains(t, out, "DOWNSTREAM (1)")
	assert.Contains(t, out, "color.button = {color.brand}")
}

func TestPrintGraphJSON(t *testing.T) {
	tree := parse(t)
	graph := tokens.GenerateTokenGraph(tree, "color.red")
	chain := tokens.BuildUpstreamChain(tree, "color.red")

	var buf bytes.Buffer
	require.NoError(t, PrintGraph(&buf, graph, chain, FormatJSON))
	assert.JSONEq(t, `{
		"selectedToken": "color.red",
		"upstream": [],
		"downstream": [{"path": "color.brand", "value": "{color.red}"}],
		"chain": ["color.red"]
	}`, buf.String())
}

func TestPrintGraphMermaid(t *testing.T) {
	tree := parse(t)
	graph := tokens.GenerateTokenGraph(tree, "color.brand")
	chain := tokens.BuildUpstreamChain(tree, "color.brand")

	var buf bytes.Buffer
	require.NoError(t, PrintGraph(&buf, graph, chain, FormatMermaid))
	assert.Contains(t, buf.String(), "graph LR\n")
	assert.Contains(t, buf.String(), "n0 --> n1")
}

func TestUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, PrintGraph(&buf, tokens.TokenGraph{}, nil, "html"))
	assert.Error(t, PrintValue(&buf, "a", 1, nil, "html"))
	assert.Error(t, PrintChain(&buf, nil, "html"))
	assert.Error(t, PrintValidation(&buf, &tokens.ValidationResult{}, "html"))
}

func TestPrintValue(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintValue(&buf, "color.brand", "#f00", nil, FormatCLI))
	assert.Equal(t, "#f00\n", buf.String())

	buf.Reset()
	require.NoError(t, PrintValue(&buf, "loop.a", "{loop.a}", []string{"loop.a", "loop.b", "loop.a"}, FormatCLI))
	assert.Contains(t, buf.String(), "reference cycle: loop.a → loop.b → loop.a")

	buf.Reset()
	require.NoError(t, PrintValue(&buf, "color.brand", "#f00", nil, FormatJSON))
	assert.JSONEq(t, `{"path": "color.brand", "value": "#f00"}`, buf.String())

	tree := parse(t)
	sub, ok := tokens.ResolveTokenValue(tree, "loop")
	require.True(t, ok)
	buf.Reset()
	require.NoError(t, PrintValue(&buf, "loop", sub, nil, FormatCLI))
	assert.JSONEq(t, `{"a": {"$value": "{loop.b}"}, "b": {"$value": "{loop.a}"}}`, buf.String())
}

func TestPrintChain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintChain(&buf, []string{"a", "b"}, FormatCLI))
	assert.Equal(t, "a\n  b\n", buf.String())

	buf.Reset()
	require.NoError(t, PrintChain(&buf, nil, FormatJSON))
	assert.JSONEq(t, `[]`, buf.String())
}

func TestPrintChainMermaid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintChain(&buf, []string{"color.red", "color.brand", "color.button"}, FormatMermaid))
	assert.Equal(t, "graph LR\n"+
		"    n0[\"color.red\"]\n"+
		"    n1[\"color.brand\"]\n"+
		"    n2[\"color.button\"]\n"+
		"    n0 --> n1\n"+
		"    n1 --> n2\n", buf.String())

	buf.Reset()
	require.NoError(t, PrintChain(&buf, nil, FormatMermaid))
	assert.Equal(t, "graph LR\n", buf.String())
}

func TestNoDiagramForValues(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, PrintValue(&buf, "color.brand", "#f00", nil, FormatMermaid), ErrNoDiagram)
	assert.ErrorIs(t, PrintValidation(&buf, tokens.Validate(parse(t)), FormatMermaid), ErrNoDiagram)
	assert.Empty(t, buf.String())
}

func TestPrintTree(t *testing.T) {
	var buf bytes.Buffer
	PrintTree(&buf, parse(t))

	out := buf.String()
	assert.Contains(t, out, "color\n  red = #f00  (color)\n")
	assert.Contains(t, out, "loop\n  a = {loop.b}\n")
}

func TestPrintValidation(t *testing.T) {
	result := tokens.Validate(parse(t))

	var buf bytes.Buffer
	require.NoError(t, PrintValidation(&buf, result, FormatCLI))
	out := buf.String()
	assert.Contains(t, out, "❌")
	assert.Contains(t, out, "color.broken → {color.nope}")
	assert.Contains(t, out, "loop.a → loop.b → loop.a")

	buf.Reset()
	require.NoError(t, PrintValidation(&buf, result, FormatJSON))
	var decoded tokens.ValidationResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.False(t, decoded.Valid)
	assert.Len(t, decoded.Dangling, 1)
}

func TestExport(t *testing.T) {
	tree := parse(t)

	result, err := Export(context.Background(), tree, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"color.red", "color.brand", "color.button", "color.broken", "loop.a", "loop.b"}, result.Paths)
	assert.Equal(t, "#f00", result.Values["color.button"])
	assert.Nil(t, result.Values["color.broken"])
	assert.Equal(t, []string{"loop.a", "loop.b"}, result.Cyclic)

	var buf bytes.Buffer
	require.NoError(t, PrintExport(&buf, result))
	assert.JSONEq(t, `{
		"color.red": "#f00",
		"color.brand": "#f00",
		"color.button": "#f00",
		"color.broken": null,
		"loop.a": "{loop.a}",
		"loop.b": "{loop.b}"
	}`, buf.String())
}

func TestExportCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Export(ctx, parse(t), 2)
	assert.ErrorIs(t, err, context.Canceled)
}
