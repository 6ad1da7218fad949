package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mabhi256/tokgraph/internal/tokens"
)

func TestRenderDetails(t *testing.T) {
	tree, err := tokens.Parse([]byte(doc))
	require.NoError(t, err)

	out := RenderDetails(tree, "color.brand")
	for _, want := range []string{
		"color.brand",
		"{color.base.red}",
		"#f00",
		"Primary brand",
		"color.base.red → color.brand",
		"Upstream (1)",
		"color.base.red = #f00",
		"Downstream (0)",
		"graph LR",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRenderDetailsGroupAndMissing(t *testing.T) {
	tree, err := tokens.Parse([]byte(doc))
	require.NoError(t, err)

	assert.Contains(t, RenderDetails(tree, "color.base"), "2 entries")
	assert.Contains(t, RenderDetails(tree, "color.gone"), "no longer exists")
	assert.Contains(t, RenderDetails(tree, ""), "Select a token")
}

func TestRenderDetailsCycle(t *testing.T) {
	tree, err := tokens.Parse([]byte(`{"a": {"x": {"$value": "{a.y}"}, "y": {"$value": "{a.x}"}}}`))
	require.NoError(t, err)
	assert.Contains(t, RenderDetails(tree, "a.x"), "cycle: a.x → a.y → a.x")
}

func TestExpandAncestors(t *testing.T) {
	expanded := make(map[string]bool)
	expandAncestors(expanded, "a.b.c")
	assert.Equal(t, map[string]bool{"a": true, "a.b": true}, expanded)
	assert.Equal(t, "a.b", parentPath("a.b.c"))
	assert.Equal(t, "", parentPath("a"))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "long...", TruncateString("longer text", 7))
	assert.Equal(t, "..", TruncateString("abc", 2))
}
