package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindNodeByDotPath(t *testing.T) {
	tree := mustParse(t, studioDoc)

	n, ok := FindNodeByDotPath(tree, "brand.red")
	require.True(t, ok)
	assert.Equal(t, "#ff0000", n.(*Leaf).Value)

	n, ok = FindNodeByDotPath(tree, "base")
	require.True(t, ok)
	assert.Equal(t, 4, n.(*Leaf).Value)

	n, ok = FindNodeByDotPath(tree, "button.border width")
	require.True(t, ok)
	assert.Equal(t, "{missing.token}", n.(*Leaf).Value)

	_, ok = FindNodeByDotPath(tree, "missing.token")
	assert.False(t, ok)
}

func TestFindNodeByDotPathFirstNamespaceWins(t *testing.T) {
	tree := mustParse(t, `{
		"light": {"bg": {"$value": "#fff"}},
		"dark": {"bg": {"$value": "#000"}}
	}`)

	n, ok := FindNodeByDotPath(tree, "bg")
	require.True(t, ok)
	assert.Equal(t, "#fff", n.(*Leaf).Value)
	assert.Equal(t, "light.bg", FindFullPathForDotPath(tree, "bg"))
}

func TestFindNodeByDotPathFallsBackToRoot(t *testing.T) {
	tree := mustParse(t, scenarioDoc)

	n, ok := FindNodeByDotPath(tree, "color.base")
	require.True(t, ok)
	assert.Equal(t, "#ff0000", n.(*Leaf).Value)
	assert.Equal(t, "color.base", FindFullPathForDotPath(tree, "color.base"))
}

func TestFindNodeByDotPathSkipsMetadataNamespaces(t *testing.T) {
	tree := mustParse(t, `{
		"$metadata": {"bg": {"$value": "hidden"}},
		"theme": {"bg": {"$value": "shown"}}
	}`)

	n, ok := FindNodeByDotPath(tree, "bg")
	require.True(t, ok)
	assert.Equal(t, "shown", n.(*Leaf).Value)
	assert.Equal(t, []string{"theme"}, tree.Namespaces())
}

func TestFindFullPathForDotPath(t *testing.T) {
	tree := mustParse(t, studioDoc)

	assert.Equal(t, "global/colors.brand.primary", FindFullPathForDotPath(tree, "brand.primary"))
	assert.Equal(t, "semantic.button.border-width", FindFullPathForDotPath(tree, "button.border width"))
	assert.Equal(t, "missing.token", FindFullPathForDotPath(tree, "missing.token"))
	assert.Equal(t, "anything", FindFullPathForDotPath(nil, "anything"))
}

func TestCanonicalPath(t *testing.T) {
	tree := mustParse(t, studioDoc)

	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"global/colors.brand.red", "global/colors.brand.red", true},
		{"semantic.button.border width", "semantic.button.border-width", true},
		{"brand.red", "global/colors.brand.red", true},
		{"global/unknown.brand.red", "global/colors.brand.red", true},
		{"unknown", "", false},
	}

	for _, tt := range tests {
		got, ok := CanonicalPath(tree, tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}
}
