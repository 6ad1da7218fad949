package tokens

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// studioDoc mimics a Tokens Studio export: namespaces that contain a slash,
// legacy value/type fields, a space in a key and document metadata.
const studioDoc = `{
  "global/colors": {
    "brand": {
      "red": {"$value": "#ff0000", "$type": "color"},
      "primary": {"$value": "{brand.red}", "$type": "color", "$description": "Main brand colour"}
    },
    "$description": "not a token"
  },
  "global/spacing": {
    "base": {"$value": 4, "$type": "dimension"},
    "small": {"value": "{base}px", "type": "dimension"},
    "gutter": {"$value": "{small} {base}"}
  },
  "semantic": {
    "button": {
      "bg": {"$value": "{brand.primary}"},
      "border width": {"$value": "{missing.token}"}
    }
  },
  "$themes": [],
  "$metadata": {"tokenSetOrder": ["global/colors", "global/spacing", "semantic"]}
}`

const cycleDoc = `{
  "loop": {
    "x": {"$value": "{loop.y}"},
    "y": {"$value": "{loop.x}"}
  }
}`

const scenarioDoc = `{
  "color": {
    "base": {"$value": "#ff0000"},
    "primary": {"$value": "{color.base}"}
  }
}`

const crossNamespaceDoc = `{
  "ns1": {"a": {"b": {"$value": "{c.d}"}}},
  "ns2": {"c": {"d": {"$value": "8px"}}}
}`

func mustParse(t *testing.T, doc string) *Tree {
	t.Helper()
	tree, err := Parse([]byte(doc))
	require.NoError(t, err)
	return tree
}
