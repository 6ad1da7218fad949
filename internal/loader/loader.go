package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mabhi256/tokgraph/internal/tokens"
)

// Extensions lists the token document extensions Load accepts
var Extensions = []string{".json", ".yaml", ".yml"}

// ErrUnsupportedFormat is returned for files whose extension is not one of
// Extensions
var ErrUnsupportedFormat = errors.New("unsupported token file format")

// IsTokenFile reports whether filename has a token document extension
func IsTokenFile(filename string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(filename)))
}

// Load reads and parses a token document. .json files are decoded as JSON,
// .yaml and .yml files as YAML.
func Load(path string) (*tokens.Tree, error) {
	if !IsTokenFile(path) {
		return nil, fmt.Errorf("%s: %w (want one of %s)", path, ErrUnsupportedFormat, strings.Join(Extensions, ", "))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	parse := tokens.ParseYAML
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		parse = tokens.ParseJSON
	}

	tree, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return tree, nil
}
