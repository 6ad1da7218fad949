package report

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/mabhi256/tokgraph/internal/tokens"
)

// ExportResult maps every token to its fully resolved value
type ExportResult struct {
	Paths  []string       // token paths in document order
	Values map[string]any // resolved value per path
	Cyclic []string       // tokens whose resolution met a reference cycle
}

// Export resolves every token of tree with ResolveFully, running up to
// workers resolutions at once
func Export(ctx context.Context, tree *tokens.Tree, workers int) (*ExportResult, error) {
	if workers < 1 {
		workers = 1
	}

	paths := tokens.LeafPaths(tree)
	resolutions := make([]tokens.Resolution, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			resolutions[i] = tokens.ResolveFully(tree, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &ExportResult{
		Paths:  paths,
		Values: make(map[string]any, len(paths)),
	}
	for i, r := range resolutions {
		result.Values[paths[i]] = r.Value
		if r.Cyclic() {
			result.Cyclic = append(result.Cyclic, paths[i])
		}
	}
	return result, nil
}

// MarshalJSON writes the values as one object in document order
func (r *ExportResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, path := range r.Paths {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(path)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(r.Values[path])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// PrintExport writes the export as JSON
func PrintExport(w io.Writer, result *ExportResult) error {
	return writeJSON(w, result)
}
