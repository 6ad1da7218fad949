package tokens

// TokenGraph holds the references around one selected token
type TokenGraph struct {
	SelectedToken string           `json:"selectedToken"`
	Upstream      []TokenReference `json:"upstream"`
	Downstream    []TokenReference `json:"downstream"`
}

// GenerateTokenGraph collects the upstream and downstream references of the
// token at path
func GenerateTokenGraph(t *Tree, path string) TokenGraph {
	return TokenGraph{
		SelectedToken: path,
		Upstream:      FindUpstreamReferences(t, path),
		Downstream:    FindDownstreamReferences(t, path),
	}
}
