package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mabhi256/tokgraph/internal/report"
	"github.com/mabhi256/tokgraph/internal/tokens"
)

var graphCmd = &cobra.Command{
	Use:   "graph [token-file] [path]",
	Short: "Show the tokens a token depends on and the tokens depending on it",
	Long: `Graph lists the upstream references of a token (every token it depends on,
directly or through other tokens) and its downstream references (tokens
that reference it directly), along with its chain of first references.

Examples:
  tokgraph graph tokens.json color.brand
  tokgraph graph tokens.json color.brand -o mermaid > brand.mmd`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeFileThenPath,
	PreRunE:           preRunTokenFile,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		tree, fullPath, err := loadToken(args[0], args[1])
		if err != nil {
			return err
		}

		graph := tokens.GenerateTokenGraph(tree, fullPath)
		chain := tokens.BuildUpstreamChain(tree, fullPath)
		logger.Debug("graph built", "path", fullPath,
			"upstream", len(graph.Upstream), "downstream", len(graph.Downstream))

		return report.PrintGraph(cmd.OutOrStdout(), graph, chain, format)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	addOutputFlag(graphCmd)
}
