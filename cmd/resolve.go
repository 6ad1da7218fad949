package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mabhi256/tokgraph/internal/report"
	"github.com/mabhi256/tokgraph/internal/tokens"
)

var resolveFull bool

var resolveCmd = &cobra.Command{
	Use:   "resolve [token-file] [path]",
	Short: "Print the resolved value of a token",
	Long: `Resolve substitutes every {reference} in a token's value with the value of the
referenced token. By default references are replaced once; --full keeps
following references until none are left and reports reference cycles.

Examples:
  tokgraph resolve tokens.json color.brand
  tokgraph resolve tokens.json color.brand --full -o json`,
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

		if resolveFull {
			r := tokens.ResolveFully(tree, fullPath)
			if r.Cyclic() {
				logger.Warn("reference cycle", "path", fullPath, "cycle", r.Cycle)
			}
			return report.PrintValue(cmd.OutOrStdout(), r.Path, r.Value, r.Cycle, format)
		}

		value, _ := tokens.ResolveTokenValue(tree, fullPath)
		return report.PrintValue(cmd.OutOrStdout(), fullPath, value, nil, format)
	},
}

var chainCmd = &cobra.Command{
	Use:               "chain [token-file] [path]",
	Short:             "Print the chain of first references leading to a token",
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
		return report.PrintChain(cmd.OutOrStdout(), tokens.BuildUpstreamChain(tree, fullPath), format)
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(chainCmd)

	resolveCmd.Flags().BoolVar(&resolveFull, "full", false, "Resolve references recursively")
	addOutputFlag(resolveCmd, valueFormats...)
	addOutputFlag(chainCmd)
}
