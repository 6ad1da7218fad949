package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mabhi256/tokgraph/internal/loader"
	"github.com/mabhi256/tokgraph/internal/report"
	"github.com/mabhi256/tokgraph/internal/tokens"
)

var errCheckFailed = errors.New("reference check failed")

var treeCmd = &cobra.Command{
	Use:               "tree [token-file]",
	Short:             "List the tokens of a file",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeFileOnly,
	PreRunE:           preRunTokenFile,
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := loader.Load(args[0])
		if err != nil {
			return err
		}
		report.PrintTree(cmd.OutOrStdout(), tree)
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check [token-file]",
	Short: "Check that every reference resolves and none loops",
	Long: `Check validates the references of a token file. It exits non-zero when a
reference names no token or a chain of references loops back on itself.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeFileOnly,
	PreRunE:           preRunTokenFile,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		tree, err := loader.Load(args[0])
		if err != nil {
			return err
		}

		result := tokens.Validate(tree)
		if err := report.PrintValidation(cmd.OutOrStdout(), result, format); err != nil {
			return err
		}
		if !result.IsValid() {
			return errCheckFailed
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(checkCmd)
	addOutputFlag(checkCmd, valueFormats...)
}
