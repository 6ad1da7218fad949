package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mabhi256/tokgraph/internal/loader"
	"github.com/mabhi256/tokgraph/internal/report"
)

var exportWorkers int

var exportCmd = &cobra.Command{
	Use:   "export [token-file]",
	Short: "Write every token's fully resolved value as JSON",
	Long: `Export resolves every token of a file, following references until none are
left, and writes a JSON object mapping token paths to their values.

Examples:
  tokgraph export tokens.json > resolved.json
  tokgraph export tokens.yaml --workers 4`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeFileOnly,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("workers") && exportWorkers < 1 {
			return fmt.Errorf("workers must be at least 1, got %d", exportWorkers)
		}
		return validateTokenFile(args[0])
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := loader.Load(args[0])
		if err != nil {
			return err
		}

		workers := cfg.Workers
		if cmd.Flags().Changed("workers") {
			workers = exportWorkers
		}

		result, err := report.Export(cmd.Context(), tree, workers)
		if err != nil {
			return fmt.Errorf("export interrupted: %w", err)
		}
		for _, path := range result.Cyclic {
			logger.Warn("token left unresolved by a reference cycle", "path", path)
		}

		return report.PrintExport(cmd.OutOrStdout(), result)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().IntVarP(&exportWorkers, "workers", "w", 0, "Concurrent resolvers (default from config, number of CPUs)")
}
