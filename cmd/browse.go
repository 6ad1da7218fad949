package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mabhi256/tokgraph/internal/loader"
	"github.com/mabhi256/tokgraph/internal/logging"
	"github.com/mabhi256/tokgraph/internal/tui"
)

var browseWatch bool

var browseCmd = &cobra.Command{
	Use:   "browse [token-file]",
	Short: "Browse tokens and their references in the terminal",
	Long: `Browse opens an interactive token tree. Selecting a token shows its raw and
resolved values, the tokens it depends on, the tokens depending on it and a
Mermaid diagram of those references.

With --watch the file is reloaded whenever it changes on disk.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeFileOnly,
	PreRunE:           preRunTokenFile,
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := loader.Load(args[0])
		if err != nil {
			return err
		}

		tuiLogger, closeLog, err := logging.NewFile(cfg.LogFile, cfg.Debug)
		if err != nil {
			return err
		}
		defer closeLog()
		tuiLogger.Info("browsing token file", "path", args[0], "watch", browseWatch)

		err = tui.StartTUI(tree, tui.Options{
			Path:     args[0],
			Watch:    browseWatch,
			Debounce: cfg.Debounce,
			Logger:   tuiLogger,
		})
		if err != nil {
			return fmt.Errorf("unable to start TUI: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
	browseCmd.Flags().BoolVarP(&browseWatch, "watch", "w", false, "Reload the file when it changes")
}
