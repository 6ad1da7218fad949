package cmd

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mabhi256/tokgraph/internal/config"
	"github.com/mabhi256/tokgraph/internal/loader"
	"github.com/mabhi256/tokgraph/internal/report"
	"github.com/mabhi256/tokgraph/internal/tokens"
	"github.com/mabhi256/tokgraph/utils"
)

var completeTokenFiles = utils.CompleteFilesByExtension(loader.Extensions)

// completeFileThenPath completes a token file first, then the leaf paths of
// that file
func completeFileThenPath(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return completeTokenFiles(cmd, args, toComplete)
	case 1:
		tree, err := loader.Load(args[0])
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		var suggestions []string
		for _, path := range tokens.LeafPaths(tree) {
			if strings.HasPrefix(path, toComplete) {
				suggestions = append(suggestions, path)
			}
		}
		return suggestions, cobra.ShellCompDirectiveNoFileComp
	default:
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
}

func completeFileOnly(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeTokenFiles(cmd, args, toComplete)
}

func completeOutputFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return commandFormats(cmd), cobra.ShellCompDirectiveNoFileComp
}

// formatsAnnotation lists the output formats a command accepts when it
// supports fewer than config.OutputFormats
const formatsAnnotation = "tokgraph/output-formats"

// valueFormats are the output formats of commands that print no graph
var valueFormats = []string{report.FormatCLI, report.FormatJSON}

// validateTokenFile checks the file argument before a command loads it
func validateTokenFile(file string) error {
	if !loader.IsTokenFile(file) {
		return fmt.Errorf("invalid token file: %s. Valid extensions: %v", file, loader.Extensions)
	}

	_, err := os.Stat(file)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("file does not exist: %s", file)
	}
	return err
}

func commandFormats(cmd *cobra.Command) []string {
	if formats, ok := cmd.Annotations[formatsAnnotation]; ok {
		return strings.Split(formats, ",")
	}
	return config.OutputFormats
}

// outputFormat returns the -o flag when given and the configured format
// otherwise. A configured format the command cannot print falls back to cli.
func outputFormat(cmd *cobra.Command) (string, error) {
	formats := commandFormats(cmd)

	if cmd.Flags().Changed("output") {
		format, _ := cmd.Flags().GetString("output")
		if !slices.Contains(formats, format) {
			return "", fmt.Errorf("invalid output format: %s. Valid options: %v", format, formats)
		}
		return format, nil
	}

	if !slices.Contains(config.OutputFormats, cfg.Output) {
		return "", fmt.Errorf("invalid output format: %s. Valid options: %v", cfg.Output, config.OutputFormats)
	}
	if !slices.Contains(formats, cfg.Output) {
		logger.Debug("configured output format not supported, using cli", "command", cmd.Name(), "format", cfg.Output)
		return report.FormatCLI, nil
	}
	return cfg.Output, nil
}

// addOutputFlag adds -o to cmd. formats, when given, narrows the accepted
// formats from config.OutputFormats.
func addOutputFlag(cmd *cobra.Command, formats ...string) {
	if len(formats) > 0 {
		if cmd.Annotations == nil {
			cmd.Annotations = make(map[string]string)
		}
		cmd.Annotations[formatsAnnotation] = strings.Join(formats, ",")
	}
	usage := fmt.Sprintf("Output format (%s)", strings.Join(commandFormats(cmd), ", "))
	cmd.Flags().StringP("output", "o", "cli", usage)
	cmd.RegisterFlagCompletionFunc("output", completeOutputFormats)
}

// preRunTokenFile validates the file argument and the output format
func preRunTokenFile(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Lookup("output") != nil {
		if _, err := outputFormat(cmd); err != nil {
			return err
		}
	}
	return validateTokenFile(args[0])
}

// loadToken loads file and resolves path to the full path of a node in it
func loadToken(file, path string) (*tokens.Tree, string, error) {
	tree, err := loader.Load(file)
	if err != nil {
		return nil, "", err
	}

	fullPath, ok := tokens.CanonicalPath(tree, path)
	if !ok {
		return nil, "", fmt.Errorf("token not found: %s", path)
	}
	logger.Debug("token located", "file", file, "path", path, "fullPath", fullPath)
	return tree, fullPath, nil
}
