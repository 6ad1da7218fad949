package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tokenDoc = `{
  "color": {
    "red": {"$value": "#f00"},
    "brand": {"$value": "{color.red}"},
    "button": {"$value": "{color.brand}"}
  }
}`

// run executes the root command in an isolated home and returns stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("SHELL", "/bin/sh") // no completion auto-setup

	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores every flag to its default between runs
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

func writeTokens(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestResolveCommand(t *testing.T) {
	file := writeTokens(t, tokenDoc)

	out, err := run(t, "resolve", file, "color.button")
	require.NoError(t, err)
	assert.Equal(t, "{color.red}\n", out)

	out, err = run(t, "resolve", file, "color.button", "--full")
	require.NoError(t, err)
	assert.Equal(t, "#f00\n", out)

	out, err = run(t, "resolve", file, "color.button", "--full", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"path": "color.button", "value": "#f00"}`, out)
}

func TestResolveMissingToken(t *testing.T) {
	file := writeTokens(t, tokenDoc)
	_, err := run(t, "resolve", file, "color.nope")
	assert.EqualError(t, err, "token not found: color.nope")
}

func TestGraphCommand(t *testing.T) {
	file := writeTokens(t, tokenDoc)

	out, err := run(t, "graph", file, "color.brand", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"selectedToken": "color.brand",
		"upstream": [{"path": "color.red", "value": "#f00"}],
		"downstream": [{"path": "color.button", "value": "{color.brand}"}],
		"chain": ["color.red", "color.brand"]
	}`, out)
}

func TestChainCommand(t *testing.T) {
	file := writeTokens(t, tokenDoc)
	out, err := run(t, "chain", file, "color.button")
	require.NoError(t, err)
	assert.Equal(t, "color.red\n  color.brand\n    color.button\n", out)
}

func TestCheckCommand(t *testing.T) {
	out, err := run(t, "check", writeTokens(t, tokenDoc))
	require.NoError(t, err)
	assert.Contains(t, out, "PASSED")

	_, err = run(t, "check", writeTokens(t, `{"a": {"x": {"$value": "{a.gone}"}}}`))
	assert.ErrorIs(t, err, errCheckFailed)
}

func TestExportCommand(t *testing.T) {
	out, err := run(t, "export", writeTokens(t, tokenDoc), "--workers", "2")
	require.NoError(t, err)
	assert.JSONEq(t, `{"color.red": "#f00", "color.brand": "#f00", "color.button": "#f00"}`, out)

	_, err = run(t, "export", writeTokens(t, tokenDoc), "--workers", "0")
	assert.Error(t, err)
}

func TestTreeCommand(t *testing.T) {
	out, err := run(t, "tree", writeTokens(t, tokenDoc))
	require.NoError(t, err)
	assert.Equal(t, "color\n  red = #f00\n  brand = {color.red}\n  button = {color.brand}\n", out)
}

func TestPreRunValidation(t *testing.T) {
	file := writeTokens(t, tokenDoc)

	_, err := run(t, "graph", file, "color.red", "-o", "html")
	assert.ErrorContains(t, err, "invalid output format: html")

	_, err = run(t, "tree", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "file does not exist")

	_, err = run(t, "tree", "tokens.txt")
	assert.ErrorContains(t, err, "invalid token file")
}

func TestMermaidOutput(t *testing.T) {
	file := writeTokens(t, tokenDoc)

	out, err := run(t, "chain", file, "color.brand", "-o", "mermaid")
	require.NoError(t, err)
	assert.Equal(t, "graph LR\n    n0[\"color.red\"]\n    n1[\"color.brand\"]\n    n0 --> n1\n", out)

	out, err = run(t, "resolve", file, "color.brand", "-o", "mermaid")
	assert.ErrorContains(t, err, "invalid output format: mermaid. Valid options: [cli json]")
	assert.Empty(t, out)

	_, err = run(t, "check", file, "-o", "mermaid")
	assert.ErrorContains(t, err, "invalid output format: mermaid")

	// a configured mermaid default only applies where it can be drawn
	t.Setenv("TOKGRAPH_OUTPUT", "mermaid")
	out, err = run(t, "resolve", file, "color.brand")
	require.NoError(t, err)
	assert.Equal(t, "#f00\n", out)
}

func TestConfigOutputDefault(t *testing.T) {
	file := writeTokens(t, tokenDoc)
	t.Setenv("TOKGRAPH_OUTPUT", "json")

	out, err := run(t, "chain", file, "color.brand")
	require.NoError(t, err)
	assert.JSONEq(t, `["color.red", "color.brand"]`, out)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "tokgraph version dev\n", out)
}

func TestCompleteFileThenPath(t *testing.T) {
	file := writeTokens(t, tokenDoc)

	suggestions, directive := completeFileThenPath(resolveCmd, []string{file}, "color.b")
	assert.Equal(t, []string{"color.brand", "color.button"}, suggestions)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)

	suggestions, _ = completeFileThenPath(resolveCmd, []string{file, "color.red"}, "")
	assert.Empty(t, suggestions)
}
