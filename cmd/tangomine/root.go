// Package main provides the entry point for the tangomine CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for tangomine.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tangomine",
		Short: "Mine Japanese vocabulary from text corpora",
		Long: `tangomine mines Japanese vocabulary from text corpora (novels, subtitles,
articles) and turns it into study material.

It tokenizes the input, counts how often each word appears and where it
first shows up, collects example sentences, resolves one dictionary
definition per word, and exports the result as CSV/TSV/JSON/Markdown or
straight into Anki through AnkiConnect.

Repeat runs are fast: tokenization results are cached per file content,
so only changed files are re-analyzed.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewMineCmd())
	cmd.AddCommand(NewLookupCmd())
	cmd.AddCommand(NewCacheCmd())
	cmd.AddCommand(NewDictCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
