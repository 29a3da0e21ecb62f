package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tangomine/tangomine/internal/config"
	"github.com/tangomine/tangomine/internal/jmdict"
	"github.com/tangomine/tangomine/internal/log"
	"github.com/spf13/cobra"
)

// NewDictCmd creates the dict command with its subcommands.
func NewDictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dict",
		Short: "Manage the JMdict dictionary file",
	}

	cmd.AddCommand(newDictFetchCmd())

	return cmd
}

// newDictFetchCmd creates the dict fetch subcommand.
func newDictFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the JMdict dictionary",
		Long: `Fetch downloads the English jmdict-simplified release from GitHub to
the given path. Without --force an existing file is left untouched, so
fetch is safe to run from scripts before every mine.`,
		RunE: runDictFetchCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultDictionaryPath(),
		"Destination path for the dictionary file")
	cmd.Flags().Bool("force", false,
		"Re-download even if the file already exists")

	return cmd
}

// runDictFetchCmd executes the dict fetch subcommand.
func runDictFetchCmd(cmd *cobra.Command, _ []string) error {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	logger := log.NewLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	if force {
		err = jmdict.Download(ctx, output)
	} else {
		err = jmdict.Ensure(ctx, output)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch dictionary: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Dictionary ready at %s\n", output)

	return nil
}
