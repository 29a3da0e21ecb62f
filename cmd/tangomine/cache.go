package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tangomine/tangomine/internal/config"
	"github.com/tangomine/tangomine/internal/log"
	"github.com/tangomine/tangomine/internal/tokencache"
	"github.com/tangomine/tangomine/internal/tokenizer"
	"github.com/spf13/cobra"
)

// NewCacheCmd creates the cache command with its maintenance
// subcommands.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the token cache",
		Long: `Cache groups maintenance subcommands for the token cache that mine
keeps between runs. Cached token streams are keyed by file content and
the tokenizer fingerprint, so entries written by an older tokenizer
version are never read again; prune removes them.`,
	}

	cmd.AddCommand(newCacheStatsCmd())
	cmd.AddCommand(newCachePruneCmd())

	return cmd
}

// newCacheStatsCmd creates the cache stats subcommand.
func newCacheStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show token cache entry count and size",
		RunE:  runCacheStatsCmd,
	}

	cmd.Flags().String("cache-dir", config.DefaultCacheDir(),
		"Token cache directory")

	return cmd
}

// newCachePruneCmd creates the cache prune subcommand.
func newCachePruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove cache entries from other tokenizer versions",
		RunE:  runCachePruneCmd,
	}

	cmd.Flags().String("cache-dir", config.DefaultCacheDir(),
		"Token cache directory")

	return cmd
}

// runCacheStatsCmd executes the cache stats subcommand.
func runCacheStatsCmd(cmd *cobra.Command, _ []string) error {
	cache, err := openCache(cmd)
	if err != nil {
		return err
	}

	count, size, err := cache.Stats()
	if err != nil {
		return fmt.Errorf("failed to read cache stats: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Cache directory: %s\n", cache.Dir())
	fmt.Fprintf(cmd.OutOrStdout(), "Entries:         %d\n", count)
	fmt.Fprintf(cmd.OutOrStdout(), "Size:            %s\n", formatBytes(size))

	return nil
}

// runCachePruneCmd executes the cache prune subcommand.
func runCachePruneCmd(cmd *cobra.Command, _ []string) error {
	cache, err := openCache(cmd)
	if err != nil {
		return err
	}

	removed, err := cache.Prune()
	if err != nil {
		return fmt.Errorf("failed to prune cache: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d stale entries from %s\n", removed, cache.Dir())

	return nil
}

// openCache opens the token cache named by the --cache-dir flag. The
// tokenizer is constructed only for its fingerprint, which decides
// which entries count as current.
func openCache(cmd *cobra.Command) (*tokencache.Cache, error) {
	cacheDir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return nil, err
	}

	logger := log.NewLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	tok, err := tokenizer.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tokenizer: %w", err)
	}

	cache, err := tokencache.New(cacheDir, tok.Fingerprint(),
		tokencache.WithLogger(log.WithComponent(logger, "tokencache")))
	if err != nil {
		return nil, fmt.Errorf("failed to open token cache: %w", err)
	}

	return cache, nil
}

// formatBytes renders a byte count in a human-readable unit.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMG"[exp])
}
