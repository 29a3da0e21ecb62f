package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tangomine/tangomine/internal/anki"
	"github.com/tangomine/tangomine/internal/config"
	"github.com/tangomine/tangomine/internal/database"
	"github.com/tangomine/tangomine/internal/jmdict"
	"github.com/tangomine/tangomine/internal/log"
	"github.com/tangomine/tangomine/internal/model"
	"github.com/tangomine/tangomine/internal/pipeline"
	"github.com/tangomine/tangomine/internal/report"
	"github.com/tangomine/tangomine/internal/tokencache"
	"github.com/tangomine/tangomine/internal/tokenizer"
	"github.com/spf13/cobra"
)

// NewMineCmd creates the mine command.
func NewMineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mine <path>",
		Short: "Mine vocabulary from a text file or directory",
		Long: `Mine tokenizes the given file or directory of Japanese text and builds a
frequency-ranked vocabulary list with example sentences.

Files are processed in sorted path order. For each word the run records
how often it appears, where it first shows up, which sources it came
from, and up to three example sentences. Words are then looked up in a
JMdict dictionary, scored by frequency and position, filtered by the
minimum frequency, and exported.

Source tags come from the first [bracketed] part of a file name, so
"novel[fiction].txt" tags its words with "fiction". Per-tag settings
live in the .tangomine config file.

Examples:
  # Mine a directory of text files into ./words.csv
  tangomine mine ./corpus

  # Mine a single file into several formats
  tangomine mine --format csv --format json novel.txt

  # Skip dictionary lookups (no definitions, nothing dropped)
  tangomine mine --no-definitions ./corpus

  # Push the result into Anki via AnkiConnect
  tangomine mine --anki-sync ./corpus

  # Use a custom configuration file
  tangomine mine -c myconfig.yaml ./corpus

Configuration file (.tangomine) example:
  minFrequency: 2
  formats:
    - csv
    - json
  sources:
    fiction:
      minSentenceLength: 10
      extraTags:
        - novel`,
		Args: cobra.ExactArgs(1),
		RunE: runMineCmd,
	}

	// Output flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputDir,
		"Directory report files are written to")
	cmd.Flags().StringSlice("format", []string{config.DefaultFormat},
		"Output format: csv, tsv, json, markdown (repeatable)")

	// Mining behavior flags
	cmd.Flags().String("tag", "",
		"Override the source tag for all files")
	cmd.Flags().IntP("min-frequency", "f", config.DefaultMinFrequency,
		"Minimum occurrences a word needs to be kept")
	cmd.Flags().Int("min-sentence-length", config.DefaultMinSentenceLength,
		"Minimum sentence length in runes for example sentences")

	// Dictionary flags
	cmd.Flags().String("dictionary", config.DefaultDictionaryPath(),
		"JMdict dictionary file (XML or jmdict-simplified JSON, optionally gzipped)")
	cmd.Flags().Bool("no-definitions", false,
		"Skip dictionary lookups; words without definitions are kept")

	// Anki flags
	cmd.Flags().Bool("anki-sync", false,
		"Sync the mined words into Anki via AnkiConnect")
	cmd.Flags().String("anki-url", config.DefaultAnkiURL,
		"AnkiConnect endpoint URL")
	cmd.Flags().String("anki-deck", config.DefaultAnkiDeck,
		"Target Anki deck")
	cmd.Flags().String("anki-model", config.DefaultAnkiModel,
		"Anki note type for mined words")

	// Performance flags
	cmd.Flags().IntP("jobs", "j", config.DefaultJobs,
		"Number of files tokenized in parallel during cache warm-up")
	cmd.Flags().String("cache-dir", config.DefaultCacheDir(),
		"Token cache directory")
	cmd.Flags().String("database", config.DefaultDatabasePath(),
		"Definitions cache database file")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .tangomine in current or home directory)")

	return cmd
}

// runMineCmd executes the mine command.
func runMineCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags and the optional config file
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	verbose := getVerboseFlag(cmd)
	logger := log.NewLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runMine(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the
// optional configuration file. File values sit between built-in
// defaults and flags: a flag explicitly set on the command line always
// wins.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	configFilePath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = configFilePath

	// Merge the config file underneath the flags.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently run on defaults if no file is found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg)
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if err := applyChangedFlags(cmd, cfg); err != nil {
		return nil, err
	}

	// Positional argument: the corpus file or directory
	cfg.InputPath = args[0]

	return cfg, nil
}

// applyChangedFlags copies flags the user explicitly set onto cfg,
// overriding any value the config file supplied.
func applyChangedFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("output") {
		if cfg.OutputDir, err = flags.GetString("output"); err != nil {
			return err
		}
	}
	if flags.Changed("format") {
		if cfg.Formats, err = flags.GetStringSlice("format"); err != nil {
			return err
		}
	}
	if flags.Changed("tag") {
		if cfg.Tag, err = flags.GetString("tag"); err != nil {
			return err
		}
	}
	if flags.Changed("min-frequency") {
		if cfg.MinFrequency, err = flags.GetInt("min-frequency"); err != nil {
			return err
		}
	}
	if flags.Changed("min-sentence-length") {
		if cfg.MinSentenceLength, err = flags.GetInt("min-sentence-length"); err != nil {
			return err
		}
	}
	if flags.Changed("dictionary") {
		if cfg.DictionaryPath, err = flags.GetString("dictionary"); err != nil {
			return err
		}
	}
	if flags.Changed("no-definitions") {
		if cfg.NoDefinitions, err = flags.GetBool("no-definitions"); err != nil {
			return err
		}
	}
	if flags.Changed("anki-sync") {
		if cfg.AnkiSync, err = flags.GetBool("anki-sync"); err != nil {
			return err
		}
	}
	if flags.Changed("anki-url") {
		if cfg.AnkiURL, err = flags.GetString("anki-url"); err != nil {
			return err
		}
	}
	if flags.Changed("anki-deck") {
		if cfg.AnkiDeck, err = flags.GetString("anki-deck"); err != nil {
			return err
		}
	}
	if flags.Changed("anki-model") {
		if cfg.AnkiModel, err = flags.GetString("anki-model"); err != nil {
			return err
		}
	}
	if flags.Changed("jobs") {
		if cfg.Jobs, err = flags.GetInt("jobs"); err != nil {
			return err
		}
	}
	if flags.Changed("cache-dir") {
		if cfg.CacheDir, err = flags.GetString("cache-dir"); err != nil {
			return err
		}
	}
	if flags.Changed("database") {
		if cfg.DatabasePath, err = flags.GetString("database"); err != nil {
			return err
		}
	}

	return nil
}

// runMine executes the mining run.
func runMine(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting mining run",
		"input", cfg.InputPath,
		"formats", cfg.Formats,
		"minFrequency", cfg.MinFrequency,
		"ankiSync", cfg.AnkiSync,
	)

	tok, err := tokenizer.New()
	if err != nil {
		return fmt.Errorf("failed to initialize tokenizer: %w", err)
	}

	cache, err := tokencache.New(cfg.CacheDir, tok.Fingerprint(),
		tokencache.WithLogger(log.WithComponent(logger, "tokencache")))
	if err != nil {
		return fmt.Errorf("failed to open token cache: %w", err)
	}

	deps := pipeline.Deps{
		Tokenizer: tok,
		Cache:     cache,
	}

	if !cfg.NoDefinitions {
		if _, err := os.Stat(cfg.DictionaryPath); err != nil {
			return fmt.Errorf("dictionary not found at %s (run 'tangomine dict fetch' to download it, or pass --no-definitions)",
				cfg.DictionaryPath)
		}

		dict, err := jmdict.Load(cfg.DictionaryPath,
			jmdict.WithLogger(log.WithComponent(logger, "jmdict")))
		if err != nil {
			return fmt.Errorf("failed to load dictionary: %w", err)
		}
		deps.Dict = dict

		db, err := database.Open(cfg.DatabasePath, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open definitions cache: %w", err)
		}
		defer db.Close()
		deps.DB = db
	}

	if cfg.AnkiSync {
		client := anki.NewClient(
			anki.WithBaseURL(cfg.AnkiURL),
			anki.WithLogger(log.WithComponent(logger, "anki")),
		)
		deps.Anki = anki.NewSyncer(client)
	}

	// Pre-tokenize in parallel so the sequential aggregation pass that
	// follows runs almost entirely from cache.
	if cfg.Jobs > 1 {
		warmer := pipeline.NewWarmer(tok, cache,
			pipeline.WithWarmerJobs(cfg.Jobs),
			pipeline.WithWarmerLogger(log.WithComponent(logger, "warmer")),
		)
		result, err := warmer.Warm(ctx, cfg.InputPath)
		if err != nil {
			return fmt.Errorf("cache warm-up failed: %w", err)
		}
		logger.Info("cache warmed",
			"warmed", result.Warmed,
			"hits", result.Hits,
			"failed", result.Failed,
		)
	}

	p := createPipeline(deps, cfg, logger)

	art := pipeline.NewArtifact(model.NewMiningReport(cfg.InputPath), cache.Dir())

	fmt.Printf("Mining %s...\n", cfg.InputPath)
	startTime := time.Now()

	if err := p.Execute(ctx, art); err != nil {
		logger.Error("mining failed", "input", cfg.InputPath, "error", err)
		return err
	}

	elapsed := time.Since(startTime)
	fmt.Printf("Mining completed in %s\n\n", elapsed.Round(time.Millisecond))

	// Human-readable summary to stdout; the report files were written
	// by the export stage.
	writer := report.NewSimpleWriter(os.Stdout)
	if _, err := writer.Write(art.Report); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	return nil
}

// createPipeline assembles the default pipeline for the given
// configuration.
func createPipeline(deps pipeline.Deps, cfg *config.Config, logger *slog.Logger) *pipeline.Pipeline {
	pipelineOpts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithProgress(progressPrinter(os.Stdout)),
	}

	configOpts := []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineMinFrequency(cfg.MinFrequency),
		pipeline.WithPipelineMinSentenceLength(cfg.MinSentenceLength),
		pipeline.WithPipelineFormats(cfg.Formats),
		pipeline.WithPipelineOutputDir(cfg.OutputDir),
		pipeline.WithPipelineVersion(getVersion()),
		pipeline.WithPipelineStepLogger(logger),
	}

	if cfg.Tag != "" {
		configOpts = append(configOpts, pipeline.WithPipelineTag(cfg.Tag))
	}
	if cfg.File != nil {
		configOpts = append(configOpts, pipeline.WithPipelineOverrides(cfg.File))
	}
	if cfg.AnkiSync {
		configOpts = append(configOpts, pipeline.WithPipelineAnkiTarget(cfg.AnkiDeck, cfg.AnkiModel))
	}

	return pipeline.DefaultPipeline(deps, pipelineOpts, configOpts...)
}

// progressPrinter returns a progress callback that prints one line per
// pipeline stage. Per-item updates within a stage are intentionally
// swallowed; the end-of-run summary carries the numbers.
func progressPrinter(out io.Writer) pipeline.ProgressFunc {
	var last string
	return func(stage string, _, _ int, _ string) {
		if stage == last {
			return
		}
		last = stage
		fmt.Fprintf(out, "==> %s\n", stage)
	}
}
