package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tangomine/tangomine/internal/anki"
	"github.com/tangomine/tangomine/internal/config"
	"github.com/tangomine/tangomine/internal/jmdict"
	"github.com/tangomine/tangomine/internal/log"
	"github.com/tangomine/tangomine/internal/pipeline"
)

// testLogger returns a quiet logger for tests.
func testLogger() *slog.Logger {
	return log.NewLogger(io.Discard, false)
}

// TestNewMineCmd tests the mine command creation.
func TestNewMineCmd(t *testing.T) {
	t.Parallel()

	cmd := NewMineCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "mine <path>" {
			t.Errorf("expected use 'mine <path>', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has long description", func(t *testing.T) {
		t.Parallel()
		if cmd.Long == "" {
			t.Error("expected non-empty long description")
		}
	})

	t.Run("requires exactly one argument", func(t *testing.T) {
		t.Parallel()
		if cmd.Args == nil {
			t.Error("expected Args validator")
		}
		if err := cmd.Args(cmd, []string{}); err == nil {
			t.Error("expected error for zero arguments")
		}
		if err := cmd.Args(cmd, []string{"a", "b"}); err == nil {
			t.Error("expected error for two arguments")
		}
		if err := cmd.Args(cmd, []string{"corpus"}); err != nil {
			t.Errorf("unexpected error for one argument: %v", err)
		}
	})

	t.Run("has output flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("output")
		if flag == nil {
			t.Fatal("expected output flag")
		}
		if flag.Shorthand != "o" {
			t.Errorf("expected shorthand 'o', got %q", flag.Shorthand)
		}
		if flag.DefValue != config.DefaultOutputDir {
			t.Errorf("expected default %q, got %q", config.DefaultOutputDir, flag.DefValue)
		}
	})

	t.Run("has format flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("format")
		if flag == nil {
			t.Fatal("expected format flag")
		}
		if flag.Value.Type() != "stringSlice" {
			t.Errorf("expected stringSlice flag, got %q", flag.Value.Type())
		}
	})

	t.Run("has min-frequency flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("min-frequency")
		if flag == nil {
			t.Fatal("expected min-frequency flag")
		}
		if flag.Shorthand != "f" {
			t.Errorf("expected shorthand 'f', got %q", flag.Shorthand)
		}
		if flag.DefValue != "3" {
			t.Errorf("expected default '3', got %q", flag.DefValue)
		}
	})

	t.Run("has min-sentence-length flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("min-sentence-length")
		if flag == nil {
			t.Fatal("expected min-sentence-length flag")
		}
		if flag.DefValue != "7" {
			t.Errorf("expected default '7', got %q", flag.DefValue)
		}
	})

	t.Run("has tag flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("tag") == nil {
			t.Fatal("expected tag flag")
		}
	})

	t.Run("has dictionary flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("dictionary") == nil {
			t.Fatal("expected dictionary flag")
		}
	})

	t.Run("has no-definitions flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("no-definitions") == nil {
			t.Fatal("expected no-definitions flag")
		}
	})

	t.Run("has anki flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"anki-sync", "anki-url", "anki-deck", "anki-model"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})

	t.Run("has jobs flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("jobs")
		if flag == nil {
			t.Fatal("expected jobs flag")
		}
		if flag.Shorthand != "j" {
			t.Errorf("expected shorthand 'j', got %q", flag.Shorthand)
		}
		if flag.DefValue != "4" {
			t.Errorf("expected default '4', got %q", flag.DefValue)
		}
	})

	t.Run("has cache-dir flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("cache-dir") == nil {
			t.Fatal("expected cache-dir flag")
		}
	})

	t.Run("has database flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("database") == nil {
			t.Fatal("expected database flag")
		}
	})

	t.Run("has config flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("config")
		if flag == nil {
			t.Fatal("expected config flag")
		}
		if flag.Shorthand != "c" {
			t.Errorf("expected shorthand 'c', got %q", flag.Shorthand)
		}
	})
}

// TestGetVerboseFlag tests the verbose flag retrieval.
func TestGetVerboseFlag(t *testing.T) {
	t.Run("returns false when flag not set", func(t *testing.T) {
		cmd := NewMineCmd()
		if getVerboseFlag(cmd) {
			t.Error("expected false when flag not set")
		}
	})

	t.Run("returns value from parent verbose flag", func(t *testing.T) {
		root := NewRootCmd()
		_ = root.PersistentFlags().Set("verbose", "true")

		mineCmd, _, err := root.Find([]string{"mine"})
		if err != nil {
			t.Fatalf("failed to find mine command: %v", err)
		}

		if !getVerboseFlag(mineCmd) {
			t.Error("expected true from parent verbose flag")
		}
	})
}

// TestBuildConfig tests configuration building from flags and the
// config file.
func TestBuildConfig(t *testing.T) {
	t.Run("builds config with default values", func(t *testing.T) {
		cmd := NewMineCmd()
		cfg, err := buildConfig(cmd, []string{"./corpus"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg == nil {
			t.Fatal("expected non-nil config")
		}
		if cfg.InputPath != "./corpus" {
			t.Errorf("expected input path './corpus', got %q", cfg.InputPath)
		}
		if cfg.MinFrequency != config.DefaultMinFrequency {
			t.Errorf("expected min frequency %d, got %d", config.DefaultMinFrequency, cfg.MinFrequency)
		}
		if len(cfg.Formats) != 1 || cfg.Formats[0] != config.DefaultFormat {
			t.Errorf("expected formats [%s], got %v", config.DefaultFormat, cfg.Formats)
		}
	})

	t.Run("builds config with custom min frequency", func(t *testing.T) {
		cmd := NewMineCmd()
		_ = cmd.Flags().Set("min-frequency", "5")
		cfg, err := buildConfig(cmd, []string{"./corpus"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.MinFrequency != 5 {
			t.Errorf("expected min frequency 5, got %d", cfg.MinFrequency)
		}
	})

	t.Run("builds config with custom formats", func(t *testing.T) {
		cmd := NewMineCmd()
		_ = cmd.Flags().Set("format", "json,markdown")
		cfg, err := buildConfig(cmd, []string{"./corpus"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cfg.Formats) != 2 || cfg.Formats[0] != "json" || cfg.Formats[1] != "markdown" {
			t.Errorf("expected formats [json markdown], got %v", cfg.Formats)
		}
	})

	t.Run("builds config with anki sync", func(t *testing.T) {
		cmd := NewMineCmd()
		_ = cmd.Flags().Set("anki-sync", "true")
		_ = cmd.Flags().Set("anki-deck", "Test::Deck")
		cfg, err := buildConfig(cmd, []string{"./corpus"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !cfg.AnkiSync {
			t.Error("expected AnkiSync to be true")
		}
		if cfg.AnkiDeck != "Test::Deck" {
			t.Errorf("expected anki deck 'Test::Deck', got %q", cfg.AnkiDeck)
		}
	})

	t.Run("builds config with valid config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "tangomine.yaml")

		content := []byte(`
minFrequency: 2
sources:
  fiction:
    minSentenceLength: 10
`)
		if err := os.WriteFile(configPath, content, 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewMineCmd()
		_ = cmd.Flags().Set("config", configPath)
		cfg, err := buildConfig(cmd, []string{"./corpus"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.MinFrequency != 2 {
			t.Errorf("expected min frequency 2 from file, got %d", cfg.MinFrequency)
		}
		if cfg.File == nil {
			t.Fatal("expected File to be loaded")
		}
		if got := cfg.File.GetSourceConfig("fiction").MinSentenceLength; got != 10 {
			t.Errorf("expected fiction min sentence length 10, got %d", got)
		}
	})

	t.Run("flag overrides config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "tangomine.yaml")

		content := []byte("minFrequency: 2\n")
		if err := os.WriteFile(configPath, content, 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewMineCmd()
		_ = cmd.Flags().Set("config", configPath)
		_ = cmd.Flags().Set("min-frequency", "9")
		cfg, err := buildConfig(cmd, []string{"./corpus"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.MinFrequency != 9 {
			t.Errorf("expected flag value 9 to win over file, got %d", cfg.MinFrequency)
		}
	})

	t.Run("returns error for missing explicit config file", func(t *testing.T) {
		cmd := NewMineCmd()
		_ = cmd.Flags().Set("config", filepath.Join(t.TempDir(), "nope.yaml"))
		_, err := buildConfig(cmd, []string{"./corpus"})
		if err == nil {
			t.Fatal("expected error for missing explicit config file")
		}
		if !strings.Contains(err.Error(), "configuration file not found") {
			t.Errorf("expected not-found error, got %v", err)
		}
	})

	t.Run("returns error for invalid config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "invalid.yaml")

		if err := os.WriteFile(configPath, []byte(`{invalid yaml`), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewMineCmd()
		_ = cmd.Flags().Set("config", configPath)
		_, err := buildConfig(cmd, []string{"./corpus"})
		if err == nil {
			t.Fatal("expected error for invalid config file")
		}
	})

	t.Run("invalid format fails validation", func(t *testing.T) {
		cmd := NewMineCmd()
		_ = cmd.Flags().Set("format", "xml")
		cfg, err := buildConfig(cmd, []string{"./corpus"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := cfg.Validate(); err == nil {
			t.Error("expected validation error for format xml")
		}
	})
}

// TestCreatePipeline tests pipeline assembly from configuration.
func TestCreatePipeline(t *testing.T) {
	t.Parallel()

	t.Run("assembles core stages without dictionary", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		p := createPipeline(pipeline.Deps{}, cfg, testLogger())

		want := []string{"tokenize", "score", "filter", "export"}
		got := p.StepNames()
		if len(got) != len(want) {
			t.Fatalf("expected %d steps, got %d: %v", len(want), len(got), got)
		}
		for i, name := range want {
			if got[i] != name {
				t.Errorf("step %d: expected %q, got %q", i, name, got[i])
			}
		}
	})

	t.Run("adds dictionary stages", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		p := createPipeline(pipeline.Deps{Dict: &jmdict.Dict{}}, cfg, testLogger())

		names := p.StepNames()
		joined := strings.Join(names, " ")
		if !strings.Contains(joined, "readings") || !strings.Contains(joined, "definitions") {
			t.Errorf("expected readings and definitions stages, got %v", names)
		}
	})

	t.Run("adds anki stage when syncing", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		cfg.AnkiSync = true
		deps := pipeline.Deps{Anki: anki.NewSyncer(anki.NewClient())}
		p := createPipeline(deps, cfg, testLogger())

		names := p.StepNames()
		if len(names) == 0 || names[len(names)-1] != "anki-sync" {
			t.Errorf("expected anki-sync as last stage, got %v", names)
		}
	})
}

// TestProgressPrinter tests the stage-transition progress output.
func TestProgressPrinter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	fn := progressPrinter(&buf)

	fn("tokenize", 1, 10, "a.txt")
	fn("tokenize", 2, 10, "b.txt")
	fn("score", 0, 0, "")
	fn("export", 1, 4, "csv")
	fn("export", 2, 4, "tsv")

	want := "==> tokenize\n==> score\n==> export\n"
	if buf.String() != want {
		t.Errorf("expected output %q, got %q", want, buf.String())
	}
}
