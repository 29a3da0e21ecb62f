package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values mirror the defaults of the mine command's flags so the
// constants double as documentation of what an unconfigured run does.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "tangomine"

	// DefaultMinFrequency is the minimum number of occurrences a word
	// needs before it is kept. Words seen once or twice in a corpus are
	// usually names, typos, or tokenizer artifacts rather than
	// vocabulary worth drilling, so 3 is a sensible floor.
	DefaultMinFrequency = 3

	// DefaultMinSentenceLength is the minimum rune length for an
	// example sentence. Shorter fragments ("はい。", "えっ？") carry no
	// context and make poor flashcard material.
	DefaultMinSentenceLength = 7

	// DefaultMaxReplaceLength caps the length of a sentence that may
	// replace a shorter stored one. Beyond ~30 runes a longer sentence
	// stops adding context and starts hurting card readability.
	DefaultMaxReplaceLength = 30

	// DefaultMaxSentences is the number of example sentences kept per
	// word. Three examples show enough usage variety without bloating
	// the card back.
	DefaultMaxSentences = 3

	// DefaultJobs is the cache warmer parallelism. Tokenization is
	// CPU-bound; four workers saturate typical desktop hardware without
	// starving the rest of the system.
	DefaultJobs = 4

	// DefaultOutputDir is where mined word tables are written.
	DefaultOutputDir = "."

	// DefaultAnkiURL is the standard AnkiConnect listen address.
	// AnkiConnect binds to 127.0.0.1:8765 out of the box; we use the IP
	// rather than localhost to avoid IPv6 resolution surprises.
	DefaultAnkiURL = "http://127.0.0.1:8765"

	// DefaultAnkiDeck is the deck mined notes are synced into.
	DefaultAnkiDeck = "日本語::3. 単語::Mined Vocab"

	// DefaultAnkiModel is the note type used for mined notes. The
	// jp.takoboto model ships the field set the syncer fills (Japanese,
	// Reading, Meaning, Position, Frequency, FrequencyNormalized,
	// Sentence).
	DefaultAnkiModel = "jp.takoboto"

	// DefaultFormat is the output format used when none is requested.
	DefaultFormat = "csv"
)

// Config holds all configuration options for a mining run.
// This struct is populated from CLI flags and the optional .tangomine
// file, then passed through the application via dependency injection
// rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., AnkiConfig, CacheConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant
// benefit. If the configuration grows significantly, consider
// refactoring into sub-structs.
type Config struct {
	// InputPath is the corpus to mine: a single text/HTML file or a
	// directory walked recursively.
	InputPath string

	// OutputDir is the directory mined word tables are written into.
	// Created automatically if it does not exist.
	OutputDir string

	// Formats lists the output formats to write. Valid values are
	// "csv", "tsv", "json", and "markdown". One file is written per
	// format.
	Formats []string

	// Tag overrides the source tag for every corpus file. When empty,
	// each file's tag is derived from the bracketed prefix of its name
	// (e.g. "[novel] chapter1.txt" tags words as "novel").
	Tag string

	// MinFrequency is the minimum occurrence count a word needs to
	// survive the filter stage.
	MinFrequency int

	// MinSentenceLength is the minimum rune length for a stored example
	// sentence. Per-tag overrides from the config file take precedence
	// for matching sources.
	MinSentenceLength int

	// DictionaryPath is the JMdict file used for readings and
	// definitions. Defaults to the XDG data directory; populate it with
	// "tangomine dict fetch".
	DictionaryPath string

	// NoDefinitions skips the readings and definitions stages entirely.
	// Useful for a quick frequency survey when no dictionary is
	// available.
	NoDefinitions bool

	// AnkiSync enables pushing the mined table to AnkiConnect after
	// export.
	AnkiSync bool

	// AnkiURL is the AnkiConnect endpoint.
	AnkiURL string

	// AnkiDeck is the target deck for synced notes.
	AnkiDeck string

	// AnkiModel is the note type used for synced notes.
	AnkiModel string

	// Jobs is the number of concurrent tokenizer workers used to warm
	// the token cache before aggregation.
	Jobs int

	// CacheDir is the token cache directory. Defaults to the XDG cache
	// directory.
	CacheDir string

	// DatabasePath is the SQLite definitions cache. Defaults to the XDG
	// data directory. An empty string after NewConfig means the cache
	// is disabled.
	DatabasePath string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .tangomine in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// File holds the parsed configuration file, if one was found.
	// Per-tag source overrides are read from here during tokenization.
	File *File

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases. Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., minimum
// frequency, XDG paths). This also serves as documentation of what the
// defaults are.
func NewConfig() *Config {
	return &Config{
		OutputDir:         DefaultOutputDir,
		Formats:           []string{DefaultFormat},
		MinFrequency:      DefaultMinFrequency,
		MinSentenceLength: DefaultMinSentenceLength,
		DictionaryPath:    DefaultDictionaryPath(),
		AnkiURL:           DefaultAnkiURL,
		AnkiDeck:          DefaultAnkiDeck,
		AnkiModel:         DefaultAnkiModel,
		Jobs:              DefaultJobs,
		CacheDir:          DefaultCacheDir(),
		DatabasePath:      DefaultDatabasePath(),
	}
}

// XDGDataDir returns the XDG data directory for tangomine.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/tangomine
// On macOS: ~/Library/Application Support/tangomine
// On Windows: %LOCALAPPDATA%\tangomine
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for tangomine.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/tangomine
// On macOS: ~/Library/Application Support/tangomine
// On Windows: %APPDATA%\tangomine
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for tangomine.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.cache/tangomine
// On macOS: ~/Library/Caches/tangomine
// On Windows: %LOCALAPPDATA%\tangomine\cache
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// DefaultCacheDir returns the default token cache directory
// (XDG cache + "tokens").
func DefaultCacheDir() string {
	return filepath.Join(XDGCacheDir(), "tokens")
}

// DefaultDatabasePath returns the default definitions cache location
// (XDG data + "definitions.db").
func DefaultDatabasePath() string {
	return filepath.Join(XDGDataDir(), "definitions.db")
}

// DefaultDictionaryPath returns the default JMdict location
// (XDG data + "jmdict.json"). The dict fetch command downloads to this
// path.
func DefaultDictionaryPath() string {
	return filepath.Join(XDGDataDir(), "jmdict.json")
}

// knownFormats is the set of values accepted for Config.Formats.
var knownFormats = map[string]struct{}{
	"csv":      {},
	"tsv":      {},
	"json":     {},
	"markdown": {},
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before the pipeline runs.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have a corpus to mine
	if c.InputPath == "" {
		return ErrNoInput
	}

	// MinFrequency below 1 would keep nothing or everything by accident
	if c.MinFrequency < 1 {
		return ErrInvalidMinFrequency
	}

	// A zero or negative sentence length admits empty sentences
	if c.MinSentenceLength < 1 {
		return ErrInvalidMinSentenceLength
	}

	// Jobs must be positive; zero workers would deadlock the warmer
	if c.Jobs < 1 {
		return ErrInvalidJobs
	}

	for _, f := range c.Formats {
		if _, ok := knownFormats[f]; !ok {
			return ErrInvalidFormat
		}
	}

	// Anki sync needs somewhere to put the notes
	if c.AnkiSync {
		if c.AnkiDeck == "" {
			return ErrNoAnkiDeck
		}
		if c.AnkiModel == "" {
			return ErrNoAnkiModel
		}
	}

	return nil
}

// SourceOverride returns the per-tag override for tag, merged with the
// config file's defaults. A nil or absent config file yields the zero
// value, meaning global settings apply.
func (c *Config) SourceOverride(tag string) SourceConfig {
	if c.File == nil {
		return SourceConfig{}
	}
	return c.File.GetSourceConfig(tag)
}
