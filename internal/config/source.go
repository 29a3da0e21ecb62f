package config

// SourceConfig holds per-tag overrides for corpus sources. Tags come
// from the bracketed prefix of a file's name, so a config file can
// treat, say, subtitle rips differently from novels.
type SourceConfig struct {
	// MinSentenceLength overrides the global minimum sentence length
	// for files with this tag. If zero, the global value is used.
	MinSentenceLength int `yaml:"minSentenceLength,omitempty"`

	// ExtraTags are appended to every word mined from files with this
	// tag. Useful for grouping sources under a broader Anki tag.
	ExtraTags []string `yaml:"extraTags,omitempty"`
}

// File represents the structure of the .tangomine configuration file.
// Top-level keys mirror the mine command's flags; flags explicitly set
// on the command line always win over file values.
type File struct {
	// OutputDir is the default output directory.
	OutputDir string `yaml:"outputDir,omitempty"`

	// Formats lists the default output formats (csv, tsv, json, markdown).
	Formats []string `yaml:"formats,omitempty"`

	// Tag overrides the source tag for all files.
	Tag string `yaml:"tag,omitempty"`

	// MinFrequency is the default minimum word frequency.
	MinFrequency int `yaml:"minFrequency,omitempty"`

	// MinSentenceLength is the default minimum sentence length.
	MinSentenceLength int `yaml:"minSentenceLength,omitempty"`

	// Dictionary is the JMdict file path.
	Dictionary string `yaml:"dictionary,omitempty"`

	// NoDefinitions skips the readings and definitions stages.
	NoDefinitions bool `yaml:"noDefinitions,omitempty"`

	// AnkiSync enables AnkiConnect sync after export.
	AnkiSync bool `yaml:"ankiSync,omitempty"`

	// AnkiURL is the AnkiConnect endpoint.
	AnkiURL string `yaml:"ankiURL,omitempty"`

	// AnkiDeck is the target Anki deck.
	AnkiDeck string `yaml:"ankiDeck,omitempty"`

	// AnkiModel is the Anki note type.
	AnkiModel string `yaml:"ankiModel,omitempty"`

	// Jobs is the cache warmer parallelism.
	Jobs int `yaml:"jobs,omitempty"`

	// CacheDir is the token cache directory.
	CacheDir string `yaml:"cacheDir,omitempty"`

	// Database is the definitions cache path.
	Database string `yaml:"database,omitempty"`

	// Sources maps source tags to their per-tag overrides.
	// Keys are the bare tag (e.g. "novel" for "[novel] ch1.txt").
	Sources map[string]SourceConfig `yaml:"sources,omitempty"`

	// Defaults contains the source configuration applied to all tags
	// unless overridden in the tag-specific configuration.
	Defaults SourceConfig `yaml:"defaults,omitempty"`
}

// GetSourceConfig returns the configuration for a specific source tag.
// It merges the tag-specific configuration with defaults.
func (cf *File) GetSourceConfig(tag string) SourceConfig {
	// Start with defaults
	result := cf.Defaults

	// Override with tag-specific configuration if present
	if sourceConfig, ok := cf.Sources[tag]; ok {
		if sourceConfig.MinSentenceLength != 0 {
			result.MinSentenceLength = sourceConfig.MinSentenceLength
		}
		if len(sourceConfig.ExtraTags) > 0 {
			result.ExtraTags = append(result.ExtraTags, sourceConfig.ExtraTags...)
		}
	}

	return result
}

// Apply copies file-set values onto c. Zero values in the file leave
// the corresponding Config field untouched, so defaults survive an
// empty or partial file. The cobra layer calls this before laying
// explicitly-changed flags on top, giving the documented precedence:
// flag > file > default.
func (cf *File) Apply(c *Config) {
	if cf.OutputDir != "" {
		c.OutputDir = cf.OutputDir
	}
	if len(cf.Formats) > 0 {
		c.Formats = cf.Formats
	}
	if cf.Tag != "" {
		c.Tag = cf.Tag
	}
	if cf.MinFrequency != 0 {
		c.MinFrequency = cf.MinFrequency
	}
	if cf.MinSentenceLength != 0 {
		c.MinSentenceLength = cf.MinSentenceLength
	}
	if cf.Dictionary != "" {
		c.DictionaryPath = cf.Dictionary
	}
	if cf.NoDefinitions {
		c.NoDefinitions = true
	}
	if cf.AnkiSync {
		c.AnkiSync = true
	}
	if cf.AnkiURL != "" {
		c.AnkiURL = cf.AnkiURL
	}
	if cf.AnkiDeck != "" {
		c.AnkiDeck = cf.AnkiDeck
	}
	if cf.AnkiModel != "" {
		c.AnkiModel = cf.AnkiModel
	}
	if cf.Jobs != 0 {
		c.Jobs = cf.Jobs
	}
	if cf.CacheDir != "" {
		c.CacheDir = cf.CacheDir
	}
	if cf.Database != "" {
		c.DatabasePath = cf.Database
	}
	c.File = cf
}
