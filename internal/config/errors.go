package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoInput is returned when no corpus path is specified.
	// The mine command requires a file or directory argument.
	ErrNoInput = errors.New("no input specified: provide a corpus file or directory")

	// ErrInvalidMinFrequency is returned when the minimum frequency is
	// below 1. A threshold of zero would keep every token ever seen.
	ErrInvalidMinFrequency = errors.New("invalid min frequency: must be at least 1")

	// ErrInvalidMinSentenceLength is returned when the minimum sentence
	// length is below 1. Empty example sentences are never useful.
	ErrInvalidMinSentenceLength = errors.New("invalid min sentence length: must be at least 1")

	// ErrInvalidJobs is returned when the worker count is below 1.
	// The cache warmer needs at least one goroutine to make progress.
	ErrInvalidJobs = errors.New("invalid jobs: must be at least 1")

	// ErrInvalidFormat is returned when an output format is not one of
	// csv, tsv, json, or markdown.
	ErrInvalidFormat = errors.New("invalid format: must be one of csv, tsv, json, markdown")

	// ErrNoAnkiDeck is returned when Anki sync is enabled without a
	// target deck name.
	ErrNoAnkiDeck = errors.New("anki sync enabled but no deck specified")

	// ErrNoAnkiModel is returned when Anki sync is enabled without a
	// note model name.
	ErrNoAnkiModel = errors.New("anki sync enabled but no note model specified")
)
