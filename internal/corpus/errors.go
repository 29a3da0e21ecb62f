package corpus

import "errors"

// Corpus discovery errors.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances at the call site. This allows callers to
// use errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoSources is returned when a corpus directory contains no
	// files with a recognized extension. An empty corpus would make
	// every later stage a silent no-op, so it is surfaced eagerly.
	ErrNoSources = errors.New("no source files found in corpus")
)
