package jmdict

import "errors"

// Dictionary loading and disambiguation errors.
//
// Design decision: We use package-level sentinel errors so callers can
// distinguish an unusable dictionary file from a caller bug with
// errors.Is() while wrapped messages carry the offending detail.
var (
	// ErrUnknownFormat is returned when a dictionary file is neither
	// JMdict XML nor jmdict-simplified JSON.
	ErrUnknownFormat = errors.New("unknown dictionary format: expected JMdict XML or jmdict-simplified JSON")

	// ErrInvalidTieBreak is returned when SelectBest receives a tie-break
	// mode outside the declared constants. The mode is a precondition,
	// so the error is raised eagerly instead of falling back to a
	// default silently.
	ErrInvalidTieBreak = errors.New("invalid tie-break mode")

	// ErrNoDictionaryAsset is returned when the dictionary release feed
	// offers no downloadable JSON archive.
	ErrNoDictionaryAsset = errors.New("no dictionary asset found in release")
)
