// Package tokenizer adapts the kagome morphological analyzer to the
// token model used by the rest of tangomine.
//
// The adapter flattens kagome's IPA dictionary features into Token
// records: surface, dictionary form, hiragana reading, and the
// part-of-speech path. Punctuation tokens are kept because sentence
// segmentation downstream relies on them.
//
// The package also owns the tokenizer fingerprint, the version string
// that binds token-cache entries to one tokenizer configuration. Any
// change to the dictionary, the feature extraction, or the admission
// tables must bump the fingerprint so stale cache entries are never
// mixed with fresh ones.
package tokenizer
