// Package tokencache persists tokenization results between runs.
//
// The cache is content-addressable: the key of an entry is a hash of
// the normalized source text plus the tokenizer fingerprint, so two
// identical files share one entry and any change to the text or the
// tokenizer configuration produces a different key. A small mtime index
// sits in front of the blob store as a shortcut that lets repeat runs
// skip re-reading and re-hashing unchanged files.
//
// Design decision: We store one gzip-compressed JSON blob per entry
// rather than a single database because:
//  1. Corrupt entries can be discarded individually without recovery logic
//  2. Entries are written once and read wholesale, never queried partially
//  3. The store stays inspectable with standard shell tools
//
// The mtime index is never authoritative: it only maps a path to a key
// that must still resolve through the blob store. Losing the index (or
// failing to flush it) costs hashing time on the next run, never
// correctness.
package tokencache
