// Package model defines the core data structures used throughout tangomine.
//
// This package contains the following main types:
//   - Token: A single morpheme produced by the tokenizer
//   - WordStats: Per-lemma usage statistics with example sentences
//   - WordTable: The per-run collection of WordStats
//   - MiningReport: The envelope carried through the pipeline stages
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (tokenizer, aggregate, report, anki) need to
// use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// cache storage.
package model
