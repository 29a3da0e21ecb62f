// Package database provides SQLite-based persistence for tangomine.
//
// This package implements the DefinitionDB, a cache of resolved
// dictionary definitions keyed by lemma. Disambiguating a lemma against
// JMdict is the slowest per-word operation in a mining run and its
// result only changes when the dictionary does, so repeat runs read the
// cache instead.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of a
// flat file because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Upserts and crash safety come for free
// 4. WAL mode provides good concurrent read performance
package database
