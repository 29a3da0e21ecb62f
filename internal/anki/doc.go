// Package anki pushes mined vocabulary into Anki through the
// AnkiConnect add-on.
//
// The client speaks AnkiConnect's JSON envelope (action, version 6,
// params) over plain HTTP against a local Anki instance. The syncer
// diffs the mined word table against the notes already in the target
// deck and issues only the batched adds, updates, and deletes needed to
// make the deck match the table, so review history on untouched notes
// is never disturbed.
package anki
