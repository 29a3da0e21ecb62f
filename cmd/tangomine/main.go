// Package main provides the entry point for the tangomine CLI.
//
// tangomine mines Japanese vocabulary from text corpora: it tokenizes
// the input, aggregates per-word statistics with example sentences,
// resolves dictionary definitions, and exports the result as flashcard
// material or directly into Anki.
//
// Usage:
//
//	tangomine mine <path>
//	tangomine lookup <word>
//
// See --help for all available options.
package main

// main is the entry point for tangomine.
func main() {
	Execute()
}
