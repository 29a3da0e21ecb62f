// Package report provides mining result output in several formats.
//
// This package contains writers for different output formats:
//   - CSVWriter: Spreadsheet-friendly word list (comma or tab separated)
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: Human-readable study sheet for documentation
//   - SimpleWriter: Terminal summary for interactive runs
//
// Design decision: We separate report writing from report data structures
// (which are in the model package) to follow the single responsibility
// principle. This allows adding new output formats without modifying
// the core data structures.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
