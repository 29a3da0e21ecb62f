package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/tangomine/tangomine/internal/model"
)

// simpleTopWords is how many of the highest-scoring words the terminal
// summary lists. Full lists belong in the file exports.
const simpleTopWords = 5

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display at the end of a run.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with definitions and tags for the
// listed words.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.MiningReport) (int, error) {
	var sb strings.Builder

	// Header
	w.writeHeader(&sb, report)

	// Corpus statistics
	w.writeSummary(&sb, report)

	// Highest-priority words
	w.writeTopWords(&sb, report)

	// Anki sync results, when the stage ran
	w.writeAnki(&sb, report)

	// Footer
	w.writeFooter(&sb)

	// Write to output
	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.MiningReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                       TANGOMINE MINING REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Corpus:     %s\n", report.CorpusPath))
	sb.WriteString(fmt.Sprintf("Mined At:   %s\n", report.ScannedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Elapsed:    %s\n", report.Elapsed.Round(time.Millisecond)))
	sb.WriteString("\n")
}

// writeSummary writes the corpus statistics section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.MiningReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CORPUS SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Files:          %d\n", report.Files))
	if report.SkippedFiles > 0 {
		sb.WriteString(fmt.Sprintf("  Skipped Files:  %d\n", report.SkippedFiles))
	}
	sb.WriteString(fmt.Sprintf("  Tokens:         %d\n", report.TokenCount))
	sb.WriteString(fmt.Sprintf("  Unique Words:   %d\n", report.Words.Len()))
	if report.FilteredWords > 0 {
		sb.WriteString(fmt.Sprintf("  Filtered Out:   %d\n", report.FilteredWords))
	}
	sb.WriteString(fmt.Sprintf("  Cache Hit Rate: %.0f%%\n", report.CacheHitRate()*100))
	sb.WriteString("\n")
}

// writeTopWords writes the highest-scoring words.
func (w *SimpleWriter) writeTopWords(sb *strings.Builder, report *model.MiningReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("TOP WORDS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	words := report.Words.Sorted()
	if len(words) == 0 {
		sb.WriteString("  No words mined\n\n")
		return
	}

	sort.SliceStable(words, func(i, j int) bool {
		return words[i].Score > words[j].Score
	})
	if len(words) > simpleTopWords {
		words = words[:simpleTopWords]
	}

	for i, word := range words {
		display := word.Lemma
		if word.Reading != "" && word.Reading != word.Lemma {
			display = fmt.Sprintf("%s (%s)", word.Lemma, word.Reading)
		}
		sb.WriteString(fmt.Sprintf("  %d. %s  x%d, score %.0f\n", i+1, display, word.Frequency, word.Score))

		if !w.verbose {
			continue
		}
		if word.Definition != "" {
			sb.WriteString(fmt.Sprintf("     %s\n", truncateString(firstSense(word.Definition), 60)))
		}
		if len(word.Tags) > 0 {
			sb.WriteString(fmt.Sprintf("     Tags: %s\n", strings.Join(word.SortedTags(), ", ")))
		}
	}
	sb.WriteString("\n")
}

// writeAnki writes the Anki sync result line when the stage did any work.
func (w *SimpleWriter) writeAnki(sb *strings.Builder, report *model.MiningReport) {
	if report.AnkiAdded == 0 && report.AnkiUpdated == 0 && report.AnkiDeleted == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("ANKI SYNC\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Added:   %d\n", report.AnkiAdded))
	sb.WriteString(fmt.Sprintf("  Updated: %d\n", report.AnkiUpdated))
	sb.WriteString(fmt.Sprintf("  Deleted: %d\n", report.AnkiDeleted))
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by tangomine\n")
	sb.WriteString("https://github.com/tangomine/tangomine\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
