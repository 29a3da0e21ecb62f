package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/tangomine/tangomine/internal/model"
)

// defaultMarkdownTopWords bounds the word table rendered into markdown.
// A full corpus easily yields thousands of words; the study sheet shows
// the highest-priority slice and points at CSV/JSON for the rest.
const defaultMarkdownTopWords = 50

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing study sheets.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. Mermaid chart embedding for the part-of-speech breakdown
type MarkdownWriter struct {
	baseWriter

	// topWords is the maximum number of words rendered into the table.
	topWords int
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithTopWords sets how many words the markdown table shows.
func WithTopWords(n int) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		if n > 0 {
			w.topWords = n
		}
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		topWords:   defaultMarkdownTopWords,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.MiningReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	// Header
	w.writeHeader(md, report)

	// Word table ordered by study priority
	w.writeTopWords(md, report)

	// Part-of-speech distribution
	w.writePOSChart(md, report)

	// Footer
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.MiningReport) {
	md.H1("Vocabulary Mining Report")
	md.PlainText("")

	files := strconv.Itoa(report.Files)
	if report.SkippedFiles > 0 {
		files = fmt.Sprintf("%d (%d skipped)", report.Files, report.SkippedFiles)
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Corpus", "`" + report.CorpusPath + "`"},
			{"Mined At", report.ScannedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", report.Elapsed.Round(time.Millisecond).String()},
			{"Files", files},
			{"Tokens", strconv.Itoa(report.TokenCount)},
			{"Unique Words", strconv.Itoa(report.Words.Len())},
			{"Cache Hit Rate", fmt.Sprintf("%.0f%%", report.CacheHitRate()*100)},
		},
	})
	md.PlainText("")
}

// writeTopWords writes the highest-priority words as a table.
func (w *MarkdownWriter) writeTopWords(md *markdown.Markdown, report *model.MiningReport) {
	md.H2("Words")
	md.PlainText("")

	words := report.Words.Sorted()
	if len(words) == 0 {
		md.Note("No words survived mining. Check the corpus contents and the minimum frequency setting.")
		md.PlainText("")
		return
	}

	// Highest score first; the table is a study-priority ranking, not an
	// occurrence-order dump like the CSV export.
	sort.SliceStable(words, func(i, j int) bool {
		return words[i].Score > words[j].Score
	})

	shown := words
	if len(shown) > w.topWords {
		shown = shown[:w.topWords]
	}

	rows := make([][]string, len(shown))
	for i, word := range shown {
		reading := word.Reading
		if reading == "" {
			reading = "-"
		}
		definition := truncateString(firstSense(word.Definition), 60)
		if definition == "" {
			definition = "-"
		}

		rows[i] = []string{
			strconv.Itoa(i + 1),
			word.Lemma,
			reading,
			strconv.Itoa(word.Frequency),
			strconv.FormatFloat(word.Score, 'f', -1, 64),
			definition,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"#", "Word", "Reading", "Frequency", "Score", "Definition"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(words) > len(shown) {
		md.Note(fmt.Sprintf(
			"Showing the top %d of %d words. The CSV and JSON exports carry the full list.",
			len(shown), len(words),
		))
		md.PlainText("")
	}
}

// writePOSChart writes a mermaid pie chart of part-of-speech categories.
func (w *MarkdownWriter) writePOSChart(md *markdown.Markdown, report *model.MiningReport) {
	counts := make(map[string]int)
	for _, word := range report.Words.Sorted() {
		if len(word.PartsOfSpeech) == 0 {
			continue
		}
		counts[word.PartsOfSpeech[0]]++
	}
	if len(counts) == 0 {
		return
	}

	// Stable label order keeps the chart reproducible across runs.
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Part-of-speech Distribution"),
		piechart.WithShowData(true),
	)
	for _, label := range labels {
		chart.LabelAndIntValue(label, uint64(counts[label]))
	}

	md.H2("Part-of-speech Distribution")
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [tangomine](https://github.com/tangomine/tangomine)*")
}
