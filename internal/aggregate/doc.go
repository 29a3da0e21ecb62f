// Package aggregate folds token streams into per-lemma usage statistics.
//
// The aggregator consumes tokens in strict input order and maintains,
// per run, a word table plus three sentence buffers: the text of the
// sentence being read, the set of lemmas seen inside it, and the first
// surface form observed for each of those lemmas. Sentence-ending marks
// close the buffer and attribute the sentence to every collected word,
// subject to a minimum length and a per-word cap with quality-ranked
// replacement. Characters outside the recognized content class reset
// the buffers without attributing anything, so foreign or garbled runs
// cannot leak into example sentences.
//
// Token order is part of the contract: the first-occurrence ordinal of
// a word is observable output, which is why aggregation is
// single-goroutine and why callers must fix the file order of
// multi-file corpora themselves.
//
// The package also carries the table-level ranking helpers (ScoreTable,
// FilterTable) that later pipeline stages apply to the finished table.
package aggregate
