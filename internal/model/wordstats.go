package model

import (
	"encoding/json"
	"sort"
)

// MaxSentencesPerWord bounds the number of example sentences stored per word.
const MaxSentencesPerWord = 3

// Sentence is one example sentence attributed to a word.
// Sentences are immutable: replacement happens by removing one entry and
// inserting another, never by editing in place.
type Sentence struct {
	// Text is the full sentence text.
	Text string `json:"text"`

	// Tag is the source tag the sentence was mined under.
	// Empty when the source carried no tag.
	Tag string `json:"tag,omitempty"`

	// Origin identifies the source the sentence came from,
	// typically the base name of the input file.
	Origin string `json:"origin,omitempty"`

	// Surface is the surface form the word showed inside this
	// sentence. Exporters use it to highlight the word.
	Surface string `json:"surface,omitempty"`
}

// WordStats accumulates usage statistics for a single lemma.
// The aggregator owns an entry during accumulation and mutates it in
// place per occurrence; the definitions and scoring stages enrich the
// same entry afterwards.
type WordStats struct {
	// Lemma is the dictionary form this entry aggregates.
	Lemma string `json:"lemma"`

	// FirstIndex is the 1-based token ordinal at which the lemma was
	// first accepted. Set on creation, never updated afterwards.
	FirstIndex int `json:"first_index"`

	// Frequency counts accepted occurrences of the lemma.
	// Always at least 1 for an entry that exists.
	Frequency int `json:"frequency"`

	// Reading is the hiragana reading of the lemma.
	Reading string `json:"reading,omitempty"`

	// Definition is the rendered dictionary definition, filled in by
	// the definitions stage. Empty when no confident entry was found.
	Definition string `json:"definition,omitempty"`

	// Score is the normalized study-priority score, filled in by the
	// scoring stage.
	Score float64 `json:"score"`

	// Tags is the set of source tags the lemma appeared under,
	// in first-seen order.
	Tags []string `json:"tags,omitempty"`

	// Sentences holds up to MaxSentencesPerWord example sentences.
	// No two entries share the same (Text, Tag) pair.
	Sentences []Sentence `json:"sentences,omitempty"`

	// PartsOfSpeech is the POS path of the first accepted token.
	PartsOfSpeech []string `json:"parts_of_speech,omitempty"`

	// Invalid marks the entry for removal by the filter stage.
	Invalid bool `json:"-"`
}

// AddTag adds tag to the tag set. Empty tags and duplicates are ignored.
func (w *WordStats) AddTag(tag string) {
	if tag == "" {
		return
	}
	for _, t := range w.Tags {
		if t == tag {
			return
		}
	}
	w.Tags = append(w.Tags, tag)
}

// HasSentence reports whether an identical (text, tag) sentence is
// already recorded for this word.
func (w *WordStats) HasSentence(text, tag string) bool {
	for _, s := range w.Sentences {
		if s.Text == text && s.Tag == tag {
			return true
		}
	}
	return false
}

// SortedTags returns a copy of the tag set in lexical order.
// Exporters use it so output does not depend on tag encounter order.
func (w *WordStats) SortedTags() []string {
	tags := make([]string, len(w.Tags))
	copy(tags, w.Tags)
	sort.Strings(tags)
	return tags
}

// WordTable is the per-run collection of WordStats, keyed by lemma.
//
// Design decision: We keep a plain map and sort on demand rather than
// maintaining an ordered structure because:
//  1. Accumulation is lookup-heavy (one lookup per accepted token)
//  2. Ordered access only happens a handful of times, at stage boundaries
//  3. FirstIndex already encodes the canonical order
type WordTable struct {
	words map[string]*WordStats
}

// NewWordTable creates an empty word table.
func NewWordTable() *WordTable {
	return &WordTable{words: make(map[string]*WordStats)}
}

// Get returns the entry for lemma, or false when none exists.
func (t *WordTable) Get(lemma string) (*WordStats, bool) {
	w, ok := t.words[lemma]
	return w, ok
}

// Add inserts an entry, replacing any existing entry for the same lemma.
func (t *WordTable) Add(w *WordStats) {
	t.words[w.Lemma] = w
}

// Delete removes the entry for lemma if present.
func (t *WordTable) Delete(lemma string) {
	delete(t.words, lemma)
}

// Len returns the number of entries.
func (t *WordTable) Len() int {
	return len(t.words)
}

// Sorted returns all entries ordered by FirstIndex, ties broken by lemma.
// The slice is freshly allocated; the entries are shared.
func (t *WordTable) Sorted() []*WordStats {
	entries := make([]*WordStats, 0, len(t.words))
	for _, w := range t.words {
		entries = append(entries, w)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].FirstIndex != entries[j].FirstIndex {
			return entries[i].FirstIndex < entries[j].FirstIndex
		}
		return entries[i].Lemma < entries[j].Lemma
	})
	return entries
}

// MaxFrequency returns the highest Frequency across all entries,
// or 0 for an empty table.
func (t *WordTable) MaxFrequency() int {
	max := 0
	for _, w := range t.words {
		if w.Frequency > max {
			max = w.Frequency
		}
	}
	return max
}

// MaxFirstIndex returns the highest FirstIndex across all entries,
// or 0 for an empty table.
func (t *WordTable) MaxFirstIndex() int {
	max := 0
	for _, w := range t.words {
		if w.FirstIndex > max {
			max = w.FirstIndex
		}
	}
	return max
}

// MarshalJSON serializes the table as an array ordered by FirstIndex so
// JSON output is deterministic.
func (t *WordTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Sorted())
}
