package aggregate

import (
	"log/slog"
	"unicode"
	"unicode/utf8"

	"github.com/tangomine/tangomine/internal/jptext"
	"github.com/tangomine/tangomine/internal/model"
)

// SentenceBoundary is the rune substituted for line breaks before
// tokenization. Tokenizers swallow plain newlines, so the corpus loader
// injects this private-use rune to keep line breaks visible as sentence
// boundaries. It survives NFKC normalization unchanged and is rejected
// by the admission filter, so it never pollutes the word table.
const SentenceBoundary = ''

const (
	// DefaultMinSentenceLen is the minimum rune length a closed
	// sentence must reach to be attributed to any word.
	DefaultMinSentenceLen = 7

	// DefaultMaxReplaceLen caps the rune length of sentences eligible
	// to replace an existing one. Longer sentences make poor flashcard
	// examples, so a full word never trades a stored sentence for one.
	DefaultMaxReplaceLen = 30
)

// sentenceEndings are the surfaces that close the current sentence.
var sentenceEndings = map[string]struct{}{
	"。": {},
	"！": {},
	"？": {},
	"・": {},
	string(SentenceBoundary): {},
}

// Aggregator folds token streams into a word table.
//
// An Aggregator is bound to one table and one run: the token ordinal
// continues across Aggregate calls so multi-file corpora get globally
// increasing first-occurrence positions. It is not safe for concurrent
// use.
type Aggregator struct {
	// table receives the per-lemma statistics.
	table *model.WordTable

	// logger is used for structured logging.
	logger *slog.Logger

	// minSentenceLen is the minimum rune length for attribution.
	minSentenceLen int

	// maxReplaceLen caps the length of replacement sentences.
	maxReplaceLen int

	// ordinal is the 1-based position of the most recent token.
	ordinal int

	// buf accumulates the runes of the sentence being read.
	buf []rune

	// lemmas is the set of accepted lemmas inside the open sentence.
	lemmas map[string]struct{}

	// surfaces maps each collected lemma to the first surface form it
	// showed inside the open sentence.
	surfaces map[string]string
}

// Option is a function that configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets a custom logger for the aggregator.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// WithMinSentenceLen overrides the minimum sentence length.
func WithMinSentenceLen(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.minSentenceLen = n
		}
	}
}

// WithMaxReplaceLen overrides the replacement length cap.
func WithMaxReplaceLen(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.maxReplaceLen = n
		}
	}
}

// New creates an aggregator writing into table.
func New(table *model.WordTable, opts ...Option) *Aggregator {
	a := &Aggregator{
		table:          table,
		minSentenceLen: DefaultMinSentenceLen,
		maxReplaceLen:  DefaultMaxReplaceLen,
		lemmas:         make(map[string]struct{}),
		surfaces:       make(map[string]string),
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = slog.Default()
	}

	return a
}

// Table returns the table the aggregator writes into.
func (a *Aggregator) Table() *model.WordTable {
	return a.table
}

// Ordinal returns the number of tokens consumed so far.
func (a *Aggregator) Ordinal() int {
	return a.ordinal
}

// SetMinSentenceLen adjusts the minimum sentence length for sentences
// closed after the call. It exists so per-source overrides can take
// effect between files without resetting the token ordinal. Values
// below 1 are ignored.
func (a *Aggregator) SetMinSentenceLen(n int) {
	if n >= 1 {
		a.minSentenceLen = n
	}
}

// Reset discards the open sentence buffer and its collected words.
// Call it between sources whose text must not share a sentence. The
// word table and the token ordinal are unaffected.
func (a *Aggregator) Reset() {
	a.reset()
}

// Aggregate consumes tokens in order, attributing them to sourceTag.
// Origin identifies the source for sentence records, typically the
// file's base name. An empty or malformed stream leaves the table
// unchanged. Aggregate may be called once per corpus file; the open
// sentence buffer is flushed implicitly by the boundary rune the loader
// appends per line, so no cross-file leakage occurs for line-structured
// input.
func (a *Aggregator) Aggregate(tokens []model.Token, sourceTag, origin string) {
	for _, token := range tokens {
		a.ordinal++
		a.consume(token, sourceTag, origin)
	}
}

// consume processes a single token: sentence segmentation first, then
// admission and statistics. Segmentation only ever touches the sentence
// buffers; frequency and first-occurrence accounting run for every
// token regardless of how the buffers fared.
func (a *Aggregator) consume(token model.Token, sourceTag, origin string) {
	surface := token.Surface

	_, ending := sentenceEndings[surface]
	switch {
	case ending:
		// The closing mark belongs to the stored sentence text. The
		// line-break sentinel is synthetic and stays out.
		if surface != string(SentenceBoundary) {
			a.buf = append(a.buf, []rune(surface)...)
		}
		a.closeSentence(sourceTag, origin)
	case !isSentenceContent(surface):
		// Anything outside the content class abandons the open
		// sentence without attribution.
		a.reset()
	default:
		// Disallowed leading runes never start a sentence.
		if len(a.buf) > 0 || !isDisallowedStart(surface) {
			a.buf = append(a.buf, []rune(surface)...)
		}
	}

	if !jptext.IsMineable(token.Lemma, token.PartsOfSpeech) {
		return
	}

	a.record(token, sourceTag)

	if _, ok := a.lemmas[token.Lemma]; !ok {
		a.lemmas[token.Lemma] = struct{}{}
		a.surfaces[token.Lemma] = surface
	}
}

// record updates the word table for one accepted token.
func (a *Aggregator) record(token model.Token, sourceTag string) {
	entry, ok := a.table.Get(token.Lemma)
	if !ok {
		entry = &model.WordStats{
			Lemma:         token.Lemma,
			FirstIndex:    a.ordinal,
			Frequency:     1,
			Reading:       token.Reading,
			PartsOfSpeech: token.PartsOfSpeech,
		}
		a.table.Add(entry)
	} else {
		entry.Frequency++
		if entry.Reading == "" {
			entry.Reading = token.Reading
		}
	}

	entry.AddTag(sourceTag)
}

// closeSentence attributes the buffered sentence to every collected
// word, then clears all buffers unconditionally.
func (a *Aggregator) closeSentence(sourceTag, origin string) {
	defer a.reset()

	if len(a.buf) < a.minSentenceLen {
		return
	}
	text := string(a.buf)

	for lemma := range a.lemmas {
		entry, ok := a.table.Get(lemma)
		if !ok {
			continue
		}
		if entry.HasSentence(text, sourceTag) {
			continue
		}

		sentence := model.Sentence{
			Text:    text,
			Tag:     sourceTag,
			Origin:  origin,
			Surface: a.surfaces[lemma],
		}

		if len(entry.Sentences) < model.MaxSentencesPerWord {
			entry.Sentences = append(entry.Sentences, sentence)
			continue
		}
		if len(a.buf) < a.maxReplaceLen {
			replaceWorstSentence(entry, sentence)
		}
	}
}

// replaceWorstSentence swaps the shortest stored sentence for the new
// one when the new one is strictly longer. The search prefers sentences
// sharing the new sentence's tag and falls back to all of them when no
// tag matches. Replacement therefore never decreases stored length.
func replaceWorstSentence(entry *model.WordStats, sentence model.Sentence) {
	worst := -1
	worstLen := 0

	for i, s := range entry.Sentences {
		if s.Tag != sentence.Tag {
			continue
		}
		n := utf8.RuneCountInString(s.Text)
		if worst == -1 || n < worstLen {
			worst = i
			worstLen = n
		}
	}

	if worst == -1 {
		for i, s := range entry.Sentences {
			n := utf8.RuneCountInString(s.Text)
			if worst == -1 || n < worstLen {
				worst = i
				worstLen = n
			}
		}
	}

	if worst == -1 {
		return
	}
	if utf8.RuneCountInString(sentence.Text) <= worstLen {
		return
	}

	entry.Sentences[worst] = sentence
}

// reset clears the sentence buffers.
func (a *Aggregator) reset() {
	a.buf = a.buf[:0]
	a.lemmas = make(map[string]struct{})
	a.surfaces = make(map[string]string)
}

// isSentenceContent reports whether every rune of surface belongs to
// the sentence content class: Japanese script, iteration and elongation
// marks, digits, and common in-sentence punctuation, quotes and
// brackets included. Quoted dialogue must keep its sentence open.
func isSentenceContent(surface string) bool {
	if surface == "" {
		return false
	}
	for _, r := range surface {
		if jptext.IsJapanese(r) || jptext.IsChoon(r) {
			continue
		}
		if r >= '0' && r <= '9' {
			continue
		}
		if r >= '０' && r <= '９' {
			continue
		}
		switch r {
		case '。', '、', '！', '？', '・', SentenceBoundary,
			'々', '〻', 'ゝ', 'ゞ', 'ヽ', 'ヾ',
			'「', '」', '『', '』', '【', '】', '（', '）', '(', ')',
			'…', '‥', '―', '〜':
			continue
		}
		return false
	}
	return true
}

// isDisallowedStart reports whether surface begins with a rune that may
// not open a sentence.
func isDisallowedStart(surface string) bool {
	r, _ := utf8.DecodeRuneInString(surface)
	return r == '、' || r == 'ー' || unicode.IsSpace(r)
}
