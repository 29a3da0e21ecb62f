// Package jptext provides Japanese script classification and the token
// admission filter used by the aggregator.
//
// The package answers two kinds of questions:
//   - Script predicates: is a rune hiragana, katakana, or kanji; is a
//     string kana-only; convert katakana readings to hiragana
//   - Admission: is a lemma worth recording as vocabulary at all
//
// Design decision: We keep these checks in their own package rather than
// inside the aggregator because the filter stage re-runs admission on
// already-aggregated entries, and the tokenizer adapter needs the kana
// conversion. Centralizing avoids duplicated rune tables.
package jptext
