package jptext

import (
	"strings"
	"unicode/utf8"
)

// excludedPOSPrefixes lists part-of-speech categories whose tokens are
// not worth mining as vocabulary. Each entry is prefix-matched against
// every segment of a token's POS path, so 接頭 covers both the 接頭詞
// and 接頭辞 spellings used by different tokenizer dictionaries.
//
// This table is versioned through the tokenizer fingerprint: changing it
// requires bumping the fingerprint so stale cache entries are not mixed
// with fresh ones.
var excludedPOSPrefixes = []string{
	"助詞",   // particle
	"助動詞",  // auxiliary verb
	"記号",   // symbol
	"感動詞",  // interjection
	"接続詞",  // conjunction
	"フィラー", // filler
	"その他",  // other
	"固有名詞", // proper noun
	"代名詞",  // pronoun
	"接頭",   // prefix
	"接尾",   // suffix
}

// smallKanaCluster holds runes that signal a truncated conjugation stem
// when they end a lemma: small kana, the geminate markers っ/ッ, and the
// elongation mark ー. Tokenizers emit such fragments for interrupted or
// stylized inflections; they are noise, not vocabulary.
const smallKanaCluster = "っゃゅょァィゥェォッャュョー"

// dominantRuneLimit is the fraction of a kana-only lemma a single rune
// may occupy before the lemma is treated as a repeated-character run
// (e.g. ああああ, ハハハ).
const dominantRuneLimit = 0.6

// ExcludedPOSPrefixes returns a copy of the excluded part-of-speech
// category table.
func ExcludedPOSPrefixes() []string {
	out := make([]string, len(excludedPOSPrefixes))
	copy(out, excludedPOSPrefixes)
	return out
}

// IsMineable reports whether a lemma with the given part-of-speech path
// is worth recording as vocabulary. It rejects grammatical function
// words, proper nouns, katakana loanwords, and tokenization noise.
func IsMineable(lemma string, partsOfSpeech []string) bool {
	if lemma == "" {
		return false
	}
	if IsAllKatakana(lemma) {
		return false
	}
	if !ContainsJapanese(lemma) {
		return false
	}
	if hasExcludedPOS(partsOfSpeech) {
		return false
	}
	if endsInSmallKana(lemma) {
		return false
	}
	if isSingleKana(lemma) {
		return false
	}
	if IsKanaOnly(lemma) && dominantRuneRatio(lemma) > dominantRuneLimit {
		return false
	}
	return true
}

// hasExcludedPOS reports whether any segment of the POS path starts
// with an excluded category.
func hasExcludedPOS(partsOfSpeech []string) bool {
	for _, segment := range partsOfSpeech {
		for _, prefix := range excludedPOSPrefixes {
			if strings.HasPrefix(segment, prefix) {
				return true
			}
		}
	}
	return false
}

// endsInSmallKana reports whether the lemma's final rune belongs to the
// truncated-stem cluster.
func endsInSmallKana(lemma string) bool {
	r, size := utf8.DecodeLastRuneInString(lemma)
	if size == 0 || r == utf8.RuneError {
		return false
	}
	return strings.ContainsRune(smallKanaCluster, r)
}

// isSingleKana reports whether the lemma is exactly one kana rune.
// Single-kanji lemmas are real words (人, 車) and stay mineable.
func isSingleKana(lemma string) bool {
	if utf8.RuneCountInString(lemma) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(lemma)
	return IsHiragana(r) || IsKatakana(r) || IsChoon(r)
}

// dominantRuneRatio returns the share of the most frequent rune in the
// lemma. A value near 1.0 means the lemma is mostly one repeated rune.
func dominantRuneRatio(lemma string) float64 {
	counts := make(map[rune]int)
	total := 0
	for _, r := range lemma {
		counts[r]++
		total++
	}
	if total == 0 {
		return 0
	}
	max := 0
	for _, n := range counts {
		if n > max {
			max = n
		}
	}
	return float64(max) / float64(total)
}
