package jptext

import "unicode/utf8"

// IsHiragana reports whether r is in the hiragana block (ぁ through ん).
func IsHiragana(r rune) bool {
	return r >= 'ぁ' && r <= 'ん'
}

// IsKatakana reports whether r is in the katakana block (ァ through ン).
func IsKatakana(r rune) bool {
	return r >= 'ァ' && r <= 'ン'
}

// IsChoon reports whether r is the elongation mark ー.
func IsChoon(r rune) bool {
	return r == 'ー'
}

// IsKanji reports whether r is in the CJK unified ideograph range
// (一 through 龯) used for Japanese text.
func IsKanji(r rune) bool {
	return r >= '一' && r <= '龯'
}

// IsJapanese reports whether r belongs to any Japanese script
// (hiragana, katakana, or kanji). The elongation mark alone does not
// count as Japanese script.
func IsJapanese(r rune) bool {
	return IsHiragana(r) || IsKatakana(r) || IsKanji(r)
}

// ContainsJapanese reports whether s contains at least one Japanese
// script character.
func ContainsJapanese(s string) bool {
	for _, r := range s {
		if IsJapanese(r) {
			return true
		}
	}
	return false
}

// IsKanaOnly reports whether non-empty s consists entirely of hiragana,
// katakana, and elongation marks.
func IsKanaOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !IsHiragana(r) && !IsKatakana(r) && !IsChoon(r) {
			return false
		}
	}
	return true
}

// IsAllKatakana reports whether non-empty s consists entirely of
// katakana and elongation marks, with no hiragana or kanji admixture.
func IsAllKatakana(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !IsKatakana(r) && !IsChoon(r) {
			return false
		}
	}
	return true
}

// KataToHira converts katakana runes in s to their hiragana
// equivalents. Runes outside the convertible katakana range (ァ through
// ヶ) pass through unchanged, so mixed strings are safe to convert.
func KataToHira(s string) string {
	out := make([]rune, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		if r >= 'ァ' && r <= 'ヶ' {
			r -= 0x60
		}
		out = append(out, r)
	}
	return string(out)
}
