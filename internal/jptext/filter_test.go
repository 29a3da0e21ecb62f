package jptext

import "testing"

// TestIsMineable tests the admission filter against representative
// accept and reject cases.
func TestIsMineable(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		lemma    string
		pos      []string
		expected bool
	}{
		// Accepted vocabulary
		{"common verb", "食べる", []string{"動詞", "自立"}, true},
		{"kanji noun", "学校", []string{"名詞", "一般"}, true},
		{"single kanji noun", "人", []string{"名詞", "一般"}, true},
		{"adverb", "ゆっくり", []string{"副詞", "一般"}, true},
		{"adnominal stays mineable", "大きな", []string{"連体詞"}, true},
		{"i-adjective", "早い", []string{"形容詞", "自立"}, true},

		// Rejected: empty or non-Japanese
		{"empty lemma", "", []string{"名詞"}, false},
		{"latin word", "hello", []string{"名詞", "一般"}, false},
		{"digits", "2024", []string{"名詞", "数"}, false},

		// Rejected: katakana loanwords
		{"katakana word", "カメラ", []string{"名詞", "一般"}, false},
		{"katakana with elongation", "コーヒー", []string{"名詞", "一般"}, false},

		// Rejected: excluded POS categories
		{"particle", "は", []string{"助詞", "係助詞"}, false},
		{"auxiliary verb", "です", []string{"助動詞"}, false},
		{"symbol", "。", []string{"記号", "句点"}, false},
		{"interjection", "はい", []string{"感動詞"}, false},
		{"conjunction", "しかし", []string{"接続詞"}, false},
		{"filler", "ええと", []string{"フィラー"}, false},
		{"proper noun segment", "田中", []string{"名詞", "固有名詞", "人名"}, false},
		{"pronoun segment", "彼", []string{"名詞", "代名詞", "一般"}, false},
		{"prefix ipa spelling", "御", []string{"接頭詞", "名詞接続"}, false},
		{"suffix segment", "さん", []string{"名詞", "接尾", "人名"}, false},

		// Rejected: tokenization noise
		{"single hiragana", "あ", []string{"名詞", "一般"}, false},
		{"single katakana", "ア", []string{"名詞", "一般"}, false},
		{"truncated stem small ya", "しちゃ", []string{"動詞", "自立"}, false},
		{"ends in geminate", "いっ", []string{"動詞", "自立"}, false},
		{"ends in elongation", "食べー", []string{"動詞", "自立"}, false},
		{"repeated rune run", "ああああ", []string{"名詞", "一般"}, false},

		// Dominant-rune rule only applies to kana-only lemmas
		{"repeated kanji is fine", "人々人", []string{"名詞", "一般"}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := IsMineable(tc.lemma, tc.pos); got != tc.expected {
				t.Errorf("IsMineable(%q, %v) = %v, expected %v", tc.lemma, tc.pos, got, tc.expected)
			}
		})
	}
}

// TestExcludedPOSPrefixes tests that the accessor returns a copy.
func TestExcludedPOSPrefixes(t *testing.T) {
	t.Parallel()

	table := ExcludedPOSPrefixes()
	if len(table) == 0 {
		t.Fatal("expected non-empty table")
	}

	table[0] = "mutated"
	if ExcludedPOSPrefixes()[0] == "mutated" {
		t.Error("expected accessor to return a copy")
	}
}

// TestDominantRuneRatio tests the repeated-character heuristic.
func TestDominantRuneRatio(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected float64
	}{
		{"ああああ", 1.0},
		{"あいうえ", 0.25},
		{"ははあ", 2.0 / 3.0},
		{"", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			if got := dominantRuneRatio(tc.input); got != tc.expected {
				t.Errorf("dominantRuneRatio(%q) = %v, expected %v", tc.input, got, tc.expected)
			}
		})
	}
}
