package model

import (
	"encoding/json"
	"testing"
)

// TestWordStatsAddTag tests tag set semantics.
func TestWordStatsAddTag(t *testing.T) {
	t.Parallel()

	t.Run("deduplicates tags", func(t *testing.T) {
		t.Parallel()

		w := &WordStats{Lemma: "食べる"}
		w.AddTag("fiction")
		w.AddTag("fiction")
		w.AddTag("news")

		if len(w.Tags) != 2 {
			t.Errorf("expected 2 tags, got %d", len(w.Tags))
		}
	})

	t.Run("ignores empty tag", func(t *testing.T) {
		t.Parallel()

		w := &WordStats{Lemma: "食べる"}
		w.AddTag("")

		if len(w.Tags) != 0 {
			t.Errorf("expected 0 tags, got %d", len(w.Tags))
		}
	})

	t.Run("preserves first-seen order", func(t *testing.T) {
		t.Parallel()

		w := &WordStats{Lemma: "食べる"}
		w.AddTag("news")
		w.AddTag("fiction")

		if w.Tags[0] != "news" || w.Tags[1] != "fiction" {
			t.Errorf("expected [news fiction], got %v", w.Tags)
		}
	})
}

// TestWordStatsSortedTags tests that SortedTags returns a lexically
// ordered copy without touching the original slice.
func TestWordStatsSortedTags(t *testing.T) {
	t.Parallel()

	w := &WordStats{Lemma: "走る"}
	w.AddTag("news")
	w.AddTag("fiction")

	sorted := w.SortedTags()
	if sorted[0] != "fiction" || sorted[1] != "news" {
		t.Errorf("expected [fiction news], got %v", sorted)
	}
	if w.Tags[0] != "news" {
		t.Errorf("expected original order preserved, got %v", w.Tags)
	}
}

// TestWordStatsHasSentence tests (text, tag) identity for sentences.
func TestWordStatsHasSentence(t *testing.T) {
	t.Parallel()

	w := &WordStats{Lemma: "見る"}
	w.Sentences = append(w.Sentences, Sentence{Text: "猫が空を見ていた。", Tag: "fiction"})

	testCases := []struct {
		name     string
		text     string
		tag      string
		expected bool
	}{
		{"same text and tag", "猫が空を見ていた。", "fiction", true},
		{"same text different tag", "猫が空を見ていた。", "news", false},
		{"different text same tag", "犬が海を見ていた。", "fiction", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := w.HasSentence(tc.text, tc.tag); got != tc.expected {
				t.Errorf("HasSentence(%q, %q) = %v, expected %v", tc.text, tc.tag, got, tc.expected)
			}
		})
	}
}

// TestWordTableBasicOperations tests Add, Get, Delete and Len.
func TestWordTableBasicOperations(t *testing.T) {
	t.Parallel()

	table := NewWordTable()

	if table.Len() != 0 {
		t.Errorf("expected empty table, got %d entries", table.Len())
	}

	table.Add(&WordStats{Lemma: "行く", FirstIndex: 2, Frequency: 1})
	table.Add(&WordStats{Lemma: "見る", FirstIndex: 5, Frequency: 1})

	if table.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", table.Len())
	}

	w, ok := table.Get("行く")
	if !ok {
		t.Fatal("expected entry for 行く")
	}
	if w.FirstIndex != 2 {
		t.Errorf("expected FirstIndex 2, got %d", w.FirstIndex)
	}

	if _, ok := table.Get("食べる"); ok {
		t.Error("expected no entry for 食べる")
	}

	table.Delete("行く")
	if _, ok := table.Get("行く"); ok {
		t.Error("expected 行く to be deleted")
	}
}

// TestWordTableSorted tests deterministic ordering by FirstIndex.
func TestWordTableSorted(t *testing.T) {
	t.Parallel()

	table := NewWordTable()
	table.Add(&WordStats{Lemma: "見る", FirstIndex: 5})
	table.Add(&WordStats{Lemma: "行く", FirstIndex: 2})
	table.Add(&WordStats{Lemma: "走る", FirstIndex: 9})

	sorted := table.Sorted()
	if len(sorted) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(sorted))
	}

	expected := []string{"行く", "見る", "走る"}
	for i, lemma := range expected {
		if sorted[i].Lemma != lemma {
			t.Errorf("position %d: expected %q, got %q", i, lemma, sorted[i].Lemma)
		}
	}
}

// TestWordTableMaxima tests MaxFrequency and MaxFirstIndex.
func TestWordTableMaxima(t *testing.T) {
	t.Parallel()

	t.Run("empty table returns zero", func(t *testing.T) {
		t.Parallel()

		table := NewWordTable()
		if table.MaxFrequency() != 0 {
			t.Errorf("expected MaxFrequency 0, got %d", table.MaxFrequency())
		}
		if table.MaxFirstIndex() != 0 {
			t.Errorf("expected MaxFirstIndex 0, got %d", table.MaxFirstIndex())
		}
	})

	t.Run("returns maxima across entries", func(t *testing.T) {
		t.Parallel()

		table := NewWordTable()
		table.Add(&WordStats{Lemma: "行く", FirstIndex: 2, Frequency: 5})
		table.Add(&WordStats{Lemma: "見る", FirstIndex: 80, Frequency: 3})

		if table.MaxFrequency() != 5 {
			t.Errorf("expected MaxFrequency 5, got %d", table.MaxFrequency())
		}
		if table.MaxFirstIndex() != 80 {
			t.Errorf("expected MaxFirstIndex 80, got %d", table.MaxFirstIndex())
		}
	})
}

// TestWordTableMarshalJSON tests that JSON output is an ordered array.
func TestWordTableMarshalJSON(t *testing.T) {
	t.Parallel()

	table := NewWordTable()
	table.Add(&WordStats{Lemma: "見る", FirstIndex: 5, Frequency: 1})
	table.Add(&WordStats{Lemma: "行く", FirstIndex: 2, Frequency: 1})

	data, err := json.Marshal(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var entries []WordStats
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Lemma != "行く" {
		t.Errorf("expected first entry 行く, got %q", entries[0].Lemma)
	}
}
